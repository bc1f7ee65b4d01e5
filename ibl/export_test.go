package ibl

var (
	SampleCubeMap      = sampleCubeMap
	SampleSphericalMap = sampleSphericalMap
	SwRenderToCube     = swRenderToCube
	IntegrateBrdf      = integrateBrdf
	SampleCube         = sampleCube
)
