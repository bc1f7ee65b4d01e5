package ibl

import "pbr-ibl/libio"

// Baker produces the lighting artifacts. Every method runs on the thread that owns the baker's context.
type Baker interface {
	// Allocate reserves every output up front so later steps only fill them.
	Allocate() error
	// UploadBackground takes the decoded image and builds the background textures from it.
	UploadBackground(img *HdrImage) error
	BakeIrradiance() error
	BakePrefilter() error
	BakeBrdfLut() error
	Viewport() [4]int
	SetViewport(vp [4]int)
	Release()
}

// BakeResult is a cpu copy of everything a baker produced.
type BakeResult struct {
	Background     *libio.FloatImage
	BackgroundCube *IblEnv
	Irradiance     *IblEnv
	Prefilter      *IblEnv
	BrdfLut        *libio.FloatImage
}
