package ibl

import (
	"fmt"
	"io/fs"

	"pbr-ibl/libgl"
	"pbr-ibl/libscn"
)

// IrradianceStage convolves the background cube with a cosine lobe into a small cube map.
type IrradianceStage struct {
	shaders fs.FS
	cube    *libscn.Mesh
	sampler libgl.UnboundSampler
	size    int
	delta   float32
	program libgl.UnboundShaderPipeline
}

func NewIrradianceStage(shaders fs.FS, cube *libscn.Mesh, sampler libgl.UnboundSampler, cfg Config) *IrradianceStage {
	return &IrradianceStage{
		shaders: shaders,
		cube:    cube,
		sampler: sampler,
		size:    cfg.IrradianceSize,
		delta:   cfg.IrradianceSampleDelta,
	}
}

// Run fills level 0 of irradiance, which must already be allocated at the configured size.
func (stage *IrradianceStage) Run(background, irradiance libgl.UnboundTexture) error {
	if stage.program == nil {
		program, err := LoadProgram(stage.shaders, "irradiance", shaderCubeVert, shaderIrradianceFrag, map[string]any{
			"SAMPLE_DELTA": stage.delta,
		})
		if err != nil {
			return fmt.Errorf("irradiance program: %w", err)
		}
		stage.program = program
	}

	if irradiance.Width() != stage.size {
		return fmt.Errorf("irradiance map is %dx%d, expected %d", irradiance.Width(), irradiance.Height(), stage.size)
	}

	return RenderToCube(CubePass{
		Input:       background,
		InputIsCube: true,
		Output:      irradiance,
		FaceSize:    stage.size,
		Program:     stage.program,
		Cube:        stage.cube,
		Sampler:     stage.sampler,
		Label:       "irradiance",
	})
}

func (stage *IrradianceStage) Release() {
	if stage.program != nil {
		stage.program.Delete()
		stage.program = nil
	}
}
