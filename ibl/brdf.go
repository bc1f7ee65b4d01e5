package ibl

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/gl/v4.5-core/gl"

	"pbr-ibl/libgl"
	"pbr-ibl/libscn"
)

// BrdfLutStage integrates the split sum BRDF term over (n·v, roughness) into a two channel 2D texture.
// It does not depend on the environment.
type BrdfLutStage struct {
	shaders fs.FS
	quad    *libscn.Mesh
	size    int
	samples int
	program libgl.UnboundShaderPipeline
}

func NewBrdfLutStage(shaders fs.FS, quad *libscn.Mesh, cfg Config) *BrdfLutStage {
	return &BrdfLutStage{
		shaders: shaders,
		quad:    quad,
		size:    cfg.BrdfLutSize,
		samples: cfg.BrdfSamples,
	}
}

// Run draws one fullscreen quad into level 0 of lut. x is n·v and y the roughness.
func (stage *BrdfLutStage) Run(lut libgl.UnboundTexture) error {
	if stage.program == nil {
		program, err := LoadProgram(stage.shaders, "brdf lut", shaderQuadVert, shaderBrdfFrag, map[string]any{
			"SAMPLE_COUNT": stage.samples,
		})
		if err != nil {
			return fmt.Errorf("brdf program: %w", err)
		}
		stage.program = program
	}

	if lut.Type() != gl.TEXTURE_2D || lut.Width() != stage.size || lut.Height() != stage.size {
		return fmt.Errorf("brdf lut must be a %dx%d 2D texture", stage.size, stage.size)
	}

	prevViewport := libgl.State.ViewportRect
	defer libgl.State.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])

	target := newOffscreenTarget(stage.size, stage.size, "brdf lut")
	defer target.Release()

	target.fbo.AttachTexture(0, lut)
	if err := target.fbo.Check(gl.DRAW_FRAMEBUFFER); err != nil {
		return fmt.Errorf("brdf lut: %w", err)
	}

	target.fbo.Bind(gl.DRAW_FRAMEBUFFER)
	libgl.State.Viewport(0, 0, stage.size, stage.size)
	libgl.State.Disable(libgl.CullFace)
	libgl.State.Disable(libgl.DepthTest)
	stage.program.Bind()

	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	stage.quad.Draw()
	libgl.CheckError("brdf lut")

	logger.Debugf("rendered brdf lut at %dx%d", stage.size, stage.size)
	return nil
}

func (stage *BrdfLutStage) Release() {
	if stage.program != nil {
		stage.program.Delete()
		stage.program = nil
	}
}
