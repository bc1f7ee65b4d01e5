package ibl

import (
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"

	"pbr-ibl/libgl"
	"pbr-ibl/libscn"
)

// CubePass describes one sweep over the six faces of a single level of Output.
type CubePass struct {
	Input       libgl.UnboundTexture
	InputIsCube bool
	Output      libgl.UnboundTexture
	FaceSize    int
	Mip         int
	Program     libgl.UnboundShaderPipeline
	Cube        *libscn.Mesh
	Sampler     libgl.UnboundSampler
	Label       string
}

func (pass CubePass) validate() error {
	if pass.Output == nil || pass.Output.Type() != gl.TEXTURE_CUBE_MAP {
		return fmt.Errorf("cube pass %q needs a cube map output", pass.Label)
	}
	if pass.Mip < 0 || pass.Mip >= pass.Output.Levels() {
		return fmt.Errorf("cube pass %q targets level %d of a texture with %d levels", pass.Label, pass.Mip, pass.Output.Levels())
	}
	if pass.FaceSize <= 0 {
		return fmt.Errorf("cube pass %q has face size %d", pass.Label, pass.FaceSize)
	}
	if pass.Input == nil {
		return fmt.Errorf("cube pass %q has no input", pass.Label)
	}
	if isCube := pass.Input.Type() == gl.TEXTURE_CUBE_MAP; isCube != pass.InputIsCube {
		return fmt.Errorf("cube pass %q expected cube input %v, got texture type 0x%04x", pass.Label, pass.InputIsCube, pass.Input.Type())
	}
	if pass.Program == nil || pass.Cube == nil {
		return fmt.Errorf("cube pass %q is missing its program or cube mesh", pass.Label)
	}
	return nil
}

// RenderToCube draws the unit cube once per face, looking out from the origin, into level Mip of Output.
// The input is bound to texture unit 0.
//
// It changes the bound program, texture and sampler unit 0, the draw framebuffer, the depth test and
// face culling. The viewport and clear color are restored before returning.
func RenderToCube(pass CubePass) error {
	if err := pass.validate(); err != nil {
		return err
	}

	prevViewport := libgl.State.ViewportRect
	defer libgl.State.Viewport(prevViewport[0], prevViewport[1], prevViewport[2], prevViewport[3])
	prevClear := libgl.State.ClearColorRGBA
	defer libgl.State.ClearColor(prevClear[0], prevClear[1], prevClear[2], prevClear[3])

	target := newOffscreenTarget(pass.FaceSize, pass.FaceSize, pass.Label)
	defer target.Release()

	pass.Program.Bind()
	vert := pass.Program.Get(gl.VERTEX_SHADER)
	vert.SetUniform("u_projection_mat", CaptureProjection)
	pass.Input.Bind(0)
	if pass.Sampler != nil {
		pass.Sampler.Bind(0)
	}

	target.fbo.Bind(gl.DRAW_FRAMEBUFFER)
	libgl.State.Viewport(0, 0, pass.FaceSize, pass.FaceSize)
	libgl.State.Disable(libgl.CullFace)
	libgl.State.Enable(libgl.DepthTest)
	libgl.State.DepthFunc(libgl.DepthFuncLEqual)
	libgl.State.DepthMask(true)
	libgl.State.ClearColor(0, 0, 0, 1)

	for i, view := range CubeFaceViews {
		vert.SetUniform("u_view_mat", view.View())
		target.fbo.AttachTextureLayer(0, pass.Output, i, pass.Mip)
		if i == 0 {
			if err := target.fbo.Check(gl.DRAW_FRAMEBUFFER); err != nil {
				return fmt.Errorf("cube pass %q: %w", pass.Label, err)
			}
		}
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		pass.Cube.Draw()
		libgl.CheckError(fmt.Sprintf("%s face %v", pass.Label, view.Face))
	}

	logger.Debugf("rendered %s into level %d at %dx%d", pass.Label, pass.Mip, pass.FaceSize, pass.FaceSize)
	return nil
}
