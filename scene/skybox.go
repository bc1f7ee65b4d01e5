package scene

import (
	"github.com/go-gl/gl/v4.5-core/gl"

	"pbr-ibl/libgl"
	"pbr-ibl/libscn"
)

// drawSkybox draws the unit cube around the camera at the far plane, sampling texture at unit 0.
// The depth test is left at LEqual so the sky only fills what the scene did not cover.
func drawSkybox(program libgl.UnboundShaderPipeline, cube *libscn.Mesh, texture libgl.UnboundTexture, exposure float32) {
	libgl.State.Enable(libgl.DepthTest)
	libgl.State.Disable(libgl.CullFace)
	libgl.State.DepthFunc(libgl.DepthFuncLEqual)

	texture.Bind(0)
	libgl.State.BindSampler(0, 0)
	program.Get(gl.FRAGMENT_SHADER).SetUniform("u_exposure", exposure)
	program.Bind()
	cube.Draw()
	libgl.CheckError("draw skybox")
}
