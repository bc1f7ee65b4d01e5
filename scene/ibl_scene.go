package scene

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	im "github.com/inkyblackness/imgui-go/v4"

	"pbr-ibl/ibl"
	"pbr-ibl/libgl"
	"pbr-ibl/libscn"
	"pbr-ibl/libutil"
)

// IBLScene bakes the environment in the background and then lights the model with it.
type IBLScene struct {
	Albedo    mgl32.Vec3
	Metallic  float32
	Roughness float32
	Ao        float32
	Exposure  float32

	shaders   fs.FS
	env       *Environment
	modelPath string

	skybox      libgl.UnboundShaderPipeline
	shading     libgl.UnboundShaderPipeline
	cube        *libscn.Mesh
	model       *libscn.Mesh
	modelMatrix mgl32.Mat4
	initialised bool
}

func NewIBLScene(shaders fs.FS, env *Environment, modelPath string) *IBLScene {
	return &IBLScene{
		Albedo:    mgl32.Vec3{0.98, 0.96, 0.99},
		Metallic:  0.1,
		Roughness: 0.8,
		Ao:        1.0,
		Exposure:  1.0,
		shaders:   shaders,
		env:       env,
		modelPath: modelPath,
	}
}

func (s *IBLScene) Initialise() (err error) {
	if s.initialised {
		return nil
	}
	defer func() {
		if err != nil {
			s.Shutdown()
		}
	}()

	s.skybox, err = ibl.LoadProgram(s.shaders, "skybox", "shaders/skybox.vert", "shaders/skybox.frag", nil)
	if err != nil {
		return fmt.Errorf("ibl scene: %w", err)
	}
	s.shading, err = ibl.LoadProgram(s.shaders, "ibl", "shaders/pbr.vert", "shaders/ibl.frag", nil)
	if err != nil {
		return fmt.Errorf("ibl scene: %w", err)
	}
	s.cube = libscn.NewCubeMesh()
	s.model, s.modelMatrix, err = loadModel(s.modelPath)
	if err != nil {
		return fmt.Errorf("ibl scene: %w", err)
	}

	if err = s.env.Start(); err != nil {
		return fmt.Errorf("ibl scene: %w", err)
	}

	s.initialised = true
	logger.Debugf("ibl scene initialised")
	return nil
}

func (s *IBLScene) Render(dt float64, cam *Camera) {
	if !s.initialised {
		return
	}
	s.env.AdvanceTo(ibl.BrdfReady)
	if !s.env.Pipeline().Ready() {
		return
	}
	art := s.env.Artifacts()

	libgl.State.Enable(libgl.DepthTest)
	libgl.State.Enable(libgl.CullFace)
	libgl.State.CullBack()
	libgl.State.DepthFunc(libgl.DepthFuncLEqual)
	libgl.State.DepthMask(true)

	art.Irradiance.Bind(0)
	art.Prefilter.Bind(1)
	art.BrdfLut.Bind(2)
	for unit := 0; unit < 3; unit++ {
		libgl.State.BindSampler(unit, 0)
	}

	frag := s.shading.Get(gl.FRAGMENT_SHADER)
	frag.SetUniform("u_albedo", s.Albedo)
	frag.SetUniform("u_metallic", s.Metallic)
	frag.SetUniform("u_roughness", s.Roughness)
	frag.SetUniform("u_ao", s.Ao)
	frag.SetUniform("u_prefilter_max_lod", float32(s.env.Config().PrefilterLevels-1))
	s.shading.Get(gl.VERTEX_SHADER).SetUniform("u_model_mat", s.modelMatrix)
	s.shading.Bind()
	s.model.Draw()
	libgl.CheckError("draw ibl model")

	drawSkybox(s.skybox, s.cube, art.BackgroundCube, s.Exposure)
}

func (s *IBLScene) DrawUI(dt float64) {
	if !s.initialised {
		return
	}
	im.Begin("IBL")
	pipeline := s.env.Pipeline()
	im.Text(fmt.Sprintf("Bake: %v", pipeline.State()))
	if pipeline.Halted() {
		im.Text("Bake failed, see the log")
	}
	im.Separator()
	im.ColorEdit3("Albedo", (*[3]float32)(&s.Albedo))
	im.SliderFloat("Metallic", &s.Metallic, 0, 1)
	im.SliderFloat("Roughness", &s.Roughness, 0, 1)
	im.Separator()
	im.SliderFloat("AO", &s.Ao, 0, 1)
	im.SliderFloat("Exposure", &s.Exposure, 0, 4)
	im.End()
}

// Shutdown deletes the scene's own objects. The shared environment is released by its owner.
func (s *IBLScene) Shutdown() {
	libutil.DeleteAll([]libutil.Deleter{s.skybox, s.shading, s.cube, s.model})
	s.skybox, s.shading, s.cube, s.model = nil, nil, nil, nil
	s.initialised = false
}
