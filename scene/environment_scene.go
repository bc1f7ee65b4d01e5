package scene

import (
	"fmt"
	"io/fs"

	im "github.com/inkyblackness/imgui-go/v4"

	"pbr-ibl/ibl"
	"pbr-ibl/libgl"
	"pbr-ibl/libscn"
	"pbr-ibl/libutil"
)

// EnvironmentScene only shows the equirectangular image. It never advances the environment past the upload.
type EnvironmentScene struct {
	Exposure float32

	shaders fs.FS
	env     *Environment

	program     libgl.UnboundShaderPipeline
	cube        *libscn.Mesh
	initialised bool
}

func NewEnvironmentScene(shaders fs.FS, env *Environment) *EnvironmentScene {
	return &EnvironmentScene{
		Exposure: 1.0,
		shaders:  shaders,
		env:      env,
	}
}

func (s *EnvironmentScene) Initialise() (err error) {
	if s.initialised {
		return nil
	}
	defer func() {
		if err != nil {
			s.Shutdown()
		}
	}()

	s.program, err = ibl.LoadProgram(s.shaders, "environment", "shaders/skybox.vert", "shaders/background.frag", nil)
	if err != nil {
		return fmt.Errorf("environment scene: %w", err)
	}
	s.cube = libscn.NewCubeMesh()

	if err = s.env.Start(); err != nil {
		return fmt.Errorf("environment scene: %w", err)
	}

	s.initialised = true
	logger.Debugf("environment scene initialised")
	return nil
}

func (s *EnvironmentScene) Render(dt float64, cam *Camera) {
	if !s.initialised {
		return
	}
	s.env.AdvanceTo(ibl.BackgroundReady)
	if !s.env.Pipeline().BackgroundReady() {
		return
	}
	drawSkybox(s.program, s.cube, s.env.Artifacts().Background, s.Exposure)
}

func (s *EnvironmentScene) DrawUI(dt float64) {
	if !s.initialised {
		return
	}
	im.Begin("Environment")
	if !s.env.Pipeline().BackgroundReady() {
		im.Text(fmt.Sprintf("Loading %s", s.env.Config().ImagePath))
	}
	im.SliderFloat("Exposure", &s.Exposure, 0, 4)
	im.End()
}

// Shutdown deletes the scene's own objects. The shared environment is released by its owner.
func (s *EnvironmentScene) Shutdown() {
	libutil.DeleteAll([]libutil.Deleter{s.program, s.cube})
	s.program, s.cube = nil, nil
	s.initialised = false
}
