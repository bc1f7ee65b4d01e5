package scene

import (
	"io/fs"

	"pbr-ibl/ibl"
)

// Environment is the baked lighting the environment and ibl scenes share.
// The image is decoded and uploaded once; the bake stages only run once a scene asks for them.
type Environment struct {
	cfg       ibl.Config
	baker     ibl.Baker
	artifacts func() ibl.Artifacts
	pipeline  *ibl.Pipeline

	started  bool
	startErr error
}

// NewEnvironment bakes with the current OpenGL context. Nothing touches the gpu before Start.
func NewEnvironment(shaders fs.FS, cfg ibl.Config) *Environment {
	baker := ibl.NewGlBaker(shaders, cfg)
	return newEnvironment(baker, baker.Artifacts, nil, cfg)
}

func newEnvironment(baker ibl.Baker, artifacts func() ibl.Artifacts, loader *ibl.Loader, cfg ibl.Config) *Environment {
	return &Environment{
		cfg:       cfg,
		baker:     baker,
		artifacts: artifacts,
		pipeline:  ibl.NewPipeline(baker, loader, cfg),
	}
}

// Start allocates the outputs and starts loading the image. Later calls return the first result.
func (e *Environment) Start() error {
	if !e.started {
		e.started = true
		e.startErr = e.pipeline.Start()
	}
	return e.startErr
}

// AdvanceTo does one frame of pipeline work unless the pipeline already reached state.
func (e *Environment) AdvanceTo(state ibl.PipelineState) {
	if e.pipeline.State() < state {
		e.pipeline.Advance()
	}
}

func (e *Environment) Pipeline() *ibl.Pipeline {
	return e.pipeline
}

func (e *Environment) Artifacts() ibl.Artifacts {
	return e.artifacts()
}

func (e *Environment) Config() ibl.Config {
	return e.cfg
}

// Release frees the bake outputs. The scenes using the environment must not render afterwards.
func (e *Environment) Release() {
	e.pipeline.Release()
}
