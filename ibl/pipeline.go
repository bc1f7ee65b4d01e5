package ibl

import (
	"errors"
	"fmt"
)

type PipelineState int

// States only ever advance in this order.
const (
	Uninitialized = PipelineState(iota)
	LoadingAsset
	BackgroundReady
	IrradianceReady
	PrefilterReady
	BrdfReady
)

func (s PipelineState) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case LoadingAsset:
		return "loading asset"
	case BackgroundReady:
		return "background ready"
	case IrradianceReady:
		return "irradiance ready"
	case PrefilterReady:
		return "prefilter ready"
	case BrdfReady:
		return "brdf ready"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Pipeline sequences the bake: load, upload, irradiance, prefilter and brdf lut.
// All methods must be called from the thread that owns the baker.
type Pipeline struct {
	baker  Baker
	loader *Loader
	cfg    Config
	state  PipelineState
	// set when a stage failed; the pipeline stays where it is
	halted   bool
	released bool
	err      error
}

// NewPipeline creates an idle pipeline. A nil loader decodes cfg.ImagePath with DecodeFile.
func NewPipeline(baker Baker, loader *Loader, cfg Config) *Pipeline {
	if loader == nil {
		flip := cfg.FlipVertically
		loader = NewLoader(func(path string) (*HdrImage, error) {
			return DecodeFile(path, flip)
		})
	}
	return &Pipeline{
		baker:  baker,
		loader: loader,
		cfg:    cfg,
	}
}

func (p *Pipeline) State() PipelineState {
	return p.state
}

func (p *Pipeline) Ready() bool {
	return p.state == BrdfReady
}

func (p *Pipeline) BackgroundReady() bool {
	return p.state >= BackgroundReady
}

// Halted reports whether a stage failed. A failed load is not a halt; the pipeline just keeps waiting.
func (p *Pipeline) Halted() bool {
	return p.halted
}

// Err returns the first error that stopped a stage, if any.
func (p *Pipeline) Err() error {
	return p.err
}

func (p *Pipeline) Loader() *Loader {
	return p.loader
}

// Start reserves every output and begins loading the image. Only has an effect when uninitialized.
func (p *Pipeline) Start() error {
	if p.state != Uninitialized || p.released {
		return nil
	}
	if err := p.baker.Allocate(); err != nil {
		err = fmt.Errorf("allocate ibl outputs: %w", err)
		p.fail(err)
		return err
	}
	p.state = LoadingAsset
	p.loader.LoadAsync(p.cfg.ImagePath)
	logger.Infof("loading environment %q", p.cfg.ImagePath)
	return nil
}

// Advance does the work of one frame. It never blocks on the loader.
func (p *Pipeline) Advance() {
	if p.released || p.halted {
		return
	}

	switch p.state {
	case LoadingAsset:
		img := p.loader.TryTake()
		if img == nil {
			return
		}
		vp := p.baker.Viewport()
		err := p.baker.UploadBackground(img)
		p.baker.SetViewport(vp)
		if err != nil {
			// the image was consumed, so the pipeline stays in LoadingAsset for good
			p.fail(fmt.Errorf("upload background: %w", err))
			return
		}
		p.state = BackgroundReady
		logger.Debugf("background uploaded (%dx%d)", img.Width, img.Height)
	case BackgroundReady:
		vp := p.baker.Viewport()
		defer p.baker.SetViewport(vp)
		p.bake()
	}
}

func (p *Pipeline) bake() {
	steps := []struct {
		name string
		run  func() error
		next PipelineState
	}{
		{"irradiance", p.baker.BakeIrradiance, IrradianceReady},
		{"prefilter", p.baker.BakePrefilter, PrefilterReady},
		{"brdf lut", p.baker.BakeBrdfLut, BrdfReady},
	}
	for _, step := range steps {
		if p.state >= step.next {
			continue
		}
		if err := step.run(); err != nil {
			p.fail(fmt.Errorf("bake %s: %w", step.name, err))
			return
		}
		p.state = step.next
	}
	logger.Infof("ibl bake finished")
}

// fail logs err and stops advancing. Gpu object errors are not recoverable and panic.
func (p *Pipeline) fail(err error) {
	if p.err == nil {
		p.err = err
	}
	if IsGpuObjectError(err) {
		logger.Panicf("ibl pipeline stopped in state %v: %v", p.state, err)
	}
	logger.Errorf("ibl pipeline stopped in state %v: %v", p.state, err)
	if p.state != LoadingAsset {
		p.halted = true
	}
}

// Bake drives the pipeline to BrdfReady on the calling thread. Unlike Advance it waits for
// the loader, so it is meant for headless use.
func (p *Pipeline) Bake() error {
	if p.released {
		return errors.New("ibl pipeline already released")
	}
	if err := p.Start(); err != nil {
		return err
	}
	<-p.loader.Done()
	if err := p.loader.Err(); err != nil {
		return fmt.Errorf("load environment: %w", err)
	}
	for !p.Ready() {
		if p.err != nil {
			return p.err
		}
		before := p.state
		p.Advance()
		if p.err == nil && p.state == before {
			return fmt.Errorf("ibl pipeline stuck in state %v", p.state)
		}
	}
	return nil
}

// Release frees the baker's outputs. Safe to call more than once, and before Start.
func (p *Pipeline) Release() {
	if p.released {
		return
	}
	p.released = true
	p.baker.Release()
}
