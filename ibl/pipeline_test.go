package ibl_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"pbr-ibl/ibl"
)

var callerViewport = [4]int{0, 0, 1280, 720}

type fakeBaker struct {
	viewport [4]int
	calls    []string
	failOn   string
	failWith error
	released int
}

func newFakeBaker() *fakeBaker {
	return &fakeBaker{viewport: callerViewport}
}

func (b *fakeBaker) step(name string, size int) error {
	b.calls = append(b.calls, name)
	// stages leave their own viewport behind
	b.viewport = [4]int{0, 0, size, size}
	if b.failOn == name {
		return b.failWith
	}
	return nil
}

func (b *fakeBaker) Allocate() error {
	b.calls = append(b.calls, "allocate")
	if b.failOn == "allocate" {
		return b.failWith
	}
	return nil
}

func (b *fakeBaker) UploadBackground(img *ibl.HdrImage) error {
	return b.step("upload", img.Width)
}
func (b *fakeBaker) BakeIrradiance() error { return b.step("irradiance", 32) }
func (b *fakeBaker) BakePrefilter() error  { return b.step("prefilter", 8) }
func (b *fakeBaker) BakeBrdfLut() error    { return b.step("brdf", 512) }
func (b *fakeBaker) Viewport() [4]int      { return b.viewport }
func (b *fakeBaker) SetViewport(vp [4]int) { b.viewport = vp }
func (b *fakeBaker) Release()              { b.released++ }

func (b *fakeBaker) called(name string) bool {
	for _, c := range b.calls {
		if c == name {
			return true
		}
	}
	return false
}

func imageLoader() *ibl.Loader {
	return ibl.NewLoader(func(path string) (*ibl.HdrImage, error) {
		return &ibl.HdrImage{Width: 64, Height: 32, Pix: make([]float32, 64*32*3)}, nil
	})
}

func waitFor(t *testing.T, l *ibl.Loader) {
	t.Helper()
	select {
	case <-l.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("loader did not finish")
	}
}

func TestPipelineStates(t *testing.T) {
	baker := newFakeBaker()
	loader := imageLoader()
	p := ibl.NewPipeline(baker, loader, ibl.DefaultConfig())

	if p.State() != ibl.Uninitialized {
		t.Fatalf("new pipeline should be uninitialized, is %v", p.State())
	}
	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	if p.State() != ibl.LoadingAsset {
		t.Fatalf("started pipeline should be loading, is %v", p.State())
	}
	waitFor(t, loader)

	observed := []ibl.PipelineState{p.State()}
	for i := 0; i < 4; i++ {
		p.Advance()
		observed = append(observed, p.State())
		if baker.viewport != callerViewport {
			t.Errorf("frame %d left viewport %v, expected %v", i, baker.viewport, callerViewport)
		}
	}

	for i := 1; i < len(observed); i++ {
		if observed[i] < observed[i-1] {
			t.Errorf("state went back from %v to %v", observed[i-1], observed[i])
		}
	}
	if observed[1] != ibl.BackgroundReady {
		t.Errorf("first frame after the load should reach background ready, got %v", observed[1])
	}
	if observed[2] != ibl.BrdfReady || !p.Ready() {
		t.Errorf("second frame should finish the bake, got %v", observed[2])
	}

	expected := fmt.Sprint([]string{"allocate", "upload", "irradiance", "prefilter", "brdf"})
	if fmt.Sprint(baker.calls) != expected {
		t.Errorf("expected calls %v, got %v", expected, baker.calls)
	}
}

func TestPipelineMissingFile(t *testing.T) {
	baker := newFakeBaker()
	loader := ibl.NewLoader(nil)
	cfg := ibl.DefaultConfig()
	cfg.ImagePath = filepath.Join(t.TempDir(), "nothing.hdr")
	p := ibl.NewPipeline(baker, loader, cfg)

	if err := p.Start(); err != nil {
		t.Fatal(err)
	}
	waitFor(t, loader)
	for i := 0; i < 10; i++ {
		p.Advance()
		if p.State() != ibl.LoadingAsset {
			t.Fatalf("pipeline left loading with a missing file: %v", p.State())
		}
	}
	if baker.called("upload") {
		t.Errorf("nothing should be uploaded")
	}
	if !errors.Is(loader.Err(), ibl.ErrAsset) {
		t.Errorf("loader should report an asset error, got %v", loader.Err())
	}
}

func TestPipelineAssetErrorHalts(t *testing.T) {
	baker := newFakeBaker()
	baker.failOn = "prefilter"
	baker.failWith = fmt.Errorf("%w: prefilter.frag missing", ibl.ErrAsset)
	loader := imageLoader()
	p := ibl.NewPipeline(baker, loader, ibl.DefaultConfig())

	p.Start()
	waitFor(t, loader)
	for i := 0; i < 5; i++ {
		p.Advance()
	}

	if p.State() != ibl.IrradianceReady {
		t.Errorf("pipeline should stop after irradiance, is %v", p.State())
	}
	if !p.Halted() {
		t.Errorf("pipeline should be halted")
	}
	prefilterCalls := 0
	for _, c := range baker.calls {
		if c == "prefilter" {
			prefilterCalls++
		}
	}
	if prefilterCalls != 1 {
		t.Errorf("failed stage should not be retried, ran %d times", prefilterCalls)
	}
	if baker.viewport != callerViewport {
		t.Errorf("viewport should be restored after a failure, is %v", baker.viewport)
	}
}

func TestPipelineUploadFailureStaysLoading(t *testing.T) {
	baker := newFakeBaker()
	baker.failOn = "upload"
	baker.failWith = fmt.Errorf("%w: broken image", ibl.ErrAsset)
	loader := imageLoader()
	p := ibl.NewPipeline(baker, loader, ibl.DefaultConfig())

	p.Start()
	waitFor(t, loader)
	for i := 0; i < 5; i++ {
		p.Advance()
	}
	if p.State() != ibl.LoadingAsset {
		t.Errorf("failed upload should leave the pipeline loading, is %v", p.State())
	}
	if baker.viewport != callerViewport {
		t.Errorf("viewport should be restored after the upload, is %v", baker.viewport)
	}
}

func TestPipelineGpuErrorPanics(t *testing.T) {
	baker := newFakeBaker()
	baker.failOn = "irradiance"
	baker.failWith = fmt.Errorf("irradiance program: %w", ibl.ErrGpuObject)
	loader := imageLoader()
	p := ibl.NewPipeline(baker, loader, ibl.DefaultConfig())

	p.Start()
	waitFor(t, loader)
	p.Advance()

	defer func() {
		if recover() == nil {
			t.Errorf("gpu object errors should panic")
		}
	}()
	p.Advance()
}

func TestPipelineAllocateFailure(t *testing.T) {
	baker := newFakeBaker()
	baker.failOn = "allocate"
	baker.failWith = errors.New("out of memory")
	loader := imageLoader()
	p := ibl.NewPipeline(baker, loader, ibl.DefaultConfig())

	if err := p.Start(); err == nil {
		t.Errorf("start should report the allocation failure")
	}
	p.Advance()
	if p.State() != ibl.Uninitialized {
		t.Errorf("pipeline should stay uninitialized, is %v", p.State())
	}
	select {
	case <-loader.Done():
		t.Errorf("loader should not be started")
	default:
	}
}

func TestPipelineReleaseIdempotent(t *testing.T) {
	baker := newFakeBaker()
	p := ibl.NewPipeline(baker, imageLoader(), ibl.DefaultConfig())
	p.Release()
	p.Release()
	if baker.released != 1 {
		t.Errorf("baker should be released exactly once, was %d times", baker.released)
	}
	if err := p.Start(); err != nil || p.State() != ibl.Uninitialized {
		t.Errorf("released pipeline should not start")
	}
}

func TestPipelineStateString(t *testing.T) {
	if ibl.PrefilterReady.String() != "prefilter ready" {
		t.Errorf("unexpected name %q", ibl.PrefilterReady.String())
	}
}

func TestPipelineBake(t *testing.T) {
	baker := newFakeBaker()
	p := ibl.NewPipeline(baker, imageLoader(), ibl.DefaultConfig())
	if err := p.Bake(); err != nil {
		t.Fatal(err)
	}
	if !p.Ready() {
		t.Errorf("bake returned in state %v", p.State())
	}
	if baker.viewport != callerViewport {
		t.Errorf("viewport not restored: %v", baker.viewport)
	}
	if p.Err() != nil {
		t.Errorf("unexpected error %v", p.Err())
	}
}

func TestPipelineBakeErrors(t *testing.T) {
	cfg := ibl.DefaultConfig()
	cfg.ImagePath = filepath.Join(t.TempDir(), "nothing.hdr")
	p := ibl.NewPipeline(newFakeBaker(), ibl.NewLoader(nil), cfg)
	if err := p.Bake(); !errors.Is(err, ibl.ErrAsset) {
		t.Errorf("missing file should be an asset error, got %v", err)
	}

	stageErr := fmt.Errorf("%w: prefilter.frag", ibl.ErrAsset)
	baker := newFakeBaker()
	baker.failOn, baker.failWith = "prefilter", stageErr
	p = ibl.NewPipeline(baker, imageLoader(), ibl.DefaultConfig())
	if err := p.Bake(); !errors.Is(err, stageErr) {
		t.Errorf("stage error not returned, got %v", err)
	}
	if p.State() != ibl.IrradianceReady || !p.Halted() {
		t.Errorf("pipeline should halt after irradiance, is %v", p.State())
	}

	p.Release()
	if err := p.Bake(); err == nil {
		t.Error("bake after release should fail")
	}
}
