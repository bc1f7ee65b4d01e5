package scene

import (
	"errors"
	"testing"
	"time"

	"pbr-ibl/ibl"
)

type countingBaker struct {
	viewport [4]int
	calls    map[string]int
	failOn   string
}

func newCountingBaker() *countingBaker {
	return &countingBaker{calls: map[string]int{}}
}

func (b *countingBaker) record(name string) error {
	b.calls[name]++
	if b.failOn == name {
		return errors.New(name + " failed")
	}
	return nil
}

func (b *countingBaker) Allocate() error                      { return b.record("allocate") }
func (b *countingBaker) UploadBackground(*ibl.HdrImage) error { return b.record("upload") }
func (b *countingBaker) BakeIrradiance() error                { return b.record("irradiance") }
func (b *countingBaker) BakePrefilter() error                 { return b.record("prefilter") }
func (b *countingBaker) BakeBrdfLut() error                   { return b.record("brdf") }
func (b *countingBaker) Viewport() [4]int                     { return b.viewport }
func (b *countingBaker) SetViewport(vp [4]int)                { b.viewport = vp }
func (b *countingBaker) Release()                             { b.calls["release"]++ }

func testEnvironment(t *testing.T, baker *countingBaker) (*Environment, *ibl.Loader) {
	t.Helper()
	decodes := 0
	loader := ibl.NewLoader(func(path string) (*ibl.HdrImage, error) {
		decodes++
		return &ibl.HdrImage{Width: 2, Height: 1, Pix: make([]float32, 6)}, nil
	})
	env := newEnvironment(baker, func() ibl.Artifacts { return ibl.Artifacts{} }, loader, ibl.DefaultConfig())
	t.Cleanup(func() {
		if decodes > 1 {
			t.Errorf("image decoded %d times", decodes)
		}
	})
	return env, loader
}

func waitForLoader(t *testing.T, l *ibl.Loader) {
	t.Helper()
	select {
	case <-l.Done():
	case <-time.After(10 * time.Second):
		t.Fatal("loader did not finish")
	}
}

func TestEnvironmentSharedByScenes(t *testing.T) {
	baker := newCountingBaker()
	env, loader := testEnvironment(t, baker)

	// both scenes start the same environment
	if err := env.Start(); err != nil {
		t.Fatal(err)
	}
	if err := env.Start(); err != nil {
		t.Fatal(err)
	}
	if baker.calls["allocate"] != 1 {
		t.Errorf("outputs allocated %d times", baker.calls["allocate"])
	}
	waitForLoader(t, loader)

	// the environment scene never goes past the upload
	for i := 0; i < 5; i++ {
		env.AdvanceTo(ibl.BackgroundReady)
	}
	if env.Pipeline().State() != ibl.BackgroundReady {
		t.Fatalf("expected background ready, got %v", env.Pipeline().State())
	}
	if baker.calls["irradiance"] != 0 || baker.calls["prefilter"] != 0 || baker.calls["brdf"] != 0 {
		t.Errorf("bake stages ran for the environment scene: %v", baker.calls)
	}

	// the ibl scene picks up the same upload
	env.AdvanceTo(ibl.BrdfReady)
	if !env.Pipeline().Ready() {
		t.Fatalf("expected brdf ready, got %v", env.Pipeline().State())
	}
	env.AdvanceTo(ibl.BrdfReady)
	for _, name := range []string{"upload", "irradiance", "prefilter", "brdf"} {
		if baker.calls[name] != 1 {
			t.Errorf("%s ran %d times", name, baker.calls[name])
		}
	}

	env.Release()
	env.Release()
	if baker.calls["release"] != 1 {
		t.Errorf("baker released %d times", baker.calls["release"])
	}
}

func TestEnvironmentStartFailureIsRemembered(t *testing.T) {
	baker := newCountingBaker()
	baker.failOn = "allocate"
	env, _ := testEnvironment(t, baker)

	first := env.Start()
	if first == nil {
		t.Fatal("expected the allocation error")
	}
	if err := env.Start(); err != first {
		t.Errorf("second start should return the first error, got %v", err)
	}
	if baker.calls["allocate"] != 1 {
		t.Errorf("allocation retried: %d calls", baker.calls["allocate"])
	}
	env.AdvanceTo(ibl.BrdfReady)
	if env.Pipeline().State() != ibl.Uninitialized {
		t.Errorf("failed environment advanced to %v", env.Pipeline().State())
	}
}
