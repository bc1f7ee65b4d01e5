package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"

	"pbr-ibl/ibl"
	"pbr-ibl/libio"
)

func testOptions(t *testing.T) bakeOptions {
	cfg := ibl.DefaultConfig()
	cfg.BackgroundCubeSize = 16
	cfg.IrradianceSize = 8
	cfg.IrradianceSampleDelta = 0.25
	cfg.PrefilterSize = 16
	cfg.PrefilterLevels = 3
	cfg.PrefilterSamples = 8
	cfg.BrdfLutSize = 16
	cfg.BrdfSamples = 8
	return bakeOptions{
		impl:     implSw,
		out:      t.TempDir(),
		compress: 1,
		preview:  true,
		gamma:    2.2,
		exposure: 1,
		cfg:      cfg,
	}
}

func writeUniformInput(t *testing.T, value float32) string {
	t.Helper()
	pix := make([]float32, 32*16*3)
	for i := range pix {
		pix[i] = value
	}
	path := filepath.Join(t.TempDir(), "uniform.f32")
	err := create(path, func(f *os.File) error {
		return libio.EncodeFloatImage(f, libio.NewFloatImage(pix, 3, 32, 16), libio.FloatImageCompressionNone)
	})
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBakeFileSoftware(t *testing.T) {
	opts := testOptions(t)
	if err := opts.validate(); err != nil {
		t.Fatal(err)
	}
	written, err := bakeFile(opts, writeUniformInput(t, 0.5))
	if err != nil {
		t.Fatal(err)
	}

	// 3 cube maps, 1 + 1 + 3 level previews, the lut and its preview
	if len(written) != 10 {
		t.Errorf("wrote %d files: %v", len(written), written)
	}
	for _, name := range written {
		if _, err := os.Stat(name); err != nil {
			t.Error(err)
		}
	}

	base := filepath.Join(opts.out, "uniform")
	f, err := os.Open(base + "_background.iblenv")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	env, err := ibl.DecodeIblEnv(f)
	if err != nil {
		t.Fatal(err)
	}
	if env.BaseSize != 16 || env.Levels != 1 {
		t.Errorf("background cube is %d with %d levels", env.BaseSize, env.Levels)
	}
	for _, v := range env.Data() {
		if math32.Abs(v-0.5) > 0.5/64 {
			t.Fatalf("background texel %v, want 0.5", v)
		}
	}

	info, err := inspectFile(base+"_prefilter.iblenv", false)
	if err != nil {
		t.Fatal(err)
	}
	if info.Width != 16 || info.Levels != 3 {
		t.Errorf("prefilter header %+v", info)
	}
	info, err = inspectFile(base+"_brdf.f32", true)
	if err != nil {
		t.Fatal(err)
	}
	if info.Channels != 2 || info.Width != 16 || info.Min < 0 || info.Max > 1.01 {
		t.Errorf("brdf lut %+v", info)
	}
}

func TestBakeFileMissingInput(t *testing.T) {
	opts := testOptions(t)
	if _, err := bakeFile(opts, filepath.Join(opts.out, "missing.hdr")); err == nil {
		t.Error("missing input should fail")
	}
}

func TestBakeOptionsValidate(t *testing.T) {
	opts := testOptions(t)
	opts.impl = "opencl"
	if opts.validate() == nil {
		t.Error("unknown implementation accepted")
	}
	opts = testOptions(t)
	opts.compress = 11
	if opts.validate() == nil {
		t.Error("compression 11 accepted")
	}
	opts = testOptions(t)
	opts.out = filepath.Join(opts.out, "missing")
	if opts.validate() == nil {
		t.Error("missing output directory accepted")
	}
	opts = testOptions(t)
	opts.cfg.PrefilterLevels = 9
	if opts.validate() == nil {
		t.Error("invalid bake config accepted")
	}
}
