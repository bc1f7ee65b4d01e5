package ibl_test

import (
	"testing"
	"time"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"pbr-ibl/ibl"
)

func calibrationCube(size int) *ibl.IblEnv {
	env := ibl.NewIblEnv(nil, size, 1)
	for f := 0; f < 6; f++ {
		pix := env.Face(0, ibl.CubeMapFace(f))
		for y := 0; y < size; y++ {
			for x := 0; x < size; x++ {
				i := (y*size + x) * 3
				pix[i+0] = float32(f + 1)
				pix[i+1] = float32(x) / float32(size)
				pix[i+2] = float32(y) / float32(size)
			}
		}
	}
	return env
}

// Rendering a cube map through the face views must reproduce it face by face.
func TestSwRenderToCubeFaceMapping(t *testing.T) {
	const size = 16
	src := calibrationCube(size)
	dst := ibl.NewIblEnv(nil, size, 1)

	err := ibl.SwRenderToCube(dst, 0, func(dir mgl32.Vec3) mgl32.Vec3 {
		return ibl.SampleCube(src, 0, dir)
	})
	if err != nil {
		t.Fatal(err)
	}

	for f := 0; f < 6; f++ {
		face := ibl.CubeMapFace(f)
		expected, actual := src.Face(0, face), dst.Face(0, face)
		for i := range expected {
			if math32.Abs(expected[i]-actual[i]) > 1e-2 {
				t.Fatalf("face %v value %d should be %v but was %v", face, i, expected[i], actual[i])
			}
		}
	}
}

func TestSwRenderToCubeAxisColors(t *testing.T) {
	dst := ibl.NewIblEnv(nil, 4, 1)
	err := ibl.SwRenderToCube(dst, 0, func(dir mgl32.Vec3) mgl32.Vec3 {
		return dir
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, view := range ibl.CubeFaceViews {
		pix := dst.Face(0, view.Face)
		var sum mgl32.Vec3
		for i := 0; i < len(pix); i += 3 {
			sum = sum.Add(mgl32.Vec3{pix[i], pix[i+1], pix[i+2]})
		}
		if sum.Normalize().Dot(view.Forward) < 0.99 {
			t.Errorf("face %v should be shaded along %v, mean direction %v", view.Face, view.Forward, sum.Normalize())
		}
	}
}

func TestSwRenderToCubeRejectsNaN(t *testing.T) {
	dst := ibl.NewIblEnv(nil, 2, 1)
	err := ibl.SwRenderToCube(dst, 0, func(dir mgl32.Vec3) mgl32.Vec3 {
		return mgl32.Vec3{math32.NaN(), 0, 0}
	})
	if err == nil {
		t.Errorf("non finite output should fail")
	}
}

func TestIntegrateBrdfMirror(t *testing.T) {
	scale, bias := ibl.IntegrateBrdf(0.999, 0.001, 64)
	if math32.Abs(scale+bias-1) > 0.02 {
		t.Errorf("a mirror seen head on should reflect everything, got scale %v bias %v", scale, bias)
	}
}

func smallConfig() ibl.Config {
	cfg := ibl.DefaultConfig()
	cfg.BackgroundCubeSize = 32
	cfg.IrradianceSampleDelta = 0.25
	cfg.PrefilterSamples = 16
	cfg.BrdfSamples = 8
	return cfg
}

func uniformImage(w, h int, c mgl32.Vec3) *ibl.HdrImage {
	img := &ibl.HdrImage{Width: w, Height: h, Pix: make([]float32, w*h*3)}
	for i := 0; i < len(img.Pix); i += 3 {
		img.Pix[i+0], img.Pix[i+1], img.Pix[i+2] = c[0], c[1], c[2]
	}
	return img
}

func gradientImage(w, h int) *ibl.HdrImage {
	img := &ibl.HdrImage{Width: w, Height: h, Pix: make([]float32, w*h*3)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := (y*w + x) * 3
			img.Pix[i+0] = float32(x) / float32(w) * 4
			img.Pix[i+1] = float32(y) / float32(h)
			img.Pix[i+2] = 0.25
		}
	}
	return img
}

func runSwPipeline(t *testing.T, cfg ibl.Config, img *ibl.HdrImage) (*ibl.Pipeline, *ibl.SwBaker) {
	t.Helper()
	baker := ibl.NewSwBaker(cfg)
	loader := ibl.NewLoader(func(path string) (*ibl.HdrImage, error) {
		return img, nil
	})
	pipeline := ibl.NewPipeline(baker, loader, cfg)
	if err := pipeline.Start(); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(time.Minute)
	for !pipeline.Ready() {
		if time.Now().After(deadline) {
			t.Fatalf("pipeline stuck in %v", pipeline.State())
		}
		pipeline.Advance()
		time.Sleep(time.Millisecond)
	}
	return pipeline, baker
}

func TestSwPipelineEndToEnd(t *testing.T) {
	cfg := smallConfig()
	c := mgl32.Vec3{0.5, 1, 2}
	pipeline, baker := runSwPipeline(t, cfg, uniformImage(64, 32, c))
	defer pipeline.Release()

	res := baker.Result()
	if res.Background.Width != 64 || res.Background.Height != 32 {
		t.Errorf("background should be 64x32 but is %dx%d", res.Background.Width, res.Background.Height)
	}
	if res.Irradiance.BaseSize != 32 || res.Irradiance.Levels != 1 {
		t.Errorf("irradiance should be a single 32 level, got %d with %d levels", res.Irradiance.BaseSize, res.Irradiance.Levels)
	}
	if res.Prefilter.Levels != 5 {
		t.Fatalf("prefilter should have 5 levels, got %d", res.Prefilter.Levels)
	}
	for level, size := range []int{128, 64, 32, 16, 8} {
		if res.Prefilter.Size(level) != size {
			t.Errorf("prefilter mip %d should be %d wide but is %d", level, size, res.Prefilter.Size(level))
		}
	}
	if res.BrdfLut.Width != 512 || res.BrdfLut.Height != 512 || res.BrdfLut.Channels != 2 {
		t.Errorf("brdf lut should be 512x512x2, got %dx%dx%d", res.BrdfLut.Width, res.BrdfLut.Height, res.BrdfLut.Channels)
	}

	// a uniform environment stays uniform through every convolution
	for i, v := range res.Prefilter.Data() {
		if math32.Abs(v-c[i%3]) > 1e-3 {
			t.Fatalf("prefilter value %d should be %v but was %v", i, c[i%3], v)
		}
	}
	irr := res.Irradiance.Data()
	for i, v := range irr {
		if math32.Abs(v-irr[i%3]) > 1e-3*c[i%3] {
			t.Fatalf("irradiance value %d should be %v but was %v", i, irr[i%3], v)
		}
	}
	for i, v := range res.BrdfLut.Pix {
		if math32.IsNaN(v) || v < 0 {
			t.Fatalf("brdf lut value %d is %v", i, v)
		}
	}
}

func TestSwBakeIdempotent(t *testing.T) {
	cfg := smallConfig()
	cfg.PrefilterSize = 16
	cfg.PrefilterLevels = 3
	cfg.IrradianceSize = 8
	cfg.BrdfLutSize = 32
	img := gradientImage(64, 32)

	_, first := runSwPipeline(t, cfg, img)
	_, second := runSwPipeline(t, cfg, img)
	a, b := first.Result(), second.Result()

	pairs := map[string][2][]float32{
		"background cube": {a.BackgroundCube.Data(), b.BackgroundCube.Data()},
		"irradiance":      {a.Irradiance.Data(), b.Irradiance.Data()},
		"prefilter":       {a.Prefilter.Data(), b.Prefilter.Data()},
		"brdf lut":        {a.BrdfLut.Pix, b.BrdfLut.Pix},
	}
	for name, pair := range pairs {
		for i := range pair[0] {
			if pair[0][i] != pair[1][i] {
				t.Fatalf("%s value %d differs between runs: %v != %v", name, i, pair[0][i], pair[1][i])
			}
		}
	}
}

func TestSwBakerUploadBeforeAllocate(t *testing.T) {
	baker := ibl.NewSwBaker(smallConfig())
	if err := baker.UploadBackground(uniformImage(2, 1, mgl32.Vec3{1, 1, 1})); err == nil {
		t.Errorf("upload before allocate should fail")
	}
}

