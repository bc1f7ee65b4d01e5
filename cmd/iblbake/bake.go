package main

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/urfave/cli"

	"pbr-ibl/assets"
	"pbr-ibl/ibl"
	"pbr-ibl/libio"
)

const (
	implGl = "opengl"
	implSw = "software"
)

type bakeOptions struct {
	impl      string
	out       string
	assetsDir string
	// 0 disables compression, 1 to 10 are the lz4 levels
	compress int
	preview  bool
	gamma    float32
	exposure float32
	cfg      ibl.Config
}

func bakeFlags() []cli.Flag {
	cfg := ibl.DefaultConfig()
	return []cli.Flag{
		cli.StringFlag{
			Name:  "impl",
			Value: implGl,
			Usage: "the bake implementation; opengl or software",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: ".",
			Usage: "the output directory",
		},
		cli.StringFlag{
			Name:  "assets",
			Usage: "read shaders from this directory instead of the embedded copies",
		},
		cli.IntFlag{
			Name:  "compress, c",
			Value: 1,
			Usage: "the compression level from 0 (none) to 10 (high)",
		},
		cli.BoolFlag{
			Name:  "preview, p",
			Usage: "also write tonemapped png previews",
		},
		cli.Float64Flag{
			Name:  "gamma",
			Value: 2.2,
			Usage: "gamma of the previews",
		},
		cli.Float64Flag{
			Name:  "exposure",
			Value: 1.0,
			Usage: "brightness scale of the previews",
		},
		cli.BoolFlag{
			Name:  "no-flip",
			Usage: "do not flip the input images vertically",
		},
		cli.IntFlag{
			Name:  "background-size",
			Value: cfg.BackgroundCubeSize,
			Usage: "face size of the background cube map",
		},
		cli.IntFlag{
			Name:  "irradiance-size",
			Value: cfg.IrradianceSize,
			Usage: "face size of the irradiance cube map",
		},
		cli.Float64Flag{
			Name:  "irradiance-delta",
			Value: float64(cfg.IrradianceSampleDelta),
			Usage: "angular step of the irradiance convolution in radians",
		},
		cli.IntFlag{
			Name:  "prefilter-size",
			Value: cfg.PrefilterSize,
			Usage: "base face size of the prefiltered cube map",
		},
		cli.IntFlag{
			Name:  "prefilter-levels",
			Value: cfg.PrefilterLevels,
			Usage: "number of roughness levels of the prefiltered cube map",
		},
		cli.IntFlag{
			Name:  "prefilter-samples",
			Value: cfg.PrefilterSamples,
			Usage: "importance samples per prefiltered texel",
		},
		cli.IntFlag{
			Name:  "brdf-size",
			Value: cfg.BrdfLutSize,
			Usage: "size of the brdf lookup table",
		},
		cli.IntFlag{
			Name:  "brdf-samples",
			Value: cfg.BrdfSamples,
			Usage: "importance samples per brdf texel",
		},
	}
}

func bakeOptionsFrom(ctx *cli.Context) (bakeOptions, error) {
	opts := bakeOptions{
		impl:      ctx.String("impl"),
		out:       ctx.String("out"),
		assetsDir: ctx.String("assets"),
		compress:  ctx.Int("compress"),
		preview:   ctx.Bool("preview"),
		gamma:     float32(ctx.Float64("gamma")),
		exposure:  float32(ctx.Float64("exposure")),
		cfg: ibl.Config{
			FlipVertically:        !ctx.Bool("no-flip"),
			BackgroundCubeSize:    ctx.Int("background-size"),
			IrradianceSize:        ctx.Int("irradiance-size"),
			IrradianceSampleDelta: float32(ctx.Float64("irradiance-delta")),
			PrefilterSize:         ctx.Int("prefilter-size"),
			PrefilterLevels:       ctx.Int("prefilter-levels"),
			PrefilterSamples:      ctx.Int("prefilter-samples"),
			BrdfLutSize:           ctx.Int("brdf-size"),
			BrdfSamples:           ctx.Int("brdf-samples"),
		},
	}
	return opts, opts.validate()
}

func (opts bakeOptions) validate() error {
	if opts.impl != implGl && opts.impl != implSw {
		return fmt.Errorf("%s is not a valid implementation", opts.impl)
	}
	if opts.compress < 0 || opts.compress > 10 {
		return fmt.Errorf("compression level %d is not in 0 to 10", opts.compress)
	}
	if opts.gamma <= 0 {
		return fmt.Errorf("gamma must be positive, was %v", opts.gamma)
	}
	if info, err := os.Stat(opts.out); err != nil {
		return fmt.Errorf("cannot stat output directory: %w", err)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", opts.out)
	}
	return opts.cfg.Validate()
}

// BakeEnvironments is the action of the bake command.
func BakeEnvironments(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing input images")
	}
	opts, err := bakeOptionsFrom(ctx)
	if err != nil {
		return err
	}
	inputs, err := gatherInputFiles(ctx.Args())
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return errors.New("no input image matched")
	}

	if opts.impl == implGl {
		release, err := createHeadlessContext()
		if err != nil {
			return fmt.Errorf("create opengl context: %w", err)
		}
		defer release()
	}

	success := 0
	start := time.Now()
	for i, path := range inputs {
		logger.Noticef("baking file %d/%d %q", i+1, len(inputs), path)
		written, err := bakeFile(opts, path)
		if err != nil {
			logger.Errorf("%s: %v", path, err)
			continue
		}
		for _, w := range written {
			logger.Infof("wrote %q", w)
		}
		success++
	}
	logger.Noticef("baked %d/%d files in %.3f seconds", success, len(inputs), time.Since(start).Seconds())

	if success != len(inputs) {
		return fmt.Errorf("%d files failed", len(inputs)-success)
	}
	return nil
}

// newBaker returns the baker for opts.impl together with a function that copies its outputs.
func newBaker(opts bakeOptions, cfg ibl.Config) (ibl.Baker, func() (*ibl.BakeResult, error)) {
	if opts.impl == implGl {
		baker := ibl.NewGlBaker(assets.Open(opts.assetsDir), cfg)
		return baker, baker.Readback
	}
	baker := ibl.NewSwBaker(cfg)
	return baker, func() (*ibl.BakeResult, error) {
		return baker.Result(), nil
	}
}

// bakeFile runs the whole pipeline for one image and returns the paths it wrote.
func bakeFile(opts bakeOptions, path string) ([]string, error) {
	cfg := opts.cfg
	cfg.ImagePath = path

	baker, readback := newBaker(opts, cfg)
	pipeline := ibl.NewPipeline(baker, nil, cfg)
	defer pipeline.Release()

	if err := pipeline.Bake(); err != nil {
		return nil, err
	}
	res, err := readback()
	if err != nil {
		return nil, err
	}

	base := outputBase(opts.out, path)
	written := []string{}
	cubes := []struct {
		suffix string
		env    *ibl.IblEnv
	}{
		{"_background", res.BackgroundCube},
		{"_irradiance", res.Irradiance},
		{"_prefilter", res.Prefilter},
	}
	for _, cube := range cubes {
		name := base + cube.suffix + ".iblenv"
		if err := writeIblEnv(name, cube.env, opts.compress); err != nil {
			return written, err
		}
		written = append(written, name)

		if !opts.preview {
			continue
		}
		for level := 0; level < cube.env.Levels; level++ {
			size := cube.env.Size(level)
			img := libio.NewFloatImage(cube.env.Level(level), 3, size, size*6)
			name := fmt.Sprintf("%s%s_%d.png", base, cube.suffix, level)
			if err := writePreview(name, img, opts.gamma, opts.exposure); err != nil {
				return written, err
			}
			written = append(written, name)
		}
	}

	name := base + "_brdf.f32"
	if err := writeFloatImage(name, res.BrdfLut); err != nil {
		return written, err
	}
	written = append(written, name)
	if opts.preview {
		name := base + "_brdf.png"
		// the lut is already in [0, 1]
		if err := writePreview(name, res.BrdfLut, 1, 1); err != nil {
			return written, err
		}
		written = append(written, name)
	}
	return written, nil
}

func create(name string, write func(f *os.File) error) (err error) {
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0666)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(name)
		}
	}()
	return write(f)
}

func writeIblEnv(name string, env *ibl.IblEnv, compress int) error {
	return create(name, func(f *os.File) error {
		return ibl.EncodeIblEnv(f, env, ibl.OptCompress(compress-1))
	})
}

func writeFloatImage(name string, img *libio.FloatImage) error {
	return create(name, func(f *os.File) error {
		return libio.EncodeFloatImage(f, img, libio.FloatImageCompressionFixedPoint16Lz4)
	})
}

func writePreview(name string, img *libio.FloatImage, gamma, exposure float32) error {
	return create(name, func(f *os.File) error {
		return png.Encode(f, img.Preview(gamma, exposure))
	})
}
