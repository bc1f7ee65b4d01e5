package ibl

import "fmt"

// Config holds the sizes and sample counts of every bake output.
type Config struct {
	ImagePath      string
	FlipVertically bool

	BackgroundCubeSize    int
	IrradianceSize        int
	IrradianceSampleDelta float32
	PrefilterSize         int
	PrefilterLevels       int
	PrefilterSamples      int
	BrdfLutSize           int
	BrdfSamples           int
}

func DefaultConfig() Config {
	return Config{
		ImagePath:             "assets/textures/environment.hdr",
		FlipVertically:        true,
		BackgroundCubeSize:    512,
		IrradianceSize:        32,
		IrradianceSampleDelta: 0.025,
		PrefilterSize:         128,
		PrefilterLevels:       5,
		PrefilterSamples:      1024,
		BrdfLutSize:           512,
		BrdfSamples:           1024,
	}
}

func (cfg Config) Validate() error {
	positive := map[string]int{
		"background cube size": cfg.BackgroundCubeSize,
		"irradiance size":      cfg.IrradianceSize,
		"prefilter size":       cfg.PrefilterSize,
		"prefilter levels":     cfg.PrefilterLevels,
		"prefilter samples":    cfg.PrefilterSamples,
		"brdf lut size":        cfg.BrdfLutSize,
		"brdf samples":         cfg.BrdfSamples,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("%s must be positive, was %d", name, v)
		}
	}
	if cfg.IrradianceSampleDelta <= 0 {
		return fmt.Errorf("irradiance sample delta must be positive, was %v", cfg.IrradianceSampleDelta)
	}
	if cfg.PrefilterSize>>(cfg.PrefilterLevels-1) < 1 {
		return fmt.Errorf("prefilter size %d cannot hold %d levels", cfg.PrefilterSize, cfg.PrefilterLevels)
	}
	return nil
}
