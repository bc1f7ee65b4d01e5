package ibl

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/gl/v4.5-core/gl"

	"pbr-ibl/libgl"
	"pbr-ibl/libio"
	"pbr-ibl/libscn"
	"pbr-ibl/libutil"
)

// Artifacts are the textures the shading pass samples. Nil until allocated.
type Artifacts struct {
	Background     libgl.UnboundTexture
	BackgroundCube libgl.UnboundTexture
	Irradiance     libgl.UnboundTexture
	Prefilter      libgl.UnboundTexture
	BrdfLut        libgl.UnboundTexture
}

// GlBaker renders with the current OpenGL context. It must only be used on the render thread.
type GlBaker struct {
	cfg     Config
	shaders fs.FS

	cube           *libscn.Mesh
	quad           *libscn.Mesh
	equirectSample libgl.UnboundSampler
	cubeSampler    libgl.UnboundSampler
	equirect       libgl.UnboundShaderPipeline

	irradianceStage *IrradianceStage
	prefilterStage  *PrefilterStage
	brdfStage       *BrdfLutStage

	artifacts Artifacts
	allocated bool
}

func NewGlBaker(shaders fs.FS, cfg Config) *GlBaker {
	return &GlBaker{
		cfg:     cfg,
		shaders: shaders,
	}
}

func (b *GlBaker) Allocate() error {
	if b.allocated {
		return nil
	}
	if err := b.cfg.Validate(); err != nil {
		return err
	}

	libgl.State.Enable(libgl.SeamlessCubeMap)

	b.cube = libscn.NewCubeMesh()
	b.quad = libscn.NewQuadMesh()

	b.equirectSample = libgl.NewSampler()
	b.equirectSample.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, 0)
	b.equirectSample.FilterMode(gl.LINEAR, gl.LINEAR)

	b.cubeSampler = libgl.NewSampler()
	b.cubeSampler.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE)
	b.cubeSampler.FilterMode(gl.LINEAR, gl.LINEAR)

	b.artifacts.BackgroundCube = newCubeTexture("background cube", b.cfg.BackgroundCubeSize, 1)
	b.artifacts.Irradiance = newCubeTexture("irradiance", b.cfg.IrradianceSize, 1)
	b.artifacts.Prefilter = newCubeTexture("prefilter", b.cfg.PrefilterSize, b.cfg.PrefilterLevels)
	b.artifacts.Prefilter.FilterMode(gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR)
	b.artifacts.Prefilter.MipmapLevels(0, b.cfg.PrefilterLevels-1)

	lut := libgl.NewTexture(gl.TEXTURE_2D)
	lut.Allocate(1, gl.RG16F, b.cfg.BrdfLutSize, b.cfg.BrdfLutSize, 0)
	lut.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, 0)
	lut.FilterMode(gl.LINEAR, gl.LINEAR)
	lut.SetDebugLabel("brdf lut")
	b.artifacts.BrdfLut = lut

	b.irradianceStage = NewIrradianceStage(b.shaders, b.cube, b.cubeSampler, b.cfg)
	b.prefilterStage = NewPrefilterStage(b.shaders, b.cube, b.cubeSampler, b.cfg)
	b.brdfStage = NewBrdfLutStage(b.shaders, b.quad, b.cfg)

	b.allocated = true
	libgl.CheckError("allocate ibl textures")
	return nil
}

func newCubeTexture(label string, size, levels int) libgl.UnboundTexture {
	tex := libgl.NewTexture(gl.TEXTURE_CUBE_MAP)
	tex.Allocate(levels, gl.RGB16F, size, size, 0)
	tex.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE)
	tex.FilterMode(gl.LINEAR, gl.LINEAR)
	tex.SetDebugLabel(label)
	return tex
}

// UploadBackground uploads img as a 2D texture and converts it to the background cube.
// The cpu pixels are not retained.
func (b *GlBaker) UploadBackground(img *HdrImage) error {
	if !b.allocated {
		return fmt.Errorf("upload before allocate")
	}
	if err := img.Validate(); err != nil {
		return err
	}

	if b.artifacts.Background != nil {
		b.artifacts.Background.Delete()
	}
	background := libgl.NewTexture(gl.TEXTURE_2D)
	background.Allocate(1, gl.RGB16F, img.Width, img.Height, 0)
	background.WrapMode(gl.CLAMP_TO_EDGE, gl.CLAMP_TO_EDGE, 0)
	background.FilterMode(gl.LINEAR, gl.LINEAR)
	background.SetDebugLabel("background")
	background.Load(0, img.Width, img.Height, 0, gl.RGB, img.Pix)
	b.artifacts.Background = background

	if b.equirect == nil {
		program, err := LoadProgram(b.shaders, "equirect", shaderCubeVert, shaderEquirectFrag, nil)
		if err != nil {
			return fmt.Errorf("equirect program: %w", err)
		}
		b.equirect = program
	}

	return RenderToCube(CubePass{
		Input:    background,
		Output:   b.artifacts.BackgroundCube,
		FaceSize: b.cfg.BackgroundCubeSize,
		Program:  b.equirect,
		Cube:     b.cube,
		Sampler:  b.equirectSample,
		Label:    "background cube",
	})
}

func (b *GlBaker) BakeIrradiance() error {
	return b.irradianceStage.Run(b.artifacts.BackgroundCube, b.artifacts.Irradiance)
}

func (b *GlBaker) BakePrefilter() error {
	return b.prefilterStage.Run(b.artifacts.BackgroundCube, b.artifacts.Prefilter)
}

func (b *GlBaker) BakeBrdfLut() error {
	return b.brdfStage.Run(b.artifacts.BrdfLut)
}

func (b *GlBaker) Viewport() [4]int {
	return libgl.State.ViewportRect
}

func (b *GlBaker) SetViewport(vp [4]int) {
	libgl.State.Viewport(vp[0], vp[1], vp[2], vp[3])
}

func (b *GlBaker) Artifacts() Artifacts {
	return b.artifacts
}

// Readback copies every artifact to the cpu. Stalls until the gpu is done.
func (b *GlBaker) Readback() (*BakeResult, error) {
	if !b.allocated || b.artifacts.Background == nil {
		return nil, fmt.Errorf("nothing to read back")
	}

	result := &BakeResult{
		BackgroundCube: readCube(b.artifacts.BackgroundCube),
		Irradiance:     readCube(b.artifacts.Irradiance),
		Prefilter:      readCube(b.artifacts.Prefilter),
	}

	bg := b.artifacts.Background
	result.Background = libio.NewFloatImage(make([]float32, bg.Width()*bg.Height()*3), 3, bg.Width(), bg.Height())
	bg.ReadPixels(0, gl.RGB, result.Background.Pix)

	lut := b.artifacts.BrdfLut
	result.BrdfLut = libio.NewFloatImage(make([]float32, lut.Width()*lut.Height()*2), 2, lut.Width(), lut.Height())
	lut.ReadPixels(0, gl.RG, result.BrdfLut.Pix)

	return result, nil
}

func readCube(tex libgl.UnboundTexture) *IblEnv {
	env := NewIblEnv(nil, tex.Width(), tex.Levels())
	for level := 0; level < env.Levels; level++ {
		tex.ReadPixels(level, gl.RGB, env.Level(level))
	}
	return env
}

// Release deletes every gpu object. Safe to call more than once and before Allocate.
func (b *GlBaker) Release() {
	if !b.allocated {
		return
	}
	b.irradianceStage.Release()
	b.prefilterStage.Release()
	b.brdfStage.Release()

	libutil.DeleteAll([]libutil.Deleter{
		b.cube,
		b.quad,
		b.equirectSample,
		b.cubeSampler,
		b.equirect,
		b.artifacts.Background,
		b.artifacts.BackgroundCube,
		b.artifacts.Irradiance,
		b.artifacts.Prefilter,
		b.artifacts.BrdfLut,
	})

	*b = GlBaker{cfg: b.cfg, shaders: b.shaders}
}
