package ibl

import (
	"fmt"
	"io/fs"

	"github.com/go-gl/gl/v4.5-core/gl"

	"pbr-ibl/libgl"
	"pbr-ibl/libscn"
)

// MipPass is one level of the prefiltered map.
type MipPass struct {
	Mip       int
	Size      int
	Roughness float32
}

// PrefilterPlan assigns each level its size and roughness.
// Level i is baseSize>>i texels wide and filtered with roughness i/(levels-1); a single level is a mirror.
func PrefilterPlan(baseSize, levels int) []MipPass {
	plan := make([]MipPass, levels)
	for mip := range plan {
		var roughness float32
		if levels > 1 {
			roughness = float32(mip) / float32(levels-1)
		}
		plan[mip] = MipPass{
			Mip:       mip,
			Size:      levelSize(baseSize, mip),
			Roughness: roughness,
		}
	}
	return plan
}

// PrefilterStage stores the environment convolved with GGX lobes of rising roughness in the mip chain.
type PrefilterStage struct {
	shaders fs.FS
	cube    *libscn.Mesh
	sampler libgl.UnboundSampler
	size    int
	levels  int
	samples int
	program libgl.UnboundShaderPipeline
}

func NewPrefilterStage(shaders fs.FS, cube *libscn.Mesh, sampler libgl.UnboundSampler, cfg Config) *PrefilterStage {
	return &PrefilterStage{
		shaders: shaders,
		cube:    cube,
		sampler: sampler,
		size:    cfg.PrefilterSize,
		levels:  cfg.PrefilterLevels,
		samples: cfg.PrefilterSamples,
	}
}

func (stage *PrefilterStage) Plan() []MipPass {
	return PrefilterPlan(stage.size, stage.levels)
}

// Run fills every level of prefilter. It must be allocated with the configured size and levels
// and use a mipmapped min filter.
func (stage *PrefilterStage) Run(background, prefilter libgl.UnboundTexture) error {
	if stage.program == nil {
		program, err := LoadProgram(stage.shaders, "prefilter", shaderCubeVert, shaderPrefilterFrag, map[string]any{
			"SAMPLE_COUNT": stage.samples,
		})
		if err != nil {
			return fmt.Errorf("prefilter program: %w", err)
		}
		stage.program = program
	}

	if prefilter.Width() != stage.size || prefilter.Levels() != stage.levels {
		return fmt.Errorf("prefilter map is %d wide with %d levels, expected %d with %d", prefilter.Width(), prefilter.Levels(), stage.size, stage.levels)
	}

	frag := stage.program.Get(gl.FRAGMENT_SHADER)
	for _, pass := range stage.Plan() {
		frag.SetUniform("u_roughness", pass.Roughness)
		err := RenderToCube(CubePass{
			Input:       background,
			InputIsCube: true,
			Output:      prefilter,
			FaceSize:    pass.Size,
			Mip:         pass.Mip,
			Program:     stage.program,
			Cube:        stage.cube,
			Sampler:     stage.sampler,
			Label:       fmt.Sprintf("prefilter mip %d", pass.Mip),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (stage *PrefilterStage) Release() {
	if stage.program != nil {
		stage.program.Delete()
		stage.program = nil
	}
}
