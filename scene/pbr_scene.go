package scene

import (
	"fmt"
	"io/fs"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	im "github.com/inkyblackness/imgui-go/v4"

	"pbr-ibl/ibl"
	"pbr-ibl/libgl"
	"pbr-ibl/libscn"
	"pbr-ibl/libutil"
)

type DebugMode int32

const (
	DebugPosition DebugMode = iota
	DebugNormal
	DebugUvs
)

var debugModeNames = []string{"Position", "Normal", "Uvs"}

func (m DebugMode) String() string {
	if m < 0 || int(m) >= len(debugModeNames) {
		return fmt.Sprintf("DebugMode(%d)", int32(m))
	}
	return debugModeNames[m]
}

var pbrLightPositions = []mgl32.Vec3{
	{2, 2, 5},
	{2, -2, 5},
	{-2, -2, 5},
	{-2, 2, 5},
}

// PbrScene shades a sphere with four point lights using the cook-torrance brdf.
type PbrScene struct {
	Albedo     mgl32.Vec3
	Metallic   float32
	Roughness  float32
	Ao         float32
	LightColor mgl32.Vec3
	// each light gets its own hue at the brightness of LightColor
	ColoredLights bool

	Debug     bool
	DebugMode DebugMode
	Wireframe bool

	shaders   fs.FS
	modelPath string

	direct      libgl.UnboundShaderPipeline
	debug       libgl.UnboundShaderPipeline
	model       *libscn.Mesh
	modelMatrix mgl32.Mat4
	initialised bool
}

func NewPbrScene(shaders fs.FS, modelPath string) *PbrScene {
	return &PbrScene{
		Albedo:     mgl32.Vec3{0, 0.15, 0.9},
		Metallic:   0.1,
		Roughness:  0.8,
		Ao:         0.005,
		LightColor: mgl32.Vec3{1, 1, 1},
		shaders:    shaders,
		modelPath:  modelPath,
	}
}

func (s *PbrScene) Initialise() (err error) {
	if s.initialised {
		return nil
	}
	defer func() {
		if err != nil {
			s.Shutdown()
		}
	}()

	s.direct, err = ibl.LoadProgram(s.shaders, "direct", "shaders/pbr.vert", "shaders/direct.frag", nil)
	if err != nil {
		return fmt.Errorf("pbr scene: %w", err)
	}
	s.debug, err = ibl.LoadProgram(s.shaders, "debug", "shaders/pbr.vert", "shaders/debug.frag", nil)
	if err != nil {
		return fmt.Errorf("pbr scene: %w", err)
	}
	s.model, s.modelMatrix, err = loadModel(s.modelPath)
	if err != nil {
		return fmt.Errorf("pbr scene: %w", err)
	}

	s.initialised = true
	logger.Debugf("pbr scene initialised")
	return nil
}

// LightColors returns one color per light.
func (s *PbrScene) LightColors() []mgl32.Vec3 {
	colors := make([]mgl32.Vec3, len(pbrLightPositions))
	brightness := math32.Max(s.LightColor.X(), math32.Max(s.LightColor.Y(), s.LightColor.Z()))
	for i := range colors {
		if !s.ColoredLights {
			colors[i] = s.LightColor
			continue
		}
		hue := float32(i) / float32(len(colors))
		colors[i] = libutil.Hsl2rgb(mgl32.Vec3{hue, 1, 0.5}).Mul(brightness)
	}
	return colors
}

// PolygonMode is the fill mode Render uses. Wireframe only applies to the debug views.
func (s *PbrScene) PolygonMode() uint32 {
	if s.Debug && s.Wireframe {
		return gl.LINE
	}
	return gl.FILL
}

func (s *PbrScene) Render(dt float64, cam *Camera) {
	if !s.initialised {
		return
	}

	libgl.State.Enable(libgl.DepthTest)
	libgl.State.Enable(libgl.CullFace)
	libgl.State.CullBack()
	libgl.State.DepthFunc(libgl.DepthFuncLEqual)
	libgl.State.DepthMask(true)
	libgl.State.PolygonMode(s.PolygonMode())
	defer libgl.State.PolygonMode(gl.FILL)

	var program libgl.UnboundShaderPipeline
	if s.Debug {
		program = s.debug
		program.Get(gl.FRAGMENT_SHADER).SetUniform("u_mode", int32(s.DebugMode))
	} else {
		program = s.direct
		frag := program.Get(gl.FRAGMENT_SHADER)
		frag.SetUniform("u_albedo", s.Albedo)
		frag.SetUniform("u_metallic", s.Metallic)
		frag.SetUniform("u_roughness", s.Roughness)
		frag.SetUniform("u_ao", s.Ao)
		frag.SetUniform("u_light_positions", pbrLightPositions)
		frag.SetUniform("u_light_colors", s.LightColors())
	}
	program.Get(gl.VERTEX_SHADER).SetUniform("u_model_mat", s.modelMatrix)
	program.Bind()
	s.model.Draw()
	libgl.CheckError("draw pbr scene")
}

func (s *PbrScene) DrawUI(dt float64) {
	if !s.initialised {
		return
	}
	im.Begin("PBR")
	im.Checkbox("Debug", &s.Debug)
	im.Separator()
	if s.Debug {
		mode := int32(s.DebugMode)
		if im.ListBox("Mode", &mode, debugModeNames) {
			s.DebugMode = DebugMode(mode)
		}
		im.Checkbox("Wireframe", &s.Wireframe)
	} else {
		im.ColorEdit3("Albedo", (*[3]float32)(&s.Albedo))
		im.SliderFloat("Metallic", &s.Metallic, 0, 1)
		im.SliderFloat("Roughness", &s.Roughness, 0, 1)
		im.Separator()
		im.SliderFloat("AO", &s.Ao, 0, 0.1)
		im.ColorEdit3("Light Color", (*[3]float32)(&s.LightColor))
		im.Checkbox("Colored Lights", &s.ColoredLights)
	}
	im.End()
}

func (s *PbrScene) Shutdown() {
	libutil.DeleteAll([]libutil.Deleter{s.direct, s.debug, s.model})
	s.direct, s.debug, s.model = nil, nil, nil
	s.initialised = false
}
