package libgl

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var shaderMetaPattern = regexp.MustCompile(`(?m)^\/\/meta:(\w+)(.+)$`)
var shaderDefinePattern = regexp.MustCompile(`(?m)^\s*(\/\/)?\s*#define ([\w\d]+) ?(.*)$`)
var shaderVersionPattern = regexp.MustCompile(`(?m)^\s*#version.+$`)

type shaderPipeline struct {
	glId      uint32
	vertStage ShaderProgram
	fragStage ShaderProgram
}

type UnboundShaderPipeline interface {
	LabeledGlObject
	Bind() BoundShaderPipeline
	Attach(program ShaderProgram, stages int)
	Get(stage int) ShaderProgram
	Id() uint32
	// Delete releases the pipeline together with every attached program.
	Delete()
}

type BoundShaderPipeline interface {
	UnboundShaderPipeline
}

func NewPipeline() UnboundShaderPipeline {
	var id uint32
	gl.CreateProgramPipelines(1, &id)
	return &shaderPipeline{
		glId: id,
	}
}

func (pipeline *shaderPipeline) SetDebugLabel(label string) {
	setObjectLabel(gl.PROGRAM_PIPELINE, pipeline.glId, label)
}

func (pipeline *shaderPipeline) Attach(program ShaderProgram, stages int) {
	gl.UseProgramStages(pipeline.glId, uint32(stages), program.Id())
	if stages&gl.VERTEX_SHADER_BIT != 0 {
		pipeline.vertStage = program
	}
	if stages&gl.FRAGMENT_SHADER_BIT != 0 {
		pipeline.fragStage = program
	}
}

func (pipeline *shaderPipeline) Get(stage int) ShaderProgram {
	switch stage {
	case gl.VERTEX_SHADER:
		return pipeline.vertStage
	case gl.FRAGMENT_SHADER:
		return pipeline.fragStage
	}
	logger.Panicf("%d is not a supported shader stage", stage)
	return nil
}

func (pipeline *shaderPipeline) Bind() BoundShaderPipeline {
	State.BindProgramPipeline(pipeline.glId)
	return BoundShaderPipeline(pipeline)
}

func (pipeline *shaderPipeline) Id() uint32 {
	return pipeline.glId
}

func (pipeline *shaderPipeline) Delete() {
	if pipeline.glId == 0 {
		return
	}
	if State.ProgramPipeline == pipeline.glId {
		State.BindProgramPipeline(0)
	}
	gl.DeleteProgramPipelines(1, &pipeline.glId)
	pipeline.glId = 0
	for _, prog := range []ShaderProgram{pipeline.vertStage, pipeline.fragStage} {
		if prog != nil {
			prog.Delete()
		}
	}
	pipeline.vertStage = nil
	pipeline.fragStage = nil
}

type glslDef struct {
	marker  string
	name    string
	value   string
	boolean bool
}

// shaderSource is a glsl template whose #define lines can be overridden before compilation.
type shaderSource struct {
	name        string
	template    string
	definitions map[string]glslDef
	versionEnd  int
}

func parseShaderSource(source string) (*shaderSource, error) {
	name := "untitled"
	for _, match := range shaderMetaPattern.FindAllStringSubmatch(source, -1) {
		key, value := match[1], strings.TrimSpace(match[2])
		if strings.EqualFold(key, "name") {
			name = value
		}
	}

	defineMatches := shaderDefinePattern.FindAllStringSubmatch(source, -1)
	definitions := make(map[string]glslDef, len(defineMatches))
	defineMarkers := make(map[string]string, len(defineMatches))
	for i, match := range defineMatches {
		value := strings.TrimSpace(match[3])
		marker := fmt.Sprintf("$def_%v$", i)
		boolean := value == ""
		if boolean && match[1] == "//" {
			value = "false"
		}
		definitions[strings.ToLower(match[2])] = glslDef{
			marker:  marker,
			name:    match[2],
			value:   value,
			boolean: boolean,
		}
		defineMarkers[match[0]] = marker
	}
	source = shaderDefinePattern.ReplaceAllStringFunc(source, func(s string) string {
		return defineMarkers[s]
	})

	version := shaderVersionPattern.FindStringIndex(source)
	if version == nil {
		return nil, fmt.Errorf("%v shader has no #version directive", name)
	}

	return &shaderSource{
		name:        name,
		template:    source,
		definitions: definitions,
		versionEnd:  version[1],
	}, nil
}

func (def glslDef) render(value string) string {
	if def.boolean {
		line := fmt.Sprintf("#define %v", def.name)
		if value == "false" {
			return "// " + line
		}
		return line
	}
	return fmt.Sprintf("#define %v %v", def.name, value)
}

// expand substitutes defs into the template. Unknown names are inserted after the #version line.
func (src *shaderSource) expand(defs map[string]string) string {
	source := src.template
	names := maps.Keys(defs)
	slices.Sort(names)

	var extra strings.Builder
	for _, n := range names {
		if _, ok := src.definitions[strings.ToLower(n)]; !ok {
			fmt.Fprintf(&extra, "\n#define %v %v", n, defs[n])
		}
	}
	source = source[:src.versionEnd] + extra.String() + source[src.versionEnd:]

	for key, def := range src.definitions {
		value := def.value
		for _, n := range names {
			if strings.ToLower(n) == key {
				value = defs[n]
			}
		}
		source = strings.Replace(source, def.marker, def.render(value), 1)
	}
	return source
}

type program struct {
	uniformLocations map[string]int32
	source           *shaderSource
	glId             uint32
	sourceLive       string
	stage            int
}

type ShaderProgram interface {
	Id() uint32
	Name() string
	Compile() error
	CompileWith(defs map[string]string) error
	Delete()
	GetUniformLocation(name string) int32
	SetUniform(name string, value any)
	Source() string
}

func NewShader(source string, stage int) (ShaderProgram, error) {
	src, err := parseShaderSource(source)
	if err != nil {
		return nil, err
	}
	return &program{
		source: src,
		stage:  stage,
	}, nil
}

func (prog *program) Name() string {
	return prog.source.name
}

func (prog *program) Compile() error {
	return prog.CompileWith(nil)
}

func (prog *program) CompileWith(defs map[string]string) error {
	source := prog.source.expand(defs)

	cStrs, free := gl.Strs(source + "\x00")
	id := gl.CreateShaderProgramv(uint32(prog.stage), 1, cStrs)
	free()
	if id == 0 {
		return fmt.Errorf("%w: could not create %v shader program", ErrGpuObject, prog.Name())
	}

	var ok int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &ok)
	if ok == gl.FALSE {
		info := readProgramInfoLog(id)
		gl.DeleteProgram(id)
		return fmt.Errorf("%w: failed to link %v shader, log: %v", ErrGpuObject, prog.Name(), info)
	}

	if prog.glId != 0 {
		gl.DeleteProgram(prog.glId)
	}
	prog.glId = id
	prog.sourceLive = source
	prog.uniformLocations = map[string]int32{}
	return nil
}

func (prog *program) Source() string {
	return prog.sourceLive
}

func (prog *program) Id() uint32 {
	return prog.glId
}

func (prog *program) Delete() {
	if prog.glId == 0 {
		return
	}
	gl.DeleteProgram(prog.glId)
	prog.glId = 0
}

func readProgramInfoLog(id uint32) string {
	var logLength int32
	gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLength)

	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(id, logLength, nil, gl.Str(log))
	return strings.TrimRight(log, "\x00")
}

func (prog *program) GetUniformLocation(name string) int32 {
	if location, ok := prog.uniformLocations[name]; ok {
		return location
	}

	location := gl.GetUniformLocation(prog.glId, gl.Str(name+"\x00"))
	prog.uniformLocations[name] = location

	if location == -1 {
		logger.Debugf("%v shader: could not get location of %q", prog.Name(), name)
	}

	return location
}

func (prog *program) SetUniform(name string, value any) {
	location := prog.GetUniformLocation(name)
	if location == -1 {
		return
	}
	setProgramUniformAny(prog.glId, location, value)
}

func setProgramUniformAny(prog uint32, location int32, value any) {
	for refVal := reflect.ValueOf(value); refVal.Kind() == reflect.Ptr; refVal = reflect.ValueOf(value) {
		value = refVal.Elem().Interface()
	}

	switch v := value.(type) {
	case float32:
		gl.ProgramUniform1f(prog, location, v)
	case float64:
		gl.ProgramUniform1f(prog, location, float32(v))
	case int:
		gl.ProgramUniform1i(prog, location, int32(v))
	case int32:
		gl.ProgramUniform1i(prog, location, v)
	case uint32:
		gl.ProgramUniform1ui(prog, location, v)
	case bool:
		var i int32
		if v {
			i = 1
		}
		gl.ProgramUniform1i(prog, location, i)
	case mgl32.Vec2:
		gl.ProgramUniform2f(prog, location, v.X(), v.Y())
	case mgl32.Vec3:
		gl.ProgramUniform3f(prog, location, v.X(), v.Y(), v.Z())
	case []mgl32.Vec3:
		if len(v) > 0 {
			gl.ProgramUniform3fv(prog, location, int32(len(v)), &v[0][0])
		}
	case mgl32.Vec4:
		gl.ProgramUniform4f(prog, location, v.X(), v.Y(), v.Z(), v.W())
	case mgl32.Mat3:
		gl.ProgramUniformMatrix3fv(prog, location, 1, false, &v[0])
	case mgl32.Mat4:
		gl.ProgramUniformMatrix4fv(prog, location, 1, false, &v[0])
	default:
		logger.Panicf("unsupported uniform type %T", value)
	}
}
