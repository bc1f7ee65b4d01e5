package ibl

import (
	"fmt"
	"io/fs"
	"strconv"

	"github.com/go-gl/gl/v4.5-core/gl"

	"pbr-ibl/libgl"
	"pbr-ibl/libutil"
)

// Fixed shader locations inside the shader tree.
const (
	shaderCubeVert       = "shaders/cube.vert"
	shaderQuadVert       = "shaders/quad.vert"
	shaderEquirectFrag   = "shaders/equirect.frag"
	shaderIrradianceFrag = "shaders/irradiance.frag"
	shaderPrefilterFrag  = "shaders/prefilter.frag"
	shaderBrdfFrag       = "shaders/brdf.frag"
)

func formatDefine(v any) string {
	switch v := v.(type) {
	case float32:
		return strconv.FormatFloat(float64(v), 'f', 6, 32)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprint(v)
}

func readShader(fsys fs.FS, path string, stage int) (libgl.ShaderProgram, error) {
	src, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAsset, err)
	}
	prog, err := libgl.NewShader(string(src), stage)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrAsset, path, err)
	}
	return prog, nil
}

// LoadProgram builds a separable vertex + fragment pipeline from fsys. Missing or malformed sources are ErrAsset,
// compile and link failures ErrGpuObject.
func LoadProgram(fsys fs.FS, label, vertPath, fragPath string, defs map[string]any) (pipeline libgl.UnboundShaderPipeline, err error) {
	cleanup := []libutil.Deleter{}
	defer func() {
		if err != nil {
			libutil.DeleteAll(cleanup)
		}
	}()

	strDefs := map[string]string{}
	for k, v := range defs {
		strDefs[k] = formatDefine(v)
	}

	vsh, err := readShader(fsys, vertPath, gl.VERTEX_SHADER)
	if err != nil {
		return nil, err
	}
	fsh, err := readShader(fsys, fragPath, gl.FRAGMENT_SHADER)
	if err != nil {
		return nil, err
	}

	if err = vsh.Compile(); err != nil {
		return nil, err
	}
	cleanup = append(cleanup, vsh)
	if err = fsh.CompileWith(strDefs); err != nil {
		return nil, err
	}
	cleanup = append(cleanup, fsh)

	pipeline = libgl.NewPipeline()
	pipeline.Attach(vsh, gl.VERTEX_SHADER_BIT)
	pipeline.Attach(fsh, gl.FRAGMENT_SHADER_BIT)
	pipeline.SetDebugLabel(label)
	return pipeline, nil
}
