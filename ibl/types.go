package ibl

import "fmt"

type CubeMapFace int

// Faces in GL layer order.
const (
	CubeMapPositiveX = CubeMapFace(iota)
	CubeMapNegativeX
	CubeMapPositiveY
	CubeMapNegativeY
	CubeMapPositiveZ
	CubeMapNegativeZ
)

func (f CubeMapFace) String() string {
	switch f {
	case CubeMapPositiveX:
		return "+X"
	case CubeMapNegativeX:
		return "-X"
	case CubeMapPositiveY:
		return "+Y"
	case CubeMapNegativeY:
		return "-Y"
	case CubeMapPositiveZ:
		return "+Z"
	case CubeMapNegativeZ:
		return "-Z"
	}
	return fmt.Sprintf("face(%d)", int(f))
}

// IblEnv is a cpu side RGB cube map with a mip chain.
// Data is level major: all six faces of level 0, then all six faces of level 1 and so on.
// Rows of a face start at t = 0 like the gl texture they are read back from.
type IblEnv struct {
	BaseSize int
	Levels   int
	data     []float32
	offsets  []int
}

// CubeMapPixels returns the number of texels in a cube map of the given base size and levels.
func CubeMapPixels(baseSize, levels int) int {
	n := 0
	for l := 0; l < levels; l++ {
		s := levelSize(baseSize, l)
		n += 6 * s * s
	}
	return n
}

func levelSize(baseSize, level int) int {
	s := baseSize >> level
	if s < 1 {
		return 1
	}
	return s
}

// NewIblEnv wraps data, or allocates it when data is nil.
func NewIblEnv(data []float32, baseSize, levels int) *IblEnv {
	if data == nil {
		data = make([]float32, CubeMapPixels(baseSize, levels)*3)
	}
	offsets := make([]int, levels+1)
	for l := 0; l < levels; l++ {
		s := levelSize(baseSize, l)
		offsets[l+1] = offsets[l] + 6*s*s*3
	}
	if len(data) != offsets[levels] {
		panic(fmt.Sprintf("ibl env of size %d with %d levels needs %d values, got %d", baseSize, levels, offsets[levels], len(data)))
	}
	return &IblEnv{
		BaseSize: baseSize,
		Levels:   levels,
		data:     data,
		offsets:  offsets,
	}
}

func (env *IblEnv) Size(level int) int {
	return levelSize(env.BaseSize, level)
}

// Level returns the six faces of a level back to back.
func (env *IblEnv) Level(level int) []float32 {
	return env.data[env.offsets[level]:env.offsets[level+1]]
}

func (env *IblEnv) Face(level int, face CubeMapFace) []float32 {
	s := env.Size(level)
	o := env.offsets[level] + int(face)*s*s*3
	return env.data[o : o+s*s*3 : o+s*s*3]
}

func (env *IblEnv) Data() []float32 {
	return env.data
}
