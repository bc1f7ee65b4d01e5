package libgl

import (
	"math/bits"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

type texture struct {
	glId       uint32
	dimensions uint32
	width      int
	height     int
	depth      int
	levels     int
}

type UnboundTexture interface {
	LabeledGlObject
	Id() uint32
	Type() uint32
	Width() int
	Height() int
	Levels() int
	Bind(unit int) BoundTexture
	Allocate(levels int, internalFormat uint32, width, height, depth int)
	Load(level int, width, height, depth int, format uint32, data any)
	FilterMode(min, mag int32)
	WrapMode(s, t, r int32)
	MipmapLevels(base, max int)
	// ReadPixels copies a whole level back to the cpu. dst must hold the full level.
	ReadPixels(level int, format uint32, dst []float32)
	Delete()
}

type BoundTexture interface {
	UnboundTexture
}

func NewTexture(dimensions uint32) UnboundTexture {
	var id uint32
	gl.CreateTextures(dimensions, 1, &id)
	if Env != nil && Env.UseIntelTextureBindingFix {
		Env.IntelTextureBindingTargets[id] = dimensions
	}
	return &texture{
		glId:       id,
		dimensions: dimensions,
	}
}

func (tex *texture) storageDimensions() int {
	switch tex.dimensions {
	case gl.TEXTURE_1D, gl.TEXTURE_BUFFER:
		return 1
	case gl.TEXTURE_2D, gl.TEXTURE_1D_ARRAY, gl.TEXTURE_CUBE_MAP:
		return 2
	case gl.TEXTURE_3D, gl.TEXTURE_2D_ARRAY, gl.TEXTURE_CUBE_MAP_ARRAY:
		return 3
	}
	logger.Errorf("invalid texture dimension for texture %d: %04x", tex.glId, tex.dimensions)
	return 0
}

func (tex *texture) Id() uint32 {
	return tex.glId
}

func (tex *texture) Type() uint32 {
	return tex.dimensions
}

func (tex *texture) Width() int {
	return tex.width
}

func (tex *texture) Height() int {
	return tex.height
}

func (tex *texture) Levels() int {
	return tex.levels
}

func (tex *texture) SetDebugLabel(label string) {
	setObjectLabel(gl.TEXTURE, tex.glId, label)
}

func (tex *texture) Bind(unit int) BoundTexture {
	State.BindTextureUnit(unit, tex.glId)
	return BoundTexture(tex)
}

func (tex *texture) Delete() {
	if tex.glId == 0 {
		return
	}
	for unit, id := range State.TextureUnits {
		if id == tex.glId {
			State.TextureUnits[unit] = 0
		}
	}
	gl.DeleteTextures(1, &tex.glId)
	tex.glId = 0
}

// MipmapCount returns the length of a full mip chain for the given extent.
func MipmapCount(width, height int) int {
	max := width
	if height > max {
		max = height
	}
	if max < 1 {
		return 1
	}
	return bits.Len(uint(max))
}

// Allocate reserves immutable storage. levels == 0 allocates a full mip chain.
// Cube maps are allocated like 2D textures; depth is ignored for them.
func (tex *texture) Allocate(levels int, internalFormat uint32, width, height, depth int) {
	if levels == 0 {
		levels = MipmapCount(width, height)
	}
	tex.width = width
	tex.height = height
	tex.depth = depth
	tex.levels = levels
	switch tex.storageDimensions() {
	case 1:
		gl.TextureStorage1D(tex.glId, int32(levels), internalFormat, int32(width))
	case 2:
		gl.TextureStorage2D(tex.glId, int32(levels), internalFormat, int32(width), int32(height))
	case 3:
		gl.TextureStorage3D(tex.glId, int32(levels), internalFormat, int32(width), int32(height), int32(depth))
	}
	CheckError("TextureStorage")
}

// Load uploads pixels to a level. For cube maps depth selects the number of faces starting at +X.
func (tex *texture) Load(level int, width, height, depth int, format uint32, data any) {
	dataType := getGlType(data)
	switch {
	case tex.dimensions == gl.TEXTURE_CUBE_MAP:
		gl.TextureSubImage3D(tex.glId, int32(level), 0, 0, 0, int32(width), int32(height), int32(depth), format, dataType, Pointer(data))
	case tex.storageDimensions() == 1:
		gl.TextureSubImage1D(tex.glId, int32(level), 0, int32(width), format, dataType, Pointer(data))
	case tex.storageDimensions() == 2:
		gl.TextureSubImage2D(tex.glId, int32(level), 0, 0, int32(width), int32(height), format, dataType, Pointer(data))
	case tex.storageDimensions() == 3:
		gl.TextureSubImage3D(tex.glId, int32(level), 0, 0, 0, int32(width), int32(height), int32(depth), format, dataType, Pointer(data))
	}
	CheckError("TextureSubImage")
}

func (tex *texture) FilterMode(min, mag int32) {
	if min != 0 {
		gl.TextureParameteri(tex.glId, gl.TEXTURE_MIN_FILTER, min)
	}
	if mag != 0 {
		gl.TextureParameteri(tex.glId, gl.TEXTURE_MAG_FILTER, mag)
	}
}

func (tex *texture) WrapMode(s, t, r int32) {
	if s != 0 {
		gl.TextureParameteri(tex.glId, gl.TEXTURE_WRAP_S, s)
	}
	if t != 0 {
		gl.TextureParameteri(tex.glId, gl.TEXTURE_WRAP_T, t)
	}
	if r != 0 {
		gl.TextureParameteri(tex.glId, gl.TEXTURE_WRAP_R, r)
	}
}

func (tex *texture) MipmapLevels(base, max int) {
	gl.TextureParameteri(tex.glId, gl.TEXTURE_BASE_LEVEL, int32(base))
	gl.TextureParameteri(tex.glId, gl.TEXTURE_MAX_LEVEL, int32(max))
}

// Intel drivers reject whole cube map reads through DSA, faces are read one by one there.
func (tex *texture) ReadPixels(level int, format uint32, dst []float32) {
	if tex.dimensions == gl.TEXTURE_CUBE_MAP && Env.UseIntelCubemapDsaFix {
		faceLen := len(dst) / 6
		State.BindTexture(gl.TEXTURE_CUBE_MAP, tex.glId)
		for i := 0; i < 6; i++ {
			gl.GetTexImage(uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+i), int32(level), format, gl.FLOAT, Pointer(dst[i*faceLen:]))
		}
		State.BindTexture(gl.TEXTURE_CUBE_MAP, 0)
	} else {
		gl.GetTextureImage(tex.glId, int32(level), format, gl.FLOAT, int32(len(dst)*4), Pointer(dst))
	}
	CheckError("GetTextureImage")
}

func getGlType(data any) uint32 {
	switch data.(type) {
	case byte, []byte, *byte:
		return gl.UNSIGNED_BYTE
	case int8, []int8, *int8:
		return gl.BYTE
	case int16, []int16, *int16:
		return gl.SHORT
	case uint16, []uint16, *uint16:
		return gl.UNSIGNED_SHORT
	case int32, []int32, *int32:
		return gl.INT
	case uint32, []uint32, *uint32:
		return gl.UNSIGNED_INT
	case float32, []float32, *float32, mgl32.Vec2, []mgl32.Vec2, mgl32.Vec3, []mgl32.Vec3, mgl32.Vec4, []mgl32.Vec4:
		return gl.FLOAT
	case float64, []float64, *float64:
		return gl.DOUBLE
	}
	logger.Panicf("invalid pixel data type: %T", data)
	return 0
}

type sampler struct {
	glId uint32
}

type UnboundSampler interface {
	Id() uint32
	Bind(unit int) BoundSampler
	FilterMode(min, mag int32)
	WrapMode(s, t, r int32)
	Delete()
}

type BoundSampler interface {
	UnboundSampler
}

func NewSampler() UnboundSampler {
	var id uint32
	gl.CreateSamplers(1, &id)
	return &sampler{
		glId: id,
	}
}

func (s *sampler) Id() uint32 {
	return s.glId
}

func (s *sampler) Bind(unit int) BoundSampler {
	State.BindSampler(unit, s.glId)
	return BoundSampler(s)
}

func (s *sampler) FilterMode(min, mag int32) {
	if min != 0 {
		gl.SamplerParameteri(s.glId, gl.TEXTURE_MIN_FILTER, min)
	}
	if mag != 0 {
		gl.SamplerParameteri(s.glId, gl.TEXTURE_MAG_FILTER, mag)
	}
}

func (sampler *sampler) WrapMode(s, t, r int32) {
	if s != 0 {
		gl.SamplerParameteri(sampler.glId, gl.TEXTURE_WRAP_S, s)
	}
	if t != 0 {
		gl.SamplerParameteri(sampler.glId, gl.TEXTURE_WRAP_T, t)
	}
	if r != 0 {
		gl.SamplerParameteri(sampler.glId, gl.TEXTURE_WRAP_R, r)
	}
}

func (s *sampler) Delete() {
	if s.glId == 0 {
		return
	}
	for unit, id := range State.SamplerUnits {
		if id == s.glId {
			State.SamplerUnits[unit] = 0
		}
	}
	gl.DeleteSamplers(1, &s.glId)
	s.glId = 0
}
