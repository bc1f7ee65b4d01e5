package libgl

import (
	"github.com/go-gl/gl/v4.5-core/gl"
)

type GlCapability uint32

const (
	DepthTest       GlCapability = gl.DEPTH_TEST
	Blend           GlCapability = gl.BLEND
	ScissorTest     GlCapability = gl.SCISSOR_TEST
	CullFace        GlCapability = gl.CULL_FACE
	SeamlessCubeMap GlCapability = gl.TEXTURE_CUBE_MAP_SEAMLESS
	DebugOutput     GlCapability = gl.DEBUG_OUTPUT
	DebugOutputSync GlCapability = gl.DEBUG_OUTPUT_SYNCHRONOUS
)

type GlBlendFactor uint32

const (
	BlendSrcAlpha         GlBlendFactor = gl.SRC_ALPHA
	BlendOneMinusSrcAlpha GlBlendFactor = gl.ONE_MINUS_SRC_ALPHA
)

type GlBlendEquation uint32

const (
	BlendFuncAdd GlBlendEquation = gl.FUNC_ADD
)

type GlDepthFunc uint32

const (
	DepthFuncLess   GlDepthFunc = gl.LESS
	DepthFuncLEqual GlDepthFunc = gl.LEQUAL
)

// GlStateManager caches render state so redundant calls never reach the driver.
// The cache is only valid as long as every state change goes through it.
type GlStateManager struct {
	Caps                              map[GlCapability]bool
	TextureUnits, SamplerUnits        []uint32
	DrawFramebuffer, ReadFramebuffer  uint32
	Renderbuffer                      uint32
	ArrayBuffer, ElementArrayBuffer   uint32
	UniformBuffer                     uint32
	ProgramPipeline, VertexArray      uint32
	ActiveTextureUnit                 int
	ViewportRect, ScissorRect         [4]int
	BlendFactorSrc, BlendFactorDst    GlBlendFactor
	BlendEquationMode                 GlBlendEquation
	DepthFuncFn                       GlDepthFunc
	DepthWriteMask                    bool
	CullFaceMask                      uint32
	ClearColorRGBA                    [4]float32
	PolygonModeFrontAndBack           uint32
}

var State *GlStateManager

func NewGlStateManager() *GlStateManager {
	return &GlStateManager{
		Caps:                    map[GlCapability]bool{},
		TextureUnits:            make([]uint32, 32),
		SamplerUnits:            make([]uint32, 32),
		DepthWriteMask:          true,
		PolygonModeFrontAndBack: gl.FILL,
	}
}

func (s *GlStateManager) Enable(cap GlCapability) {
	if s.Caps[cap] {
		return
	}
	gl.Enable(uint32(cap))
	s.Caps[cap] = true
}

func (s *GlStateManager) Disable(cap GlCapability) {
	if enabled, known := s.Caps[cap]; known && !enabled {
		return
	}
	gl.Disable(uint32(cap))
	s.Caps[cap] = false
}

func (s *GlStateManager) CullBack() {
	if s.CullFaceMask == gl.BACK {
		return
	}
	gl.CullFace(gl.BACK)
	s.CullFaceMask = gl.BACK
}

func (s *GlStateManager) BlendFunc(sfactor, dfactor GlBlendFactor) {
	if s.BlendFactorSrc == sfactor && s.BlendFactorDst == dfactor {
		return
	}
	gl.BlendFunc(uint32(sfactor), uint32(dfactor))
	s.BlendFactorSrc = sfactor
	s.BlendFactorDst = dfactor
}

func (s *GlStateManager) BlendEquation(mode GlBlendEquation) {
	if s.BlendEquationMode == mode {
		return
	}
	gl.BlendEquation(uint32(mode))
	s.BlendEquationMode = mode
}

func (s *GlStateManager) DepthFunc(fn GlDepthFunc) {
	if s.DepthFuncFn == fn {
		return
	}
	gl.DepthFunc(uint32(fn))
	s.DepthFuncFn = fn
}

func (s *GlStateManager) DepthMask(flag bool) {
	if s.DepthWriteMask == flag {
		return
	}
	gl.DepthMask(flag)
	s.DepthWriteMask = flag
}

func (s *GlStateManager) PolygonMode(mode uint32) {
	if s.PolygonModeFrontAndBack == mode {
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, mode)
	s.PolygonModeFrontAndBack = mode
}

func (s *GlStateManager) BindTextureUnit(unit int, texture uint32) {
	if s.TextureUnits[unit] == texture {
		return
	}
	if Env.UseIntelTextureBindingFix {
		s.ActiveTexture(unit)
		if texture != 0 {
			gl.BindTexture(Env.IntelTextureBindingTargets[texture], texture)
		}
		s.TextureUnits[unit] = texture
		return
	}
	gl.BindTextureUnit(uint32(unit), texture)
	s.TextureUnits[unit] = texture
}

func (s *GlStateManager) BindTexture(target uint32, texture uint32) {
	if s.TextureUnits[s.ActiveTextureUnit] == texture {
		return
	}
	gl.BindTexture(target, texture)
	s.TextureUnits[s.ActiveTextureUnit] = texture
}

func (s *GlStateManager) ActiveTexture(unit int) {
	if s.ActiveTextureUnit == unit {
		return
	}
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	s.ActiveTextureUnit = unit
}

func (s *GlStateManager) BindSampler(unit int, sampler uint32) {
	if s.SamplerUnits[unit] == sampler {
		return
	}
	gl.BindSampler(uint32(unit), sampler)
	s.SamplerUnits[unit] = sampler
}

func (s *GlStateManager) BindBuffer(target uint32, buffer uint32) {
	var cached *uint32
	switch target {
	case gl.ARRAY_BUFFER:
		cached = &s.ArrayBuffer
	case gl.ELEMENT_ARRAY_BUFFER:
		cached = &s.ElementArrayBuffer
	case gl.UNIFORM_BUFFER:
		cached = &s.UniformBuffer
	default:
		gl.BindBuffer(target, buffer)
		return
	}
	if *cached == buffer {
		return
	}
	gl.BindBuffer(target, buffer)
	*cached = buffer
}

// BindBufferBase binds a buffer to an indexed target; always reaches the driver.
func (s *GlStateManager) BindBufferBase(target uint32, index int, buffer uint32) {
	gl.BindBufferBase(target, uint32(index), buffer)
	if target == gl.UNIFORM_BUFFER {
		s.UniformBuffer = buffer
	}
}

func (s *GlStateManager) BindFramebuffer(target, framebuffer uint32) {
	if target == gl.DRAW_FRAMEBUFFER {
		s.BindDrawFramebuffer(framebuffer)
	} else if target == gl.READ_FRAMEBUFFER {
		s.BindReadFramebuffer(framebuffer)
	} else {
		if framebuffer == s.DrawFramebuffer && framebuffer == s.ReadFramebuffer {
			return
		}
		gl.BindFramebuffer(gl.FRAMEBUFFER, framebuffer)
		s.DrawFramebuffer = framebuffer
		s.ReadFramebuffer = framebuffer
	}
}

func (s *GlStateManager) BindDrawFramebuffer(framebuffer uint32) {
	if s.DrawFramebuffer == framebuffer {
		return
	}
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, framebuffer)
	s.DrawFramebuffer = framebuffer
}

func (s *GlStateManager) BindReadFramebuffer(framebuffer uint32) {
	if s.ReadFramebuffer == framebuffer {
		return
	}
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, framebuffer)
	s.ReadFramebuffer = framebuffer
}

func (s *GlStateManager) BindRenderbuffer(renderbuffer uint32) {
	if s.Renderbuffer == renderbuffer {
		return
	}
	gl.BindRenderbuffer(gl.RENDERBUFFER, renderbuffer)
	s.Renderbuffer = renderbuffer
}

func (s *GlStateManager) BindProgramPipeline(pipeline uint32) {
	if s.ProgramPipeline == pipeline {
		return
	}
	gl.BindProgramPipeline(pipeline)
	s.ProgramPipeline = pipeline
}

func (s *GlStateManager) BindVertexArray(array uint32) {
	if s.VertexArray == array {
		return
	}
	gl.BindVertexArray(array)
	s.VertexArray = array
}

func (s *GlStateManager) Viewport(x, y, w, h int) {
	if s.ViewportRect == [4]int{x, y, w, h} {
		return
	}
	gl.Viewport(int32(x), int32(y), int32(w), int32(h))
	s.ViewportRect = [4]int{x, y, w, h}
}

// QueryViewport reads the driver's viewport and resynchronizes the cache with it.
func (s *GlStateManager) QueryViewport() [4]int {
	var vp [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &vp[0])
	s.ViewportRect = [4]int{int(vp[0]), int(vp[1]), int(vp[2]), int(vp[3])}
	return s.ViewportRect
}

func (s *GlStateManager) Scissor(x, y, w, h int) {
	if s.ScissorRect == [4]int{x, y, w, h} {
		return
	}
	gl.Scissor(int32(x), int32(y), int32(w), int32(h))
	s.ScissorRect = [4]int{x, y, w, h}
}

func (s *GlStateManager) ClearColor(r, g, b, a float32) {
	if s.ClearColorRGBA == [4]float32{r, g, b, a} {
		return
	}
	gl.ClearColor(r, g, b, a)
	s.ClearColorRGBA = [4]float32{r, g, b, a}
}
