package libgl

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"
)

const MaxAttachments = 8

var ErrIncompleteFramebuffer = fmt.Errorf("%w: framebuffer incomplete", ErrGpuObject)

type framebuffer struct {
	glId uint32
}

type UnboundFramebuffer interface {
	LabeledGlObject
	Id() uint32
	// target must be GL_DRAW_FRAMEBUFFER, GL_READ_FRAMEBUFFER or GL_FRAMEBUFFER
	Bind(target uint32) BoundFramebuffer
	// target must be GL_DRAW_FRAMEBUFFER, GL_READ_FRAMEBUFFER or GL_FRAMEBUFFER
	Check(target uint32) error
	AttachTexture(index int, texture UnboundTexture)
	AttachTextureLayer(index int, texture UnboundTexture, layer, level int)
	AttachRenderbuffer(index int, renderbuffer UnboundRenderbuffer)
	DrawBuffers(indices ...int)
	Delete()
}

type BoundFramebuffer interface {
	UnboundFramebuffer
}

func NewFramebuffer() UnboundFramebuffer {
	var id uint32
	gl.CreateFramebuffers(1, &id)
	return &framebuffer{glId: id}
}

func (fb *framebuffer) Id() uint32 {
	return fb.glId
}

func (fb *framebuffer) SetDebugLabel(label string) {
	setObjectLabel(gl.FRAMEBUFFER, fb.glId, label)
}

// attachmentPoint turns a color index into GL_COLOR_ATTACHMENTi and passes depth and stencil enums through.
func attachmentPoint(index int) uint32 {
	if index < MaxAttachments {
		return uint32(gl.COLOR_ATTACHMENT0 + index)
	}
	return uint32(index)
}

func (fb *framebuffer) DrawBuffers(indices ...int) {
	if len(indices) == 0 {
		gl.NamedFramebufferDrawBuffer(fb.glId, gl.NONE)
		return
	}
	buffers := make([]uint32, len(indices))
	for i, index := range indices {
		buffers[i] = attachmentPoint(index)
	}
	gl.NamedFramebufferDrawBuffers(fb.glId, int32(len(buffers)), &buffers[0])
}

// FramebufferStatusError maps a completeness status to a readable error wrapping ErrIncompleteFramebuffer.
func FramebufferStatusError(status uint32) error {
	var reason string
	switch status {
	case gl.FRAMEBUFFER_COMPLETE:
		return nil
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		reason = "an attachment is incomplete"
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		reason = "nothing is attached"
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		reason = "a draw buffer has no attachment"
	case gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		reason = "the read buffer has no attachment"
	case gl.FRAMEBUFFER_UNSUPPORTED:
		reason = "the attachment formats are not supported together"
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		reason = "the attachments have different sample counts"
	case gl.FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS:
		reason = "layered and non-layered attachments are mixed"
	default:
		return fmt.Errorf("%w: unknown status 0x%X", ErrIncompleteFramebuffer, status)
	}
	return fmt.Errorf("%w: %s (0x%X)", ErrIncompleteFramebuffer, reason, status)
}

func (fb *framebuffer) Check(target uint32) error {
	return FramebufferStatusError(gl.CheckNamedFramebufferStatus(fb.glId, target))
}

// IsIncomplete reports whether err originates from a framebuffer completeness check.
func IsIncomplete(err error) bool {
	return errors.Is(err, ErrIncompleteFramebuffer)
}

func (fb *framebuffer) Bind(target uint32) BoundFramebuffer {
	State.BindFramebuffer(target, fb.glId)
	return BoundFramebuffer(fb)
}

// AttachTexture attaches level 0 of a 2d texture.
func (fb *framebuffer) AttachTexture(index int, texture UnboundTexture) {
	gl.NamedFramebufferTexture(fb.glId, attachmentPoint(index), texture.Id(), 0)
}

// AttachTextureLayer attaches one layer of a level. For cube maps the layer is the face index (+X, -X, +Y, -Y, +Z, -Z).
func (fb *framebuffer) AttachTextureLayer(index int, texture UnboundTexture, layer, level int) {
	point := attachmentPoint(index)
	if texture.Type() != gl.TEXTURE_CUBE_MAP || !Env.UseIntelCubemapDsaFix {
		gl.NamedFramebufferTextureLayer(fb.glId, point, texture.Id(), int32(level), int32(layer))
		return
	}
	// Intel rejects cube maps in glNamedFramebufferTextureLayer
	prevDraw, prevRead := State.DrawFramebuffer, State.ReadFramebuffer
	fb.Bind(gl.FRAMEBUFFER)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, point, uint32(gl.TEXTURE_CUBE_MAP_POSITIVE_X+layer), texture.Id(), int32(level))
	State.BindDrawFramebuffer(prevDraw)
	State.BindReadFramebuffer(prevRead)
}

func (fb *framebuffer) AttachRenderbuffer(index int, renderbuffer UnboundRenderbuffer) {
	gl.NamedFramebufferRenderbuffer(fb.glId, attachmentPoint(index), gl.RENDERBUFFER, renderbuffer.Id())
}

func (fb *framebuffer) Delete() {
	if fb.glId == 0 {
		return
	}
	if State.DrawFramebuffer == fb.glId {
		State.BindDrawFramebuffer(0)
	}
	if State.ReadFramebuffer == fb.glId {
		State.BindReadFramebuffer(0)
	}
	gl.DeleteFramebuffers(1, &fb.glId)
	fb.glId = 0
}

type renderbuffer struct {
	glId uint32
}

type UnboundRenderbuffer interface {
	LabeledGlObject
	Id() uint32
	Bind() BoundRenderbuffer
	Allocate(internalFormat uint32, width, height int)
	Delete()
}

type BoundRenderbuffer interface {
	UnboundRenderbuffer
}

func NewRenderbuffer() UnboundRenderbuffer {
	var id uint32
	gl.CreateRenderbuffers(1, &id)
	return &renderbuffer{
		glId: id,
	}
}

func (rb *renderbuffer) Id() uint32 {
	return rb.glId
}

func (rb *renderbuffer) SetDebugLabel(label string) {
	setObjectLabel(gl.RENDERBUFFER, rb.glId, label)
}

func (rb *renderbuffer) Bind() BoundRenderbuffer {
	State.BindRenderbuffer(rb.glId)
	return BoundRenderbuffer(rb)
}

func (rb *renderbuffer) Allocate(internalFormat uint32, width, height int) {
	gl.NamedRenderbufferStorage(rb.glId, internalFormat, int32(width), int32(height))
}

func (rb *renderbuffer) Delete() {
	if rb.glId == 0 {
		return
	}
	if State.Renderbuffer == rb.glId {
		State.Renderbuffer = 0
	}
	gl.DeleteRenderbuffers(1, &rb.glId)
	rb.glId = 0
}
