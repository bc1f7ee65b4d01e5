package libgl

import (
	"encoding/binary"
	"fmt"

	"github.com/go-gl/gl/v4.5-core/gl"
)

type buffer struct {
	glId      uint32
	size      int
	flags     uint32
	immutable bool
}

type UnboundBuffer interface {
	LabeledGlObject
	Id() uint32
	Allocate(data any, flags int)
	AllocateEmpty(size int, flags int)
	Write(offset int, data any)
	Size() int
	Bind(target uint32) BoundBuffer
	// BindBase binds the buffer to an indexed target such as a uniform block binding.
	BindBase(target uint32, index int)
	Delete()
}

type BoundBuffer interface {
	UnboundBuffer
}

func NewBuffer() UnboundBuffer {
	var id uint32
	gl.CreateBuffers(1, &id)
	return &buffer{
		glId: id,
	}
}

func (buf *buffer) Id() uint32 {
	return buf.glId
}

func (buf *buffer) SetDebugLabel(label string) {
	setObjectLabel(gl.BUFFER, buf.glId, label)
}

func (buf *buffer) Bind(target uint32) BoundBuffer {
	State.BindBuffer(target, buf.glId)
	return BoundBuffer(buf)
}

func (buf *buffer) BindBase(target uint32, index int) {
	State.BindBufferBase(target, index, buf.glId)
}

func (buf *buffer) Size() int {
	return buf.size
}

// dataSize panics for data without a fixed binary size.
func dataSize(data any) int {
	size := binary.Size(data)
	if size == -1 {
		logger.Panicf("%T does not have a fixed size", data)
	}
	return size
}

func (buf *buffer) AllocateEmpty(size int, flags int) {
	if buf.immutable {
		logger.Panicf("buffer %d is immutable", buf.glId)
	}
	if buf.warnAllocationSizeZero(size) {
		return
	}
	gl.NamedBufferStorage(buf.glId, size, nil, uint32(flags))
	buf.size = size
	buf.flags = uint32(flags)
	buf.immutable = true
}

func (buf *buffer) Allocate(data any, flags int) {
	if buf.immutable {
		logger.Panicf("buffer %d is immutable", buf.glId)
	}
	size := dataSize(data)
	if buf.warnAllocationSizeZero(size) {
		return
	}
	gl.NamedBufferStorage(buf.glId, size, Pointer(data), uint32(flags))
	buf.size = size
	buf.flags = uint32(flags)
	buf.immutable = true
}

func (buf *buffer) warnAllocationSizeZero(size int) bool {
	if size != 0 {
		return false
	}
	msg := fmt.Sprintf("zero size allocation of buffer %d\x00", buf.glId)
	gl.DebugMessageInsert(gl.DEBUG_SOURCE_APPLICATION, gl.DEBUG_TYPE_ERROR, 1, gl.DEBUG_SEVERITY_MEDIUM, -1, gl.Str(msg))
	return true
}

func (buf *buffer) Write(offset int, data any) {
	size := dataSize(data)
	if offset+size > buf.size {
		logger.Panicf("write of %d bytes at %d overflows buffer %d of %d bytes", size, offset, buf.glId, buf.size)
	}
	gl.NamedBufferSubData(buf.glId, offset, size, Pointer(data))
}

func (buf *buffer) Delete() {
	if buf.glId == 0 {
		return
	}
	gl.DeleteBuffers(1, &buf.glId)
	buf.glId = 0
}

type vertexArray struct {
	glId uint32
}

type UnboundVertexArray interface {
	LabeledGlObject
	Layout(bufferIndex int, attributeIndex int, size int, dataType int, normalized bool, offset int)
	BindBuffer(bufferIndex int, vbo UnboundBuffer, offset int, stride int)
	BindElementBuffer(ebo UnboundBuffer)
	Id() uint32
	Bind() BoundVertexArray
	Delete()
}

type BoundVertexArray interface {
	UnboundVertexArray
}

func NewVertexArray() UnboundVertexArray {
	var id uint32
	gl.CreateVertexArrays(1, &id)
	return &vertexArray{
		glId: id,
	}
}

func (vao *vertexArray) SetDebugLabel(label string) {
	setObjectLabel(gl.VERTEX_ARRAY, vao.glId, label)
}

func (vao *vertexArray) Bind() BoundVertexArray {
	State.BindVertexArray(vao.glId)
	return BoundVertexArray(vao)
}

func (vao *vertexArray) Id() uint32 {
	return vao.glId
}

func (vao *vertexArray) Layout(bufferIndex int, attributeIndex int, size int, dataType int, normalized bool, offset int) {
	gl.EnableVertexArrayAttrib(vao.glId, uint32(attributeIndex))
	gl.VertexArrayAttribFormat(vao.glId, uint32(attributeIndex), int32(size), uint32(dataType), normalized, uint32(offset))
	gl.VertexArrayAttribBinding(vao.glId, uint32(attributeIndex), uint32(bufferIndex))
}

func (vao *vertexArray) BindBuffer(bufferIndex int, vbo UnboundBuffer, offset int, stride int) {
	gl.VertexArrayVertexBuffer(vao.glId, uint32(bufferIndex), vbo.Id(), offset, int32(stride))
}

func (vao *vertexArray) BindElementBuffer(ebo UnboundBuffer) {
	gl.VertexArrayElementBuffer(vao.glId, ebo.Id())
}

func (vao *vertexArray) Delete() {
	if vao.glId == 0 {
		return
	}
	if State.VertexArray == vao.glId {
		State.BindVertexArray(0)
	}
	gl.DeleteVertexArrays(1, &vao.glId)
	vao.glId = 0
}
