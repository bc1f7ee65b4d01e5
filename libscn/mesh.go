package libscn

import (
	"pbr-ibl/libgl"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is geometry living in gpu buffers. Attribute 0 is the position, 1 the normal and 2 the uv.
type Mesh struct {
	vao   libgl.UnboundVertexArray
	vbo   libgl.UnboundBuffer
	ebo   libgl.UnboundBuffer
	mode  uint32
	count int
}

func UploadGeometry(geo *Geometry) *Mesh {
	vbo := libgl.NewBuffer()
	vbo.Allocate(geo.Vertices, 0)

	vao := libgl.NewVertexArray()
	vao.Layout(0, 0, 3, gl.FLOAT, false, 0)
	vao.Layout(0, 1, 3, gl.FLOAT, false, 3*4)
	vao.Layout(0, 2, 2, gl.FLOAT, false, 6*4)
	vao.BindBuffer(0, vbo, 0, VertexSize)
	vao.SetDebugLabel(geo.Name)

	mesh := &Mesh{vao: vao, vbo: vbo, mode: gl.TRIANGLES, count: len(geo.Vertices)}
	if len(geo.Indices) > 0 {
		mesh.ebo = libgl.NewBuffer()
		mesh.ebo.Allocate(geo.Indices, 0)
		vao.BindElementBuffer(mesh.ebo)
		mesh.count = len(geo.Indices)
	}
	return mesh
}

// UploadPositions creates a position only mesh drawn with the given primitive mode.
func UploadPositions(positions []mgl32.Vec3, mode uint32) *Mesh {
	vbo := libgl.NewBuffer()
	vbo.Allocate(positions, 0)

	vao := libgl.NewVertexArray()
	vao.Layout(0, 0, 3, gl.FLOAT, false, 0)
	vao.BindBuffer(0, vbo, 0, 3*4)

	return &Mesh{vao: vao, vbo: vbo, mode: mode, count: len(positions)}
}

func NewCubeMesh() *Mesh {
	return UploadPositions(UnitCube(), gl.TRIANGLES)
}

// NewQuadMesh covers clip space with a triangle strip.
func NewQuadMesh() *Mesh {
	return UploadPositions([]mgl32.Vec3{{-1, -1, 0}, {1, -1, 0}, {-1, 1, 0}, {1, 1, 0}}, gl.TRIANGLE_STRIP)
}

func (mesh *Mesh) Draw() {
	mesh.vao.Bind()
	if mesh.ebo != nil {
		gl.DrawElements(mesh.mode, int32(mesh.count), gl.UNSIGNED_INT, nil)
	} else {
		gl.DrawArrays(mesh.mode, 0, int32(mesh.count))
	}
}

// Delete is a no-op on a nil mesh.
func (mesh *Mesh) Delete() {
	if mesh == nil {
		return
	}
	mesh.vao.Delete()
	mesh.vbo.Delete()
	if mesh.ebo != nil {
		mesh.ebo.Delete()
	}
}
