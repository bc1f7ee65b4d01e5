package scene

import (
	"encoding/binary"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"pbr-ibl/libgl"
)

// MatricesBinding is the uniform buffer binding of the Matrices block in every scene shader.
const MatricesBinding = 0

// std140 layout of the Matrices block
type matricesBlock struct {
	Projection     mgl32.Mat4
	View           mgl32.Mat4
	CameraPosition mgl32.Vec4
}

func newMatricesBlock(cam *Camera) matricesBlock {
	return matricesBlock{
		Projection:     cam.Projection,
		View:           cam.View,
		CameraPosition: cam.Position.Vec4(1),
	}
}

// Matrices is the uniform buffer holding the camera matrices.
type Matrices struct {
	buffer libgl.UnboundBuffer
}

func NewMatrices() *Matrices {
	buffer := libgl.NewBuffer()
	buffer.SetDebugLabel("matrices")
	buffer.AllocateEmpty(binary.Size(matricesBlock{}), gl.DYNAMIC_STORAGE_BIT)
	buffer.BindBase(gl.UNIFORM_BUFFER, MatricesBinding)
	return &Matrices{buffer: buffer}
}

func (m *Matrices) Update(cam *Camera) {
	block := newMatricesBlock(cam)
	m.buffer.Write(0, &block)
}

func (m *Matrices) Delete() {
	m.buffer.Delete()
}
