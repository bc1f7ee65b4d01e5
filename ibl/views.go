package ibl

import (
	"github.com/go-gl/mathgl/mgl32"
)

type CubeFaceView struct {
	Face    CubeMapFace
	Forward mgl32.Vec3
	Up      mgl32.Vec3
}

func (v CubeFaceView) View() mgl32.Mat4 {
	return captureViews[v.Face]
}

// CubeFaceViews looks along each axis from the origin, in layer order.
var CubeFaceViews = [6]CubeFaceView{
	{CubeMapPositiveX, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{CubeMapNegativeX, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, -1, 0}},
	{CubeMapPositiveY, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1}},
	{CubeMapNegativeY, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{0, 0, -1}},
	{CubeMapPositiveZ, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, -1, 0}},
	{CubeMapNegativeZ, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, -1, 0}},
}

// CaptureProjection covers exactly one face. The far plane only has to contain the unit cube.
var CaptureProjection = mgl32.Perspective(mgl32.DegToRad(90), 1, 0.1, 2.0)

var captureViews [6]mgl32.Mat4

// clip space to world direction, per face
var captureUnprojections [6]mgl32.Mat4

func init() {
	for i, v := range CubeFaceViews {
		captureViews[i] = mgl32.LookAtV(mgl32.Vec3{}, v.Forward, v.Up)
		captureUnprojections[i] = CaptureProjection.Mul4(captureViews[i]).Inv()
	}
}

// TexelDirection returns the normalized world direction rendered into texel (x, y) of a face with size² texels.
// Row 0 is the first row of the gl texture.
func TexelDirection(face CubeMapFace, x, y, size int) mgl32.Vec3 {
	ndcX := (float32(x)+0.5)/float32(size)*2 - 1
	ndcY := (float32(y)+0.5)/float32(size)*2 - 1
	p := captureUnprojections[face].Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	return p.Vec3().Mul(1 / p.W()).Normalize()
}
