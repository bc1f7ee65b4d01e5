package main

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func settle(cam *OrbitCamera) {
	for i := 0; i < 600; i++ {
		cam.Update()
	}
}

func TestOrbitCameraStartsAtOrigin(t *testing.T) {
	origin := mgl32.Vec3{0, 0, 5}
	cam := NewOrbitCamera(origin, mgl32.Vec3{}, 60)
	if !cam.Position().ApproxEqualThreshold(origin, 1e-5) {
		t.Errorf("position %v, want %v", cam.Position(), origin)
	}
	forward := cam.ViewMatrix.Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	if forward.Z() >= 0 {
		t.Errorf("target is not in front of the camera: %v", forward)
	}
}

func TestOrbitCameraKeepsDistance(t *testing.T) {
	target := mgl32.Vec3{1, 0, -1}
	cam := NewOrbitCamera(mgl32.Vec3{1, 2, 3}, target, 60)
	want := cam.Distance
	for i := 0; i < 50; i++ {
		cam.Rotate(10, -7)
		cam.Update()
		if d := cam.Position().Sub(target).Len(); mgl32.Abs(d-want) > 1e-4 {
			t.Fatalf("step %d: distance %v, want %v", i, d, want)
		}
	}
}

func TestOrbitCameraSpringSettles(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{}, 60)
	// a quarter turn
	cam.Rotate(mgl32.DegToRad(90)/orbitSpeed, 0)
	cam.Update()
	if cam.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, 1e-3) {
		t.Error("rotation applied without smoothing")
	}
	settle(cam)
	if !cam.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, 5}, 1e-3) {
		t.Errorf("position %v, want (0, 0, 5)", cam.Position())
	}
}

func TestOrbitCameraClampsElevation(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 60)
	cam.Rotate(0, 1e4)
	settle(cam)
	if got := float32(cam.elevation); got > maxElevation+1e-4 {
		t.Errorf("elevation %v exceeds %v", got, maxElevation)
	}
	if cam.Position().Y() >= 5 {
		t.Errorf("camera reached the pole: %v", cam.Position())
	}
}

func TestOrbitCameraProjection(t *testing.T) {
	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 60)
	cam.SetViewport(0, 0)
	if cam.ProjectionMatrix != (mgl32.Mat4{}) {
		t.Error("projection computed for an empty viewport")
	}
	cam.SetViewport(1600, 900)
	want := mgl32.Perspective(mgl32.DegToRad(75), 1600.0/900.0, 0.3, 1000)
	if !cam.ProjectionMatrix.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("projection %v, want %v", cam.ProjectionMatrix, want)
	}
	view := cam.Camera()
	if view.Projection != cam.ProjectionMatrix || view.View != cam.ViewMatrix {
		t.Error("camera snapshot out of date")
	}
}
