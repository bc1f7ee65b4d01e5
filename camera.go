package main

import (
	"github.com/charmbracelet/harmonica"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"pbr-ibl/libutil"
	"pbr-ibl/scene"
)

const (
	// radians per scroll step
	orbitSpeed   = 0.01
	maxElevation = math32.Pi * 0.45
)

// OrbitCamera circles Target at a fixed distance. Rotations move target angles that the
// current angles follow on a critically damped spring.
type OrbitCamera struct {
	Target   mgl32.Vec3
	Distance float32
	// in degrees
	VerticalFov       float32
	ViewportDimension mgl32.Vec2
	ClippingPlanes    mgl32.Vec2
	ViewMatrix        mgl32.Mat4
	ProjectionMatrix  mgl32.Mat4

	azimuth, elevation           float64
	goalAzimuth, goalElevation   float64
	azimuthSpeed, elevationSpeed float64
	spring                       harmonica.Spring
}

// NewOrbitCamera places the camera at origin looking at target.
func NewOrbitCamera(origin, target mgl32.Vec3, fps int) *OrbitCamera {
	offset := origin.Sub(target)
	distance := offset.Len()
	var azimuth, elevation float32
	if distance > 0 {
		elevation = math32.Asin(libutil.Clamp(offset.Y()/distance, -1, 1))
		azimuth = math32.Atan2(offset.Z(), offset.X())
	}
	cam := &OrbitCamera{
		Target:         target,
		Distance:       distance,
		VerticalFov:    75,
		ClippingPlanes: mgl32.Vec2{0.3, 1000},
		azimuth:        float64(azimuth),
		elevation:      float64(elevation),
		goalAzimuth:    float64(azimuth),
		goalElevation:  float64(elevation),
		spring:         harmonica.NewSpring(harmonica.FPS(fps), 8.0, 1.0),
	}
	cam.UpdateViewMatrix()
	return cam
}

// Rotate moves the goal angles by the scroll offsets. Elevation stays clear of the poles.
func (cam *OrbitCamera) Rotate(dx, dy float32) {
	cam.goalAzimuth += float64(dx * orbitSpeed)
	cam.goalElevation = float64(libutil.Clamp(float32(cam.goalElevation)+dy*orbitSpeed, -maxElevation, maxElevation))
}

// Update advances the springs by one frame and recomputes the view matrix.
func (cam *OrbitCamera) Update() {
	cam.azimuth, cam.azimuthSpeed = cam.spring.Update(cam.azimuth, cam.azimuthSpeed, cam.goalAzimuth)
	cam.elevation, cam.elevationSpeed = cam.spring.Update(cam.elevation, cam.elevationSpeed, cam.goalElevation)
	cam.UpdateViewMatrix()
}

func (cam *OrbitCamera) Position() mgl32.Vec3 {
	az, el := float32(cam.azimuth), float32(cam.elevation)
	r := cam.Distance
	return cam.Target.Add(mgl32.Vec3{
		r * math32.Cos(el) * math32.Cos(az),
		r * math32.Sin(el),
		r * math32.Cos(el) * math32.Sin(az),
	})
}

func (cam *OrbitCamera) UpdateViewMatrix() {
	cam.ViewMatrix = mgl32.LookAtV(cam.Position(), cam.Target, mgl32.Vec3{0, 1, 0})
}

func (cam *OrbitCamera) UpdateProjectionMatrix() {
	w, h := cam.ViewportDimension[0], cam.ViewportDimension[1]
	if w <= 0 || h <= 0 {
		return
	}
	n, f := cam.ClippingPlanes[0], cam.ClippingPlanes[1]
	cam.ProjectionMatrix = mgl32.Perspective(cam.VerticalFov*libutil.Deg2Rad, w/h, n, f)
}

// SetViewport updates the projection when the framebuffer size changed.
func (cam *OrbitCamera) SetViewport(width, height int) {
	dim := mgl32.Vec2{float32(width), float32(height)}
	if dim == cam.ViewportDimension {
		return
	}
	cam.ViewportDimension = dim
	cam.UpdateProjectionMatrix()
}

func (cam *OrbitCamera) Camera() *scene.Camera {
	return &scene.Camera{
		Position:   cam.Position(),
		View:       cam.ViewMatrix,
		Projection: cam.ProjectionMatrix,
	}
}
