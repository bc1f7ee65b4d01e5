// Package scene contains the demonstration scenes the viewer cycles through.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"pbr-ibl/log"
)

var logger = log.New("scene")

// Camera is the per frame camera state handed to the scenes.
type Camera struct {
	Position   mgl32.Vec3
	View       mgl32.Mat4
	Projection mgl32.Mat4
}

// Scene is driven by the viewer on the render thread.
// Render and DrawUI do nothing until Initialise succeeded; Shutdown may be called any number of times.
type Scene interface {
	Initialise() error
	Render(dt float64, cam *Camera)
	DrawUI(dt float64)
	Shutdown()
}
