package ibl

import (
	"github.com/go-gl/gl/v4.5-core/gl"

	"pbr-ibl/libgl"
)

// offscreenTarget is a framebuffer with a depth renderbuffer that lives for one pass.
type offscreenTarget struct {
	fbo   libgl.UnboundFramebuffer
	depth libgl.UnboundRenderbuffer
}

func newOffscreenTarget(width, height int, label string) *offscreenTarget {
	depth := libgl.NewRenderbuffer()
	depth.Allocate(gl.DEPTH_COMPONENT24, width, height)
	depth.SetDebugLabel(label + " depth")

	fbo := libgl.NewFramebuffer()
	fbo.AttachRenderbuffer(gl.DEPTH_ATTACHMENT, depth)
	fbo.DrawBuffers(0)
	fbo.SetDebugLabel(label)
	libgl.CheckError("offscreen target")

	return &offscreenTarget{fbo: fbo, depth: depth}
}

// Release deletes both objects. Safe to call more than once.
func (t *offscreenTarget) Release() {
	if t.fbo != nil {
		t.fbo.Delete()
		t.fbo = nil
	}
	if t.depth != nil {
		t.depth.Delete()
		t.depth = nil
	}
}
