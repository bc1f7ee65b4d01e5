package main

import (
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"pbr-ibl/libgl"
	"pbr-ibl/libutil"
)

func init() {
	// glfw and the context must stay on the main thread
	runtime.LockOSThread()
}

// createHeadlessContext makes an invisible window's 4.5 core context current.
func createHeadlessContext() (release func(), err error) {
	if err = glfw.Init(); err != nil {
		return nil, err
	}
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	window, err := glfw.CreateWindow(1, 1, "iblbake", nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, err
	}
	window.MakeContextCurrent()

	err = gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			return unsafe.Pointer(libutil.InvalidAddress)
		}
		return addr
	})
	if err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, err
	}
	libgl.Init()
	logger.Infof("using %s (%s)", libgl.Env.Renderer, libgl.Env.Version)

	return func() {
		window.Destroy()
		glfw.Terminate()
	}, nil
}
