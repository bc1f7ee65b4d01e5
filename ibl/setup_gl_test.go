//go:build gl

package ibl_test

import (
	"os"
	"runtime"
	"testing"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"pbr-ibl/libgl"
	"pbr-ibl/libutil"
)

var onMain chan func()
var onMainDone chan struct{}

// runOnMain executes fn on the thread that owns the hidden test context.
func runOnMain(fn func()) {
	onMain <- fn
	<-onMainDone
}

func TestMain(m *testing.M) {
	runtime.LockOSThread()

	check(glfw.Init())
	glfw.WindowHint(glfw.Visible, glfw.False)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	ctx, err := glfw.CreateWindow(640, 480, "Testing Window", nil, nil)
	check(err)
	ctx.MakeContextCurrent()

	check(gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			return unsafe.Pointer(libutil.InvalidAddress)
		}
		return addr
	}))

	libgl.Init()
	libgl.Debug = true
	libgl.EnableDebugOutput()
	libgl.State.Viewport(0, 0, 640, 480)

	onMain = make(chan func())
	onMainDone = make(chan struct{})

	go func() {
		code := m.Run()
		close(onMain)
		os.Exit(code)
	}()

	for fn := range onMain {
		fn()
		onMainDone <- struct{}{}
	}
}

func check(err error) {
	if err != nil {
		panic(err)
	}
}
