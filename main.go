package main

import (
	"flag"
	"fmt"
	"runtime"
	"unsafe"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	im "github.com/inkyblackness/imgui-go/v4"

	"pbr-ibl/assets"
	"pbr-ibl/ibl"
	"pbr-ibl/libgl"
	"pbr-ibl/libutil"
	"pbr-ibl/log"
	"pbr-ibl/scene"
)

var logger = log.New("viewer")

var Arguments struct {
	AssetsDir                  string
	ImagePath                  string
	ModelPath                  string
	Width, Height              int
	Debug                      bool
	EnableCompatibilityProfile bool
}

var sceneNames = []string{"PBR", "Environment", "IBL"}

func main() {
	cfg := ibl.DefaultConfig()
	Arguments.ImagePath = cfg.ImagePath
	Arguments.Width, Arguments.Height = 712, 712

	flag.StringVar(&Arguments.AssetsDir, "assets", Arguments.AssetsDir, "read shaders from this directory instead of the embedded copies")
	flag.StringVar(&Arguments.ImagePath, "image", Arguments.ImagePath, "equirectangular .hdr or .f32 environment")
	flag.StringVar(&Arguments.ModelPath, "model", Arguments.ModelPath, "gltf model shown instead of the sphere")
	flag.IntVar(&Arguments.Width, "width", Arguments.Width, "window width")
	flag.IntVar(&Arguments.Height, "height", Arguments.Height, "window height")
	flag.BoolVar(&Arguments.Debug, "debug", Arguments.Debug, "debug logging and gl error checks")
	flag.BoolVar(&Arguments.EnableCompatibilityProfile, "enable-compatibility-profile", Arguments.EnableCompatibilityProfile, "")
	flag.Parse()

	if Arguments.Debug {
		log.SetLevel(log.Debug)
	}
	cfg.ImagePath = Arguments.ImagePath

	runtime.LockOSThread()
	err := glfw.Init()
	check(err)
	defer glfw.Terminate()

	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 5)
	if Arguments.Debug {
		glfw.WindowHint(glfw.OpenGLDebugContext, glfw.True)
	}
	if Arguments.EnableCompatibilityProfile {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCompatProfile)
	} else {
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	}
	window, err := glfw.CreateWindow(Arguments.Width, Arguments.Height, "PBR", nil, nil)
	check(err)
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	err = gl.InitWithProcAddrFunc(func(name string) unsafe.Pointer {
		addr := glfw.GetProcAddress(name)
		if addr == nil {
			return unsafe.Pointer(libutil.InvalidAddress)
		}
		return addr
	})
	check(err)

	libgl.Init()
	if Arguments.Debug {
		libgl.Debug = true
		libgl.EnableDebugOutput()
	}
	logger.Infof("%s %s (%s)", libgl.Env.Vendor, libgl.Env.Renderer, libgl.Env.Version)

	input := NewInputManager(window)
	shaders := assets.Open(Arguments.AssetsDir)

	imguiShader, err := ibl.LoadProgram(shaders, "imgui", "shaders/imgui.vert", "shaders/imgui.frag", nil)
	check(err)
	gui := NewImGui(window, imguiShader)
	defer gui.Delete()
	gui.ScrollCallback = input.OnScroll

	matrices := scene.NewMatrices()
	defer matrices.Delete()

	env := scene.NewEnvironment(shaders, cfg)
	defer env.Release()

	scenes := []scene.Scene{
		scene.NewPbrScene(shaders, Arguments.ModelPath),
		scene.NewEnvironmentScene(shaders, env),
		scene.NewIBLScene(shaders, env, Arguments.ModelPath),
	}
	for i, s := range scenes {
		// a scene that fails to initialise stays empty
		if err := s.Initialise(); err != nil {
			logger.Errorf("%s scene: %v", sceneNames[i], err)
		}
		defer s.Shutdown()
	}

	cam := NewOrbitCamera(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{}, 60)

	libgl.State.Enable(libgl.SeamlessCubeMap)
	libgl.State.Enable(libgl.DepthTest)
	libgl.State.DepthFunc(libgl.DepthFuncLEqual)
	libgl.State.ClearColor(0.1, 0.1, 0.1, 1)

	sceneIndex := 0
	for !window.ShouldClose() {
		glfw.PollEvents()
		input.Update(window)
		dt := float64(input.TimeDelta())

		if !gui.IO.WantCaptureKeyboard() && input.IsKeyTap(glfw.KeyF) {
			sceneIndex = (sceneIndex + 1) % len(scenes)
			logger.Infof("switched to the %s scene", sceneNames[sceneIndex])
		}
		if scroll := input.ScrollDelta(); scroll.LenSqr() != 0 {
			cam.Rotate(scroll.X(), scroll.Y())
		}
		if !gui.IO.WantCaptureMouse() && input.IsMouseDown(glfw.MouseButtonRight) {
			drag := input.CursorDelta().Mul(0.5)
			cam.Rotate(drag.X(), -drag.Y())
		}

		fbWidth, fbHeight := window.GetFramebufferSize()
		if fbWidth == 0 || fbHeight == 0 {
			// minimized
			window.SwapBuffers()
			continue
		}
		libgl.State.Viewport(0, 0, fbWidth, fbHeight)
		cam.SetViewport(fbWidth, fbHeight)
		cam.Update()
		view := cam.Camera()
		matrices.Update(view)

		libgl.State.DepthMask(true)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		current := scenes[sceneIndex]
		current.Render(dt, view)

		gui.NewFrame()
		drawOverlay(dt, sceneNames[sceneIndex])
		current.DrawUI(dt)
		gui.Draw()

		window.SwapBuffers()
	}
}

func drawOverlay(dt float64, name string) {
	im.SetNextWindowPos(im.Vec2{})
	im.SetNextWindowBgAlpha(0.35)
	im.BeginV("General", nil, im.WindowFlagsNoDecoration|im.WindowFlagsAlwaysAutoResize|im.WindowFlagsNoSavedSettings|im.WindowFlagsNoFocusOnAppearing|im.WindowFlagsNoNav)
	im.Text(fmt.Sprintf("Scene: %s (F to switch)", name))
	im.Separator()
	im.Text(fmt.Sprintf("Frame time: %.2f(ms)", dt*1000))
	if libgl.Debug {
		im.Text(fmt.Sprintf("GL errors: %d", libgl.ErrorCount()))
	}
	im.End()
}

func check(err error) {
	if err != nil {
		logger.Panicf("%v", err)
	}
}
