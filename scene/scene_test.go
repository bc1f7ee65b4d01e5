package scene

import (
	"testing"

	"github.com/go-gl/gl/v4.5-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"pbr-ibl/assets"
	"pbr-ibl/ibl"
)

func TestScenesAreNoOpsBeforeInitialise(t *testing.T) {
	cam := &Camera{View: mgl32.Ident4(), Projection: mgl32.Ident4()}
	env := NewEnvironment(assets.FS, ibl.DefaultConfig())
	scenes := map[string]Scene{
		"pbr":         NewPbrScene(assets.FS, ""),
		"environment": NewEnvironmentScene(assets.FS, env),
		"ibl":         NewIBLScene(assets.FS, env, ""),
	}
	for name, s := range scenes {
		t.Run(name, func(t *testing.T) {
			s.Render(1.0/60, cam)
			s.DrawUI(1.0 / 60)
			s.Shutdown()
			s.Shutdown()
		})
	}
}

func TestPbrSceneWireframeOnlyInDebug(t *testing.T) {
	s := NewPbrScene(assets.FS, "")
	s.Wireframe = true
	if s.PolygonMode() != gl.FILL {
		t.Error("wireframe outside of debug mode")
	}
	s.Debug = true
	if s.PolygonMode() != gl.LINE {
		t.Error("wireframe ignored in debug mode")
	}
	s.Wireframe = false
	if s.PolygonMode() != gl.FILL {
		t.Error("wireframe without toggle")
	}
}

func TestSceneDefaults(t *testing.T) {
	pbr := NewPbrScene(assets.FS, "")
	if pbr.Albedo != (mgl32.Vec3{0, 0.15, 0.9}) || pbr.Metallic != 0.1 || pbr.Roughness != 0.8 {
		t.Errorf("pbr defaults %+v", pbr)
	}
	env := NewEnvironment(assets.FS, ibl.DefaultConfig())
	lit := NewIBLScene(assets.FS, env, "")
	if lit.Albedo != (mgl32.Vec3{0.98, 0.96, 0.99}) || lit.Ao != 1 {
		t.Errorf("ibl defaults %+v", lit)
	}
	if env.Pipeline().State() != ibl.Uninitialized {
		t.Error("environment started before initialise")
	}
}

func TestDebugModeString(t *testing.T) {
	for mode, want := range map[DebugMode]string{
		DebugPosition: "Position",
		DebugNormal:   "Normal",
		DebugUvs:      "Uvs",
		DebugMode(7):  "DebugMode(7)",
	} {
		if got := mode.String(); got != want {
			t.Errorf("%d: got %q, want %q", int32(mode), got, want)
		}
	}
}

func TestPbrSceneLightColors(t *testing.T) {
	s := NewPbrScene(assets.FS, "")
	for i, c := range s.LightColors() {
		if c != s.LightColor {
			t.Errorf("light %d should use the shared color, got %v", i, c)
		}
	}

	s.ColoredLights = true
	s.LightColor = mgl32.Vec3{0.5, 0.2, 0.1}
	colors := s.LightColors()
	if len(colors) != 4 {
		t.Fatalf("expected 4 light colors, got %d", len(colors))
	}
	// hues 0, 1/4, 1/2, 3/4 at full saturation, scaled by the brightest channel
	want := []mgl32.Vec3{
		{0.5, 0, 0},
		{0.25, 0.5, 0},
		{0, 0.5, 0.5},
		{0.25, 0, 0.5},
	}
	for i := range want {
		if colors[i].Sub(want[i]).Len() > 1e-5 {
			t.Errorf("light %d should be %v but was %v", i, want[i], colors[i])
		}
	}
}
