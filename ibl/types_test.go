package ibl_test

import (
	"testing"

	"pbr-ibl/ibl"
)

func TestCubeMapPixels(t *testing.T) {
	expected := 6 * (128*128 + 64*64 + 32*32 + 16*16 + 8*8)
	if n := ibl.CubeMapPixels(128, 5); n != expected {
		t.Errorf("expected %d texels but got %d", expected, n)
	}
	if n := ibl.CubeMapPixels(2, 3); n != 6*(4+1+1) {
		t.Errorf("levels below one texel should clamp to one, got %d", n)
	}
}

func TestIblEnvLayout(t *testing.T) {
	env := ibl.NewIblEnv(nil, 4, 2)
	if len(env.Data()) != ibl.CubeMapPixels(4, 2)*3 {
		t.Fatalf("unexpected data length %d", len(env.Data()))
	}
	if env.Size(0) != 4 || env.Size(1) != 2 {
		t.Errorf("unexpected level sizes %d, %d", env.Size(0), env.Size(1))
	}

	env.Face(1, ibl.CubeMapNegativeZ)[0] = 42
	level := env.Level(1)
	if len(level) != 6*2*2*3 {
		t.Fatalf("level 1 should hold %d values, got %d", 6*2*2*3, len(level))
	}
	if level[5*2*2*3] != 42 {
		t.Errorf("face -Z of level 1 should start at value %d", 5*2*2*3)
	}
	if env.Data()[6*4*4*3+5*2*2*3] != 42 {
		t.Errorf("level 1 should follow level 0")
	}
}

func TestIblEnvWrongLength(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("wrong data length should panic")
		}
	}()
	ibl.NewIblEnv(make([]float32, 5), 4, 1)
}

func TestCubeMapFaceString(t *testing.T) {
	if ibl.CubeMapNegativeY.String() != "-Y" {
		t.Errorf("unexpected name %q", ibl.CubeMapNegativeY.String())
	}
}
