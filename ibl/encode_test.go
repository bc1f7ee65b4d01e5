package ibl_test

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/chewxy/math32"

	"pbr-ibl/ibl"
)

func randomFloats(count int, min, max float32) []float32 {
	rng := rand.New(rand.NewSource(0))
	ret := make([]float32, count)
	for i := range ret {
		ret[i] = rng.Float32()*(max-min) + min
	}
	return ret
}

// Shared exponent storage keeps 8 bits relative to the largest channel of a texel.
func checkRgbeClose(t *testing.T, expected, actual []float32) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Fatalf("expected %d values but got %d", len(expected), len(actual))
	}
	for i := 0; i+3 <= len(expected); i += 3 {
		max := math32.Max(expected[i], math32.Max(expected[i+1], expected[i+2]))
		for c := 0; c < 3; c++ {
			if diff := math32.Abs(expected[i+c] - actual[i+c]); diff > max/128+1e-6 {
				t.Fatalf("value %d should be %v but was %v", i+c, expected[i+c], actual[i+c])
			}
		}
	}
}

func TestRgbeRoundTrip(t *testing.T) {
	data := randomFloats(3*10000, 0, 100)
	data[0], data[1], data[2] = 0, 0, 0

	buf := &bytes.Buffer{}
	if err := ibl.EncodeRgbe(buf, data, false); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != len(data)/3*4 {
		t.Errorf("expected %d bytes but got %d", len(data)/3*4, buf.Len())
	}

	decoded, err := ibl.DecodeRgbe(buf, false)
	if err != nil {
		t.Fatal(err)
	}
	checkRgbeClose(t, data, decoded)
	if decoded[0] != 0 || decoded[1] != 0 || decoded[2] != 0 {
		t.Errorf("black should stay black")
	}
}

func TestRgbeChunkAlpha(t *testing.T) {
	data := []float32{1, 0.5, 0.25, 0.7, 2, 2, 2, 1}
	buf := make([]byte, 8)
	if n := ibl.EncodeRgbeChunk(4, data, buf); n != 8 {
		t.Fatalf("expected 8 bytes but wrote %d", n)
	}
	out := make([]float32, 8)
	if n := ibl.DecodeRgbeChunk(4, buf, out); n != 8 {
		t.Fatalf("expected 8 floats but wrote %d", n)
	}
	for _, i := range []int{0, 1, 2, 4, 5, 6} {
		if out[i] != data[i] {
			t.Errorf("value %d should be exact for powers of two, %v != %v", i, out[i], data[i])
		}
	}
	if out[3] != 1 || out[7] != 1 {
		t.Errorf("alpha should decode as 1")
	}
}

func TestRgbeNegativeClamped(t *testing.T) {
	buf := make([]byte, 4)
	ibl.EncodeRgbeChunk(3, []float32{-1, 1, 0}, buf)
	out := make([]float32, 3)
	ibl.DecodeRgbeChunk(3, buf, out)
	if out[0] != 0 || out[1] != 1 {
		t.Errorf("expected (0, 1, 0) but got %v", out)
	}
}

func TestIblEnvRoundTrip(t *testing.T) {
	size, levels := 8, 3
	env := ibl.NewIblEnv(randomFloats(ibl.CubeMapPixels(size, levels)*3, 0, 10), size, levels)

	options := map[string]ibl.EncodeOption{
		"none": nil,
		"fast": ibl.OptCompress(0),
		"lz4":  ibl.OptCompress(9),
	}
	for name, opt := range options {
		buf := &bytes.Buffer{}
		if err := ibl.EncodeIblEnv(buf, env, opt); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		decoded, err := ibl.DecodeIblEnv(buf)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if decoded.BaseSize != size || decoded.Levels != levels {
			t.Errorf("%s: decoded %d with %d levels", name, decoded.BaseSize, decoded.Levels)
		}
		checkRgbeClose(t, env.Data(), decoded.Data())
	}
}

func TestDecodeIblEnvCorrupt(t *testing.T) {
	if _, err := ibl.DecodeIblEnv(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Errorf("short header should fail")
	}
	if _, err := ibl.DecodeIblEnv(bytes.NewReader(make([]byte, 64))); err == nil {
		t.Errorf("bad magic number should fail")
	}

	env := ibl.NewIblEnv(nil, 4, 1)
	buf := &bytes.Buffer{}
	if err := ibl.EncodeIblEnv(buf, env); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()-10]
	if _, err := ibl.DecodeIblEnv(bytes.NewReader(truncated)); err == nil {
		t.Errorf("truncated pixels should fail")
	}
}

func TestOptCompressTwice(t *testing.T) {
	env := ibl.NewIblEnv(nil, 2, 1)
	err := ibl.EncodeIblEnv(&bytes.Buffer{}, env, ibl.OptCompress(1), ibl.OptCompress(2))
	if err == nil {
		t.Errorf("configuring compression twice should fail")
	}
}
