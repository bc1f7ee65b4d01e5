package ibl

import (
	"errors"
	"fmt"
	"io"

	"github.com/chewxy/math32"
)

// 4096 texels per chunk
const rgbeChunkTexels = 4096

// EncodeRgbeChunk packs every group of components floats into one shared exponent texel.
// Negative values are clamped to zero and alpha, if present, is ignored. dst must hold 4 bytes per texel. Returns the number of bytes written.
func EncodeRgbeChunk(components int, src []float32, dst []byte) int {
	n := 0
	for i := 0; i+components <= len(src); i += components {
		r, g, b := math32.Max(src[i], 0), math32.Max(src[i+1], 0), math32.Max(src[i+2], 0)
		max := r
		if g > max {
			max = g
		}
		if b > max {
			max = b
		}

		if max < 1e-32 {
			dst[n+0], dst[n+1], dst[n+2], dst[n+3] = 0, 0, 0, 0
		} else {
			frac, exp := math32.Frexp(max)
			f := frac * 256 / max
			dst[n+0] = byte(math32.Min(r*f, 255))
			dst[n+1] = byte(math32.Min(g*f, 255))
			dst[n+2] = byte(math32.Min(b*f, 255))
			dst[n+3] = byte(exp + 128)
		}
		n += 4
	}
	return n
}

// DecodeRgbeChunk expands rgbe texels into components floats each. A fourth component is set to 1.
// Returns the number of floats written.
func DecodeRgbeChunk(components int, src []byte, dst []float32) int {
	n := 0
	for i := 0; i+4 <= len(src); i += 4 {
		e := src[i+3]
		if e == 0 {
			dst[n+0], dst[n+1], dst[n+2] = 0, 0, 0
		} else {
			f := math32.Ldexp(1, int(e)-136)
			dst[n+0] = float32(src[i+0]) * f
			dst[n+1] = float32(src[i+1]) * f
			dst[n+2] = float32(src[i+2]) * f
		}
		if components == 4 {
			dst[n+3] = 1
		}
		n += components
	}
	return n
}

func rgbeComponents(hasAlpha bool) int {
	if hasAlpha {
		return 4
	}
	return 3
}

func EncodeRgbe(w io.Writer, data []float32, hasAlpha bool) error {
	components := rgbeComponents(hasAlpha)
	if len(data)%components != 0 {
		return fmt.Errorf("source not a multiple of %d floats", components)
	}

	rsize := rgbeChunkTexels * components
	buf := make([]byte, rgbeChunkTexels*4)
	for i := 0; i < len(data); i += rsize {
		j := i + rsize
		if j > len(data) {
			j = len(data)
		}
		n := EncodeRgbeChunk(components, data[i:j], buf)
		if _, err := w.Write(buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

// DecodeRgbe reads texels until r is exhausted.
func DecodeRgbe(r io.Reader, hasAlpha bool) ([]float32, error) {
	components := rgbeComponents(hasAlpha)
	rbuf := make([]byte, rgbeChunkTexels*4)
	var result []float32

	for {
		rn, err := io.ReadFull(r, rbuf)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if rn%4 != 0 {
			return nil, fmt.Errorf("source not a multiple of 4 bytes")
		}
		if rn > 0 {
			start := len(result)
			result = append(result, make([]float32, rn/4*components)...)
			DecodeRgbeChunk(components, rbuf[:rn], result[start:])
		}
		if err != nil {
			return result, nil
		}
	}
}
