package libio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/pierrec/lz4/v4"
)

func DecodeFloatImage(r io.Reader) (img *FloatImage, err error) {
	br := NewBinaryReader(r)
	if _, shared := r.(*BinaryReader); !shared {
		defer func() {
			if err != nil {
				err = MergeError(err, br.Err)
			}
		}()
	}

	header := FloatImageHeader{}
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("expected f32 header; byte 0x%08x", br.LastIndex)
	}

	if header.Check != MagicNumberF32 {
		return nil, fmt.Errorf("f32 header is corrupt; byte 0x%08x", br.LastIndex)
	}

	if header.Version != F32Version1_001_000 {
		return nil, fmt.Errorf("f32 version %d unsupported; byte 0x%08x", header.Version, br.LastIndex)
	}

	channels := int(header.Channels)
	count := int(header.Width) * int(header.Height)
	var data []float32

	switch header.Compression {
	case FloatImageCompressionNone:
		data = make([]float32, count*channels)
		if !br.ReadRef(data) {
			return nil, fmt.Errorf("could not read f32 pixels; byte 0x%08x", br.LastIndex)
		}
	case FloatImageCompressionFixedPoint16Lz4:
		buf := make([]byte, channels*(8+count*2))
		if _, err = io.ReadFull(lz4.NewReader(br.Src), buf); err != nil {
			return nil, fmt.Errorf("could not decompress f32 pixels: %w", err)
		}
		data, err = decompressFixedPoint16(channels, count, buf)
		if err != nil {
			return nil, fmt.Errorf("could not decompress f32 pixels: %w", err)
		}
	default:
		return nil, fmt.Errorf("f32 compression %v unsupported", header.Compression)
	}

	return NewFloatImage(data, channels, int(header.Width), int(header.Height)), nil
}

func decompressFixedPoint16(channels, count int, data []byte) ([]float32, error) {
	result := make([]float32, count*channels)
	br := NewBinaryReader(bytes.NewReader(data))
	fix := make([]uint16, count)
	for ch := 0; ch < channels; ch++ {
		var imin, imax uint32
		br.ReadUInt32(&imin)
		br.ReadUInt32(&imax)
		br.ReadRef(fix)
		if br.Err != nil {
			return nil, br.Err
		}

		min := math32.Float32frombits(imin)
		r := math32.Float32frombits(imax) - min
		for i, v := range fix {
			result[i*channels+ch] = float32(v)/0xffff*r + min
		}
	}
	return result, nil
}
