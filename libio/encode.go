package libio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/pierrec/lz4/v4"
)

func EncodeFloatImage(w io.Writer, img *FloatImage, compression FloatImageCompression) (err error) {
	if err = img.Validate(); err != nil {
		return fmt.Errorf("could not encode f32 image: %w", err)
	}

	bw := NewBinaryWriter(w)

	header := FloatImageHeader{
		Check:       MagicNumberF32,
		Version:     F32Version1_001_000,
		Width:       uint32(img.Width),
		Height:      uint32(img.Height),
		Channels:    uint8(img.Channels),
		Compression: compression,
	}

	if !bw.WriteRef(header) {
		return fmt.Errorf("could not write f32 header: %w", bw.Err)
	}

	switch compression {
	case FloatImageCompressionNone:
		if !bw.WriteRef(img.Pix) {
			return fmt.Errorf("could not write f32 pixels: %w", bw.Err)
		}
		return nil
	case FloatImageCompressionFixedPoint16Lz4:
		data := compressFixedPoint16(img.Channels, img.Count(), img.Pix)
		buf := &bytes.Buffer{}
		lzw := lz4.NewWriter(buf)
		if err = lzw.Apply(lz4.CompressionLevelOption(lz4.Fast)); err != nil {
			return fmt.Errorf("could not configure lz4: %w", err)
		}
		if _, err = lzw.Write(data); err != nil {
			return fmt.Errorf("could not compress f32 pixels: %w", err)
		}
		if err = lzw.Close(); err != nil {
			return fmt.Errorf("could not compress f32 pixels: %w", err)
		}
		if !bw.WriteBytes(buf.Bytes()) {
			return fmt.Errorf("could not write f32 encoded pixels: %w", bw.Err)
		}
		return nil
	}
	return fmt.Errorf("unsupported f32 compression %v", compression)
}

// compressFixedPoint16 stores each channel as its float range followed by values quantized to 16 bits.
func compressFixedPoint16(channels int, count int, pix []float32) []byte {
	buf := bytes.NewBuffer(make([]byte, 0, channels*(8+count*2)))
	bw := NewBinaryWriter(buf)
	for ch := 0; ch < channels; ch++ {
		var min, max float32 = math32.Inf(1), math32.Inf(-1)
		for i := 0; i < count; i++ {
			v := pix[i*channels+ch]
			min = math32.Min(min, v)
			max = math32.Max(max, v)
		}
		bw.WriteUInt32(math32.Float32bits(min))
		bw.WriteUInt32(math32.Float32bits(max))

		fix := make([]uint16, count)
		r := max - min
		if r > 0 {
			for i := range fix {
				fix[i] = uint16(math32.Round((pix[i*channels+ch] - min) / r * 0xffff))
			}
		}
		bw.WriteRef(fix)
	}
	return buf.Bytes()
}
