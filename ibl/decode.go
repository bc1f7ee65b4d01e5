package ibl

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"pbr-ibl/libio"
)

func DecodeIblEnv(r io.Reader) (env *IblEnv, err error) {
	br := libio.NewBinaryReader(r)
	if _, shared := r.(*libio.BinaryReader); !shared {
		defer func() {
			if err != nil {
				err = libio.MergeError(err, br.Err)
			}
		}()
	}

	header := IblEnvHeader{}
	if !br.ReadRef(&header) {
		return nil, fmt.Errorf("expected environment header; byte 0x%08x", br.LastIndex)
	}
	if header.Check != MagicNumberIBLENV {
		return nil, fmt.Errorf("environment header is corrupt; byte 0x%08x", br.LastIndex)
	}
	if header.Version != IblEnvVersion1_002_000 {
		return nil, fmt.Errorf("environment version %d unsupported; byte 0x%08x", header.Version, br.LastIndex)
	}
	if header.Size == 0 || header.Levels == 0 || header.Size>>(header.Levels-1) == 0 {
		return nil, fmt.Errorf("environment of size %d cannot hold %d levels", header.Size, header.Levels)
	}

	var pixr io.Reader = br.Src
	switch header.Compression {
	case IblEnvCompressionNone:
	case IblEnvCompressionLZ4, IblEnvCompressionLZ4Fast:
		pixr = lz4.NewReader(br.Src)
	default:
		return nil, fmt.Errorf("environment compression %v unsupported; byte 0x%08x", header.Compression, br.LastIndex)
	}

	texels := CubeMapPixels(int(header.Size), int(header.Levels))
	data := make([]byte, texels*4)
	if _, err = io.ReadFull(pixr, data); err != nil {
		return nil, fmt.Errorf("expected %d encoded pixels: %w", texels, err)
	}

	colors, err := DecodeRgbe(bytes.NewReader(data), false)
	if err != nil {
		return nil, fmt.Errorf("decoding error: %w", err)
	}
	return NewIblEnv(colors, int(header.Size), int(header.Levels)), nil
}
