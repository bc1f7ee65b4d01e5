package ibl

import (
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"pbr-ibl/libio"
)

const MagicNumberIBLENV = 0x78b85411

type IblEnvVersion uint32

// Version 1.2 added the mip level count to the header.
const (
	IblEnvVersion1_002_000 = IblEnvVersion(1_002_000)
)

type IblEnvCompression uint32

const (
	IblEnvCompressionNone = IblEnvCompression(iota)
	IblEnvCompressionLZ4Fast
	IblEnvCompressionLZ4
)

func (c IblEnvCompression) String() string {
	switch c {
	case IblEnvCompressionNone:
		return "none"
	case IblEnvCompressionLZ4Fast:
		return "lz4-fast"
	case IblEnvCompressionLZ4:
		return "lz4"
	}
	return fmt.Sprintf("compression(%d)", uint32(c))
}

type IblEnvHeader struct {
	Check       uint32
	Version     IblEnvVersion
	Compression IblEnvCompression
	Size        uint32
	Levels      uint32
}

type EncodeContext struct {
	Compression IblEnvCompression
	Writer      io.Writer
}

type EncodeOption func(ctx *EncodeContext) error

// OptCompress enables lz4 compression. Level 0 is the fast mode, 1 to 9 map to the lz4 levels.
// A negative level disables compression.
func OptCompress(level int) EncodeOption {
	levels := []lz4.CompressionLevel{lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4, lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9}
	if level < 0 {
		return nil
	}
	if level >= len(levels) {
		level = len(levels) - 1
	}

	return func(ctx *EncodeContext) error {
		if ctx.Compression != IblEnvCompressionNone {
			return fmt.Errorf("compression already configured")
		}
		lzw := lz4.NewWriter(ctx.Writer)
		if err := lzw.Apply(lz4.CompressionLevelOption(levels[level])); err != nil {
			return err
		}
		if level == 0 {
			ctx.Compression = IblEnvCompressionLZ4Fast
		} else {
			ctx.Compression = IblEnvCompressionLZ4
		}
		ctx.Writer = lzw
		return nil
	}
}

// EncodeIblEnv writes the header followed by every level as rgbe texels.
func EncodeIblEnv(w io.Writer, env *IblEnv, options ...EncodeOption) (err error) {
	bw := libio.NewBinaryWriter(w)

	ctx := EncodeContext{
		Writer: bw.Dst,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		if err = opt(&ctx); err != nil {
			return err
		}
	}

	header := IblEnvHeader{
		Check:       MagicNumberIBLENV,
		Version:     IblEnvVersion1_002_000,
		Compression: ctx.Compression,
		Size:        uint32(env.BaseSize),
		Levels:      uint32(env.Levels),
	}
	if !bw.WriteRef(&header) {
		return fmt.Errorf("could not write ibl env header: %w", bw.Err)
	}

	if err := EncodeRgbe(ctx.Writer, env.Data(), false); err != nil {
		return fmt.Errorf("could not write ibl env encoded pixels: %w", err)
	}

	if closer, ok := ctx.Writer.(io.WriteCloser); ok && ctx.Compression != IblEnvCompressionNone {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("could not flush ibl env: %w", err)
		}
	}
	return nil
}
