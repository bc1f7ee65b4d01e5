package main

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chewxy/math32"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"

	"pbr-ibl/ibl"
	"pbr-ibl/libio"
)

type fileInfo struct {
	Path        string
	Kind        string
	Width       int
	Height      int
	Levels      int
	Channels    int
	Compression string
	Bytes       int
	// filled when decoded
	Min, Max float32
	Decoded  bool
}

// InspectFiles is the action of the inspect command.
func InspectFiles(ctx *cli.Context) error {
	setupLogging(ctx)

	if ctx.NArg() == 0 {
		return errors.New("missing input files")
	}
	paths, err := gatherInputFiles(ctx.Args())
	if err != nil {
		return err
	}

	infos := []fileInfo{}
	failed := 0
	for _, p := range paths {
		info, err := inspectFile(p, ctx.Bool("decode"))
		if err != nil {
			logger.Errorf("%s: %v", p, err)
			failed++
			continue
		}
		infos = append(infos, info)
	}

	fmt.Print(renderTable(infos))
	if failed > 0 {
		return fmt.Errorf("%d files could not be read", failed)
	}
	return nil
}

func inspectFile(path string, decode bool) (fileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return fileInfo{}, err
	}
	return inspectBytes(path, data, decode)
}

func inspectBytes(path string, data []byte, decode bool) (fileInfo, error) {
	info := fileInfo{Path: path, Bytes: len(data)}
	if len(data) < 4 {
		return info, io.ErrUnexpectedEOF
	}

	br := libio.NewBinaryReader(bytes.NewReader(data))
	switch binary.LittleEndian.Uint32(data) {
	case ibl.MagicNumberIBLENV:
		header := ibl.IblEnvHeader{}
		if !br.ReadRef(&header) {
			return info, fmt.Errorf("truncated header: %w", br.Err)
		}
		info.Kind = "iblenv"
		info.Width, info.Height = int(header.Size), int(header.Size)
		info.Levels = int(header.Levels)
		info.Channels = 3
		info.Compression = header.Compression.String()
		if decode {
			env, err := ibl.DecodeIblEnv(bytes.NewReader(data))
			if err != nil {
				return info, err
			}
			info.Min, info.Max = pixelRange(env.Data())
			info.Decoded = true
		}
	case libio.MagicNumberF32:
		header := libio.FloatImageHeader{}
		if !br.ReadRef(&header) {
			return info, fmt.Errorf("truncated header: %w", br.Err)
		}
		info.Kind = "f32"
		info.Width, info.Height = int(header.Width), int(header.Height)
		info.Levels = 1
		info.Channels = int(header.Channels)
		info.Compression = header.Compression.String()
		if decode {
			img, err := libio.DecodeFloatImage(bytes.NewReader(data))
			if err != nil {
				return info, err
			}
			info.Min, info.Max = pixelRange(img.Pix)
			info.Decoded = true
		}
	default:
		return info, errors.New("not an iblenv or f32 file")
	}
	return info, nil
}

func pixelRange(pix []float32) (lo, hi float32) {
	if len(pix) == 0 {
		return 0, 0
	}
	lo, hi = math32.Inf(1), math32.Inf(-1)
	for _, v := range pix {
		lo = math32.Min(lo, v)
		hi = math32.Max(hi, v)
	}
	return lo, hi
}

func renderTable(infos []fileInfo) string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"File", "Kind", "Size", "Levels", "Channels", "Compression", "Bytes", "Range"})
	total := 0
	for _, info := range infos {
		rng := "-"
		if info.Decoded {
			rng = fmt.Sprintf("%.4g .. %.4g", info.Min, info.Max)
		}
		table.Append([]string{
			info.Path,
			info.Kind,
			fmt.Sprintf("%dx%d", info.Width, info.Height),
			strconv.Itoa(info.Levels),
			strconv.Itoa(info.Channels),
			info.Compression,
			strconv.Itoa(info.Bytes),
			rng,
		})
		total += info.Bytes
	}
	table.SetFooter([]string{"Total", " ", " ", " ", " ", " ", strconv.Itoa(total), " "})
	table.Render()
	return buf.String()
}
