package ibl

import (
	"errors"

	"pbr-ibl/libgl"
)

var (
	// ErrAsset marks missing or corrupt input files: shader sources and environment images.
	ErrAsset = errors.New("asset error")
	// ErrGpuObject marks shader compile or link failures and incomplete framebuffers.
	ErrGpuObject = libgl.ErrGpuObject
	// ErrIncompleteFramebuffer is also an ErrGpuObject.
	ErrIncompleteFramebuffer = libgl.ErrIncompleteFramebuffer
)

func IsGpuObjectError(err error) bool {
	return errors.Is(err, ErrGpuObject)
}
