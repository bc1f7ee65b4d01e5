package libio

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBinaryReaderStickyError(t *testing.T) {
	br := NewBinaryReader(bytes.NewReader([]byte{1, 0, 0, 0, 2}))
	var a, b uint32
	if !br.ReadUInt32(&a) || a != 1 {
		t.Fatalf("first read should succeed with 1, got %d (%v)", a, br.Err)
	}
	if br.ReadUInt32(&b) {
		t.Fatal("short read should fail")
	}
	if !errors.Is(br.Err, io.ErrUnexpectedEOF) {
		t.Errorf("short read should report unexpected eof, got %v", br.Err)
	}
	if br.ReadBytes(1) {
		t.Error("reads after an error should fail")
	}
	if br.LastIndex != 4 {
		t.Errorf("last index should point at the failed read, was %d", br.LastIndex)
	}
}

func TestMergeError(t *testing.T) {
	cause := errors.New("cause")
	if MergeError(nil, nil) != nil {
		t.Error("no errors should merge to nil")
	}
	if MergeError(nil, cause) != cause {
		t.Error("stream error alone should be returned unchanged")
	}
	merged := MergeError(errors.New("decode"), cause)
	if !errors.Is(merged, cause) || merged.Error() != "decode: cause" {
		t.Errorf("merged error should wrap the cause, got %v", merged)
	}
}
