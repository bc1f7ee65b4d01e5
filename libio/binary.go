package libio

import (
	"encoding/binary"
	"fmt"
	"io"
)

// BinaryReader keeps the first error and turns every later read into a no-op,
// so a decoder can check for failure once after a run of reads.
type BinaryReader struct {
	Order     binary.ByteOrder
	Src       io.Reader
	Index     int
	LastIndex int
	Err       error
	buf       []byte
}

func NewBinaryReader(r io.Reader) *BinaryReader {
	if br, ok := r.(*BinaryReader); ok {
		return br
	}
	return &BinaryReader{Src: r, Order: binary.LittleEndian}
}

func (br *BinaryReader) ReadBytes(n int) (ok bool) {
	if br.Err != nil {
		return false
	}

	if cap(br.buf) < n {
		br.buf = make([]byte, n)
	} else {
		br.buf = br.buf[:n]
	}

	nread, err := io.ReadFull(br.Src, br.buf)
	br.LastIndex = br.Index
	br.Index += nread
	br.Err = err
	return err == nil
}

func (br *BinaryReader) Read(p []byte) (n int, err error) {
	n, err = br.Src.Read(p)
	br.LastIndex = br.Index
	br.Index += n
	return
}

func (br *BinaryReader) ReadUInt32(i *uint32) (ok bool) {
	if !br.ReadBytes(4) {
		return false
	}
	*i = br.Order.Uint32(br.buf)
	return true
}

func (br *BinaryReader) ReadRef(data any) (ok bool) {
	if br.Err != nil {
		return false
	}
	err := binary.Read(br.Src, br.Order, data)
	br.Err = err
	br.LastIndex = br.Index
	if err == nil {
		br.Index += binary.Size(data)
	}
	return err == nil
}

type BinaryWriter struct {
	Order binary.ByteOrder
	Dst   io.Writer
	Err   error
}

func NewBinaryWriter(w io.Writer) *BinaryWriter {
	if bw, ok := w.(*BinaryWriter); ok {
		return bw
	}
	return &BinaryWriter{Dst: w, Order: binary.LittleEndian}
}

func (bw *BinaryWriter) WriteBytes(p []byte) (ok bool) {
	if bw.Err != nil {
		return false
	}
	_, bw.Err = bw.Dst.Write(p)
	return bw.Err == nil
}

func (bw *BinaryWriter) Write(p []byte) (n int, err error) {
	return bw.Dst.Write(p)
}

func (bw *BinaryWriter) WriteUInt32(i uint32) (ok bool) {
	var buf [4]byte
	bw.Order.PutUint32(buf[:], i)
	return bw.WriteBytes(buf[:])
}

func (bw *BinaryWriter) WriteRef(data any) (ok bool) {
	if bw.Err != nil {
		return false
	}
	bw.Err = binary.Write(bw.Dst, bw.Order, data)
	return bw.Err == nil
}

// MergeError folds a sticky stream error into err. Used in deferred cleanups of encoders and decoders.
func MergeError(err, streamErr error) error {
	if streamErr == nil {
		return err
	}
	if err == nil {
		return streamErr
	}
	return fmt.Errorf("%v: %w", err, streamErr)
}
