// Package source abstracts the random-access byte origins that regions read
// from: in-memory buffers, seekable streams, raw memory and memory-mapped files.
//
// A Source has a fixed logical length. Read clamps the destination to the
// bytes that remain after off and returns the clamped count, so a short read
// is reported through the count rather than an error. Offsets outside
// [0, Len()] fail with errs.ErrOutOfBounds.
//
// # Thread Safety
//
// BufferSource, RawSource and MmapSource hold no cursor and are safe for
// concurrent reads. StreamSource seeks a shared stream and must be used by one
// goroutine at a time.
package source

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/carve/endian"
	"github.com/arloliu/carve/errs"
)

// Source is a random-access byte origin of fixed length.
type Source interface {
	// Len returns the logical length in bytes.
	Len() int64

	// Read copies up to len(p) bytes starting at off into p and returns the
	// number of bytes copied. It never reads past Len().
	Read(off int64, p []byte) (int, error)

	io.ReaderAt
}

// Slicer is implemented by sources that can expose their bytes without
// copying. The returned slice aliases the source and must not be modified.
type Slicer interface {
	Slice(off, n int64) ([]byte, bool)
}

// clamp validates off and returns how many of want bytes are available.
func clamp(what string, length, off int64, want int) (int, error) {
	if off < 0 || off > length {
		return 0, errs.BoundsRange(what, off, int64(want), length)
	}
	if remain := length - off; int64(want) > remain {
		return int(remain), nil
	}

	return want, nil
}

// readAt adapts Read to io.ReaderAt semantics.
func readAt(s Source, p []byte, off int64) (int, error) {
	n, err := s.Read(off, p)
	if err != nil {
		return n, err
	}
	if n < len(p) {
		return n, io.EOF
	}

	return n, nil
}

// ReadFull reads exactly len(p) bytes at off or fails with a TruncatedReadError.
func ReadFull(s Source, off int64, p []byte) error {
	n, err := s.Read(off, p)
	if err != nil {
		return err
	}
	if n < len(p) {
		return errs.Truncated(off, len(p), n)
	}

	return nil
}

// ReadFixed decodes one fixed-size value V at off using engine.
//
// V may be any type accepted by encoding/binary: fixed-width numbers, bools,
// and arrays or structs of them.
func ReadFixed[V any](s Source, off int64, engine endian.EndianEngine) (V, error) {
	var v V
	size := binary.Size(v)
	if size < 0 {
		return v, errs.Unsupported("read fixed", "%T has no fixed size", v)
	}

	var stack [16]byte
	var buf []byte
	if size <= len(stack) {
		buf = stack[:size]
	} else {
		buf = make([]byte, size)
	}

	if err := ReadFull(s, off, buf); err != nil {
		return v, err
	}
	if _, err := binary.Decode(buf, engine, &v); err != nil {
		return v, err
	}

	return v, nil
}
