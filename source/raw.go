package source

import (
	"unsafe"

	"github.com/arloliu/carve/errs"
)

// RawSource reads directly from caller-owned memory. The memory must stay
// valid and unmodified for as long as the source or any region over it is used.
type RawSource struct {
	ptr    unsafe.Pointer
	length int64
}

var (
	_ Source = (*RawSource)(nil)
	_ Slicer = (*RawSource)(nil)
)

// NewRawSource wraps length bytes starting at ptr.
func NewRawSource(ptr unsafe.Pointer, length int) (*RawSource, error) {
	if length < 0 {
		return nil, errs.Unsupported("raw source", "negative length %d", length)
	}
	if ptr == nil && length > 0 {
		return nil, errs.Unsupported("raw source", "nil pointer with length %d", length)
	}

	return &RawSource{ptr: ptr, length: int64(length)}, nil
}

func (s *RawSource) Len() int64 {
	return s.length
}

func (s *RawSource) Read(off int64, p []byte) (int, error) {
	n, err := clamp("raw source", s.length, off, len(p))
	if err != nil || n == 0 {
		return 0, err
	}

	// bounds checked above, before touching the memory
	src := unsafe.Slice((*byte)(unsafe.Add(s.ptr, off)), n)

	return copy(p, src), nil
}

func (s *RawSource) ReadAt(p []byte, off int64) (int, error) {
	return readAt(s, p, off)
}

// Slice exposes [off, off+n) of the raw memory without copying.
func (s *RawSource) Slice(off, n int64) ([]byte, bool) {
	if off < 0 || n < 0 || off > s.length || n > s.length-off {
		return nil, false
	}
	if n == 0 {
		return []byte{}, true
	}

	return unsafe.Slice((*byte)(unsafe.Add(s.ptr, off)), n), true
}
