package source

// BufferSource reads from an in-memory byte slice. It does not copy the slice;
// the caller must not modify it while the source is in use.
type BufferSource struct {
	buf []byte
}

var (
	_ Source = (*BufferSource)(nil)
	_ Slicer = (*BufferSource)(nil)
)

// NewBufferSource wraps buf.
func NewBufferSource(buf []byte) *BufferSource {
	return &BufferSource{buf: buf}
}

func (s *BufferSource) Len() int64 {
	return int64(len(s.buf))
}

func (s *BufferSource) Read(off int64, p []byte) (int, error) {
	n, err := clamp("buffer source", s.Len(), off, len(p))
	if err != nil {
		return 0, err
	}

	return copy(p[:n], s.buf[off:]), nil
}

func (s *BufferSource) ReadAt(p []byte, off int64) (int, error) {
	return readAt(s, p, off)
}

// Slice returns buf[off:off+n] without copying.
func (s *BufferSource) Slice(off, n int64) ([]byte, bool) {
	if off < 0 || n < 0 || off > s.Len() || n > s.Len()-off {
		return nil, false
	}

	return s.buf[off : off+n : off+n], true
}
