package source

import (
	"fmt"
	"math"
	"os"
	"sync"
	"sync/atomic"

	"github.com/arloliu/carve/errs"
)

// MmapSource reads from a read-only memory-mapped file.
//
// Reads are safe for concurrent use. Close unmaps the file; it must not race
// with reads, and regions obtained through Slice must not be used after it.
type MmapSource struct {
	data []byte
	size int64
	name string

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var (
	_ Source = (*MmapSource)(nil)
	_ Slicer = (*MmapSource)(nil)
)

// OpenMmap maps the file at path into memory.
func OpenMmap(path string) (*MmapSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	// the mapping stays valid after the descriptor is closed
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := st.Size()
	if size > math.MaxInt {
		return nil, errs.Unsupported("mmap source", "%s is too large to map (%d bytes)", path, size)
	}

	s := &MmapSource{name: path}
	if size == 0 {
		return s, nil
	}

	data, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	s.data = data
	s.size = size

	return s, nil
}

// Name returns the path the source was opened from.
func (s *MmapSource) Name() string {
	return s.name
}

// Len returns the mapped length. It does not change after Close.
func (s *MmapSource) Len() int64 {
	return s.size
}

func (s *MmapSource) Read(off int64, p []byte) (int, error) {
	if s.closed.Load() {
		return 0, errs.ErrClosed
	}

	n, err := clamp("mmap source", s.Len(), off, len(p))
	if err != nil {
		return 0, err
	}

	return copy(p[:n], s.data[off:]), nil
}

func (s *MmapSource) ReadAt(p []byte, off int64) (int, error) {
	return readAt(s, p, off)
}

func (s *MmapSource) Slice(off, n int64) ([]byte, bool) {
	if s.closed.Load() || off < 0 || n < 0 || off > s.Len() || n > s.Len()-off {
		return nil, false
	}

	return s.data[off : off+n : off+n], true
}

// Close unmaps the file. Calling Close more than once is a no-op.
func (s *MmapSource) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if s.data != nil {
			s.closeErr = unmapFile(s.data)
			s.data = nil
		}
	})

	return s.closeErr
}
