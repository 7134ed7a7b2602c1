package source

import (
	"errors"
	"io"
	"sync"
	"sync/atomic"

	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/internal/options"
)

// StreamConfig holds StreamSource settings.
type StreamConfig struct {
	owned  bool
	length int64
}

// StreamOption configures a StreamSource.
type StreamOption = options.Option[*StreamConfig]

// WithOwnership makes Close also close the underlying stream, if it is an io.Closer.
func WithOwnership() StreamOption {
	return options.NoError(func(c *StreamConfig) {
		c.owned = true
	})
}

// WithLength fixes the logical length instead of probing the stream's end.
func WithLength(n int64) StreamOption {
	return options.New(func(c *StreamConfig) error {
		if n < 0 {
			return errs.Unsupported("stream source", "negative length %d", n)
		}
		c.length = n

		return nil
	})
}

// StreamSource reads from a seekable stream.
//
// Every Read seeks the shared stream, so a StreamSource is not safe for
// concurrent use. Callers that share one across goroutines must serialize
// access themselves.
type StreamSource struct {
	rs     io.ReadSeeker
	length int64
	owned  bool

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ Source = (*StreamSource)(nil)

// NewStreamSource wraps r, which must implement io.Seeker.
//
// Unless WithLength is given, the length is the stream's total size, probed
// with Seek(0, io.SeekEnd); the stream position is restored afterwards.
func NewStreamSource(r io.Reader, opts ...StreamOption) (*StreamSource, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		return nil, errs.Unsupported("stream source", "%T is not seekable", r)
	}

	cfg := &StreamConfig{length: -1}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if cfg.length < 0 {
		n, err := probeLength(rs)
		if err != nil {
			return nil, err
		}
		cfg.length = n
	}

	return &StreamSource{rs: rs, length: cfg.length, owned: cfg.owned}, nil
}

func probeLength(rs io.Seeker) (int64, error) {
	cur, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, err
	}
	end, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, err
	}
	if _, err := rs.Seek(cur, io.SeekStart); err != nil {
		return 0, err
	}

	return end, nil
}

func (s *StreamSource) Len() int64 {
	return s.length
}

func (s *StreamSource) Read(off int64, p []byte) (int, error) {
	if s.closed.Load() {
		return 0, errs.ErrClosed
	}

	n, err := clamp("stream source", s.length, off, len(p))
	if err != nil || n == 0 {
		return 0, err
	}

	if _, err := s.rs.Seek(off, io.SeekStart); err != nil {
		return 0, err
	}

	got, err := io.ReadFull(s.rs, p[:n])
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		// the stream shrank below the declared length; report the short count
		return got, nil
	}

	return got, err
}

func (s *StreamSource) ReadAt(p []byte, off int64) (int, error) {
	return readAt(s, p, off)
}

// Close releases the source. If the source owns the stream, the stream is
// closed too. Calling Close more than once is a no-op.
func (s *StreamSource) Close() error {
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		if !s.owned {
			return
		}
		if c, ok := s.rs.(io.Closer); ok {
			s.closeErr = c.Close()
		}
	})

	return s.closeErr
}
