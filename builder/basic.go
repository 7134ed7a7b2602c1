package builder

import (
	"io"

	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/internal/pool"
	"github.com/arloliu/carve/region"
)

// RawBuilder writes a fixed byte slice.
type RawBuilder struct {
	data []byte
}

// NewRaw returns a builder writing data. data is not copied.
func NewRaw(data []byte) *RawBuilder {
	return &RawBuilder{data: data}
}

func (b *RawBuilder) Size() int64 { return int64(len(b.data)) }

func (b *RawBuilder) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.data)
	return int64(n), err
}

// Bytes returns the wrapped slice.
func (b *RawBuilder) Bytes() []byte { return b.data }

var zeros [4096]byte

// ZeroBuilder writes n zero bytes.
type ZeroBuilder struct {
	n int64
}

// NewZero returns a builder writing n zero bytes.
func NewZero(n int64) (*ZeroBuilder, error) {
	if n < 0 {
		return nil, errs.Invalid("zero builder", "negative size %d", n)
	}

	return &ZeroBuilder{n: n}, nil
}

func (b *ZeroBuilder) Size() int64 { return b.n }

func (b *ZeroBuilder) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for written < b.n {
		chunk := zeros[:]
		if remain := b.n - written; remain < int64(len(chunk)) {
			chunk = chunk[:remain]
		}
		n, err := w.Write(chunk)
		written += int64(n)
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// RegionBuilder copies the contents of a region.
type RegionBuilder struct {
	r region.Region
}

// NewRegion returns a builder copying r.
func NewRegion(r region.Region) *RegionBuilder {
	return &RegionBuilder{r: r}
}

func (b *RegionBuilder) Size() int64 { return b.r.Len() }

func (b *RegionBuilder) WriteTo(w io.Writer) (int64, error) {
	return b.r.WriteTo(w)
}

// StreamBuilder copies a declared number of bytes from a reader. It can be
// written only once.
type StreamBuilder struct {
	r        io.Reader
	n        int64
	consumed bool
}

// NewStream returns a builder copying exactly n bytes from r.
func NewStream(r io.Reader, n int64) (*StreamBuilder, error) {
	if n < 0 {
		return nil, errs.Invalid("stream builder", "negative size %d", n)
	}

	return &StreamBuilder{r: r, n: n}, nil
}

func (b *StreamBuilder) Size() int64 { return b.n }

func (b *StreamBuilder) WriteTo(w io.Writer) (int64, error) {
	if b.consumed {
		return 0, errs.Unsupported("stream builder", "stream already consumed")
	}
	b.consumed = true

	chunk, release := pool.GetChunk()
	defer release()

	n, err := io.CopyBuffer(w, io.LimitReader(b.r, b.n), chunk)
	if err != nil {
		return n, err
	}
	if n < b.n {
		return n, errs.Truncated(0, int(b.n), int(n))
	}

	return n, nil
}

// ConcatBuilder writes its children back to back.
type ConcatBuilder struct {
	parts []Builder
}

// Concat returns a builder writing parts in order. Nil parts are skipped.
func Concat(parts ...Builder) *ConcatBuilder {
	return &ConcatBuilder{parts: parts}
}

// Append adds parts to the end.
func (b *ConcatBuilder) Append(parts ...Builder) {
	b.parts = append(b.parts, parts...)
}

func (b *ConcatBuilder) Len() int { return len(b.parts) }

func (b *ConcatBuilder) Size() int64 {
	var total int64
	for _, p := range b.parts {
		total += sizeOf(p)
	}

	return total
}

func (b *ConcatBuilder) WriteTo(w io.Writer) (int64, error) {
	return writeChildren(w, b.parts...)
}
