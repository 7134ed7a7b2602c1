// Package region carves byte sources into non-owning views.
//
// A Region is a (source, start, length) triple. It never copies and never
// mutates: every sub-region operation returns a new value. Regions are not
// checked against the source length when created; reads are bounded by the
// source instead.
//
// An Offset is a (start, length) pair relative to some region, with
// format.ToEnd as the length meaning "through the end of the enclosing region".
//
//	body, err := region.At(hdrSize, format.ToEnd).Apply(whole)
package region

import (
	"fmt"
	"io"

	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/internal/hash"
	"github.com/arloliu/carve/internal/pool"
	"github.com/arloliu/carve/source"
)

// Region is a view of length bytes of src starting at start.
type Region struct {
	src    source.Source
	start  int64
	length int64
}

// New creates a region. start and length must not be negative.
func New(src source.Source, start, length int64) (Region, error) {
	if src == nil {
		return Region{}, errs.Invalid("region", "nil source")
	}
	if start < 0 || length < 0 {
		return Region{}, errs.Invalid("region", "negative start %d or length %d", start, length)
	}

	return Region{src: src, start: start, length: length}, nil
}

// Whole returns a region covering all of src.
func Whole(src source.Source) Region {
	return Region{src: src, length: src.Len()}
}

// FromBytes returns a region over an in-memory buffer.
func FromBytes(b []byte) Region {
	return Whole(source.NewBufferSource(b))
}

func (r Region) Source() source.Source { return r.src }

func (r Region) Start() int64 { return r.start }

func (r Region) Len() int64 { return r.length }

// End returns the source offset one past the last byte.
func (r Region) End() int64 { return r.start + r.length }

// IsValid reports whether the region has a source and non-negative extent.
func (r Region) IsValid() bool {
	return r.src != nil && r.start >= 0 && r.length >= 0
}

// Read fills p from the start of the region and returns the number of bytes
// the source delivered. Asking for more than Len() bytes fails with a
// BoundsError.
func (r Region) Read(p []byte) (int, error) {
	if !r.IsValid() {
		return 0, errs.Invalid("region", "read from invalid region %s", r)
	}
	if int64(len(p)) > r.length {
		return 0, errs.BoundsRange("region read", 0, int64(len(p)), r.length)
	}

	return r.src.Read(r.start, p)
}

// ReadFull reads exactly len(p) bytes from the start of the region.
func (r Region) ReadFull(p []byte) error {
	n, err := r.Read(p)
	if err != nil {
		return err
	}
	if n < len(p) {
		return errs.Truncated(r.start, len(p), n)
	}

	return nil
}

// ReadAt implements io.ReaderAt relative to the region start.
func (r Region) ReadAt(p []byte, off int64) (int, error) {
	if !r.IsValid() {
		return 0, errs.Invalid("region", "read from invalid region %s", r)
	}
	if off < 0 || off > r.length {
		return 0, errs.Bounds("region offset", off, r.length+1)
	}

	want := p
	if remain := r.length - off; int64(len(p)) > remain {
		want = p[:remain]
	}
	n, err := r.src.Read(r.start+off, want)
	if err == nil && n < len(p) {
		err = io.EOF
	}

	return n, err
}

// Bytes returns the region contents. When the source implements
// source.Slicer the result aliases the source and must not be modified.
func (r Region) Bytes() ([]byte, error) {
	if !r.IsValid() {
		return nil, errs.Invalid("region", "read from invalid region %s", r)
	}
	if s, ok := r.src.(source.Slicer); ok {
		if b, ok := s.Slice(r.start, r.length); ok {
			return b, nil
		}
	}

	b := make([]byte, r.length)
	if err := r.ReadFull(b); err != nil {
		return nil, err
	}

	return b, nil
}

// Sub returns the sub-region [start, start+length) of r.
// length may be format.ToEnd.
func (r Region) Sub(start, length int64) (Region, error) {
	return Offset{Start: start, Length: length}.Apply(r)
}

// Reader returns a reader over the region.
func (r Region) Reader() *io.SectionReader {
	return io.NewSectionReader(r.src, r.start, r.length)
}

// WriteTo streams the region contents to w through a pooled chunk.
func (r Region) WriteTo(w io.Writer) (int64, error) {
	if !r.IsValid() {
		return 0, errs.Invalid("region", "read from invalid region %s", r)
	}
	if s, ok := r.src.(source.Slicer); ok {
		if b, ok := s.Slice(r.start, r.length); ok {
			n, err := w.Write(b)
			return int64(n), err
		}
	}

	chunk, release := pool.GetChunk()
	defer release()

	var written int64
	for written < r.length {
		want := chunk
		if remain := r.length - written; remain < int64(len(want)) {
			want = want[:remain]
		}

		n, err := r.src.Read(r.start+written, want)
		if err != nil {
			return written, err
		}
		if n == 0 {
			return written, errs.Truncated(r.start+written, len(want), 0)
		}

		m, err := w.Write(want[:n])
		written += int64(m)
		if err != nil {
			return written, err
		}
	}

	return written, nil
}

// Digest returns the xxHash64 of the region contents.
func (r Region) Digest() (uint64, error) {
	if s, ok := r.src.(source.Slicer); ok && r.IsValid() {
		if b, ok := s.Slice(r.start, r.length); ok {
			return hash.Sum64(b), nil
		}
	}

	d := hash.New()
	if _, err := r.WriteTo(d); err != nil {
		return 0, err
	}

	return d.Sum64(), nil
}

func (r Region) String() string {
	return fmt.Sprintf("[%d, %d)", r.start, r.start+r.length)
}
