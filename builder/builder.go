// Package builder constructs carve containers.
//
// Builders mirror the views in package section. Each one knows its encoded
// size before writing, so an enclosing builder can lay out its offset tables
// without a second pass, and each writes itself to an io.Writer in a single
// traversal. The bytes a builder writes are exactly what the matching view
// parses back:
//
//	codec := address.DefaultCodec[uint32]()
//	ib := builder.NewIndexedRegionBuilder(codec)
//	_, _ = ib.AddBytes([]byte("HI"))
//	_, _ = ib.AddBytes(nil)
//	_, _ = ib.AddBytes([]byte("ABCDE"))
//	data, _ := builder.ToBytes(ib)
//
//	x, _ := section.NewIndexedRegion(region.FromBytes(data), codec)
//	rec, _ := x.Get(2) // "ABCDE"
//
// Builders are single-writer: configure and write one structure from one
// goroutine.
package builder

import (
	"io"

	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/internal/hash"
	"github.com/arloliu/carve/internal/pool"
)

// Builder is anything that can report its encoded size and write exactly
// that many bytes.
type Builder interface {
	Size() int64
	io.WriterTo
}

// ToBytes materializes b into a new byte slice.
func ToBytes(b Builder) ([]byte, error) {
	size := b.Size()
	bb := pool.GetOutputBuffer()
	defer pool.PutOutputBuffer(bb)

	bb.Grow(int(size))
	if err := writeChild(bb, b); err != nil {
		return nil, err
	}

	return bb.Clone(), nil
}

// Digest returns the xxHash64 of the bytes b would write, without keeping them.
func Digest(b Builder) (uint64, error) {
	d := hash.New()
	if err := writeChild(d, b); err != nil {
		return 0, err
	}

	return d.Sum64(), nil
}

// writeChild writes b to w and checks it wrote exactly b.Size() bytes.
func writeChild(w io.Writer, b Builder) error {
	want := b.Size()
	n, err := b.WriteTo(w)
	if err != nil {
		return err
	}
	if n != want {
		return errs.Invalid("builder output", "%T wrote %d bytes but declared %d", b, n, want)
	}

	return nil
}

// writeChildren writes each builder in order and returns the total written.
func writeChildren(w io.Writer, bs ...Builder) (int64, error) {
	var total int64
	for _, b := range bs {
		if b == nil {
			continue
		}
		if err := writeChild(w, b); err != nil {
			return total, err
		}
		total += b.Size()
	}

	return total, nil
}

func sizeOf(b Builder) int64 {
	if b == nil {
		return 0
	}

	return b.Size()
}
