// Package carve provides a zero-copy binary container format built from nested,
// offset-addressed regions.
//
// A carve container is a byte range read through a source (a byte slice, a
// raw memory block, a seekable stream, or a memory-mapped file). Views parse
// structure out of a region without copying it, and builders write the same
// structure in a single pass.
//
// # Core Features
//
//   - Address widths of 8, 16, 32 and 64 bits, plus the native word size
//   - Little-endian, big-endian or native byte order per container
//   - Header/body regions whose leading address gives the header length
//   - Indexed regions: variable-length records behind a partition index
//   - Table regions: fixed-size rows described by a row layout
//   - Checked address arithmetic that reports overflow instead of wrapping
//
// # Basic Usage
//
// Building and reading an indexed region:
//
//	import "github.com/arloliu/carve"
//
//	b, _ := carve.NewIndexedBuilder[uint32]()
//	b.AddBytes([]byte("first"))
//	b.AddBytes([]byte("second"))
//	data, _ := builder.ToBytes(b)
//
//	x, _ := carve.OpenIndexed[uint32](data)
//	for rec, err := range x.All() {
//	    ...
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the address,
// builder and section packages. For fine-grained control, such as sharing a
// source between many views or nesting containers, use those packages
// directly.
package carve

import (
	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/builder"
	"github.com/arloliu/carve/region"
	"github.com/arloliu/carve/section"
	"github.com/arloliu/carve/source"
)

// NewIndexedBuilder creates a builder for an indexed region.
//
// Parameters:
//   - opts: Optional codec settings (see address.Option)
//
// Returns:
//   - *builder.IndexedRegionBuilder[T]: The created builder.
//   - error: An error if the codec configuration is invalid.
//
// Example:
//
//	b, err := carve.NewIndexedBuilder[uint16](address.WithBigEndian())
func NewIndexedBuilder[T address.Word](opts ...address.Option) (*builder.IndexedRegionBuilder[T], error) {
	codec, err := address.NewCodec[T](opts...)
	if err != nil {
		return nil, err
	}

	return builder.NewIndexedRegionBuilder(codec), nil
}

// NewTableBuilder creates a table builder for rows with the given field sizes.
// Use WithLayoutHeader on the result to write the layout in front of the rows.
//
// Example:
//
//	tb, err := carve.NewTableBuilder[uint32]([]int64{8, 4, 16})
//	row := tb.CreateRow()
//	builder.SetValue(row, 0, int64(42))
func NewTableBuilder[T address.Word](fieldSizes []int64, opts ...address.Option) (*builder.TableBuilder[T], error) {
	codec, err := address.NewCodec[T](opts...)
	if err != nil {
		return nil, err
	}

	layout := builder.NewRowLayoutBuilder(codec)
	for _, size := range fieldSizes {
		if _, err := layout.AddField(size); err != nil {
			return nil, err
		}
	}

	return builder.NewTableBuilder(layout)
}

// OpenIndexed parses and validates an indexed region stored in data.
//
// Parameters:
//   - data: The container bytes; they are referenced, not copied
//   - opts: Codec settings matching the ones used to build data
//
// Returns:
//   - section.IndexedRegion[T]: A view over data.
//   - error: An error if the codec is invalid or data is not a valid indexed region.
func OpenIndexed[T address.Word](data []byte, opts ...address.Option) (section.IndexedRegion[T], error) {
	return OpenIndexedSource[T](source.NewBufferSource(data), opts...)
}

// OpenIndexedSource is like OpenIndexed but reads through src.
func OpenIndexedSource[T address.Word](src source.Source, opts ...address.Option) (section.IndexedRegion[T], error) {
	codec, err := address.NewCodec[T](opts...)
	if err != nil {
		return section.IndexedRegion[T]{}, err
	}

	return section.NewIndexedRegion(region.Whole(src), codec)
}

// OpenTable parses and validates a table region, layout header included,
// stored in data.
func OpenTable[T address.Word](data []byte, opts ...address.Option) (section.TableRegion[T], error) {
	return OpenTableSource[T](source.NewBufferSource(data), opts...)
}

// OpenTableSource is like OpenTable but reads through src.
func OpenTableSource[T address.Word](src source.Source, opts ...address.Option) (section.TableRegion[T], error) {
	codec, err := address.NewCodec[T](opts...)
	if err != nil {
		return section.TableRegion[T]{}, err
	}

	return section.NewTableRegion(region.Whole(src), codec)
}

// OpenHeader returns a validated header/body view of data.
func OpenHeader[T address.Word](data []byte, opts ...address.Option) (section.Header[T], error) {
	codec, err := address.NewCodec[T](opts...)
	if err != nil {
		return section.Header[T]{}, err
	}

	h := section.NewHeader(region.FromBytes(data), codec)
	if err := h.Validate(); err != nil {
		return section.Header[T]{}, err
	}

	return h, nil
}
