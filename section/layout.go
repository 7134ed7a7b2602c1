package section

import (
	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/region"
)

// RowLayout describes the fields of a fixed-size row. Slot 0 holds the row
// size and slots 1..F−1 hold the start offsets of fields 1..F−1.
type RowLayout[T address.Word] struct {
	slots region.Region
	codec address.Codec[T]
}

// NewRowLayout interprets table as a row layout.
func NewRowLayout[T address.Word](table region.Region, codec address.Codec[T]) RowLayout[T] {
	return RowLayout[T]{slots: table, codec: codec}
}

// Region returns the layout bytes.
func (l RowLayout[T]) Region() region.Region { return l.slots }

// Codec returns the address codec of the layout.
func (l RowLayout[T]) Codec() address.Codec[T] { return l.codec }

// RowSize returns the size of one row in bytes.
func (l RowLayout[T]) RowSize() (int64, error) {
	return readAddress(l.slots, 0, l.codec)
}

// FieldCount returns the number of fields in a row.
func (l RowLayout[T]) FieldCount() int {
	return int(l.slots.Len() / int64(l.codec.Width()))
}

func (l RowLayout[T]) table() (offsetTable[T], error) {
	rowSize, err := l.RowSize()
	if err != nil {
		return offsetTable[T]{}, err
	}

	return offsetTable[T]{what: "row layout", slots: l.slots, codec: l.codec, bound: rowSize}, nil
}

// Field returns the byte range of field i within a row.
func (l RowLayout[T]) Field(i int) (region.Offset, error) {
	t, err := l.table()
	if err != nil {
		return region.Offset{}, err
	}

	return t.get(i)
}

// Fields returns the byte ranges of all fields.
func (l RowLayout[T]) Fields() ([]region.Offset, error) {
	t, err := l.table()
	if err != nil {
		return nil, err
	}

	out := make([]region.Offset, t.count())
	for i := range out {
		if out[i], err = t.get(i); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// Validate checks every field boundary against the row size.
func (l RowLayout[T]) Validate() error {
	t := offsetTable[T]{what: "row layout", slots: l.slots, codec: l.codec}
	if err := t.checkShape(); err != nil {
		return err
	}

	rowSize, err := l.RowSize()
	if err != nil {
		return errs.InvalidWrap("row layout", err, "cannot read row size")
	}
	t.bound = rowSize

	return t.validate()
}

// IsValid reports whether Validate succeeds.
func (l RowLayout[T]) IsValid() bool {
	return l.Validate() == nil
}
