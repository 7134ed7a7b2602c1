package section

import (
	"iter"

	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/region"
)

// TableRegion is a header holding a RowLayout followed by fixed-size rows.
type TableRegion[T address.Word] struct {
	layout  RowLayout[T]
	body    region.Region
	rowSize int64
}

// NewTableRegion parses and validates a table region from r.
func NewTableRegion[T address.Word](r region.Region, codec address.Codec[T]) (TableRegion[T], error) {
	head, body, err := NewHeader(r, codec).Split()
	if err != nil {
		return TableRegion[T]{}, errs.InvalidWrap("table region", err, "header")
	}

	layout := NewRowLayout(head, codec)
	if err := layout.Validate(); err != nil {
		return TableRegion[T]{}, errs.InvalidWrap("table region", err, "layout")
	}

	return NewTableRegionWithLayout(body, layout)
}

// NewTableRegionWithLayout pairs body with a layout the caller has already
// validated. The body length must be a whole number of rows.
func NewTableRegionWithLayout[T address.Word](body region.Region, layout RowLayout[T]) (TableRegion[T], error) {
	rowSize, err := layout.RowSize()
	if err != nil {
		return TableRegion[T]{}, errs.InvalidWrap("table region", err, "cannot read row size")
	}

	switch {
	case rowSize == 0 && body.Len() != 0:
		return TableRegion[T]{}, errs.Invalid("table region", "zero row size with %d body bytes", body.Len())
	case rowSize > 0 && body.Len()%rowSize != 0:
		return TableRegion[T]{}, errs.Invalid("table region", "body length %d is not a multiple of row size %d", body.Len(), rowSize)
	}

	return TableRegion[T]{layout: layout, body: body, rowSize: rowSize}, nil
}

// Layout returns the row layout.
func (t TableRegion[T]) Layout() RowLayout[T] { return t.layout }

// Body returns the concatenated rows.
func (t TableRegion[T]) Body() region.Region { return t.body }

// RowSize returns the size of one row in bytes.
func (t TableRegion[T]) RowSize() int64 { return t.rowSize }

// RowCount returns the number of rows.
func (t TableRegion[T]) RowCount() int {
	if t.rowSize == 0 {
		return 0
	}

	return int(t.body.Len() / t.rowSize)
}

// ColumnCount returns the number of fields per row.
func (t TableRegion[T]) ColumnCount() int {
	return t.layout.FieldCount()
}

// Row returns row r, exactly RowSize() bytes long.
func (t TableRegion[T]) Row(r int) (region.Region, error) {
	if r < 0 || r >= t.RowCount() {
		return region.Region{}, errs.Bounds("table row", int64(r), int64(t.RowCount()))
	}

	return t.body.Sub(int64(r)*t.rowSize, t.rowSize)
}

// Column returns the byte range of field c within any row.
func (t TableRegion[T]) Column(c int) (region.Offset, error) {
	return t.layout.Field(c)
}

// Cell returns field c of row r.
func (t TableRegion[T]) Cell(r, c int) (region.Region, error) {
	row, err := t.Row(r)
	if err != nil {
		return region.Region{}, err
	}

	col, err := t.Column(c)
	if err != nil {
		return region.Region{}, err
	}

	return col.Apply(row)
}

// Rows iterates over the rows in order. Iteration stops after the first error.
func (t TableRegion[T]) Rows() iter.Seq2[region.Region, error] {
	return func(yield func(region.Region, error) bool) {
		for r := range t.RowCount() {
			row, err := t.Row(r)
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// Cell decodes a fixed-size value of type V from the start of cell (r, c),
// using the byte order of the table's codec.
func Cell[V any, T address.Word](t TableRegion[T], r, c int) (V, error) {
	cell, err := t.Cell(r, c)
	if err != nil {
		var zero V
		return zero, err
	}

	return region.ReadFixed[V](cell, 0, t.layout.codec.Engine())
}
