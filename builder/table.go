package builder

import (
	"encoding/binary"
	"io"

	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/region"
)

// RowLayoutBuilder declares the fields of a fixed-size row. Once a
// TableBuilder uses the layout no more fields can be added.
type RowLayoutBuilder[T address.Word] struct {
	table  *OffsetTableBuilder[T]
	sealed bool
}

// NewRowLayoutBuilder returns an empty layout.
func NewRowLayoutBuilder[T address.Word](codec address.Codec[T]) *RowLayoutBuilder[T] {
	return &RowLayoutBuilder[T]{table: NewLayoutTableBuilder(codec)}
}

// AddField appends a field of size bytes and returns its index.
func (l *RowLayoutBuilder[T]) AddField(size int64) (int, error) {
	if l.sealed {
		return 0, errs.Unsupported("add field", "layout is in use by a table")
	}

	return l.table.AddSlot(size)
}

// Codec returns the address codec.
func (l *RowLayoutBuilder[T]) Codec() address.Codec[T] { return l.table.Codec() }

// FieldCount returns the number of fields.
func (l *RowLayoutBuilder[T]) FieldCount() int { return l.table.Count() }

// RowSize returns the sum of field sizes.
func (l *RowLayoutBuilder[T]) RowSize() int64 { return l.table.Total() }

// Field returns the byte range of field i within a row.
func (l *RowLayoutBuilder[T]) Field(i int) (region.Offset, error) {
	return l.table.Offset(i)
}

// Export returns a builder for the encoded layout, F × W bytes.
func (l *RowLayoutBuilder[T]) Export() *OffsetTableBuilder[T] {
	return l.table
}

// TableBuilder writes rows of a fixed layout back to back.
type TableBuilder[T address.Word] struct {
	layout *RowLayoutBuilder[T]
	fields []region.Offset
	rows   []*RowBuilder[T]
}

// NewTableBuilder returns a table of rows laid out by layout, and seals
// the layout.
func NewTableBuilder[T address.Word](layout *RowLayoutBuilder[T]) (*TableBuilder[T], error) {
	if layout.FieldCount() == 0 {
		return nil, errs.Invalid("table builder", "layout has no fields")
	}

	fields := make([]region.Offset, layout.FieldCount())
	for i := range fields {
		f, err := layout.Field(i)
		if err != nil {
			return nil, err
		}
		fields[i] = f
	}
	layout.sealed = true

	return &TableBuilder[T]{layout: layout, fields: fields}, nil
}

// Layout returns the row layout.
func (t *TableBuilder[T]) Layout() *RowLayoutBuilder[T] { return t.layout }

// RowSize returns the size of one row.
func (t *TableBuilder[T]) RowSize() int64 { return t.layout.RowSize() }

// RowCount returns the number of rows.
func (t *TableBuilder[T]) RowCount() int { return len(t.rows) }

// CreateRow appends a zero-filled row and returns it.
func (t *TableBuilder[T]) CreateRow() *RowBuilder[T] {
	row := &RowBuilder[T]{table: t, buf: make([]byte, t.RowSize())}
	t.rows = append(t.rows, row)

	return row
}

// Row returns row i.
func (t *TableBuilder[T]) Row(i int) (*RowBuilder[T], error) {
	if i < 0 || i >= len(t.rows) {
		return nil, errs.Bounds("table builder", int64(i), int64(len(t.rows)))
	}

	return t.rows[i], nil
}

// WithLayoutHeader returns a header builder whose head is the encoded layout
// and whose body is the table.
func (t *TableBuilder[T]) WithLayoutHeader() (*HeaderBuilder[T], error) {
	return NewHeaderBuilder(t.layout.Codec(), t.layout.Export(), t)
}

func (t *TableBuilder[T]) Size() int64 {
	return int64(len(t.rows)) * t.RowSize()
}

func (t *TableBuilder[T]) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, row := range t.rows {
		n, err := w.Write(row.buf)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}

	return total, nil
}

// RowBuilder holds the bytes of one row. Unset fields stay zero.
type RowBuilder[T address.Word] struct {
	table *TableBuilder[T]
	buf   []byte
}

// field returns the slice of the row backing field i.
func (r *RowBuilder[T]) field(i int) ([]byte, error) {
	if i < 0 || i >= len(r.table.fields) {
		return nil, errs.Bounds("row field", int64(i), int64(len(r.table.fields)))
	}

	f := r.table.fields[i]
	dst := r.buf[f.Start:f.End()]

	return dst, nil
}

// SetField writes the output of b into field i. The field is zeroed first,
// and b must not be larger than the field.
func (r *RowBuilder[T]) SetField(i int, b Builder) error {
	dst, err := r.field(i)
	if err != nil {
		return err
	}
	if size := b.Size(); size > int64(len(dst)) {
		return errs.Unsupported("set field", "value of %d bytes does not fit field %d of %d bytes", size, i, len(dst))
	}

	clear(dst)
	sw := &sliceWriter{buf: dst}

	return writeChild(sw, b)
}

// SetBytes copies data into field i.
func (r *RowBuilder[T]) SetBytes(i int, data []byte) error {
	return r.SetField(i, NewRaw(data))
}

// Bytes returns the row contents. The slice aliases the row.
func (r *RowBuilder[T]) Bytes() []byte { return r.buf }

// SetValue encodes a fixed-size value into field i using the byte order of
// the table's codec.
func SetValue[V any, T address.Word](r *RowBuilder[T], i int, v V) error {
	dst, err := r.field(i)
	if err != nil {
		return err
	}

	size := binary.Size(v)
	if size < 0 {
		return errs.Unsupported("set value", "%T has no fixed size", v)
	}
	if size > len(dst) {
		return errs.Unsupported("set value", "value of %d bytes does not fit field %d of %d bytes", size, i, len(dst))
	}

	clear(dst)
	_, err = binary.Encode(dst, r.table.layout.Codec().Engine(), v)

	return err
}

// sliceWriter writes into a fixed slice and refuses to grow it.
type sliceWriter struct {
	buf []byte
	off int
}

func (w *sliceWriter) Write(p []byte) (int, error) {
	n := copy(w.buf[w.off:], p)
	w.off += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}

	return n, nil
}
