package section_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/region"
	"github.com/arloliu/carve/section"
)

func le32(vs ...uint32) []byte {
	var out []byte
	for _, v := range vs {
		out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}

	return out
}

var codec32 = address.DefaultCodec[uint32]()

func TestHeader_Split(t *testing.T) {
	data := append(le32(7), "abcbody"...)
	h := section.NewHeader(region.FromBytes(data), codec32)
	require.True(t, h.IsValid())

	size, err := h.Size()
	require.NoError(t, err)
	require.Equal(t, int64(7), size)

	head, body, err := h.Split()
	require.NoError(t, err)
	require.Equal(t, int64(3), head.Len())
	require.Equal(t, int64(4), body.Len())
	require.Equal(t, head.Len()+body.Len()+int64(codec32.Width()), h.Region().Len())

	b, err := head.Bytes()
	require.NoError(t, err)
	require.Equal(t, "abc", string(b))

	b, err = body.Bytes()
	require.NoError(t, err)
	require.Equal(t, "body", string(b))

	table, err := h.Table()
	require.NoError(t, err)
	require.Equal(t, int64(7), table.Len())
}

func TestHeader_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"zero size", append(le32(0), "xyz"...)},
		{"below width", append(le32(3), "xyz"...)},
		{"past end", append(le32(9), "xyz"...)},
		{"too short", []byte{1, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := section.NewHeader(region.FromBytes(tt.data), codec32)
			require.False(t, h.IsValid())
			require.ErrorIs(t, h.Validate(), errs.ErrInvalidLayout)

			_, _, err := h.Split()
			require.ErrorIs(t, err, errs.ErrInvalidLayout)
		})
	}
}

func TestHeader_EmptyHeadAndBody(t *testing.T) {
	h := section.NewHeader(region.FromBytes(le32(4)), codec32)
	head, body, err := h.Split()
	require.NoError(t, err)
	require.Zero(t, head.Len())
	require.Zero(t, body.Len())
}

func TestIndexedRegion_Get(t *testing.T) {
	data := append(le32(12, 2, 2), "HIABCDE"...)
	x, err := section.NewIndexedRegion(region.FromBytes(data), codec32)
	require.NoError(t, err)
	require.Equal(t, 3, x.Count())
	require.Equal(t, int64(7), x.Body().Len())

	var got []string
	for r, err := range x.All() {
		require.NoError(t, err)
		b, err := r.Bytes()
		require.NoError(t, err)
		got = append(got, string(b))
	}
	require.Equal(t, []string{"HI", "", "ABCDE"}, got)

	off, err := x.Index().Get(2)
	require.NoError(t, err)
	require.Equal(t, region.At(2, 5), off)

	_, err = x.Get(3)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
	_, err = x.Get(-1)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestIndexedRegion_SingleRecord(t *testing.T) {
	data := append(le32(4), "all"...)
	x, err := section.NewIndexedRegion(region.FromBytes(data), codec32)
	require.NoError(t, err)
	require.Equal(t, 1, x.Count())

	r, err := x.Get(0)
	require.NoError(t, err)
	require.Equal(t, int64(3), r.Len())
}

func TestIndexedRegion_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"decreasing boundaries", append(le32(12, 5, 3), "12345678"...)},
		{"boundary past body", append(le32(12, 2, 9), "12345678"...)},
		{"ragged table", append(le32(6), "12345678"...)},
		{"count slot zero", append(le32(0), "1234"...)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := section.NewIndexedRegion(region.FromBytes(tt.data), codec32)
			require.ErrorIs(t, err, errs.ErrInvalidLayout)
		})
	}
}

func TestPartitionIndex_LazyGet(t *testing.T) {
	data := append(le32(12, 5, 3), "12345678"...)
	r := region.FromBytes(data)

	table, err := r.Sub(0, 12)
	require.NoError(t, err)
	body, err := r.Sub(12, 8)
	require.NoError(t, err)

	index := section.NewPartitionIndex(table, body.Len(), codec32)
	require.False(t, index.IsValid())

	x, err := section.NewIndexedRegionWithIndex(body, index)
	require.NoError(t, err)

	// Records whose own boundaries are sound still resolve.
	rec, err := x.Get(0)
	require.NoError(t, err)
	require.Equal(t, int64(5), rec.Len())

	_, err = x.Get(1)
	require.ErrorIs(t, err, errs.ErrInvalidLayout)

	rec, err = x.Get(2)
	require.NoError(t, err)
	require.Equal(t, int64(5), rec.Len())

	_, err = section.NewIndexedRegionWithIndex(r, index)
	require.ErrorIs(t, err, errs.ErrInvalidLayout)
}

func TestRowLayout(t *testing.T) {
	layout := section.NewRowLayout(region.FromBytes(le32(13, 4, 5)), codec32)
	require.NoError(t, layout.Validate())
	require.Equal(t, 3, layout.FieldCount())

	rowSize, err := layout.RowSize()
	require.NoError(t, err)
	require.Equal(t, int64(13), rowSize)

	fields, err := layout.Fields()
	require.NoError(t, err)
	require.Equal(t, []region.Offset{region.At(0, 4), region.At(4, 1), region.At(5, 8)}, fields)

	_, err = layout.Field(3)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)

	bad := section.NewRowLayout(region.FromBytes(le32(4, 2, 6)), codec32)
	require.ErrorIs(t, bad.Validate(), errs.ErrInvalidLayout)
}

func TestRowLayout_Tiling(t *testing.T) {
	tests := []struct {
		name   string
		slots  []uint32
		fields []region.Offset
	}{
		{"single field", []uint32{9}, []region.Offset{region.At(0, 9)}},
		{"single empty field", []uint32{0}, []region.Offset{region.At(0, 0)}},
		{
			"empty fields",
			[]uint32{5, 0, 3, 3, 5},
			[]region.Offset{region.At(0, 0), region.At(0, 3), region.At(3, 0), region.At(3, 2), region.At(5, 0)},
		},
		{"all empty", []uint32{0, 0, 0}, []region.Offset{region.At(0, 0), region.At(0, 0), region.At(0, 0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := section.NewRowLayout(region.FromBytes(le32(tt.slots...)), codec32)
			require.NoError(t, layout.Validate())

			fields, err := layout.Fields()
			require.NoError(t, err)
			require.Equal(t, tt.fields, fields)

			var next int64
			for _, f := range fields {
				require.Equal(t, next, f.Start)
				next = f.End()
			}
			require.Equal(t, int64(tt.slots[0]), next)
		})
	}
}

func tableBytes(rows ...[]byte) []byte {
	data := append(le32(12), le32(5, 4)...)
	for _, r := range rows {
		data = append(data, r...)
	}

	return data
}

func TestTableRegion_Cells(t *testing.T) {
	rows := [][]byte{
		append(le32(7), 'a'),
		append(le32(8), 'b'),
	}
	tbl, err := section.NewTableRegion(region.FromBytes(tableBytes(rows...)), codec32)
	require.NoError(t, err)
	require.Equal(t, 2, tbl.RowCount())
	require.Equal(t, 2, tbl.ColumnCount())
	require.Equal(t, int64(5), tbl.RowSize())

	for r := range tbl.RowCount() {
		for c := range tbl.ColumnCount() {
			cell, err := tbl.Cell(r, c)
			require.NoError(t, err)

			row, err := tbl.Row(r)
			require.NoError(t, err)
			col, err := tbl.Column(c)
			require.NoError(t, err)
			want, err := col.Apply(row)
			require.NoError(t, err)

			require.Equal(t, want, cell)
		}
	}

	v, err := section.Cell[uint32](tbl, 1, 0)
	require.NoError(t, err)
	require.Equal(t, uint32(8), v)

	tag, err := section.Cell[byte](tbl, 0, 1)
	require.NoError(t, err)
	require.Equal(t, byte('a'), tag)

	n := 0
	for row, err := range tbl.Rows() {
		require.NoError(t, err)
		require.Equal(t, int64(5), row.Len())
		n++
	}
	require.Equal(t, 2, n)

	_, err = tbl.Row(2)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
	_, err = tbl.Cell(0, 2)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestTableRegion_Empty(t *testing.T) {
	tbl, err := section.NewTableRegion(region.FromBytes(tableBytes()), codec32)
	require.NoError(t, err)
	require.Zero(t, tbl.RowCount())
}

func TestTableRegion_Invalid(t *testing.T) {
	_, err := section.NewTableRegion(region.FromBytes(append(tableBytes(), 1, 2, 3)), codec32)
	require.ErrorIs(t, err, errs.ErrInvalidLayout)

	_, err = section.NewTableRegion(region.FromBytes(le32(4)), codec32)
	require.ErrorIs(t, err, errs.ErrInvalidLayout)
}
