package builder_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/builder"
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

func TestIndexedRegionBuilder_Encoding(t *testing.T) {
	codec := address.DefaultCodec[uint32]()
	ib := builder.NewIndexedRegionBuilder(codec)

	for _, rec := range []string{"HI", "", "ABCDE"} {
		_, err := ib.AddBytes([]byte(rec))
		require.NoError(t, err)
	}
	require.Equal(t, 3, ib.Count())
	require.Equal(t, int64(12+7), ib.Size())

	data, err := builder.ToBytes(ib)
	require.NoError(t, err)

	want := append(le32(12, 2, 2), "HIABCDE"...)
	require.Equal(t, want, data)

	x, err := section.NewIndexedRegion(region.FromBytes(data), codec)
	require.NoError(t, err)
	require.Equal(t, 3, x.Count())

	for i, rec := range []string{"HI", "", "ABCDE"} {
		r, err := x.Get(i)
		require.NoError(t, err)
		got, err := r.Bytes()
		require.NoError(t, err)
		require.Equal(t, rec, string(got))
	}
}

func TestIndexedRegionBuilder_SizeFormula(t *testing.T) {
	codec := address.DefaultCodec[uint16]()
	ib := builder.NewIndexedRegionBuilder(codec)

	sizes := []int64{0, 7, 3, 0, 128}
	var sum int64
	for _, n := range sizes {
		_, err := ib.AddZeroBlock(n)
		require.NoError(t, err)
		sum += n
	}

	w := int64(codec.Width())
	require.Equal(t, w+int64(len(sizes)-1)*w+sum, ib.Size())

	tb := ib.TableBuilder()
	require.Equal(t, int64(len(sizes))*w, tb.Size())
	require.Equal(t, sum, ib.DataBuilder().Size())

	var buf bytes.Buffer
	n, err := ib.WriteTo(&buf)
	require.NoError(t, err)
	require.Equal(t, ib.Size(), n)
	require.Equal(t, int(n), buf.Len())
}

func TestIndexedRegionBuilder_Empty(t *testing.T) {
	ib := builder.NewIndexedRegionBuilder(address.DefaultCodec[uint32]())

	_, err := builder.ToBytes(ib)
	require.ErrorIs(t, err, errs.ErrInvalidLayout)
}

func TestIndexedRegionBuilder_LastRecordUnbounded(t *testing.T) {
	codec := address.DefaultCodec[uint8]()
	ib := builder.NewIndexedRegionBuilder(codec)

	// Only the end of record 0 is written; 300 total bytes is fine.
	_, err := ib.AddZeroBlock(200)
	require.NoError(t, err)
	_, err = ib.AddZeroBlock(100)
	require.NoError(t, err)

	data, err := builder.ToBytes(ib)
	require.NoError(t, err)
	require.Len(t, data, 2+300)
	require.Equal(t, []byte{2, 200}, data[:2])

	x, err := section.NewIndexedRegion(region.FromBytes(data), codec)
	require.NoError(t, err)
	require.Equal(t, 2, x.Count())

	for i, want := range []int64{200, 100} {
		rec, err := x.Get(i)
		require.NoError(t, err)
		require.Equal(t, want, rec.Len())
	}
}

func TestIndexedRegionBuilder_Overflow(t *testing.T) {
	ib := builder.NewIndexedRegionBuilder(address.DefaultCodec[uint8]())

	_, err := ib.AddZeroBlock(200)
	require.NoError(t, err)
	_, err = ib.AddZeroBlock(100)
	require.NoError(t, err)

	// A third record would need the end of record 1, 300, in the table.
	_, err = ib.AddZeroBlock(1)
	require.ErrorIs(t, err, errs.ErrAddressOverflow)
	require.Equal(t, 2, ib.Count())
}

func TestIndexedRegionBuilder_SlotCountOverflow(t *testing.T) {
	ib := builder.NewIndexedRegionBuilder(address.DefaultCodec[uint8]())

	for range 255 {
		_, err := ib.AddZeroBlock(0)
		require.NoError(t, err)
	}

	_, err := ib.AddZeroBlock(0)
	require.ErrorIs(t, err, errs.ErrAddressOverflow)
	require.Equal(t, 255, ib.Count())
}

func TestIndexedRegionBuilder_Nested(t *testing.T) {
	codec := address.DefaultCodec[uint32]()

	inner := builder.NewIndexedRegionBuilder(codec)
	_, err := inner.AddBytes([]byte("a"))
	require.NoError(t, err)

	outer := builder.NewIndexedRegionBuilder(codec)
	_, err = outer.AddBlock(inner)
	require.NoError(t, err)
	_, err = outer.AddBytes([]byte("tail"))
	require.NoError(t, err)

	// The inner region grows after it was added; the outer index follows.
	_, err = inner.AddBytes([]byte("bc"))
	require.NoError(t, err)

	data, err := builder.ToBytes(outer)
	require.NoError(t, err)

	x, err := section.NewIndexedRegion(region.FromBytes(data), codec)
	require.NoError(t, err)

	first, err := x.Get(0)
	require.NoError(t, err)
	require.Equal(t, inner.Size(), first.Len())

	nested, err := section.NewIndexedRegion(first, codec)
	require.NoError(t, err)
	rec, err := nested.Get(1)
	require.NoError(t, err)
	got, err := rec.Bytes()
	require.NoError(t, err)
	require.Equal(t, "bc", string(got))

	last, err := x.Get(1)
	require.NoError(t, err)
	got, err = last.Bytes()
	require.NoError(t, err)
	require.Equal(t, "tail", string(got))
}

func TestIndexedRegionBuilder_SplitTableTracksGrowth(t *testing.T) {
	codec := address.DefaultCodec[uint32]()

	inner := builder.NewIndexedRegionBuilder(codec)
	_, err := inner.AddBytes([]byte("a"))
	require.NoError(t, err)

	ib := builder.NewIndexedRegionBuilder(codec)
	_, err = ib.AddBlock(inner)
	require.NoError(t, err)
	_, err = ib.AddBytes([]byte("b"))
	require.NoError(t, err)

	table := ib.TableBuilder()
	body := ib.DataBuilder()

	// Both halves see growth and new records after they were taken.
	_, err = inner.AddBytes([]byte("cc"))
	require.NoError(t, err)
	_, err = ib.AddBytes([]byte("dd"))
	require.NoError(t, err)

	require.Equal(t, int64(3*codec.Width()), table.Size())
	require.Equal(t, inner.Size()+1+2, body.Size())

	data, err := builder.ToBytes(builder.Concat(table, body))
	require.NoError(t, err)

	whole, err := builder.ToBytes(ib)
	require.NoError(t, err)
	require.Equal(t, whole, data)

	x, err := section.NewIndexedRegion(region.FromBytes(data), codec)
	require.NoError(t, err)
	require.Equal(t, 3, x.Count())

	first, err := x.Get(0)
	require.NoError(t, err)
	require.Equal(t, inner.Size(), first.Len())

	for i, want := range map[int]string{1: "b", 2: "dd"} {
		rec, err := x.Get(i)
		require.NoError(t, err)
		got, err := rec.Bytes()
		require.NoError(t, err)
		require.Equal(t, want, string(got))
	}
}

func TestIndexedRegionBuilder_TableAsHeader(t *testing.T) {
	codec := address.DefaultCodec[uint16]()

	ib := builder.NewIndexedRegionBuilder(codec)
	grow := builder.Concat(builder.NewRaw([]byte("x")))
	_, err := ib.AddBlock(grow)
	require.NoError(t, err)
	_, err = ib.AddBytes([]byte("yz"))
	require.NoError(t, err)

	hb, err := builder.NewHeaderBuilder[uint16](codec, ib.TableBuilder(), ib.DataBuilder())
	require.NoError(t, err)

	grow.Append(builder.NewRaw([]byte("xx")))

	data, err := builder.ToBytes(hb)
	require.NoError(t, err)

	head, body, err := section.NewHeader(region.FromBytes(data), codec).Split()
	require.NoError(t, err)

	index := section.NewPartitionIndex(head, body.Len(), codec)
	require.NoError(t, index.Validate())

	x, err := section.NewIndexedRegionWithIndex(body, index)
	require.NoError(t, err)
	for i, want := range []string{"xxx", "yz"} {
		rec, err := x.Get(i)
		require.NoError(t, err)
		got, err := rec.Bytes()
		require.NoError(t, err)
		require.Equal(t, want, string(got))
	}
}

func TestIndexedRegionBuilder_BigEndian(t *testing.T) {
	codec, err := address.NewCodec[uint16](address.WithBigEndian())
	require.NoError(t, err)

	ib := builder.NewIndexedRegionBuilder(codec)
	_, err = ib.AddBytes([]byte("xy"))
	require.NoError(t, err)
	_, err = ib.AddBytes([]byte("z"))
	require.NoError(t, err)

	data, err := builder.ToBytes(ib)
	require.NoError(t, err)
	require.Equal(t, []byte{0, 4, 0, 2, 'x', 'y', 'z'}, data)
}

func TestHeaderBuilder(t *testing.T) {
	codec := address.DefaultCodec[uint32]()

	head, err := builder.NewZero(5)
	require.NoError(t, err)
	hb, err := builder.NewHeaderBuilder[uint32](codec, head, builder.NewRaw([]byte("body")))
	require.NoError(t, err)
	require.Equal(t, int64(9), hb.HeaderSize())
	require.Equal(t, int64(13), hb.Size())

	data, err := builder.ToBytes(hb)
	require.NoError(t, err)
	require.Equal(t, append(append(le32(9), 0, 0, 0, 0, 0), "body"...), data)

	h := section.NewHeader(region.FromBytes(data), codec)
	headR, bodyR, err := h.Split()
	require.NoError(t, err)
	require.Equal(t, hb.HeaderSize()-int64(codec.Width()), headR.Len())
	require.Equal(t, hb.Size()-hb.HeaderSize(), bodyR.Len())
}

func TestHeaderBuilder_NoHeadNoBody(t *testing.T) {
	codec := address.DefaultCodec[uint8]()
	hb, err := builder.NewHeaderBuilder[uint8](codec, nil, nil)
	require.NoError(t, err)

	data, err := builder.ToBytes(hb)
	require.NoError(t, err)
	require.Equal(t, []byte{1}, data)
}

func TestHeaderBuilder_HeadOverflow(t *testing.T) {
	codec := address.DefaultCodec[uint8]()
	head, err := builder.NewZero(255)
	require.NoError(t, err)

	_, err = builder.NewHeaderBuilder[uint8](codec, head, nil)
	require.ErrorIs(t, err, errs.ErrAddressOverflow)
}

func TestRowLayoutBuilder(t *testing.T) {
	codec := address.DefaultCodec[uint32]()
	lb := builder.NewRowLayoutBuilder(codec)

	for _, n := range []int64{4, 1, 8} {
		_, err := lb.AddField(n)
		require.NoError(t, err)
	}
	require.Equal(t, int64(13), lb.RowSize())
	require.Equal(t, 3, lb.FieldCount())

	data, err := builder.ToBytes(lb.Export())
	require.NoError(t, err)
	require.Equal(t, le32(13, 4, 5), data)

	layout := section.NewRowLayout(region.FromBytes(data), codec)
	require.NoError(t, layout.Validate())

	want := []region.Offset{region.At(0, 4), region.At(4, 1), region.At(5, 8)}
	got, err := layout.Fields()
	require.NoError(t, err)
	require.Equal(t, want, got)

	for i, w := range want {
		f, err := lb.Field(i)
		require.NoError(t, err)
		require.Equal(t, w, f)
	}
}

func TestRowLayoutBuilder_Tiling(t *testing.T) {
	tests := []struct {
		name  string
		sizes []int64
	}{
		{"single field", []int64{7}},
		{"single empty field", []int64{0}},
		{"leading and trailing empty", []int64{0, 3, 0, 0, 2, 0}},
		{"all empty", []int64{0, 0, 0}},
		{"mixed", []int64{4, 1, 8}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := address.DefaultCodec[uint16]()
			lb := builder.NewRowLayoutBuilder(codec)

			var rowSize int64
			for _, n := range tt.sizes {
				_, err := lb.AddField(n)
				require.NoError(t, err)
				rowSize += n
			}
			require.Equal(t, rowSize, lb.RowSize())

			data, err := builder.ToBytes(lb.Export())
			require.NoError(t, err)

			layout := section.NewRowLayout(region.FromBytes(data), codec)
			require.NoError(t, layout.Validate())

			fields, err := layout.Fields()
			require.NoError(t, err)
			require.Len(t, fields, len(tt.sizes))

			var next int64
			for i, f := range fields {
				require.Equal(t, next, f.Start, "field %d start", i)
				require.Equal(t, tt.sizes[i], f.Length, "field %d length", i)

				want, err := lb.Field(i)
				require.NoError(t, err)
				require.Equal(t, want, f)
				next = f.End()
			}
			require.Equal(t, rowSize, next)
		})
	}
}

func TestRowLayoutBuilder_SealedByTable(t *testing.T) {
	lb := builder.NewRowLayoutBuilder(address.DefaultCodec[uint32]())
	_, err := lb.AddField(4)
	require.NoError(t, err)

	_, err = builder.NewTableBuilder(lb)
	require.NoError(t, err)

	_, err = lb.AddField(4)
	require.ErrorIs(t, err, errs.ErrUnsupported)
}

func TestTableBuilder_NoFields(t *testing.T) {
	lb := builder.NewRowLayoutBuilder(address.DefaultCodec[uint32]())

	_, err := builder.NewTableBuilder(lb)
	require.ErrorIs(t, err, errs.ErrInvalidLayout)
}

func TestTableBuilder_RoundTrip(t *testing.T) {
	codec := address.DefaultCodec[uint32]()
	lb := builder.NewRowLayoutBuilder(codec)
	for _, n := range []int64{4, 1, 8} {
		_, err := lb.AddField(n)
		require.NoError(t, err)
	}

	tb, err := builder.NewTableBuilder(lb)
	require.NoError(t, err)

	for i := range 3 {
		row := tb.CreateRow()
		require.NoError(t, builder.SetValue(row, 0, uint32(100+i)))
		require.NoError(t, row.SetBytes(1, []byte{byte('a' + i)}))
		require.NoError(t, builder.SetValue(row, 2, float64(i)*1.5))
	}
	require.Equal(t, int64(39), tb.Size())

	hb, err := tb.WithLayoutHeader()
	require.NoError(t, err)
	require.Equal(t, int64(4+12+39), hb.Size())

	data, err := builder.ToBytes(hb)
	require.NoError(t, err)

	tbl, err := section.NewTableRegion(region.FromBytes(data), codec)
	require.NoError(t, err)
	require.Equal(t, 3, tbl.RowCount())
	require.Equal(t, 3, tbl.ColumnCount())
	require.Equal(t, int64(13), tbl.RowSize())

	for i := range 3 {
		id, err := section.Cell[uint32](tbl, i, 0)
		require.NoError(t, err)
		require.Equal(t, uint32(100+i), id)

		tag, err := tbl.Cell(i, 1)
		require.NoError(t, err)
		b, err := tag.Bytes()
		require.NoError(t, err)
		require.Equal(t, []byte{byte('a' + i)}, b)

		v, err := section.Cell[float64](tbl, i, 2)
		require.NoError(t, err)
		require.InDelta(t, float64(i)*1.5, v, 0)
	}
}

func TestRowBuilder_SetField(t *testing.T) {
	lb := builder.NewRowLayoutBuilder(address.DefaultCodec[uint32]())
	_, err := lb.AddField(4)
	require.NoError(t, err)
	_, err = lb.AddField(2)
	require.NoError(t, err)

	tb, err := builder.NewTableBuilder(lb)
	require.NoError(t, err)
	row := tb.CreateRow()

	require.NoError(t, row.SetBytes(0, []byte("abcd")))
	require.NoError(t, row.SetBytes(0, []byte("x")))
	require.Equal(t, []byte{'x', 0, 0, 0, 0, 0}, row.Bytes())

	err = row.SetBytes(1, []byte("toolong"))
	require.ErrorIs(t, err, errs.ErrUnsupported)

	err = builder.SetValue(row, 1, uint64(1))
	require.ErrorIs(t, err, errs.ErrUnsupported)

	err = row.SetBytes(2, nil)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)

	got, err := tb.Row(0)
	require.NoError(t, err)
	require.Same(t, row, got)

	_, err = tb.Row(1)
	require.ErrorIs(t, err, errs.ErrOutOfBounds)
}

func TestSimpleBuilders(t *testing.T) {
	z, err := builder.NewZero(10000)
	require.NoError(t, err)
	data, err := builder.ToBytes(z)
	require.NoError(t, err)
	require.Equal(t, make([]byte, 10000), data)

	_, err = builder.NewZero(-1)
	require.ErrorIs(t, err, errs.ErrInvalidLayout)

	r, err := region.FromBytes([]byte("0123456789")).Sub(2, 5)
	require.NoError(t, err)
	data, err = builder.ToBytes(builder.NewRegion(r))
	require.NoError(t, err)
	require.Equal(t, "23456", string(data))

	c := builder.Concat(builder.NewRaw([]byte("ab")), nil, builder.NewRaw([]byte("cd")))
	require.Equal(t, int64(4), c.Size())
	data, err = builder.ToBytes(c)
	require.NoError(t, err)
	require.Equal(t, "abcd", string(data))
}

func TestStreamBuilder(t *testing.T) {
	sb, err := builder.NewStream(strings.NewReader("hello world"), 5)
	require.NoError(t, err)

	data, err := builder.ToBytes(sb)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))

	_, err = builder.ToBytes(sb)
	require.ErrorIs(t, err, errs.ErrUnsupported)

	short, err := builder.NewStream(strings.NewReader("abc"), 5)
	require.NoError(t, err)
	_, err = builder.ToBytes(short)
	require.ErrorIs(t, err, errs.ErrTruncatedRead)

	var te *errs.TruncatedReadError
	require.True(t, errors.As(err, &te))
	require.Equal(t, 3, te.Got)
}

func TestDigest(t *testing.T) {
	codec := address.DefaultCodec[uint32]()
	ib := builder.NewIndexedRegionBuilder(codec)
	_, err := ib.AddBytes([]byte("payload"))
	require.NoError(t, err)

	data, err := builder.ToBytes(ib)
	require.NoError(t, err)

	sum, err := builder.Digest(ib)
	require.NoError(t, err)
	require.Equal(t, xxhash.Sum64(data), sum)
}
