package builder

import (
	"io"

	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
)

// IndexedRegionBuilder writes a partition index followed by its records.
//
// Record sizes are read when the table is written, so a record builder may
// keep growing after it was added. Addressability is checked both when a
// record is added and when the region is written.
type IndexedRegionBuilder[T address.Word] struct {
	codec  address.Codec[T]
	blocks []Builder
}

// NewIndexedRegionBuilder returns an empty builder.
func NewIndexedRegionBuilder[T address.Word](codec address.Codec[T]) *IndexedRegionBuilder[T] {
	return &IndexedRegionBuilder[T]{codec: codec}
}

// AddBlock appends a record and returns its index.
func (b *IndexedRegionBuilder[T]) AddBlock(block Builder) (int, error) {
	if block == nil {
		return 0, errs.Invalid("indexed region builder", "nil block")
	}

	b.blocks = append(b.blocks, block)
	if _, err := b.table(); err != nil {
		b.blocks = b.blocks[:len(b.blocks)-1]
		return 0, err
	}

	return len(b.blocks) - 1, nil
}

// AddZeroBlock appends a record of n zero bytes.
func (b *IndexedRegionBuilder[T]) AddZeroBlock(n int64) (int, error) {
	z, err := NewZero(n)
	if err != nil {
		return 0, err
	}

	return b.AddBlock(z)
}

// AddBytes appends a record holding data. data is not copied.
func (b *IndexedRegionBuilder[T]) AddBytes(data []byte) (int, error) {
	return b.AddBlock(NewRaw(data))
}

// Count returns the number of records.
func (b *IndexedRegionBuilder[T]) Count() int { return len(b.blocks) }

// Block returns record i.
func (b *IndexedRegionBuilder[T]) Block(i int) (Builder, error) {
	if i < 0 || i >= len(b.blocks) {
		return nil, errs.Bounds("indexed region builder", int64(i), int64(len(b.blocks)))
	}

	return b.blocks[i], nil
}

func (b *IndexedRegionBuilder[T]) table() (*OffsetTableBuilder[T], error) {
	t := NewPartitionTableBuilder(b.codec)
	for _, blk := range b.blocks {
		if _, err := t.AddSlot(blk.Size()); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// TableBuilder returns a builder for the partition index alone. It reads
// the records when written, so it stays in step with DataBuilder even if
// records are added or grow afterwards.
func (b *IndexedRegionBuilder[T]) TableBuilder() *IndexTableBuilder[T] {
	return &IndexTableBuilder[T]{b: b}
}

// DataBuilder returns a builder for the records alone, read when written.
func (b *IndexedRegionBuilder[T]) DataBuilder() *IndexDataBuilder[T] {
	return &IndexDataBuilder[T]{b: b}
}

// Size returns N × W plus the sum of record sizes.
func (b *IndexedRegionBuilder[T]) Size() int64 {
	size := int64(len(b.blocks)) * int64(b.codec.Width())
	for _, blk := range b.blocks {
		size += blk.Size()
	}

	return size
}

func (b *IndexedRegionBuilder[T]) WriteTo(w io.Writer) (int64, error) {
	t, err := b.table()
	if err != nil {
		return 0, err
	}

	return writeChildren(w, t, b.DataBuilder())
}

// IndexTableBuilder writes the partition index of an IndexedRegionBuilder.
type IndexTableBuilder[T address.Word] struct {
	b *IndexedRegionBuilder[T]
}

// Size returns N × W.
func (t *IndexTableBuilder[T]) Size() int64 {
	return int64(len(t.b.blocks)) * int64(t.b.codec.Width())
}

func (t *IndexTableBuilder[T]) WriteTo(w io.Writer) (int64, error) {
	table, err := t.b.table()
	if err != nil {
		return 0, err
	}

	return table.WriteTo(w)
}

// IndexDataBuilder writes the records of an IndexedRegionBuilder back to back.
type IndexDataBuilder[T address.Word] struct {
	b *IndexedRegionBuilder[T]
}

func (d *IndexDataBuilder[T]) Size() int64 {
	var size int64
	for _, blk := range d.b.blocks {
		size += blk.Size()
	}

	return size
}

func (d *IndexDataBuilder[T]) WriteTo(w io.Writer) (int64, error) {
	return writeChildren(w, d.b.blocks...)
}
