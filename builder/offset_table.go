package builder

import (
	"io"

	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/region"
)

type tableMode uint8

const (
	partitionMode tableMode = iota + 1
	layoutMode
)

// OffsetTableBuilder writes an offset table from a list of slot sizes.
//
// In partition mode the first slot holds N × W, the size of the table itself.
// In layout mode it holds the sum of all slot sizes, the row size. Either way
// the remaining N−1 slots hold the cumulative end offsets of slots 0..N−2.
type OffsetTableBuilder[T address.Word] struct {
	codec address.Codec[T]
	mode  tableMode
	sizes []int64
	total int64
}

// NewPartitionTableBuilder returns a builder for a partition index.
func NewPartitionTableBuilder[T address.Word](codec address.Codec[T]) *OffsetTableBuilder[T] {
	return &OffsetTableBuilder[T]{codec: codec, mode: partitionMode}
}

// NewLayoutTableBuilder returns a builder for a row layout table.
func NewLayoutTableBuilder[T address.Word](codec address.Codec[T]) *OffsetTableBuilder[T] {
	return &OffsetTableBuilder[T]{codec: codec, mode: layoutMode}
}

// AddSlot appends a slot of the given size and returns its index. It fails
// when a value the table would write can no longer be addressed with T.
func (t *OffsetTableBuilder[T]) AddSlot(size int64) (int, error) {
	if size < 0 {
		return 0, errs.Invalid("offset table builder", "negative slot size %d", size)
	}
	if err := t.check(len(t.sizes)+1, t.total+size); err != nil {
		return 0, err
	}

	t.sizes = append(t.sizes, size)
	t.total += size

	return len(t.sizes) - 1, nil
}

// check reports whether a table of n slots covering total bytes fits in T.
//
// A layout table stores total in its first slot. A partition table stores
// n × W there and never writes the end of its last slot, so only the end of
// slot n-2, the current total, has to be addressable.
func (t *OffsetTableBuilder[T]) check(n int, total int64) error {
	if total < 0 {
		return errs.Overflow("offset table total", t.codec.Width())
	}

	written := total
	if t.mode == partitionMode {
		if _, err := address.FromSlotOffset[T](int64(n)); err != nil {
			return err
		}
		written = t.total
	}
	if _, err := address.FromRawOffset[T](written); err != nil {
		return err
	}

	return nil
}

// Codec returns the address codec.
func (t *OffsetTableBuilder[T]) Codec() address.Codec[T] { return t.codec }

// Count returns the number of slots.
func (t *OffsetTableBuilder[T]) Count() int { return len(t.sizes) }

// Total returns the sum of all slot sizes.
func (t *OffsetTableBuilder[T]) Total() int64 { return t.total }

// Offset returns the byte range slot i will describe.
func (t *OffsetTableBuilder[T]) Offset(i int) (region.Offset, error) {
	if i < 0 || i >= len(t.sizes) {
		return region.Offset{}, errs.Bounds("offset table builder", int64(i), int64(len(t.sizes)))
	}

	var start int64
	for _, s := range t.sizes[:i] {
		start += s
	}

	return region.At(start, t.sizes[i]), nil
}

// Size returns N × W.
func (t *OffsetTableBuilder[T]) Size() int64 {
	return int64(len(t.sizes)) * int64(t.codec.Width())
}

// Encode returns the table bytes.
func (t *OffsetTableBuilder[T]) Encode() ([]byte, error) {
	n := len(t.sizes)
	if n == 0 {
		return nil, errs.Invalid("offset table builder", "table has no slots")
	}

	lead := t.total
	if t.mode == partitionMode {
		lead = t.Size()
	}

	buf := make([]byte, 0, t.Size())
	a, err := address.FromRawOffset[T](lead)
	if err != nil {
		return nil, err
	}
	buf = t.codec.Append(buf, a)

	var end int64
	for _, s := range t.sizes[:n-1] {
		end += s
		if a, err = address.FromRawOffset[T](end); err != nil {
			return nil, err
		}
		buf = t.codec.Append(buf, a)
	}

	return buf, nil
}

func (t *OffsetTableBuilder[T]) WriteTo(w io.Writer) (int64, error) {
	buf, err := t.Encode()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)

	return int64(n), err
}
