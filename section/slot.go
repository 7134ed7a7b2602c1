package section

import (
	"github.com/arloliu/carve/address"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/region"
)

// readAddress decodes the address at byte offset off within r as an int64.
func readAddress[T address.Word](r region.Region, off int64, codec address.Codec[T]) (int64, error) {
	w := int64(codec.Width())
	slot, err := r.Sub(off, w)
	if err != nil {
		return 0, err
	}

	var buf [8]byte
	if err := slot.ReadFull(buf[:w]); err != nil {
		return 0, err
	}

	a, err := codec.Decode(buf[:w])
	if err != nil {
		return 0, err
	}

	return a.Int64()
}

// offsetTable is the algorithm shared by PartitionIndex and RowLayout.
type offsetTable[T address.Word] struct {
	what  string
	slots region.Region
	codec address.Codec[T]
	bound int64
}

func (t offsetTable[T]) count() int {
	return int(t.slots.Len() / int64(t.codec.Width()))
}

func (t offsetTable[T]) slot(i int) (int64, error) {
	return readAddress(t.slots, int64(i)*int64(t.codec.Width()), t.codec)
}

func (t offsetTable[T]) get(i int) (region.Offset, error) {
	n := t.count()
	if i < 0 || i >= n {
		return region.Offset{}, errs.Bounds(t.what, int64(i), int64(n))
	}

	var start, end int64
	var err error
	if i > 0 {
		if start, err = t.slot(i); err != nil {
			return region.Offset{}, err
		}
	}
	if i < n-1 {
		if end, err = t.slot(i + 1); err != nil {
			return region.Offset{}, err
		}
	} else {
		end = t.bound
	}

	if start > end || end > t.bound {
		return region.Offset{}, errs.Invalid(t.what, "entry %d spans [%d, %d) outside [0, %d]", i, start, end, t.bound)
	}

	return region.At(start, end-start), nil
}

// checkShape verifies the table holds a whole, non-zero number of slots.
func (t offsetTable[T]) checkShape() error {
	if !t.slots.IsValid() {
		return errs.Invalid(t.what, "invalid region %s", t.slots)
	}
	w := int64(t.codec.Width())
	if t.slots.Len() < w {
		return errs.Invalid(t.what, "length %d is shorter than one %d-byte slot", t.slots.Len(), w)
	}
	if t.slots.Len()%w != 0 {
		return errs.Invalid(t.what, "length %d is not a multiple of slot size %d", t.slots.Len(), w)
	}

	return nil
}

// validate checks that boundaries 1..N-1 are non-decreasing and within bound.
func (t offsetTable[T]) validate() error {
	if err := t.checkShape(); err != nil {
		return err
	}
	if t.bound < 0 {
		return errs.Invalid(t.what, "negative bound %d", t.bound)
	}

	raw, err := t.slots.Bytes()
	if err != nil {
		return errs.InvalidWrap(t.what, err, "cannot read slots")
	}

	w := t.codec.Width()
	var prev int64
	for i := 1; i < t.count(); i++ {
		a, err := t.codec.Decode(raw[i*w:])
		if err != nil {
			return errs.InvalidWrap(t.what, err, "slot %d", i)
		}
		v, err := a.Int64()
		if err != nil {
			return errs.InvalidWrap(t.what, err, "slot %d", i)
		}
		if v < prev {
			return errs.Invalid(t.what, "slot %d boundary %d is below previous boundary %d", i, v, prev)
		}
		if v > t.bound {
			return errs.Invalid(t.what, "slot %d boundary %d exceeds bound %d", i, v, t.bound)
		}
		prev = v
	}

	return nil
}
