package address

import (
	"cmp"
	"math"
	"math/bits"
	"strconv"
	"unsafe"

	"github.com/arloliu/carve/errs"
	"golang.org/x/exp/constraints"
)

// Word is the set of storage types an Address can use.
type Word interface {
	constraints.Unsigned
}

// Short names for the supported storage words.
type (
	W8      = uint8
	W16     = uint16
	W32     = uint32
	W64     = uint64
	WNative = uint
)

// Address is an offset stored in the fixed-width word T.
type Address[T Word] struct {
	v T
}

// Width returns the encoded size in bytes of an Address[T].
func Width[T Word]() int {
	var z T
	return int(unsafe.Sizeof(z))
}

// MaxValue returns the largest value an Address[T] can hold.
func MaxValue[T Word]() uint64 {
	return uint64(^T(0))
}

// Zero returns the zero address.
func Zero[T Word]() Address[T] {
	return Address[T]{}
}

// Of wraps v as an address.
func Of[T Word](v T) Address[T] {
	return Address[T]{v: v}
}

// FromUint64 narrows n to T, failing if it does not fit.
func FromUint64[T Word](n uint64) (Address[T], error) {
	if n > MaxValue[T]() {
		return Address[T]{}, errs.Overflow("narrowing "+strconv.FormatUint(n, 10), Width[T]())
	}

	return Address[T]{v: T(n)}, nil
}

// FromRawOffset returns the address of n raw bytes.
func FromRawOffset[T Word](n int64) (Address[T], error) {
	if n < 0 {
		return Address[T]{}, errs.Overflow("negative offset "+strconv.FormatInt(n, 10), Width[T]())
	}

	return FromUint64[T](uint64(n))
}

// FromSlotOffset returns the address of n slots, that is n × Width[T]() bytes.
func FromSlotOffset[T Word](n int64) (Address[T], error) {
	if n < 0 {
		return Address[T]{}, errs.Overflow("negative slot count "+strconv.FormatInt(n, 10), Width[T]())
	}

	hi, lo := bits.Mul64(uint64(n), uint64(Width[T]()))
	if hi != 0 {
		return Address[T]{}, errs.Overflow("slot offset", Width[T]())
	}

	return FromUint64[T](lo)
}

// Value returns the raw word.
func (a Address[T]) Value() T { return a.v }

// Uint64 widens the address to uint64. It never fails.
func (a Address[T]) Uint64() uint64 { return uint64(a.v) }

// Size returns the encoded size of the address in bytes.
func (a Address[T]) Size() int { return Width[T]() }

func (a Address[T]) IsZero() bool { return a.v == 0 }

// Int64 converts the address to int64, failing above math.MaxInt64.
func (a Address[T]) Int64() (int64, error) {
	v := uint64(a.v)
	if v > math.MaxInt64 {
		return 0, errs.Overflow("conversion to int64", 8)
	}

	return int64(v), nil
}

// Int32 converts the address to int32, failing above math.MaxInt32.
func (a Address[T]) Int32() (int32, error) {
	v := uint64(a.v)
	if v > math.MaxInt32 {
		return 0, errs.Overflow("conversion to int32", 4)
	}

	return int32(v), nil
}

// Int converts the address to int.
func (a Address[T]) Int() (int, error) {
	v := uint64(a.v)
	if v > math.MaxInt {
		return 0, errs.Overflow("conversion to int", strconv.IntSize/8)
	}

	return int(v), nil
}

// Add returns a + b.
func (a Address[T]) Add(b Address[T]) (Address[T], error) {
	return a.addUint64(uint64(b.v), "add")
}

// Sub returns a - b. It fails when b > a.
func (a Address[T]) Sub(b Address[T]) (Address[T], error) {
	return a.subUint64(uint64(b.v), "subtract")
}

// AddRaw adds n bytes, which may be negative.
func (a Address[T]) AddRaw(n int64) (Address[T], error) {
	if n >= 0 {
		return a.addUint64(uint64(n), "add")
	}

	return a.subUint64(negate(n), "subtract")
}

// SubRaw subtracts n bytes, which may be negative.
func (a Address[T]) SubRaw(n int64) (Address[T], error) {
	if n >= 0 {
		return a.subUint64(uint64(n), "subtract")
	}

	return a.addUint64(negate(n), "add")
}

// Mul returns a × k.
func (a Address[T]) Mul(k int64) (Address[T], error) {
	if k < 0 {
		return Address[T]{}, errs.Overflow("multiply by negative", Width[T]())
	}

	hi, lo := bits.Mul64(uint64(a.v), uint64(k))
	if hi != 0 || lo > MaxValue[T]() {
		return Address[T]{}, errs.Overflow("multiply", Width[T]())
	}

	return Address[T]{v: T(lo)}, nil
}

// Inc advances the address by one slot (Width[T]() bytes).
func (a Address[T]) Inc() (Address[T], error) {
	return a.addUint64(uint64(Width[T]()), "increment")
}

// Dec moves the address back by one slot (Width[T]() bytes).
func (a Address[T]) Dec() (Address[T], error) {
	return a.subUint64(uint64(Width[T]()), "decrement")
}

// Compare returns -1, 0 or +1.
func (a Address[T]) Compare(b Address[T]) int {
	return cmp.Compare(a.v, b.v)
}

func (a Address[T]) Less(b Address[T]) bool { return a.v < b.v }

func (a Address[T]) String() string {
	return strconv.FormatUint(uint64(a.v), 10)
}

func (a Address[T]) addUint64(n uint64, op string) (Address[T], error) {
	sum, carry := bits.Add64(uint64(a.v), n, 0)
	if carry != 0 || sum > MaxValue[T]() {
		return Address[T]{}, errs.Overflow(op, Width[T]())
	}

	return Address[T]{v: T(sum)}, nil
}

func (a Address[T]) subUint64(n uint64, op string) (Address[T], error) {
	if n > uint64(a.v) {
		return Address[T]{}, errs.Overflow(op, Width[T]())
	}

	return Address[T]{v: a.v - T(n)}, nil
}

// negate returns |n| for negative n, including math.MinInt64.
func negate(n int64) uint64 {
	return uint64(-(n + 1)) + 1
}
