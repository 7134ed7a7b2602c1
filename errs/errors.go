// Package errs defines the error values returned by carve.
//
// Every failure belongs to one of a few kinds, each with a sentinel for
// errors.Is and a struct type carrying context for errors.As:
//
//	ErrOutOfBounds     *BoundsError        index or range outside an entity
//	ErrInvalidLayout   *ValidityError      structural corruption found by validation
//	ErrTruncatedRead   *TruncatedReadError a source returned fewer bytes than required
//	ErrUnsupported     *UnsupportedError   operation not allowed on this value
//	ErrAddressOverflow *OverflowError      value does not fit the address width
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds     = errors.New("out of bounds")
	ErrInvalidLayout   = errors.New("invalid layout")
	ErrTruncatedRead   = errors.New("truncated read")
	ErrUnsupported     = errors.New("unsupported operation")
	ErrAddressOverflow = errors.New("address overflow")
	ErrClosed          = errors.New("source closed")
)

// BoundsError reports an index or byte range outside the extent of an entity.
type BoundsError struct {
	What   string // entity being accessed, e.g. "table row"
	Start  int64  // index, or start of the requested range
	Length int64  // length of the requested range, -1 for a single index
	Limit  int64  // extent of the entity
}

// Bounds returns a BoundsError for a single index.
func Bounds(what string, index, limit int64) error {
	return &BoundsError{What: what, Start: index, Length: -1, Limit: limit}
}

// BoundsRange returns a BoundsError for a byte range.
func BoundsRange(what string, start, length, limit int64) error {
	return &BoundsError{What: what, Start: start, Length: length, Limit: limit}
}

func (e *BoundsError) Error() string {
	if e.Length < 0 {
		return fmt.Sprintf("%s: index %d out of range [0, %d)", e.What, e.Start, e.Limit)
	}

	return fmt.Sprintf("%s: range [%d, %d) exceeds length %d", e.What, e.Start, e.Start+e.Length, e.Limit)
}

func (e *BoundsError) Unwrap() error {
	return ErrOutOfBounds
}

// ValidityError reports structural corruption of a byte layout.
type ValidityError struct {
	What string
	Msg  string
	Err  error
}

// Invalid returns a ValidityError for what.
func Invalid(what string, format string, args ...any) error {
	return &ValidityError{What: what, Msg: fmt.Sprintf(format, args...)}
}

// InvalidWrap returns a ValidityError for what caused by err.
func InvalidWrap(what string, err error, format string, args ...any) error {
	return &ValidityError{What: what, Msg: fmt.Sprintf(format, args...), Err: err}
}

func (e *ValidityError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.What, e.Msg, e.Err)
	}

	return fmt.Sprintf("invalid %s: %s", e.What, e.Msg)
}

func (e *ValidityError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidLayout}
	}

	return []error{ErrInvalidLayout, e.Err}
}

// TruncatedReadError reports a read that had to be complete but was short.
type TruncatedReadError struct {
	Offset int64
	Want   int
	Got    int
}

// Truncated returns a TruncatedReadError.
func Truncated(offset int64, want, got int) error {
	return &TruncatedReadError{Offset: offset, Want: want, Got: got}
}

func (e *TruncatedReadError) Error() string {
	return fmt.Sprintf("truncated read at offset %d: wanted %d bytes, got %d", e.Offset, e.Want, e.Got)
}

func (e *TruncatedReadError) Unwrap() error {
	return ErrTruncatedRead
}

// UnsupportedError reports an operation the receiver does not allow.
type UnsupportedError struct {
	Op  string
	Msg string
}

// Unsupported returns an UnsupportedError for op.
func Unsupported(op string, format string, args ...any) error {
	return &UnsupportedError{Op: op, Msg: fmt.Sprintf(format, args...)}
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *UnsupportedError) Unwrap() error {
	return ErrUnsupported
}

// OverflowError reports arithmetic or a narrowing conversion that does not
// fit the declared address width.
type OverflowError struct {
	Op    string
	Width int // width in bytes of the target type
}

// Overflow returns an OverflowError.
func Overflow(op string, width int) error {
	return &OverflowError{Op: op, Width: width}
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s overflows %d-byte address", e.Op, e.Width)
}

func (e *OverflowError) Unwrap() error {
	return ErrAddressOverflow
}
