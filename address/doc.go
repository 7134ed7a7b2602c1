// Package address implements the fixed-width unsigned integers that carve
// containers use as on-wire offsets.
//
// An Address[T] is generic over its storage word T, so every width shares one
// set of operation contracts while views and builders stay monomorphic:
//
//	Address[uint8]   1-byte offsets, containers up to 255 bytes
//	Address[uint16]  2-byte offsets
//	Address[uint32]  4-byte offsets
//	Address[uint64]  8-byte offsets
//	Address[uint]    platform word size
//
// Arithmetic never wraps. Any result that does not fit T, including a
// subtraction that would go negative, returns an error wrapping
// errs.ErrAddressOverflow.
//
// A Codec[T] encodes and decodes addresses with a fixed byte order. The zero
// Codec is usable and encodes little-endian.
package address
