// Package endian selects the byte order used to encode addresses and fixed-size
// values in carve containers.
//
// The container format carries no byte order marker. Writers and readers agree
// on an order out of band, usually by constructing their address codecs with
// the same option. Little-endian is the default:
//
//	engine := endian.GetLittleEndianEngine()
//	engine.PutUint32(buf, 12)
//
// Host-native order is available for containers that never leave the machine
// that produced them:
//
//	engine := endian.GetNativeEndianEngine()
//
// # Thread Safety
//
// All functions and methods in this package are safe for concurrent use.
// The returned EndianEngine instances are immutable and stateless.
package endian

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/arloliu/carve/format"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100: a big-endian host stores 0x01 at the lowest address.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

func IsNativeBigEndian() bool {
	return CheckEndianness() == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == CheckEndianness()
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}

// GetNativeEndianEngine returns the engine matching the host byte order.
//
// binary.NativeEndian is not used because it does not compare equal to
// either of the fixed-order engines, which breaks OrderOf.
func GetNativeEndianEngine() EndianEngine {
	if IsNativeBigEndian() {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// EngineFor maps a format.ByteOrder to its engine.
func EngineFor(order format.ByteOrder) (EndianEngine, error) {
	switch order {
	case format.LittleEndian:
		return GetLittleEndianEngine(), nil
	case format.BigEndian:
		return GetBigEndianEngine(), nil
	case format.NativeEndian:
		return GetNativeEndianEngine(), nil
	default:
		return nil, fmt.Errorf("unsupported byte order: %s", order)
	}
}

// OrderOf reports the fixed byte order implemented by engine.
// Native engines resolve to the concrete host order.
func OrderOf(engine EndianEngine) format.ByteOrder {
	if engine == binary.BigEndian {
		return format.BigEndian
	}

	return format.LittleEndian
}
