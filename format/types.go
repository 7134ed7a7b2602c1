// Package format defines the small enumerations shared by every layer of the
// carve container format: address widths, byte orders and the "to end"
// length sentinel used by region offsets.
package format

import (
	"fmt"
	"strconv"
	"strings"
)

type (
	AddressWidth uint8
	ByteOrder    uint8
)

const (
	Width8      AddressWidth = 1 // Width8 is a 1-byte address.
	Width16     AddressWidth = 2 // Width16 is a 2-byte address.
	Width32     AddressWidth = 4 // Width32 is a 4-byte address.
	Width64     AddressWidth = 8 // Width64 is an 8-byte address.
	WidthNative AddressWidth = 0 // WidthNative is the platform word size.

	LittleEndian ByteOrder = 0x1 // LittleEndian is the default on-wire byte order.
	BigEndian    ByteOrder = 0x2 // BigEndian is network byte order.
	NativeEndian ByteOrder = 0x3 // NativeEndian follows the host byte order.
)

// ToEnd is the region offset length meaning "to the end of the enclosing region".
const ToEnd int64 = -1

func (w AddressWidth) String() string {
	switch w {
	case Width8, Width16, Width32, Width64:
		return strconv.Itoa(int(w) * 8)
	case WidthNative:
		return "native"
	default:
		return "Unknown"
	}
}

// Bytes returns the byte size of the width, resolving WidthNative to the
// platform word size.
func (w AddressWidth) Bytes() int {
	if w == WidthNative {
		return strconv.IntSize / 8
	}

	return int(w)
}

// ParseAddressWidth parses a width given in bits ("8", "16", "32", "64") or "native".
func ParseAddressWidth(s string) (AddressWidth, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "8":
		return Width8, nil
	case "16":
		return Width16, nil
	case "32":
		return Width32, nil
	case "64":
		return Width64, nil
	case "native", "":
		return WidthNative, nil
	default:
		return 0, fmt.Errorf("invalid address width: %q", s)
	}
}

func (o ByteOrder) String() string {
	switch o {
	case LittleEndian:
		return "LittleEndian"
	case BigEndian:
		return "BigEndian"
	case NativeEndian:
		return "NativeEndian"
	default:
		return "Unknown"
	}
}

// ParseByteOrder parses "le", "be" or "native" (and their long forms).
func ParseByteOrder(s string) (ByteOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "le", "little", "littleendian", "":
		return LittleEndian, nil
	case "be", "big", "bigendian":
		return BigEndian, nil
	case "native", "nativeendian":
		return NativeEndian, nil
	default:
		return 0, fmt.Errorf("invalid byte order: %q", s)
	}
}
