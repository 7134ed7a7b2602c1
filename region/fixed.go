package region

import (
	"encoding/binary"

	"github.com/arloliu/carve/endian"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/source"
)

// stackArrayThreshold is the largest region ReadFixedArray decodes from a
// stack scratch buffer.
const stackArrayThreshold = 256

// ReadFixed decodes one fixed-size value at off within r.
func ReadFixed[V any](r Region, off int64, engine endian.EndianEngine) (V, error) {
	var v V
	size := int64(binary.Size(v))
	if size < 0 {
		return v, errs.Unsupported("read fixed", "%T has no fixed size", v)
	}
	if off < 0 || off > r.length || size > r.length-off {
		return v, errs.BoundsRange("fixed value", off, size, r.length)
	}

	return source.ReadFixed[V](r.src, r.start+off, engine)
}

// ReadFixedArray reinterprets the whole region as a slice of V.
// The region length must be a multiple of the size of V.
func ReadFixedArray[V any](r Region, engine endian.EndianEngine) ([]V, error) {
	var zero V
	size := int64(binary.Size(zero))
	if size <= 0 {
		return nil, errs.Unsupported("read fixed array", "%T has no fixed size", zero)
	}
	if r.length%size != 0 {
		return nil, errs.Invalid("fixed array", "length %d is not a multiple of element size %d", r.length, size)
	}

	out := make([]V, r.length/size)
	if len(out) == 0 {
		return out, nil
	}

	var buf []byte
	if r.length <= stackArrayThreshold {
		var stack [stackArrayThreshold]byte
		buf = stack[:r.length]
		if err := r.ReadFull(buf); err != nil {
			return nil, err
		}
	} else {
		b, err := r.Bytes()
		if err != nil {
			return nil, err
		}
		buf = b
	}

	if _, err := binary.Decode(buf, engine, out); err != nil {
		return nil, err
	}

	return out, nil
}
