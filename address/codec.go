package address

import (
	"github.com/arloliu/carve/endian"
	"github.com/arloliu/carve/errs"
	"github.com/arloliu/carve/format"
	"github.com/arloliu/carve/internal/options"
)

// Config holds codec settings.
type Config struct {
	engine endian.EndianEngine
}

// Option configures a Codec.
type Option = options.Option[*Config]

// WithLittleEndian encodes addresses little-endian. It is the default.
func WithLittleEndian() Option {
	return options.NoError(func(c *Config) {
		c.engine = endian.GetLittleEndianEngine()
	})
}

// WithBigEndian encodes addresses big-endian.
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.engine = endian.GetBigEndianEngine()
	})
}

// WithNativeEndian encodes addresses in host byte order. Containers written
// this way are only portable between hosts of the same endianness.
func WithNativeEndian() Option {
	return options.NoError(func(c *Config) {
		c.engine = endian.GetNativeEndianEngine()
	})
}

// WithByteOrder selects the byte order by enum value.
func WithByteOrder(order format.ByteOrder) Option {
	return options.New(func(c *Config) error {
		engine, err := endian.EngineFor(order)
		if err != nil {
			return err
		}
		c.engine = engine

		return nil
	})
}

// Codec encodes and decodes Address[T] values with a fixed byte order.
type Codec[T Word] struct {
	engine endian.EndianEngine
}

// NewCodec creates a codec for T.
func NewCodec[T Word](opts ...Option) (Codec[T], error) {
	cfg := &Config{engine: endian.GetLittleEndianEngine()}
	if err := options.Apply(cfg, opts...); err != nil {
		return Codec[T]{}, err
	}

	return Codec[T]{engine: cfg.engine}, nil
}

// DefaultCodec returns a little-endian codec for T.
func DefaultCodec[T Word]() Codec[T] {
	return Codec[T]{engine: endian.GetLittleEndianEngine()}
}

// Width returns the encoded size of one address.
func (c Codec[T]) Width() int {
	return Width[T]()
}

// AddressWidth describes T as a format.AddressWidth.
func (c Codec[T]) AddressWidth() format.AddressWidth {
	var z T
	switch any(z).(type) {
	case uint, uintptr:
		return format.WidthNative
	}

	return format.AddressWidth(Width[T]())
}

// Engine returns the byte order engine.
func (c Codec[T]) Engine() endian.EndianEngine {
	if c.engine == nil {
		return endian.GetLittleEndianEngine()
	}

	return c.engine
}

// Order returns the byte order.
func (c Codec[T]) Order() format.ByteOrder {
	return endian.OrderOf(c.Engine())
}

// Decode reads one address from the start of b.
func (c Codec[T]) Decode(b []byte) (Address[T], error) {
	w := Width[T]()
	if len(b) < w {
		return Address[T]{}, errs.Truncated(0, w, len(b))
	}

	e := c.Engine()
	var v uint64
	switch w {
	case 1:
		v = uint64(b[0])
	case 2:
		v = uint64(e.Uint16(b))
	case 4:
		v = uint64(e.Uint32(b))
	default:
		v = e.Uint64(b)
	}

	return Address[T]{v: T(v)}, nil
}

// Put writes a into the first Width() bytes of b. It panics if b is too short.
func (c Codec[T]) Put(b []byte, a Address[T]) {
	e := c.Engine()
	switch Width[T]() {
	case 1:
		b[0] = uint8(a.v)
	case 2:
		e.PutUint16(b, uint16(a.v))
	case 4:
		e.PutUint32(b, uint32(a.v))
	default:
		e.PutUint64(b, uint64(a.v))
	}
}

// Append appends the encoding of a to b.
func (c Codec[T]) Append(b []byte, a Address[T]) []byte {
	e := c.Engine()
	switch Width[T]() {
	case 1:
		return append(b, uint8(a.v))
	case 2:
		return e.AppendUint16(b, uint16(a.v))
	case 4:
		return e.AppendUint32(b, uint32(a.v))
	default:
		return e.AppendUint64(b, uint64(a.v))
	}
}
