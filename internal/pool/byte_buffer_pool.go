// Package pool provides reusable byte buffers for builder output and
// region copies.
package pool

import (
	"io"
	"sync"
)

const (
	OutputBufferDefaultSize  = 1024 * 16   // 16KiB
	OutputBufferMaxThreshold = 1024 * 1024 // 1MiB
	CopyChunkSize            = 1024 * 32   // 32KiB
)

// ByteBuffer is an append-only byte sink implementing io.Writer.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

var _ io.Writer = (*ByteBuffer)(nil)

// NewByteBuffer creates a new ByteBuffer with the given capacity.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer but keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// Grow ensures room for requiredBytes more bytes without reallocating.
//
// Small buffers grow by OutputBufferDefaultSize; larger ones by 25% of their
// capacity, and always by at least requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := OutputBufferDefaultSize
	if cap(bb.B) > 4*OutputBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}
	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends data to the buffer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// Clone returns a copy of the contents that does not alias the buffer.
func (bb *ByteBuffer) Clone() []byte {
	out := make([]byte, len(bb.B))
	copy(out, bb.B)

	return out
}

// ByteBufferPool is a sync.Pool of ByteBuffers. Buffers that grew past
// maxThreshold are dropped instead of being returned to the pool.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool of buffers with the given initial size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves an empty ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var outputPool = NewByteBufferPool(OutputBufferDefaultSize, OutputBufferMaxThreshold)

// GetOutputBuffer retrieves a ByteBuffer for builder output.
func GetOutputBuffer() *ByteBuffer {
	return outputPool.Get()
}

// PutOutputBuffer returns a builder output buffer to the pool.
func PutOutputBuffer(bb *ByteBuffer) {
	outputPool.Put(bb)
}
