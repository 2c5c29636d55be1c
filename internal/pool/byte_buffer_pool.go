// Package pool provides pooled byte buffers for the short-lived
// allocations the reader makes per call: the signature-header blob and the
// metadata-header blob read from the file. Both are copied into Headers
// and die before the call returns, which is exactly the lifetime sync.Pool
// rewards.
package pool

import (
	"io"
	"sync"
)

// Default sizes for the two pooled buffer classes. Signature headers are
// small (a handful of digest/signature tags); region blobs scale with the
// metadata header and can reach megabytes for packages with huge file
// lists.
const (
	SigHeaderBufferDefaultSize  = 1024 * 16       // 16KiB
	SigHeaderBufferMaxThreshold = 1024 * 128      // 128KiB
	RegionBufferDefaultSize     = 1024 * 1024     // 1MiB
	RegionBufferMaxThreshold    = 1024 * 1024 * 8 // 8MiB
)

// ByteBuffer is a growable byte slice with explicit length control, so a
// caller can size it to an exact wire length and read into it directly.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory
// for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Extend extends the buffer by n bytes if there is sufficient capacity.
func (bb *ByteBuffer) Extend(n int) bool {
	curLen := len(bb.B)
	if cap(bb.B)-curLen < n {
		return false
	}

	bb.B = bb.B[:curLen+n]

	return true
}

// ExtendOrGrow extends the buffer by n bytes, growing it if necessary.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	if bb.Extend(n) {
		return
	}

	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes
// without reallocating. If the buffer has sufficient capacity, Grow does
// nothing.
//
// Small buffers grow by a full SigHeaderBufferDefaultSize step; larger
// ones by 25% of current capacity to balance memory against reallocation
// cost.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := SigHeaderBufferDefaultSize
	if cap(bb.B) > 4*SigHeaderBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally. A maximum size threshold prevents a single
// pathological header from pinning a huge buffer in the pool forever.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the
// specified default size.
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

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		// Discard overly large buffers to prevent memory bloat
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	sigHeaderDefaultPool = NewByteBufferPool(SigHeaderBufferDefaultSize, SigHeaderBufferMaxThreshold)
	regionDefaultPool    = NewByteBufferPool(RegionBufferDefaultSize, RegionBufferMaxThreshold)
)

// GetSigHeaderBuffer retrieves a ByteBuffer sized for signature-header
// blobs from the default pool.
func GetSigHeaderBuffer() *ByteBuffer {
	return sigHeaderDefaultPool.Get()
}

// PutSigHeaderBuffer returns a ByteBuffer to the default signature-header
// pool.
func PutSigHeaderBuffer(bb *ByteBuffer) {
	sigHeaderDefaultPool.Put(bb)
}

// GetRegionBuffer retrieves a ByteBuffer sized for metadata-header blobs
// from the default pool.
func GetRegionBuffer() *ByteBuffer {
	return regionDefaultPool.Get()
}

// PutRegionBuffer returns a ByteBuffer to the default region pool.
func PutRegionBuffer(bb *ByteBuffer) {
	regionDefaultPool.Put(bb)
}
