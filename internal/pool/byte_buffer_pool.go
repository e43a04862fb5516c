package pool

import (
	"sync"

	"github.com/arloliu/ogawa/endian"
)

// Default sizes of pooled buffers.
const (
	ArchiveBufferDefaultSize  = 1024 * 64        // 64KiB
	ArchiveBufferMaxThreshold = 1024 * 1024 * 16 // 16MiB
	HeaderBufferDefaultSize   = 1024             // 1KiB
	HeaderBufferMaxThreshold  = 1024 * 64        // 64KiB
)

// ByteBuffer is an append-only byte slice used to assemble archives and
// header blobs.
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

// Reset empties the buffer, retaining the allocated memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.B = append(bb.B, data...)
}

// WriteUint64 appends v in little-endian order.
func (bb *ByteBuffer) WriteUint64(v uint64) {
	bb.B = endian.GetLittleEndianEngine().AppendUint64(bb.B, v)
}

// PutUint64 overwrites the 8 bytes at offset with v in little-endian order.
// Panics if the range is not within the buffer.
func (bb *ByteBuffer) PutUint64(offset int, v uint64) {
	endian.GetLittleEndianEngine().PutUint64(bb.B[offset:offset+8], v)
}

// Grow ensures the buffer can hold requiredBytes more bytes without reallocating.
//
// Small buffers grow by ArchiveBufferDefaultSize, larger ones by 25% of their
// capacity, and never by less than requiredBytes.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := ArchiveBufferDefaultSize
	if cap(bb.B) > 4*ArchiveBufferDefaultSize {
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

// ByteBufferPool is a pool of ByteBuffers.
//
// Buffers whose capacity grew past maxThreshold are dropped on Put instead of
// being retained.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
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
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	archivePool = NewByteBufferPool(ArchiveBufferDefaultSize, ArchiveBufferMaxThreshold)
	headerPool  = NewByteBufferPool(HeaderBufferDefaultSize, HeaderBufferMaxThreshold)
)

// GetArchiveBuffer retrieves a buffer sized for a whole serialized archive.
func GetArchiveBuffer() *ByteBuffer {
	return archivePool.Get()
}

// PutArchiveBuffer returns a buffer obtained from GetArchiveBuffer.
func PutArchiveBuffer(bb *ByteBuffer) {
	archivePool.Put(bb)
}

// GetHeaderBuffer retrieves a buffer sized for one object or property header blob.
func GetHeaderBuffer() *ByteBuffer {
	return headerPool.Get()
}

// PutHeaderBuffer returns a buffer obtained from GetHeaderBuffer.
func PutHeaderBuffer(bb *ByteBuffer) {
	headerPool.Put(bb)
}
