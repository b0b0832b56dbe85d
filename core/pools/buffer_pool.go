package pools

import "sync"

// Line buffer size tiers. The largest tier matches the request-line cap so a
// maximum-size request line never forces a direct allocation.
var defaultSizes = []int{512, 2048, 8192, 32768}

// BytePool is a multi-tiered byte slice pool. Connections borrow a line
// buffer for their lifetime and return it on close, so steady-state serving
// allocates no per-request buffers.
type BytePool struct {
	pools []*sync.Pool
	sizes []int
}

// NewBytePool creates a byte pool with the standard size tiers.
func NewBytePool() *BytePool {
	return NewBytePoolWithSizes(defaultSizes)
}

// NewBytePoolWithSizes creates a byte pool with custom size tiers, which
// must be ascending.
func NewBytePoolWithSizes(sizes []int) *BytePool {
	bp := &BytePool{
		pools: make([]*sync.Pool, len(sizes)),
		sizes: sizes,
	}
	for i, size := range sizes {
		sz := size
		bp.pools[i] = &sync.Pool{
			New: func() any {
				buf := make([]byte, 0, sz)
				return &buf
			},
		}
	}
	return bp
}

// Get returns an empty byte slice with at least the requested capacity.
func (bp *BytePool) Get(capacity int) []byte {
	for i, poolSize := range bp.sizes {
		if capacity <= poolSize {
			bufPtr := bp.pools[i].Get().(*[]byte)
			return (*bufPtr)[:0]
		}
	}
	return make([]byte, 0, capacity)
}

// Put returns a byte slice to its tier. Buffers that grew past their tier
// (or never came from one) are left to the GC.
func (bp *BytePool) Put(buf []byte) {
	capacity := cap(buf)
	for i, poolSize := range bp.sizes {
		if capacity == poolSize {
			buf = buf[:0]
			bp.pools[i].Put(&buf)
			return
		}
	}
}
