package pool

import (
	"unsafe"

	"github.com/QuangTung97/blockpool/memfill"
)

// Config ...
type Config struct {
	BlockSize uint32
	NumBlocks uint32
}

// StorageSize returns the number of raw storage bytes, NumBlocks * BlockSize.
func (c Config) StorageSize() int {
	return int(c.NumBlocks) * int(c.BlockSize)
}

// BitmapSize returns the number of occupancy bitmap bytes, one bit per block.
func (c Config) BitmapSize() int {
	return (int(c.NumBlocks) + 7) / 8
}

// BufferSize returns the total handle size: storage bytes followed by bitmap bytes.
func (c Config) BufferSize() int {
	return c.StorageSize() + c.BitmapSize()
}

// Validate panics when BlockSize or NumBlocks is zero. Init and InitBuffer
// call it, callers doing work before placing a pool can call it earlier.
func (c Config) Validate() {
	if c.BlockSize == 0 {
		panic("BlockSize must > 0")
	}
	if c.NumBlocks == 0 {
		panic("NumBlocks must > 0")
	}
}

// Pool is a fixed-block allocator over a contiguous byte region divided
// into NumBlocks blocks of BlockSize bytes each, tracked by an occupancy
// bitmap. The zero value behaves as an empty pool: Alloc returns nil,
// Free is a no-op and FreeCount returns 0. Not safe for concurrent use
// without external locking.
type Pool struct {
	blockSize uint32
	numBlocks uint32
	storage   []byte
	bitmap    []byte
}

// Init builds p over a freshly allocated buffer and marks every block
// free. A nil p is a no-op. Safe to call repeatedly, each call resets
// the pool to the all-free state.
func Init(p *Pool, conf Config) {
	if p == nil {
		return
	}
	conf.Validate()
	InitBuffer(p, conf, make([]byte, conf.BufferSize()))
}

// InitBuffer places p over a caller-owned buffer of at least
// conf.BufferSize() bytes: block storage first, occupancy bitmap after.
// Every byte of the region is zeroed. A nil p or nil buf is a no-op.
// The caller keeps ownership of buf and must not reuse it while p lives.
func InitBuffer(p *Pool, conf Config, buf []byte) {
	if p == nil || buf == nil {
		return
	}
	conf.Validate()
	if len(buf) < conf.BufferSize() {
		panic("buffer too small for pool config")
	}

	storageSize := conf.StorageSize()
	p.blockSize = conf.BlockSize
	p.numBlocks = conf.NumBlocks
	p.storage = buf[:storageSize]
	p.bitmap = buf[storageSize:conf.BufferSize()]

	memfill.Fill(buf[:conf.BufferSize()], 0)
}

// BlockSize ...
func (p *Pool) BlockSize() uint32 {
	if p == nil {
		return 0
	}
	return p.blockSize
}

// NumBlocks ...
func (p *Pool) NumBlocks() uint32 {
	if p == nil {
		return 0
	}
	return p.numBlocks
}

// Alloc returns the address of the lowest-indexed free block and marks it
// allocated. Returns nil when p is nil, not initialized, or every block is
// allocated. The block content is not cleared, leftover bytes from prior
// use may be present.
func (p *Pool) Alloc() unsafe.Pointer {
	if p == nil {
		return nil
	}
	index, ok := findFirstFree(p.bitmap, p.numBlocks)
	if !ok {
		return nil
	}
	setBit(p.bitmap, index)
	return p.blockAt(index)
}

func (p *Pool) blockAt(index uint32) unsafe.Pointer {
	return unsafe.Pointer(&p.storage[uintptr(index)*uintptr(p.blockSize)])
}

// blockOffset converts block back to a byte offset from the storage base,
// false when the pointer does not land inside the storage region.
func (p *Pool) blockOffset(block unsafe.Pointer) (uintptr, bool) {
	if len(p.storage) == 0 {
		return 0, false
	}
	base := uintptr(unsafe.Pointer(&p.storage[0]))
	addr := uintptr(block)
	if addr < base || addr >= base+uintptr(len(p.storage)) {
		return 0, false
	}
	return addr - base, true
}

// FreeStatus reports the outcome of Release.
type FreeStatus int

const (
	// StatusFreed means the block transitioned allocated to free.
	StatusFreed FreeStatus = iota
	// StatusNilPool means the pool handle was nil.
	StatusNilPool
	// StatusNilBlock means the block pointer was nil.
	StatusNilBlock
	// StatusOutOfRange means the pointer was outside the pool storage.
	StatusOutOfRange
	// StatusMisaligned means the pointer was inside the pool but not on
	// a block boundary.
	StatusMisaligned
	// StatusNotAllocated means the block was already free.
	StatusNotAllocated
)

// Free returns block to the pool. Every invalid input is a silent no-op:
// nil pool, nil block, pointer outside the storage region, pointer not on
// a block boundary, block already free. Freeing the same block twice is
// therefore safe and changes nothing the second time.
func (p *Pool) Free(block unsafe.Pointer) {
	p.Release(block)
}

// Release frees block like Free but reports the outcome, so callers that
// want to surface double frees or foreign pointers can. State changes only
// on StatusFreed.
func (p *Pool) Release(block unsafe.Pointer) FreeStatus {
	if p == nil {
		return StatusNilPool
	}
	if block == nil {
		return StatusNilBlock
	}

	offset, ok := p.blockOffset(block)
	if !ok {
		return StatusOutOfRange
	}
	if offset%uintptr(p.blockSize) != 0 {
		return StatusMisaligned
	}
	index := uint32(offset / uintptr(p.blockSize))
	if index >= p.numBlocks {
		return StatusOutOfRange
	}

	if testBit(p.bitmap, index) == 0 {
		return StatusNotAllocated
	}
	clearBit(p.bitmap, index)
	return StatusFreed
}

// FreeCount returns the number of free blocks, 0 for a nil pool.
func (p *Pool) FreeCount() uint32 {
	if p == nil {
		return 0
	}
	count := uint32(0)
	for i := uint32(0); i < p.numBlocks; i++ {
		if testBit(p.bitmap, i) == 0 {
			count++
		}
	}
	return count
}
