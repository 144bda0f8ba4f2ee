// Package shmpool places a fixed-block pool over a file-backed shared
// memory mapping, so the block storage and its occupancy bitmap live in
// memory any process mapping the same file can see. External locking is
// still the caller's job, same as with the in-process pool.
package shmpool

import (
	"errors"
	"os"
	"unsafe"

	"github.com/QuangTung97/blockpool/pool"
)

// ErrNotSupported is returned on platforms without mmap support.
var ErrNotSupported = errors.New("shmpool: not supported on this platform")

// Pool is a fixed-block pool whose handle lives in a file-backed mapping.
type Pool struct {
	pool pool.Pool
	file *os.File
	data []byte
}

// Open creates or truncates path to conf.BufferSize() bytes, maps it
// read-write shared, and initializes a pool over the mapping. Every block
// starts free.
func Open(path string, conf pool.Config) (*Pool, error) {
	conf.Validate()

	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, err
	}

	size := conf.BufferSize()
	if err := file.Truncate(int64(size)); err != nil {
		_ = file.Close()
		return nil, err
	}

	data, err := mmapFile(file.Fd(), size)
	if err != nil {
		_ = file.Close()
		return nil, err
	}

	result := &Pool{
		file: file,
		data: data,
	}
	pool.InitBuffer(&result.pool, conf, data)
	return result, nil
}

// Alloc ...
func (p *Pool) Alloc() unsafe.Pointer {
	if p == nil {
		return nil
	}
	return p.pool.Alloc()
}

// Free ...
func (p *Pool) Free(block unsafe.Pointer) {
	if p == nil {
		return
	}
	p.pool.Free(block)
}

// Release ...
func (p *Pool) Release(block unsafe.Pointer) pool.FreeStatus {
	if p == nil {
		return pool.StatusNilPool
	}
	return p.pool.Release(block)
}

// FreeCount ...
func (p *Pool) FreeCount() uint32 {
	if p == nil {
		return 0
	}
	return p.pool.FreeCount()
}

// BlockSize ...
func (p *Pool) BlockSize() uint32 {
	if p == nil {
		return 0
	}
	return p.pool.BlockSize()
}

// NumBlocks ...
func (p *Pool) NumBlocks() uint32 {
	if p == nil {
		return 0
	}
	return p.pool.NumBlocks()
}

// Sync flushes the mapping back to the file.
func (p *Pool) Sync() error {
	if p == nil {
		return nil
	}
	return msync(p.data)
}

// Close unmaps the pool and closes the backing file. The pool must not
// be used afterwards, every block pointer into the mapping is dead.
func (p *Pool) Close() error {
	if p == nil {
		return nil
	}
	if err := munmap(p.data); err != nil {
		_ = p.file.Close()
		return err
	}
	return p.file.Close()
}
