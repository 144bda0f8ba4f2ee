//go:build unix

package shmpool

import (
	"os"
	"path/filepath"
	"testing"
	"unsafe"

	"github.com/QuangTung97/blockpool/pool"
	"github.com/stretchr/testify/assert"
)

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.data")
	conf := pool.Config{BlockSize: 32, NumBlocks: 4}

	p, err := Open(path, conf)
	assert.Nil(t, err)
	defer func() {
		assert.Nil(t, p.Close())
	}()

	info, err := os.Stat(path)
	assert.Nil(t, err)
	assert.Equal(t, int64(conf.BufferSize()), info.Size())

	assert.Equal(t, uint32(32), p.BlockSize())
	assert.Equal(t, uint32(4), p.NumBlocks())
	assert.Equal(t, uint32(4), p.FreeCount())
}

func TestAllocFreeOverMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.data")
	conf := pool.Config{BlockSize: 32, NumBlocks: 4}

	p, err := Open(path, conf)
	assert.Nil(t, err)
	defer func() {
		assert.Nil(t, p.Close())
	}()

	p0 := p.Alloc()
	assert.True(t, p0 != nil)
	p1 := p.Alloc()
	assert.True(t, p1 != nil)
	assert.Equal(t, uintptr(32), uintptr(p1)-uintptr(p0))
	assert.Equal(t, uint32(2), p.FreeCount())

	data := unsafe.Slice((*byte)(p0), 32)
	copy(data, []byte("hello shared pool"))
	assert.Nil(t, p.Sync())

	p.Free(p0)
	assert.Equal(t, uint32(3), p.FreeCount())
	assert.Equal(t, p0, p.Alloc())

	assert.Equal(t, pool.StatusFreed, p.Release(p1))
	assert.Equal(t, pool.StatusNotAllocated, p.Release(p1))
}

func TestSyncPersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.data")
	conf := pool.Config{BlockSize: 8, NumBlocks: 2}

	p, err := Open(path, conf)
	assert.Nil(t, err)

	block := p.Alloc()
	data := unsafe.Slice((*byte)(block), 8)
	copy(data, []byte{1, 2, 3, 4, 5, 6, 7, 8})
	assert.Nil(t, p.Sync())
	assert.Nil(t, p.Close())

	content, err := os.ReadFile(path)
	assert.Nil(t, err)
	assert.Equal(t, conf.BufferSize(), len(content))
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8}, content[:8])
	// block 0 allocated, bitmap byte sits after the storage bytes
	assert.Equal(t, byte(0x01), content[conf.StorageSize()])
}

func TestNilShmPool(t *testing.T) {
	var p *Pool
	assert.True(t, p.Alloc() == nil)
	assert.Equal(t, uint32(0), p.FreeCount())
	assert.NotPanics(t, func() {
		p.Free(nil)
	})
	assert.Equal(t, pool.StatusNilPool, p.Release(nil))
	assert.Nil(t, p.Sync())
	assert.Nil(t, p.Close())
}

func TestOpenBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.data")

	assert.PanicsWithValue(t, "NumBlocks must > 0", func() {
		_, _ = Open(path, pool.Config{BlockSize: 32, NumBlocks: 0})
	})

	// the backing file must not be created before the config check
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestOpenBadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "pool.data"),
		pool.Config{BlockSize: 8, NumBlocks: 2})
	assert.NotNil(t, err)
}
