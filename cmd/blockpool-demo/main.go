package main

import (
	"fmt"
	"unsafe"

	"github.com/QuangTung97/blockpool/pool"
)

func main() {
	var p pool.Pool
	pool.Init(&p, pool.Config{BlockSize: 32, NumBlocks: 4})

	fmt.Println("free blocks after init:", p.FreeCount())

	blocks := make([]unsafe.Pointer, 0, 4)
	for {
		block := p.Alloc()
		if block == nil {
			break
		}
		data := unsafe.Slice((*byte)(block), p.BlockSize())
		copy(data, fmt.Sprintf("block %d", len(blocks)))
		blocks = append(blocks, block)
	}
	fmt.Println("allocated blocks:", len(blocks))
	fmt.Println("free blocks when exhausted:", p.FreeCount())
	fmt.Println("extra alloc returns nil:", p.Alloc() == nil)

	p.Free(blocks[1])
	fmt.Println("free blocks after freeing one:", p.FreeCount())

	again := p.Alloc()
	fmt.Println("lowest free block reused:", again == blocks[1])

	fmt.Println("double free rejected:", p.Release(blocks[2]) == pool.StatusFreed &&
		p.Release(blocks[2]) == pool.StatusNotAllocated)
}
