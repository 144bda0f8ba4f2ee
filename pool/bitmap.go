package pool

// Occupancy bitmap over a byte slice, one bit per block, bit i of the
// sequence lives at byte i/8, offset i%8. A set bit means allocated.
// None of these check bounds, callers must keep i below the block count.

func setBit(bitmap []byte, index uint32) {
	bitmap[index/8] |= 1 << (index % 8)
}

func clearBit(bitmap []byte, index uint32) {
	bitmap[index/8] &^= 1 << (index % 8)
}

func testBit(bitmap []byte, index uint32) byte {
	return (bitmap[index/8] >> (index % 8)) & 1
}

// findFirstFree scans bits 0..numBlocks-1 ascending and returns the index
// of the first clear bit. Returns false when every block is allocated.
func findFirstFree(bitmap []byte, numBlocks uint32) (uint32, bool) {
	for i := uint32(0); i < numBlocks; i++ {
		if testBit(bitmap, i) == 0 {
			return i, true
		}
	}
	return 0, false
}
