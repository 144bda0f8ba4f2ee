package memfill

// Fill sets every byte of dst to value and returns dst.
// A nil dst is a no-op and returns nil.
func Fill(dst []byte, value byte) []byte {
	if dst == nil {
		return nil
	}
	for i := range dst {
		dst[i] = value
	}
	return dst
}
