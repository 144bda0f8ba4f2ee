//go:build windows

package shmpool

func mmapFile(fd uintptr, size int) ([]byte, error) {
	return nil, ErrNotSupported
}

func msync(data []byte) error {
	return ErrNotSupported
}

func munmap(data []byte) error {
	return nil
}
