//go:build unix

package source

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, error) {
	b, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	// views jump around the file following offset tables
	if err := unix.Madvise(b, unix.MADV_RANDOM); err != nil && !errors.Is(err, syscall.ENOSYS) {
		_ = unix.Munmap(b)
		return nil, fmt.Errorf("madvise(MADV_RANDOM): %w", err)
	}

	return b, nil
}

func unmapFile(b []byte) error {
	return unix.Munmap(b)
}
