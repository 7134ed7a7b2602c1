//go:build !unix

package source

import (
	"io"
	"os"
)

// mapFile reads the whole file on platforms without a unix mmap.
func mapFile(f *os.File, size int) ([]byte, error) {
	b := make([]byte, size)
	if _, err := io.ReadFull(f, b); err != nil {
		return nil, err
	}

	return b, nil
}

func unmapFile([]byte) error {
	return nil
}
