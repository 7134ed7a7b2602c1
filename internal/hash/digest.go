// Package hash computes xxHash64 digests of container bytes.
package hash

import "github.com/cespare/xxhash/v2"

// Sum64 returns the xxHash64 of data.
func Sum64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// New returns a streaming xxHash64 digest.
func New() *xxhash.Digest {
	return xxhash.New()
}
