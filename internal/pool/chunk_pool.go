package pool

import "sync"

var chunkPool = sync.Pool{
	New: func() any {
		b := make([]byte, CopyChunkSize)
		return &b
	},
}

// GetChunk returns a CopyChunkSize scratch slice for streaming copies.
// The caller must call the returned cleanup function when done.
//
//	chunk, release := pool.GetChunk()
//	defer release()
func GetChunk() ([]byte, func()) {
	ptr, _ := chunkPool.Get().(*[]byte)
	return *ptr, func() { chunkPool.Put(ptr) }
}
