package collision

import (
	"fmt"
	"sync"
)

type entry struct {
	name string
	size int64
}

// Tracker records the xxHash64 digest of every container it is given and
// reports containers whose digests repeat. It is safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	byDigest  map[uint64]entry
	count     int
	collision bool
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byDigest: make(map[uint64]entry)}
}

// Track records name with its digest and size. When an earlier container has
// the same digest and size, Track returns that container's name. A digest
// match with a different size cannot be a duplicate; it is a hash collision
// and is flagged but not returned.
func (t *Tracker) Track(name string, digest uint64, size int64) (string, error) {
	if name == "" {
		return "", fmt.Errorf("collision: empty name")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	prev, exists := t.byDigest[digest]
	if exists && prev.name == name {
		return "", fmt.Errorf("collision: %s tracked twice", name)
	}

	t.count++
	if !exists {
		t.byDigest[digest] = entry{name: name, size: size}
		return "", nil
	}
	if prev.size != size {
		t.collision = true
		return "", nil
	}

	return prev.name, nil
}

// HasCollision reports whether two containers of different sizes shared a digest.
func (t *Tracker) HasCollision() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.collision
}

// Count returns the number of tracked containers.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.count
}
