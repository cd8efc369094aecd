package hivecache

import (
	"sync"
)

const shardCount = 16

// Sharded is the default cache: a fixed array of RWMutex-guarded maps,
// sharded by the low bits of the signature hash so concurrent mappers
// working on unrelated signatures rarely touch the same lock.  It
// grows without bound, which is safe in practice because distinct
// signatures are bounded by the number of instrumentation libraries in
// a deployment, not by span volume; use NewLRU when inputs are not
// trusted to behave.
type Sharded struct {
	shards [shardCount]shard
}

type shard struct {
	mu      sync.RWMutex
	entries map[uint64]*Entry
}

// NewSharded returns an empty unbounded cache.
func NewSharded() *Sharded {
	c := &Sharded{}
	for i := range c.shards {
		c.shards[i].entries = make(map[uint64]*Entry)
	}
	return c
}

func (c *Sharded) shardFor(hash uint64) *shard {
	return &c.shards[hash%shardCount]
}

func (c *Sharded) Get(hash uint64) (*Entry, bool) {
	s := c.shardFor(hash)
	s.mu.RLock()
	entry, ok := s.entries[hash]
	s.mu.RUnlock()
	return entry, ok
}

func (c *Sharded) Put(hash uint64, entry *Entry) {
	s := c.shardFor(hash)
	s.mu.Lock()
	s.entries[hash] = entry
	s.mu.Unlock()
}

func (c *Sharded) Len() int {
	n := 0
	for i := range c.shards {
		s := &c.shards[i]
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}
