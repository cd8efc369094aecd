package hivecache

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
)

// LRU is a capacity-bounded cache for deployments where the set of
// distinct signatures cannot be trusted to stay small, such as buggy
// instrumentation stamping unique keys onto every span.  Eviction only
// costs a re-detection.
type LRU struct {
	inner *lru.Cache[uint64, *Entry]
}

// NewLRU returns a cache holding at most capacity entries.
func NewLRU(capacity int) (*LRU, error) {
	inner, err := lru.New[uint64, *Entry](capacity)
	if err != nil {
		return nil, errors.Wrap(err, "building signature cache")
	}
	return &LRU{inner: inner}, nil
}

func (c *LRU) Get(hash uint64) (*Entry, bool) {
	return c.inner.Get(hash)
}

func (c *LRU) Put(hash uint64, entry *Entry) {
	c.inner.Add(hash, entry)
}

func (c *LRU) Len() int {
	return c.inner.Len()
}
