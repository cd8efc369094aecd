package hivecache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivecache"
	"github.com/hivemap/hivemap-go/hivedetect"
)

func entryFor(keys ...string) (uint64, *hivecache.Entry) {
	sig := hivebag.SignatureOfKeys(keys)
	return sig.Hash(), &hivecache.Entry{
		Signature: sig,
		Results:   []hivedetect.Result{{Convention: "test", Version: "1.0.0"}},
	}
}

func TestShardedGetPut(t *testing.T) {
	c := hivecache.NewSharded()
	hash, entry := entryFor("a", "b")

	_, ok := c.Get(hash)
	assert.False(t, ok)

	c.Put(hash, entry)
	got, ok := c.Get(hash)
	require.True(t, ok)
	assert.Equal(t, entry, got)
	assert.Equal(t, 1, c.Len())
}

func TestShardedConcurrentAccess(t *testing.T) {
	c := hivecache.NewSharded()
	keys := []string{"k0", "k1", "k2", "k3", "k4", "k5", "k6", "k7"}

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				key := keys[i%len(keys)]
				hash, entry := entryFor(key)
				c.Put(hash, entry)
				got, ok := c.Get(hash)
				if ok && !got.Signature.Equal(entry.Signature) {
					t.Error("read an entry for a different signature")
					return
				}
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, len(keys), c.Len())
}

func TestLRUEvicts(t *testing.T) {
	c, err := hivecache.NewLRU(2)
	require.NoError(t, err)

	h1, e1 := entryFor("one")
	h2, e2 := entryFor("two")
	h3, e3 := entryFor("three")

	c.Put(h1, e1)
	c.Put(h2, e2)
	c.Put(h3, e3)

	assert.Equal(t, 2, c.Len())
	_, ok := c.Get(h1)
	assert.False(t, ok, "oldest entry should have been evicted")
	_, ok = c.Get(h3)
	assert.True(t, ok)
}

func TestLRUInvalidCapacity(t *testing.T) {
	_, err := hivecache.NewLRU(0)
	assert.Error(t, err)
}
