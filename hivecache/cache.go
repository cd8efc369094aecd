// Package hivecache memoizes detection outcomes per attribute-key
// signature.  The cache stores which conventions matched and in what
// order — the extraction plan — never extracted values, because the
// same signature recurs with different values on every span.  Entries
// have no TTL: a fixed key-set maps to the same convention for the
// life of the process.  The cache is an optimization only; losing an
// entry costs one re-detection.
package hivecache

import (
	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedetect"
)

// Entry is one memoized detection outcome.
type Entry struct {
	// Signature the entry was computed for.  Readers compare it
	// against their own signature so a 64-bit hash collision degrades
	// to a cache miss instead of a wrong detection.
	Signature hivebag.Signature

	// Results is the priority-ordered detection outcome for the
	// signature.  Empty means detection ran and found nothing, which
	// is itself worth caching.
	Results []hivedetect.Result
}

// Cache is a concurrent-safe signature-hash to entry mapping.
type Cache interface {
	Get(hash uint64) (*Entry, bool)
	Put(hash uint64, entry *Entry)
	Len() int
}
