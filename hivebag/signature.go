package hivebag

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Signature is the sorted set of non-reserved attribute keys present in
// a bag.  Two bags with the same key-set share a signature regardless
// of their values, which makes the signature both the unit of detection
// and the cache key.
type Signature struct {
	keys []string
	hash uint64
}

// NewSignature computes the signature of a bag.  Reserved keys are
// dropped; the remaining keys are sorted so that map iteration order
// never leaks into the result.
func NewSignature(bag Bag) Signature {
	keys := make([]string, 0, len(bag))
	for k := range bag {
		if Reserved(k) {
			continue
		}
		keys = append(keys, k)
	}
	return SignatureOfKeys(keys)
}

// SignatureOfKeys builds a signature directly from a key list.  The
// input is copied and sorted; reserved keys are kept, which lets
// convention definitions register signatures without consulting the
// reserved table.
func SignatureOfKeys(keys []string) Signature {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	return Signature{keys: sorted, hash: hashKeys(sorted)}
}

// Keys are sorted with a NUL separator before hashing so that key
// boundaries cannot collide ("a"+"bc" vs "ab"+"c").
func hashKeys(sorted []string) uint64 {
	d := xxhash.New()
	for _, k := range sorted {
		_, _ = d.WriteString(k)
		_, _ = d.Write([]byte{0})
	}
	return d.Sum64()
}

// Hash is the 64-bit digest of the sorted key list.
func (s Signature) Hash() uint64 { return s.hash }

// Keys returns the sorted key list.  Callers must not modify it.
func (s Signature) Keys() []string { return s.keys }

// Len is the number of keys in the signature.
func (s Signature) Len() int { return len(s.keys) }

// Equal reports whether two signatures contain the same keys.
func (s Signature) Equal(other Signature) bool {
	if s.hash != other.hash || len(s.keys) != len(other.keys) {
		return false
	}
	for i, k := range s.keys {
		if other.keys[i] != k {
			return false
		}
	}
	return true
}

// ContainsAll reports whether every key of other is present in s.
// Both key lists are sorted, so a single merge pass suffices.
func (s Signature) ContainsAll(other Signature) bool {
	if other.Len() > s.Len() {
		return false
	}
	i := 0
	for _, want := range other.keys {
		for i < len(s.keys) && s.keys[i] < want {
			i++
		}
		if i == len(s.keys) || s.keys[i] != want {
			return false
		}
		i++
	}
	return true
}

func (s Signature) String() string {
	return strings.Join(s.keys, ",")
}
