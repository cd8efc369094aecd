// Package hivebag holds the attribute-bag model that the mapping engine
// consumes: a flat key/value view of a completed span's attributes, and
// the Signature (the bag's key-set) that detection and caching operate
// on.  Values are ignored for matching; only keys matter.
package hivebag

import (
	"encoding/json"
)

// Bag is the flat attribute set of one completed span.  The engine
// treats it as immutable: nothing in this module writes to a Bag after
// it has been handed over.  Values are scalars or JSON-serializable
// nested structures; instrumentation libraries that can only emit
// string attributes store nested structures as JSON text, so readers
// must tolerate both forms.
type Bag map[string]interface{}

// GetString returns the value for key if it is present and is a string.
func (b Bag) GetString(key string) (string, bool) {
	v, ok := b[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetNumber returns the value for key coerced to float64.  Telemetry
// pipelines deliver numbers as float64, int64, or int depending on the
// decoder that produced the bag.
func (b Bag) GetNumber(key string) (float64, bool) {
	v, ok := b[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// GetMap returns the value for key as a nested mapping.  A string value
// is decoded as JSON; this is the form used by instrumentation that can
// only attach string attributes.
func (b Bag) GetMap(key string) (map[string]interface{}, bool) {
	v, ok := b[key]
	if !ok {
		return nil, false
	}
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case string:
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(m), &decoded); err != nil {
			return nil, false
		}
		return decoded, true
	}
	return nil, false
}

// GetStrings returns the value for key as a list of strings, accepting
// either a []string, a []interface{} of strings, or a JSON array in
// string form.
func (b Bag) GetStrings(key string) ([]string, bool) {
	v, ok := b[key]
	if !ok {
		return nil, false
	}
	switch l := v.(type) {
	case []string:
		return l, true
	case []interface{}:
		out := make([]string, 0, len(l))
		for _, e := range l {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	case string:
		var decoded []string
		if err := json.Unmarshal([]byte(l), &decoded); err != nil {
			return nil, false
		}
		return decoded, true
	}
	return nil, false
}

// Has reports whether key is present in the bag.
func (b Bag) Has(key string) bool {
	_, ok := b[key]
	return ok
}
