// Package hivedetect decides which convention(s) produced a span's
// attribute bag.  Matching is two-tier: an exact index over full
// signatures, then a size-bucketed subset search over partial
// signatures with confidence scoring.  Detection looks only at which
// keys are present, never at values, so results are cacheable per
// signature.
package hivedetect

import (
	"github.com/hivemap/hivemap-go/hivedef"
)

// MatchKind classifies how a convention was recognized.
type MatchKind int

const (
	MatchNone MatchKind = iota
	MatchSubset
	MatchExact
)

func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchSubset:
		return "subset"
	default:
		return "none"
	}
}

// Result is one detected convention for a bag.  A bag that mixes
// vocabularies yields several Results, ordered by merge priority.
type Result struct {
	Convention string
	Version    string
	Confidence float64
	Kind       MatchKind

	// Pinned is set when an explicit version marker in the bag named
	// this convention+version, bypassing recognition scoring.
	Pinned bool

	def *hivedef.Definition
}

// Definition returns the registry definition this result refers to.
func (r Result) Definition() *hivedef.Definition { return r.def }
