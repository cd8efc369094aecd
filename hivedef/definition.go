// Package hivedef holds the convention definitions the detector matches
// against: which attribute keys a convention emits, how confident a
// partial match is, and how versions of the same convention relate.
// Definitions are loaded once at startup and are read-only afterward.
package hivedef

import (
	"github.com/Masterminds/semver/v3"
)

// Indicator adjusts a rule's confidence when its key is present in the
// bag under test.  Delta is added for definitive and compatible
// indicators and subtracted for exclusion indicators.
type Indicator struct {
	Key   string
	Delta float64
}

// Rule is one recognition pattern for a convention version.  Required
// is the rule's candidate signature: every key must be present for the
// rule to match at all, and a bag whose key-set equals Required exactly
// is an exact match.  Excluded keys veto the rule outright.
type Rule struct {
	Required []string
	Excluded []string

	// Base is the confidence assigned when Required is satisfied,
	// before indicator adjustments.  Exact matches are always 1.0
	// regardless of Base.
	Base float64

	// Definitive keys identify this convention almost unambiguously
	// (e.g. a vendor-prefixed key).  Compatible keys are shared with
	// other conventions and contribute less.  Exclusion keys are ones
	// this version is known not to emit, typically keys removed or
	// renamed in it; their presence argues for a different version.
	Definitive []Indicator
	Compatible []Indicator
	Exclusion  []Indicator
}

// Definition describes one version of one convention.  Multiple
// definitions may share Name with distinct Versions.
type Definition struct {
	Name    string
	Version string // strict semver

	// Priority orders conventions when several match the same bag;
	// lower is more important.  The native convention has the lowest
	// value and always wins overlapping fields.
	Priority int

	// FallbackRank breaks ties between definitions with equal
	// Priority, and orders candidates for the registry default.
	FallbackRank int

	// Default marks the convention the mapper falls back to when
	// nothing is detected.  At most one definition may set it.
	Default bool

	// VersionMarker optionally names a bag key whose value is this
	// convention's version string.  When present in a bag it selects
	// the version directly instead of scoring recognition rules.
	VersionMarker string

	Rules []Rule

	semver *semver.Version
	order  int // registration order, last tie-breaker
}

// Semver returns the parsed version.  Nil until the definition has been
// loaded into a Registry.
func (d *Definition) Semver() *semver.Version { return d.semver }

// Order is the position of this definition in the registration
// sequence.
func (d *Definition) Order() int { return d.order }
