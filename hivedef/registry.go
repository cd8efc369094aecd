package hivedef

import (
	"math"
	"sort"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

// Registry holds every known convention definition, organized by
// convention name.  Construction validates the whole set and fails on
// the first process rather than per-span: a malformed definition is a
// deployment bug, not a telemetry condition.
//
// A Registry is immutable after New returns and is shared across all
// concurrent detection calls without locking.
type Registry struct {
	byName     map[string][]*Definition // versions sorted newest first
	all        []*Definition
	defaultDef *Definition
	markerKeys []string
}

// NewRegistry validates and indexes definitions.  All validation errors
// are accumulated so a broken configuration reports every problem at
// once.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{
		byName: make(map[string][]*Definition),
	}
	seen := make(map[string]struct{}, len(defs))
	var errs error
	for i := range defs {
		def := defs[i] // copy; the registry owns its definitions
		def.order = i
		if err := validate(&def); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		key := def.Name + "/" + def.Version
		if _, dup := seen[key]; dup {
			errs = multierr.Append(errs, errors.Errorf("duplicate definition for %s", key))
			continue
		}
		seen[key] = struct{}{}
		if def.Default {
			if r.defaultDef != nil {
				errs = multierr.Append(errs, errors.Errorf(
					"multiple default conventions: %s and %s", r.defaultDef.Name, def.Name))
				continue
			}
			r.defaultDef = &def
		}
		r.byName[def.Name] = append(r.byName[def.Name], &def)
		r.all = append(r.all, &def)
	}
	if errs != nil {
		return nil, errs
	}
	for _, versions := range r.byName {
		sort.SliceStable(versions, func(i, j int) bool {
			return versions[i].semver.GreaterThan(versions[j].semver)
		})
	}
	markers := make(map[string]struct{})
	for _, def := range r.all {
		if def.VersionMarker != "" {
			if _, seen := markers[def.VersionMarker]; !seen {
				markers[def.VersionMarker] = struct{}{}
				r.markerKeys = append(r.markerKeys, def.VersionMarker)
			}
		}
	}
	return r, nil
}

func validate(def *Definition) error {
	if def.Name == "" {
		return errors.New("definition with empty convention name")
	}
	sver, err := semver.StrictNewVersion(def.Version)
	if err != nil {
		return errors.Wrapf(err, "convention %s: version '%s' is not valid semver", def.Name, def.Version)
	}
	def.semver = sver
	if len(def.Rules) == 0 {
		return errors.Errorf("convention %s/%s has no recognition rules", def.Name, def.Version)
	}
	for i, rule := range def.Rules {
		if len(rule.Required) == 0 {
			return errors.Errorf("convention %s/%s rule %d has an empty required key set", def.Name, def.Version, i)
		}
		for _, k := range rule.Required {
			if k == "" {
				return errors.Errorf("convention %s/%s rule %d has an empty required key", def.Name, def.Version, i)
			}
		}
		if rule.Base < 0 || rule.Base > 1 || !isFinite(rule.Base) {
			return errors.Errorf("convention %s/%s rule %d base confidence %v out of range", def.Name, def.Version, i, rule.Base)
		}
		for _, group := range [][]Indicator{rule.Definitive, rule.Compatible, rule.Exclusion} {
			for _, ind := range group {
				if ind.Key == "" {
					return errors.Errorf("convention %s/%s rule %d has an indicator with an empty key", def.Name, def.Version, i)
				}
				if !isFinite(ind.Delta) {
					return errors.Errorf("convention %s/%s rule %d indicator %s has non-finite delta", def.Name, def.Version, i, ind.Key)
				}
			}
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// AllDefinitions returns every definition in registration order.
// Callers must not modify the returned slice.
func (r *Registry) AllDefinitions() []*Definition { return r.all }

// DefinitionsFor returns the registered versions of a convention,
// newest version first.  Nil when the convention is unknown.
func (r *Registry) DefinitionsFor(name string) []*Definition { return r.byName[name] }

// Lookup finds one exact convention+version.
func (r *Registry) Lookup(name, version string) (*Definition, bool) {
	for _, def := range r.byName[name] {
		if def.Version == version {
			return def, true
		}
	}
	return nil, false
}

// Default returns the convention to fall back to when detection finds
// nothing, or nil when none is registered as default.
func (r *Registry) Default() *Definition { return r.defaultDef }

// MarkerKeys lists every per-convention version marker key declared by
// any definition.  Bags carrying one are version-pinned by value, so
// their detection cannot be memoized per key-set.
func (r *Registry) MarkerKeys() []string { return r.markerKeys }
