package hivedetect

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedef"
)

// Version selection.  An explicit version marker in the bag is
// authoritative: detection is cheap for the common unambiguous case and
// the marker is the escape hatch for ambiguous attribute sets.  A
// marker naming an unknown version is logged and ignored, and the bag
// goes through normal auto-detection.

type scoredVersion struct {
	def        *hivedef.Definition
	confidence float64
}

// pickVersion resolves which of several matched versions of one
// convention applies: highest confidence wins, ties prefer the newest
// semantic version, then registration order.
func pickVersion(versions []scoredVersion) scoredVersion {
	best := versions[0]
	for _, sv := range versions[1:] {
		if sv.confidence > best.confidence {
			best = sv
			continue
		}
		if sv.confidence < best.confidence {
			continue
		}
		if sv.def.Semver().GreaterThan(best.def.Semver()) {
			best = sv
			continue
		}
		if sv.def.Semver().Equal(best.def.Semver()) && sv.def.Order() < best.def.Order() {
			best = sv
		}
	}
	return best
}

// explicitVersions collects every convention pinned by a marker in the
// bag: the engine's own "<name>/<version>" marker plus any
// per-convention marker key a definition declares.
func (d *Detector) explicitVersions(bag hivebag.Bag) map[string]Result {
	pinned := make(map[string]Result, 1)

	if raw, ok := bag.GetString(hivebag.KeyConventionVersion); ok {
		name, version, found := strings.Cut(raw, "/")
		if !found {
			d.logger.Warn("malformed convention version marker",
				zap.String("marker", raw))
		} else if def, known := d.registry.Lookup(name, version); known {
			pinned[name] = pinnedResult(def)
		} else {
			d.logger.Warn("explicit convention version not registered, falling back to auto-detection",
				zap.String("convention", name),
				zap.String("version", version))
		}
	}

	for _, def := range d.registry.AllDefinitions() {
		if def.VersionMarker == "" {
			continue
		}
		if _, have := pinned[def.Name]; have {
			continue
		}
		version, ok := bag.GetString(def.VersionMarker)
		if !ok {
			continue
		}
		if target, known := d.registry.Lookup(def.Name, version); known {
			pinned[def.Name] = pinnedResult(target)
		} else {
			d.logger.Warn("explicit convention version not registered, falling back to auto-detection",
				zap.String("convention", def.Name),
				zap.String("version", version))
		}
	}
	return pinned
}

func pinnedResult(def *hivedef.Definition) Result {
	return Result{
		Convention: def.Name,
		Version:    def.Version,
		Confidence: 1.0,
		Kind:       MatchExact,
		Pinned:     true,
		def:        def,
	}
}
