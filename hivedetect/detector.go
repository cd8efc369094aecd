package hivedetect

import (
	"sort"

	"go.uber.org/zap"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedef"
)

// DefaultThreshold is the minimum confidence at which a subset-tier
// candidate is accepted.
const DefaultThreshold = 0.8

type candidate struct {
	sig  hivebag.Signature
	def  *hivedef.Definition
	rule *hivedef.Rule
}

// bucket groups subset-tier candidates by signature size so the search
// can walk from the most specific candidates downward and skip every
// candidate larger than the input.
type bucket struct {
	size       int
	candidates []candidate
}

// Detector owns the signature indexes built from a registry.  It is
// immutable after New and safe for concurrent use.
type Detector struct {
	registry  *hivedef.Registry
	threshold float64
	logger    *zap.Logger

	exact   map[uint64]candidate
	buckets []bucket // sorted by size, largest first
}

type Option func(*Detector)

func WithThreshold(t float64) Option {
	return func(d *Detector) { d.threshold = t }
}

func WithLogger(logger *zap.Logger) Option {
	return func(d *Detector) { d.logger = logger }
}

// New builds the exact and subset indexes from every rule of every
// definition in the registry.  Two definitions registering an
// identical exact signature is tolerated: the higher-priority
// definition wins deterministically and the collision is logged.
func New(registry *hivedef.Registry, opts ...Option) *Detector {
	d := &Detector{
		registry:  registry,
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
		exact:     make(map[uint64]candidate),
	}
	for _, opt := range opts {
		opt(d)
	}

	bySize := make(map[int][]candidate)
	for _, def := range registry.AllDefinitions() {
		for i := range def.Rules {
			rule := &def.Rules[i]
			c := candidate{
				sig:  hivebag.SignatureOfKeys(rule.Required),
				def:  def,
				rule: rule,
			}
			if prior, ok := d.exact[c.sig.Hash()]; ok && prior.sig.Equal(c.sig) {
				winner, loser := prior, c
				if outranks(c.def, prior.def) {
					winner, loser = c, prior
				}
				d.logger.Warn("exact signature collision between conventions",
					zap.String("signature", c.sig.String()),
					zap.String("winner", winner.def.Name+"/"+winner.def.Version),
					zap.String("loser", loser.def.Name+"/"+loser.def.Version))
				d.exact[c.sig.Hash()] = winner
			} else {
				d.exact[c.sig.Hash()] = c
			}
			bySize[c.sig.Len()] = append(bySize[c.sig.Len()], c)
		}
	}
	d.buckets = make([]bucket, 0, len(bySize))
	for size, cands := range bySize {
		d.buckets = append(d.buckets, bucket{size: size, candidates: cands})
	}
	sort.Slice(d.buckets, func(i, j int) bool {
		return d.buckets[i].size > d.buckets[j].size
	})
	return d
}

// outranks fixes the total order used for collision resolution and for
// sorting multi-convention results: priority, then fallback rank, then
// newest version, then registration order.
func outranks(a, b *hivedef.Definition) bool {
	if a.Priority != b.Priority {
		return a.Priority < b.Priority
	}
	if a.FallbackRank != b.FallbackRank {
		return a.FallbackRank < b.FallbackRank
	}
	if !a.Semver().Equal(b.Semver()) {
		return a.Semver().GreaterThan(b.Semver())
	}
	return a.Order() < b.Order()
}

// Threshold returns the acceptance threshold the detector was built
// with.
func (d *Detector) Threshold() float64 { return d.threshold }

// Detect returns every convention recognized in the bag, ordered by
// merge priority (highest first).  An empty slice means nothing
// reached the threshold; the caller decides whether to fall back to
// the registry default.
func (d *Detector) Detect(bag hivebag.Bag, sig hivebag.Signature) []Result {
	pinned := d.explicitVersions(bag)

	results := make(map[string]Result, 2)
	for name, res := range pinned {
		results[name] = res
	}

	// Exact tier: one hash lookup over the full signature.
	if c, ok := d.exact[sig.Hash()]; ok && c.sig.Equal(sig) {
		if _, have := results[c.def.Name]; !have {
			results[c.def.Name] = Result{
				Convention: c.def.Name,
				Version:    c.def.Version,
				Confidence: 1.0,
				Kind:       MatchExact,
				def:        c.def,
			}
		}
	}

	// Subset tier: walk buckets from the largest candidate size that
	// fits, score containment matches, and stop per convention version
	// at its first accepted rule (larger buckets are more specific).
	scored := make(map[*hivedef.Definition]scoredVersion)
	for _, b := range d.buckets {
		if b.size > sig.Len() {
			continue
		}
		for _, c := range b.candidates {
			if _, have := results[c.def.Name]; have {
				continue
			}
			if _, have := scored[c.def]; have {
				continue
			}
			if !sig.ContainsAll(c.sig) {
				continue
			}
			if hasAny(bag, c.rule.Excluded) {
				continue
			}
			conf := score(bag, c.rule)
			if conf < d.threshold {
				continue
			}
			scored[c.def] = scoredVersion{def: c.def, confidence: conf}
		}
	}

	// Collapse multiple matched versions of the same convention down
	// to one via the version selector.
	byName := make(map[string][]scoredVersion)
	for _, sv := range scored {
		byName[sv.def.Name] = append(byName[sv.def.Name], sv)
	}
	for name, versions := range byName {
		best := pickVersion(versions)
		results[name] = Result{
			Convention: name,
			Version:    best.def.Version,
			Confidence: best.confidence,
			Kind:       MatchSubset,
			def:        best.def,
		}
	}

	out := make([]Result, 0, len(results))
	for _, res := range results {
		out = append(out, res)
	}
	sortResults(out)
	return out
}

// sortResults orders results for merging: definition priority first
// (the native convention carries the lowest value), then explicit
// version pins, then confidence, then the registry total order.
func sortResults(out []Result) {
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.def.Priority != b.def.Priority {
			return a.def.Priority < b.def.Priority
		}
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return outranks(a.def, b.def)
	})
}

func hasAny(bag hivebag.Bag, keys []string) bool {
	for _, k := range keys {
		if bag.Has(k) {
			return true
		}
	}
	return false
}

// score starts from the rule's base confidence, credits definitive and
// compatible indicators present in the bag, debits exclusion
// indicators, and clamps to [0,1].
func score(bag hivebag.Bag, rule *hivedef.Rule) float64 {
	conf := rule.Base
	for _, ind := range rule.Definitive {
		if bag.Has(ind.Key) {
			conf += ind.Delta
		}
	}
	for _, ind := range rule.Compatible {
		if bag.Has(ind.Key) {
			conf += ind.Delta
		}
	}
	for _, ind := range rule.Exclusion {
		if bag.Has(ind.Key) {
			conf -= ind.Delta
		}
	}
	if conf < 0 {
		return 0
	}
	if conf > 1 {
		return 1
	}
	return conf
}
