// Package hivemap maps a completed span's attribute bag onto one
// canonical event, whatever instrumentation produced the attributes.
// Detection of the originating convention(s) is cached per attribute
// key-set; extraction re-runs per span so values are always current.
// Map never fails: anything that goes wrong inside the pipeline
// degrades toward the fallback extractor and is reported through logs
// and counters only.
package hivemap

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivecache"
	"github.com/hivemap/hivemap-go/hivedef"
	"github.com/hivemap/hivemap-go/hivedetect"
	"github.com/hivemap/hivemap-go/hiveextract"
	"github.com/hivemap/hivemap-go/hiveevent"
)

// SpanMeta is the structural part of a completed span, delivered
// alongside its attribute bag.
type SpanMeta struct {
	Name      string
	StartTime time.Time
	EndTime   time.Time
}

// Mapper orchestrates detection, extraction, merging, and caching.  A
// Mapper is immutable after New apart from its cache and counters and
// is safe for concurrent use from any number of goroutines.
type Mapper struct {
	registry   *hivedef.Registry
	detector   *hivedetect.Detector
	cache      hivecache.Cache
	logger     *zap.Logger
	fallback   hiveextract.Extractor
	extractors map[string]hiveextract.Extractor
	stats      stats
}

type Option func(*options)

type options struct {
	logger     *zap.Logger
	cache      hivecache.Cache
	threshold  float64
	extractors map[string]hiveextract.Extractor
}

// WithLogger sets the logger for degradation diagnostics.  Defaults to
// a nop logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithCache replaces the default unbounded sharded cache, typically
// with a hivecache.LRU when inputs are not trusted.
func WithCache(cache hivecache.Cache) Option {
	return func(o *options) { o.cache = cache }
}

// WithThreshold overrides the detector's acceptance threshold.
func WithThreshold(t float64) Option {
	return func(o *options) { o.threshold = t }
}

// WithExtractor registers or replaces the extractor for the
// convention the extractor names.  Deployments registering their own
// convention definitions supply the matching extractor this way.
func WithExtractor(ext hiveextract.Extractor) Option {
	return func(o *options) {
		if o.extractors == nil {
			o.extractors = make(map[string]hiveextract.Extractor)
		}
		o.extractors[ext.Convention()] = ext
	}
}

// New builds a Mapper over a validated registry.
func New(registry *hivedef.Registry, opts ...Option) *Mapper {
	o := options{
		logger:    zap.NewNop(),
		threshold: hivedetect.DefaultThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache == nil {
		o.cache = hivecache.NewSharded()
	}
	return &Mapper{
		registry: registry,
		detector: hivedetect.New(registry,
			hivedetect.WithThreshold(o.threshold),
			hivedetect.WithLogger(o.logger)),
		cache:      o.cache,
		logger:     o.logger,
		fallback:   hiveextract.Fallback{},
		extractors: o.extractors,
	}
}

func (m *Mapper) extractorFor(name string) (hiveextract.Extractor, bool) {
	if ext, ok := m.extractors[name]; ok {
		return ext, true
	}
	return hiveextract.ForConvention(name)
}

// Map produces exactly one event for a span.  It never returns an
// error; in the worst case the event is the fallback extractor's
// minimal rendering of the bag.
func (m *Mapper) Map(bag hivebag.Bag, meta SpanMeta) *hiveevent.Event {
	sig := hivebag.NewSignature(bag)

	// An explicit version marker pins detection by the marker's value,
	// which a key-set cache cannot distinguish; marked bags skip the
	// cache in both directions.
	cacheable := !m.hasVersionMarker(bag)

	var results []hivedetect.Result
	if entry, ok := m.cache.Get(sig.Hash()); cacheable && ok && entry.Signature.Equal(sig) {
		m.stats.hits.Add(1)
		results = entry.Results
	} else {
		m.stats.misses.Add(1)
		results = m.detector.Detect(bag, sig)
		if cacheable {
			m.cache.Put(sig.Hash(), &hivecache.Entry{Signature: sig, Results: results})
		}
	}

	event := hiveevent.New()
	typeSet := false

	if len(results) == 0 {
		m.stats.degraded.Add(1)
		m.logger.Debug("no convention reached the acceptance threshold",
			zap.String("span", meta.Name),
			zap.Int("attribute_count", len(bag)))
		if def := m.registry.Default(); def != nil {
			if ext, ok := m.extractorFor(def.Name); ok {
				res := hivedetect.Result{Convention: def.Name, Version: def.Version, Kind: hivedetect.MatchNone}
				typeSet = m.merge(event, ext, bag, res, typeSet)
			}
		}
		m.merge(event, m.fallback, bag, hivedetect.Result{Convention: "fallback", Kind: hivedetect.MatchNone}, typeSet)
	} else {
		for _, res := range results {
			ext, ok := m.extractorFor(res.Convention)
			if !ok {
				m.logger.Warn("detected convention has no extractor",
					zap.String("convention", res.Convention),
					zap.String("version", res.Version))
				continue
			}
			typeSet = m.merge(event, ext, bag, res, typeSet)
		}
	}

	m.populateStructural(event, bag, meta, sig)
	return event
}

func (m *Mapper) hasVersionMarker(bag hivebag.Bag) bool {
	if bag.Has(hivebag.KeyConventionVersion) {
		return true
	}
	for _, key := range m.registry.MarkerKeys() {
		if bag.Has(key) {
			return true
		}
	}
	return false
}

// merge folds one extractor's partial result into the event.  Fields a
// higher-priority convention already populated are never overwritten;
// gaps are filled.  Reports whether the event type is now set.
func (m *Mapper) merge(event *hiveevent.Event, ext hiveextract.Extractor, bag hivebag.Bag, res hivedetect.Result, typeSet bool) bool {
	if !typeSet {
		var eventType string
		m.safely(res, "event_type", func() {
			eventType = ext.EventType(bag, res)
		})
		if eventType != "" {
			event.EventType = eventType
			typeSet = true
		}
	}
	m.fillGroup(event.Config, res, "config", func() map[string]interface{} { return ext.Config(bag, res) })
	m.fillGroup(event.Inputs, res, "inputs", func() map[string]interface{} { return ext.Inputs(bag, res) })
	m.fillGroup(event.Outputs, res, "outputs", func() map[string]interface{} { return ext.Outputs(bag, res) })
	m.fillGroup(event.Metadata, res, "metadata", func() map[string]interface{} { return ext.Metadata(bag, res) })
	m.fillGroup(event.Metrics, res, "metrics", func() map[string]interface{} { return ext.Metrics(bag, res) })
	if fb, ok := ext.(hiveextract.FeedbackExtractor); ok {
		m.fillGroup(event.Feedback, res, "feedback", func() map[string]interface{} { return fb.Feedback(bag, res) })
	}
	return typeSet
}

func (m *Mapper) fillGroup(dst map[string]interface{}, res hivedetect.Result, field string, fn func() map[string]interface{}) {
	var src map[string]interface{}
	m.safely(res, field, func() { src = fn() })
	hiveevent.Fill(dst, src)
}

// safely runs one extractor call, converting a panic into an empty
// contribution.  A misbehaving extractor must never abort the mapping.
func (m *Mapper) safely(res hivedetect.Result, field string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.stats.extractorErrors.Add(1)
			m.logger.Warn("extractor failed, treating its contribution as empty",
				zap.String("convention", res.Convention),
				zap.String("version", res.Version),
				zap.String("field", field),
				zap.Any("panic", r))
		}
	}()
	fn()
}

// populateStructural fills name, timestamps, and ids from the span
// itself and the bag's reserved keys, independent of what convention
// detection concluded.
func (m *Mapper) populateStructural(event *hiveevent.Event, bag hivebag.Bag, meta SpanMeta, sig hivebag.Signature) {
	event.EventName = meta.Name
	event.StartTime = meta.StartTime
	event.EndTime = meta.EndTime

	if id, ok := bag.GetString(hivebag.KeyEventID); ok {
		event.IDs.EventID = id
	} else {
		// Deterministic id so mapping the same span twice yields the
		// same event, which keeps the hit and miss paths comparable.
		seed := fmt.Sprintf("%d|%s|%d", sig.Hash(), meta.Name, meta.StartTime.UnixNano())
		event.IDs.EventID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed)).String()
	}
	if id, ok := bag.GetString(hivebag.KeySessionID); ok {
		event.IDs.SessionID = id
	}
	if id, ok := bag.GetString(hivebag.KeyParentID); ok {
		event.IDs.ParentID = id
	}
	if ids, ok := bag.GetStrings(hivebag.KeyChildrenIDs); ok {
		event.SetChildren(ids)
	}
	if id, ok := bag.GetString(hivebag.KeyProjectID); ok {
		event.IDs.ProjectID = id
	}
}
