package hivemap

import (
	"sync/atomic"
)

type stats struct {
	hits            atomic.Uint64
	misses          atomic.Uint64
	degraded        atomic.Uint64
	extractorErrors atomic.Uint64
}

// Stats is a point-in-time snapshot of the mapper's counters.  These
// are plain counters for diagnostics, not a metrics pipeline; export
// is the caller's concern.
type Stats struct {
	CacheHits       uint64
	CacheMisses     uint64
	Degraded        uint64
	ExtractorErrors uint64
}

// Stats returns the current counter values.
func (m *Mapper) Stats() Stats {
	return Stats{
		CacheHits:       m.stats.hits.Load(),
		CacheMisses:     m.stats.misses.Load(),
		Degraded:        m.stats.degraded.Load(),
		ExtractorErrors: m.stats.extractorErrors.Load(),
	}
}
