package hiveextract

import (
	"github.com/mohae/deepcopy"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedetect"
	"github.com/hivemap/hivemap-go/hiveevent"
)

// Fallback is the extractor of last resort, used when no convention
// reaches the acceptance threshold.  It copies every non-reserved
// attribute into metadata so nothing a span carried is silently lost,
// and it never fails.
type Fallback struct{}

func (Fallback) Convention() string { return "fallback" }

func (Fallback) EventType(_ hivebag.Bag, _ hivedetect.Result) string {
	return hiveevent.TypeGeneric
}

func (Fallback) Config(_ hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return map[string]interface{}{}
}

func (Fallback) Inputs(_ hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return map[string]interface{}{}
}

func (Fallback) Outputs(_ hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return map[string]interface{}{}
}

func (Fallback) Metadata(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{}, len(bag))
	for k, v := range bag {
		if hivebag.Reserved(k) {
			continue
		}
		out[k] = deepcopy.Copy(v)
	}
	return out
}

func (Fallback) Metrics(_ hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return map[string]interface{}{}
}
