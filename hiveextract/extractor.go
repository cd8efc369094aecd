// Package hiveextract turns a detected attribute bag into normalized
// semantic fields.  One extractor per convention, all implementing the
// same capability set; extractors are pure functions of the bag and
// the detection result, never mutate the bag, and return empty
// mappings rather than failing when optional keys are missing.
package hiveextract

import (
	"github.com/mohae/deepcopy"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedetect"
)

// Extractor is the per-convention capability set.  Each method returns
// only the fields its convention can speak to; the mapper merges the
// partial results by priority.
type Extractor interface {
	Convention() string
	EventType(bag hivebag.Bag, det hivedetect.Result) string
	Config(bag hivebag.Bag, det hivedetect.Result) map[string]interface{}
	Inputs(bag hivebag.Bag, det hivedetect.Result) map[string]interface{}
	Outputs(bag hivebag.Bag, det hivedetect.Result) map[string]interface{}
	Metadata(bag hivebag.Bag, det hivedetect.Result) map[string]interface{}
	Metrics(bag hivebag.Bag, det hivedetect.Result) map[string]interface{}
}

// FeedbackExtractor is implemented by conventions that carry user
// feedback alongside the six standard field groups.
type FeedbackExtractor interface {
	Feedback(bag hivebag.Bag, det hivedetect.Result) map[string]interface{}
}

var builtin = func() map[string]Extractor {
	m := make(map[string]Extractor)
	for _, e := range []Extractor{
		Native{},
		GenAI{},
		OpenInference{},
		Traceloop{},
	} {
		m[e.Convention()] = e
	}
	return m
}()

// ForConvention returns the extractor for a convention name.
func ForConvention(name string) (Extractor, bool) {
	e, ok := builtin[name]
	return e, ok
}

// Values lifted out of the bag are deep-copied so the produced event
// never aliases nested structures the caller may still mutate.
func copyInto(dst map[string]interface{}, src map[string]interface{}) {
	for k, v := range src {
		dst[k] = deepcopy.Copy(v)
	}
}

func putString(m map[string]interface{}, key string, bag hivebag.Bag, attr string) {
	if v, ok := bag.GetString(attr); ok {
		m[key] = v
	}
}

func putNumber(m map[string]interface{}, key string, bag hivebag.Bag, attr string) {
	if v, ok := bag.GetNumber(attr); ok {
		m[key] = v
	}
}
