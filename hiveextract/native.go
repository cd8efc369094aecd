package hiveextract

import (
	"sort"
	"strings"

	"github.com/mohae/deepcopy"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedetect"
	"github.com/hivemap/hivemap-go/hiveevent"
)

// Native extracts the engine's own convention.  Each field group can
// arrive two ways: one nested-object attribute holding the whole group
// (honeyhive_config), or individual flattened attributes
// (honeyhive_config_model, or a bare key with a known suffix such as
// "_model").  Both are merged, nested form winning on collision.
type Native struct{}

const (
	keyEventType = "honeyhive_event_type"
	keyConfig    = "honeyhive_config"
	keyInputs    = "honeyhive_inputs"
	keyOutputs   = "honeyhive_outputs"
	keyMetadata  = "honeyhive_metadata"
	keyMetrics   = "honeyhive_metrics"
	keyFeedback  = "honeyhive_feedback"
)

// Bare-key suffixes recognized as flattened config fields, emitted by
// older native instrumentation that predates the nested form.
var configSuffixes = map[string]string{
	"_model":       "model",
	"_provider":    "provider",
	"_temperature": "temperature",
	"_max_tokens":  "max_tokens",
	"_top_p":       "top_p",
}

func (Native) Convention() string { return "honeyhive" }

func (Native) EventType(bag hivebag.Bag, _ hivedetect.Result) string {
	t, ok := bag.GetString(keyEventType)
	if !ok {
		return ""
	}
	switch t {
	case hiveevent.TypeModel, hiveevent.TypeTool, hiveevent.TypeChain, hiveevent.TypeGeneric:
		return t
	}
	return hiveevent.TypeGeneric
}

func (Native) Config(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	// Sorted key order so two bare keys sharing a suffix resolve the
	// same way on every call: the lexicographically first key wins.
	bagKeys := make([]string, 0, len(bag))
	for bagKey := range bag {
		bagKeys = append(bagKeys, bagKey)
	}
	sort.Strings(bagKeys)

	out := make(map[string]interface{})
	for _, bagKey := range bagKeys {
		// Dotted keys belong to third-party vocabularies; grouped
		// native keys are handled by nestedOverFlat below.
		if strings.Contains(bagKey, ".") || strings.HasPrefix(bagKey, "honeyhive_") {
			continue
		}
		for suffix, field := range configSuffixes {
			if strings.HasSuffix(bagKey, suffix) {
				if _, taken := out[field]; !taken {
					out[field] = deepcopy.Copy(bag[bagKey])
				}
				break
			}
		}
	}
	return nestedOverFlat(bag, keyConfig, out)
}

func (Native) Inputs(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return nestedOverFlat(bag, keyInputs, nil)
}

func (Native) Outputs(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return nestedOverFlat(bag, keyOutputs, nil)
}

func (Native) Metadata(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return nestedOverFlat(bag, keyMetadata, nil)
}

func (Native) Metrics(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return nestedOverFlat(bag, keyMetrics, nil)
}

func (Native) Feedback(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return nestedOverFlat(bag, keyFeedback, nil)
}

// nestedOverFlat merges the nested-object attribute for groupKey with
// flattened "<groupKey>_<field>" attributes and any pre-collected flat
// fields.  Nested values win every collision.
func nestedOverFlat(bag hivebag.Bag, groupKey string, flat map[string]interface{}) map[string]interface{} {
	out := flat
	if out == nil {
		out = make(map[string]interface{})
	}
	prefix := groupKey + "_"
	for bagKey, v := range bag {
		if field, found := strings.CutPrefix(bagKey, prefix); found && field != "" {
			out[field] = deepcopy.Copy(v)
		}
	}
	if nested, ok := bag.GetMap(groupKey); ok {
		copyInto(out, nested)
	}
	return out
}
