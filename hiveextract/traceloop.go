package hiveextract

import (
	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedetect"
	"github.com/hivemap/hivemap-go/hiveevent"
)

// Traceloop extracts the OpenLLMetry entity/workflow convention.
// Model-call details on Traceloop spans ride on gen_ai.* keys and are
// handled by the GenAI extractor; this one covers the workflow
// structure Traceloop adds around them.
type Traceloop struct{}

func (Traceloop) Convention() string { return "traceloop" }

func (Traceloop) EventType(bag hivebag.Bag, _ hivedetect.Result) string {
	kind, ok := bag.GetString("traceloop.span.kind")
	if !ok {
		return hiveevent.TypeChain
	}
	switch kind {
	case "llm":
		return hiveevent.TypeModel
	case "tool":
		return hiveevent.TypeTool
	case "workflow", "task", "agent":
		return hiveevent.TypeChain
	}
	return hiveevent.TypeGeneric
}

func (Traceloop) Config(_ hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return map[string]interface{}{}
}

func (Traceloop) Inputs(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return entityPayload(bag, "traceloop.entity.input", "input")
}

func (Traceloop) Outputs(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return entityPayload(bag, "traceloop.entity.output", "output")
}

func (Traceloop) Metadata(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	putString(out, "entity", bag, "traceloop.entity.name")
	putString(out, "workflow", bag, "traceloop.workflow.name")
	putString(out, "entity_path", bag, "traceloop.entity.path")
	putString(out, "span_kind", bag, "traceloop.span.kind")
	return out
}

func (Traceloop) Metrics(_ hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	return map[string]interface{}{}
}

// entityPayload takes a Traceloop entity payload, which is a JSON
// object in string form when it came from kwargs and an arbitrary
// string otherwise.
func entityPayload(bag hivebag.Bag, attr, fallbackKey string) map[string]interface{} {
	out := make(map[string]interface{})
	if m, ok := bag.GetMap(attr); ok {
		copyInto(out, m)
		return out
	}
	if v, ok := bag.GetString(attr); ok {
		out[fallbackKey] = v
	}
	return out
}
