package hiveextract

import (
	"fmt"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedetect"
	"github.com/hivemap/hivemap-go/hiveevent"
)

// OpenInference extracts the OpenInference convention (Arize Phoenix
// and friends): span kind under openinference.span.kind, model
// configuration under llm.*, raw payloads under input.value and
// output.value, indexed chat messages under llm.input_messages.N.
type OpenInference struct{}

func (OpenInference) Convention() string { return "openinference" }

func (OpenInference) EventType(bag hivebag.Bag, _ hivedetect.Result) string {
	kind, ok := bag.GetString("openinference.span.kind")
	if !ok {
		if bag.Has("llm.model_name") {
			return hiveevent.TypeModel
		}
		return ""
	}
	switch kind {
	case "LLM", "EMBEDDING":
		return hiveevent.TypeModel
	case "TOOL", "RETRIEVER", "RERANKER":
		return hiveevent.TypeTool
	case "CHAIN", "AGENT":
		return hiveevent.TypeChain
	}
	return hiveevent.TypeGeneric
}

func (OpenInference) Config(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	if params, ok := bag.GetMap("llm.invocation_parameters"); ok {
		copyInto(out, params)
	}
	// Dedicated keys outrank whatever the parameter blob carried.
	putString(out, "model", bag, "llm.model_name")
	putString(out, "provider", bag, "llm.provider")
	return out
}

func (OpenInference) Inputs(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	if v, ok := bag.GetString("input.value"); ok {
		out["input"] = v
	}
	if history := indexedOIMessages(bag, "llm.input_messages"); len(history) > 0 {
		out["chat_history"] = history
	}
	return out
}

func (OpenInference) Outputs(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	if v, ok := bag.GetString("output.value"); ok {
		out["output"] = v
	}
	if messages := indexedOIMessages(bag, "llm.output_messages"); len(messages) > 0 {
		if content, ok := messages[0]["content"]; ok {
			out["content"] = content
		}
	}
	return out
}

func (OpenInference) Metadata(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	putString(out, "span_kind", bag, "openinference.span.kind")
	putString(out, "input_mime_type", bag, "input.mime_type")
	putString(out, "output_mime_type", bag, "output.mime_type")
	putString(out, "tool", bag, "tool.name")
	return out
}

func (OpenInference) Metrics(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	putNumber(out, "prompt_tokens", bag, "llm.token_count.prompt")
	putNumber(out, "completion_tokens", bag, "llm.token_count.completion")
	putNumber(out, "total_tokens", bag, "llm.token_count.total")
	return out
}

// OpenInference nests message fields one level deeper than the GenAI
// indexed form: llm.input_messages.0.message.role.
func indexedOIMessages(bag hivebag.Bag, prefix string) []map[string]interface{} {
	var messages []map[string]interface{}
	for i := 0; ; i++ {
		role, hasRole := bag.GetString(fmt.Sprintf("%s.%d.message.role", prefix, i))
		content, hasContent := bag.GetString(fmt.Sprintf("%s.%d.message.content", prefix, i))
		if !hasRole && !hasContent {
			return messages
		}
		msg := make(map[string]interface{}, 2)
		if hasRole {
			msg["role"] = role
		}
		if hasContent {
			msg["content"] = content
		}
		messages = append(messages, msg)
	}
}
