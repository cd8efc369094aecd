package hiveextract

import (
	"fmt"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedetect"
	"github.com/hivemap/hivemap-go/hiveevent"
)

// GenAI extracts the OpenTelemetry GenAI semantic conventions.  Token
// usage keys were renamed across convention versions
// (prompt_tokens/completion_tokens became input_tokens/output_tokens);
// extraction accepts both spellings so a bag survives being detected
// as either registered version.  Message content arrives either as a
// single JSON attribute (gen_ai.input.messages) or as indexed
// attributes (gen_ai.prompt.0.role / gen_ai.prompt.0.content, the
// Traceloop emission style).
type GenAI struct{}

func (GenAI) Convention() string { return "gen_ai" }

func (GenAI) EventType(bag hivebag.Bag, _ hivedetect.Result) string {
	switch {
	case bag.Has("gen_ai.tool.name"):
		return hiveevent.TypeTool
	case bag.Has("gen_ai.agent.name"):
		return hiveevent.TypeChain
	case bag.Has("gen_ai.request.model") || bag.Has("gen_ai.response.model"):
		return hiveevent.TypeModel
	}
	return ""
}

func (GenAI) Config(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	putString(out, "model", bag, "gen_ai.request.model")
	if provider, ok := bag.GetString("gen_ai.provider.name"); ok {
		out["provider"] = provider
	} else {
		putString(out, "provider", bag, "gen_ai.system")
	}
	putNumber(out, "temperature", bag, "gen_ai.request.temperature")
	putNumber(out, "max_tokens", bag, "gen_ai.request.max_tokens")
	putNumber(out, "top_p", bag, "gen_ai.request.top_p")
	return out
}

func (GenAI) Inputs(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	if raw, ok := bag.GetString("gen_ai.input.messages"); ok {
		out["chat_history"] = raw
	}
	if history := indexedMessages(bag, "gen_ai.prompt"); len(history) > 0 {
		out["chat_history"] = history
	}
	return out
}

func (GenAI) Outputs(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	if raw, ok := bag.GetString("gen_ai.output.messages"); ok {
		out["content"] = raw
	}
	if completions := indexedMessages(bag, "gen_ai.completion"); len(completions) > 0 {
		if content, ok := completions[0]["content"]; ok {
			out["content"] = content
		}
		if role, ok := completions[0]["role"]; ok {
			out["role"] = role
		}
	}
	if reasons, ok := bag.GetStrings("gen_ai.response.finish_reasons"); ok && len(reasons) > 0 {
		out["finish_reason"] = reasons[0]
	} else {
		putString(out, "finish_reason", bag, "gen_ai.response.finish_reason")
	}
	return out
}

func (GenAI) Metadata(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	putString(out, "response_id", bag, "gen_ai.response.id")
	putString(out, "response_model", bag, "gen_ai.response.model")
	putString(out, "operation", bag, "gen_ai.operation.name")
	putString(out, "conversation_id", bag, "gen_ai.conversation.id")
	putString(out, "agent", bag, "gen_ai.agent.name")
	putString(out, "tool", bag, "gen_ai.tool.name")
	return out
}

func (GenAI) Metrics(bag hivebag.Bag, _ hivedetect.Result) map[string]interface{} {
	out := make(map[string]interface{})
	prompt, hasPrompt := bag.GetNumber("gen_ai.usage.input_tokens")
	if !hasPrompt {
		prompt, hasPrompt = bag.GetNumber("gen_ai.usage.prompt_tokens")
	}
	completion, hasCompletion := bag.GetNumber("gen_ai.usage.output_tokens")
	if !hasCompletion {
		completion, hasCompletion = bag.GetNumber("gen_ai.usage.completion_tokens")
	}
	if hasPrompt {
		out["prompt_tokens"] = prompt
	}
	if hasCompletion {
		out["completion_tokens"] = completion
	}
	if total, ok := bag.GetNumber("gen_ai.usage.total_tokens"); ok {
		out["total_tokens"] = total
	} else if hasPrompt && hasCompletion {
		out["total_tokens"] = prompt + completion
	}
	return out
}

// indexedMessages collects prefix.N.role / prefix.N.content attribute
// runs into one message list, stopping at the first missing index.
func indexedMessages(bag hivebag.Bag, prefix string) []map[string]interface{} {
	var messages []map[string]interface{}
	for i := 0; ; i++ {
		roleKey := fmt.Sprintf("%s.%d.role", prefix, i)
		contentKey := fmt.Sprintf("%s.%d.content", prefix, i)
		role, hasRole := bag.GetString(roleKey)
		content, hasContent := bag.GetString(contentKey)
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
