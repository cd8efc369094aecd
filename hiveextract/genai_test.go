package hiveextract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hiveextract"
)

func TestGenAIConfig(t *testing.T) {
	ext := hiveextract.GenAI{}
	bag := hivebag.Bag{
		"gen_ai.request.model":       "gpt-4",
		"gen_ai.system":              "openai",
		"gen_ai.request.temperature": 0.7,
		"gen_ai.request.max_tokens":  256,
	}
	config := ext.Config(bag, noDetection)
	assert.Equal(t, "gpt-4", config["model"])
	assert.Equal(t, "openai", config["provider"])
	assert.Equal(t, 0.7, config["temperature"])
	assert.Equal(t, float64(256), config["max_tokens"])
}

func TestGenAIProviderNamePreferred(t *testing.T) {
	ext := hiveextract.GenAI{}
	bag := hivebag.Bag{
		"gen_ai.system":        "legacy",
		"gen_ai.provider.name": "anthropic",
	}
	assert.Equal(t, "anthropic", ext.Config(bag, noDetection)["provider"])
}

func TestGenAIMetricsBothSpellings(t *testing.T) {
	ext := hiveextract.GenAI{}

	old := hivebag.Bag{
		"gen_ai.usage.prompt_tokens":     100,
		"gen_ai.usage.completion_tokens": 50,
	}
	metrics := ext.Metrics(old, noDetection)
	assert.Equal(t, float64(100), metrics["prompt_tokens"])
	assert.Equal(t, float64(50), metrics["completion_tokens"])
	assert.Equal(t, float64(150), metrics["total_tokens"])

	current := hivebag.Bag{
		"gen_ai.usage.input_tokens":  30,
		"gen_ai.usage.output_tokens": 20,
		"gen_ai.usage.total_tokens":  55, // explicit total wins over the sum
	}
	metrics = ext.Metrics(current, noDetection)
	assert.Equal(t, float64(30), metrics["prompt_tokens"])
	assert.Equal(t, float64(20), metrics["completion_tokens"])
	assert.Equal(t, float64(55), metrics["total_tokens"])
}

func TestGenAIIndexedMessages(t *testing.T) {
	ext := hiveextract.GenAI{}
	bag := hivebag.Bag{
		"gen_ai.prompt.0.role":        "system",
		"gen_ai.prompt.0.content":     "be helpful",
		"gen_ai.prompt.1.role":        "user",
		"gen_ai.prompt.1.content":     "hi",
		"gen_ai.completion.0.role":    "assistant",
		"gen_ai.completion.0.content": "hello",
	}
	inputs := ext.Inputs(bag, noDetection)
	history, ok := inputs["chat_history"].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, history, 2)
	assert.Equal(t, "system", history[0]["role"])
	assert.Equal(t, "hi", history[1]["content"])

	outputs := ext.Outputs(bag, noDetection)
	assert.Equal(t, "hello", outputs["content"])
	assert.Equal(t, "assistant", outputs["role"])
}

func TestGenAIFinishReasons(t *testing.T) {
	ext := hiveextract.GenAI{}
	bag := hivebag.Bag{"gen_ai.response.finish_reasons": []string{"stop", "length"}}
	assert.Equal(t, "stop", ext.Outputs(bag, noDetection)["finish_reason"])
}

func TestGenAIEventType(t *testing.T) {
	ext := hiveextract.GenAI{}
	assert.Equal(t, "model", ext.EventType(hivebag.Bag{"gen_ai.request.model": "m"}, noDetection))
	assert.Equal(t, "tool", ext.EventType(hivebag.Bag{"gen_ai.tool.name": "search"}, noDetection))
	assert.Equal(t, "chain", ext.EventType(hivebag.Bag{"gen_ai.agent.name": "planner"}, noDetection))
	assert.Equal(t, "", ext.EventType(hivebag.Bag{}, noDetection))
}
