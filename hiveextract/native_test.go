package hiveextract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivemap/hivemap-go/hivebag"
	"github.com/hivemap/hivemap-go/hivedetect"
	"github.com/hivemap/hivemap-go/hiveextract"
)

var noDetection hivedetect.Result

func TestNativeNestedConfig(t *testing.T) {
	ext := hiveextract.Native{}
	bag := hivebag.Bag{
		"honeyhive_config": map[string]interface{}{
			"model":       "gpt-4",
			"temperature": 0.2,
		},
	}
	config := ext.Config(bag, noDetection)
	assert.Equal(t, "gpt-4", config["model"])
	assert.Equal(t, 0.2, config["temperature"])
}

func TestNativeConfigAcceptsJSONString(t *testing.T) {
	ext := hiveextract.Native{}
	bag := hivebag.Bag{"honeyhive_config": `{"model":"gpt-4"}`}
	assert.Equal(t, "gpt-4", ext.Config(bag, noDetection)["model"])
}

func TestNativeNestedWinsOverFlattened(t *testing.T) {
	ext := hiveextract.Native{}
	bag := hivebag.Bag{
		"honeyhive_config":       map[string]interface{}{"model": "gpt-4"},
		"honeyhive_config_model": "gpt-3.5",
		"request_model":          "gpt-3",
	}
	config := ext.Config(bag, noDetection)
	assert.Equal(t, "gpt-4", config["model"])
}

func TestNativeFlattenedSuffixKeys(t *testing.T) {
	ext := hiveextract.Native{}
	bag := hivebag.Bag{
		"request_model":      "gpt-4",
		"chosen_provider":    "openai",
		"llm.model_name":     "should-be-ignored", // dotted keys are not native
		"honeyhive_anything": "ignored too",
	}
	config := ext.Config(bag, noDetection)
	assert.Equal(t, "gpt-4", config["model"])
	assert.Equal(t, "openai", config["provider"])
	assert.Len(t, config, 2)
}

func TestNativeSuffixCollisionIsDeterministic(t *testing.T) {
	ext := hiveextract.Native{}
	bag := hivebag.Bag{
		"request_model":  "gpt-4",
		"fallback_model": "gpt-3.5",
	}
	for i := 0; i < 100; i++ {
		config := ext.Config(bag, noDetection)
		assert.Equal(t, "gpt-3.5", config["model"], "iteration %d", i)
	}
}

func TestNativeGroupPrefixFlattening(t *testing.T) {
	ext := hiveextract.Native{}
	bag := hivebag.Bag{
		"honeyhive_inputs":         map[string]interface{}{"query": "hello"},
		"honeyhive_inputs_context": "docs",
		"honeyhive_metrics_cost":   0.003,
	}
	inputs := ext.Inputs(bag, noDetection)
	assert.Equal(t, "hello", inputs["query"])
	assert.Equal(t, "docs", inputs["context"])

	metrics := ext.Metrics(bag, noDetection)
	assert.Equal(t, 0.003, metrics["cost"])
}

func TestNativeEventType(t *testing.T) {
	ext := hiveextract.Native{}
	assert.Equal(t, "model", ext.EventType(hivebag.Bag{"honeyhive_event_type": "model"}, noDetection))
	assert.Equal(t, "generic", ext.EventType(hivebag.Bag{"honeyhive_event_type": "weird"}, noDetection))
	assert.Equal(t, "", ext.EventType(hivebag.Bag{}, noDetection))
}

func TestNativeFeedback(t *testing.T) {
	ext := hiveextract.Native{}
	bag := hivebag.Bag{"honeyhive_feedback": map[string]interface{}{"rating": 5}}
	assert.Equal(t, 5, ext.Feedback(bag, noDetection)["rating"])
}

func TestNativeDoesNotAliasBagValues(t *testing.T) {
	nested := map[string]interface{}{"settings": map[string]interface{}{"k": "v"}}
	bag := hivebag.Bag{"honeyhive_config": nested}
	config := hiveextract.Native{}.Config(bag, noDetection)

	extracted, ok := config["settings"].(map[string]interface{})
	require.True(t, ok)
	extracted["k"] = "mutated"
	assert.Equal(t, "v", nested["settings"].(map[string]interface{})["k"])
}

func TestNativeEmptyBag(t *testing.T) {
	ext := hiveextract.Native{}
	bag := hivebag.Bag{}
	assert.Empty(t, ext.Config(bag, noDetection))
	assert.Empty(t, ext.Inputs(bag, noDetection))
	assert.Empty(t, ext.Outputs(bag, noDetection))
	assert.Empty(t, ext.Metadata(bag, noDetection))
	assert.Empty(t, ext.Metrics(bag, noDetection))
	assert.NotNil(t, ext.Config(bag, noDetection))
}
