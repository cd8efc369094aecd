package hivedef

// Builtin returns the convention definitions the engine ships with.
// Callers append their own definitions before building the registry
// when a deployment carries additional instrumentation.
//
// Priority ordering is fixed: the native convention always outranks
// detected third-party conventions, which rank by how specific their
// vocabularies are.
func Builtin() []Definition {
	return []Definition{
		{
			Name:     "honeyhive",
			Version:  "0.2.0",
			Priority: 0,
			Default:  true,
			Rules: []Rule{
				{
					Required: []string{"honeyhive_event_type"},
					Base:     0.9,
					Definitive: []Indicator{
						{Key: "honeyhive_config", Delta: 0.05},
						{Key: "honeyhive_inputs", Delta: 0.05},
						{Key: "honeyhive_outputs", Delta: 0.05},
					},
				},
				{
					Required: []string{"honeyhive_config"},
					Base:     0.9,
					Definitive: []Indicator{
						{Key: "honeyhive_inputs", Delta: 0.05},
						{Key: "honeyhive_metadata", Delta: 0.05},
					},
				},
				{
					Required: []string{"honeyhive_inputs", "honeyhive_outputs"},
					Base:     0.9,
					Compatible: []Indicator{
						{Key: "honeyhive_metrics", Delta: 0.05},
						{Key: "honeyhive_feedback", Delta: 0.05},
					},
				},
			},
		},

		// OpenTelemetry GenAI semantic conventions.  The token usage
		// keys were renamed between these two versions; each version
		// lists the other's spelling as an exclusion indicator so the
		// version selector lands on the right one.
		{
			Name:          "gen_ai",
			Version:       "1.27.0",
			Priority:      10,
			FallbackRank:  1,
			VersionMarker: "gen_ai.semconv.version",
			Rules: []Rule{
				{
					Required: []string{
						"gen_ai.request.model",
						"gen_ai.system",
						"gen_ai.usage.completion_tokens",
						"gen_ai.usage.prompt_tokens",
					},
					Base: 0.85,
					Definitive: []Indicator{
						{Key: "gen_ai.response.model", Delta: 0.1},
					},
					Compatible: []Indicator{
						{Key: "gen_ai.request.temperature", Delta: 0.05},
						{Key: "gen_ai.request.max_tokens", Delta: 0.05},
					},
					Exclusion: []Indicator{
						{Key: "gen_ai.usage.input_tokens", Delta: 0.3},
						{Key: "gen_ai.usage.output_tokens", Delta: 0.3},
					},
				},
				{
					Required: []string{"gen_ai.system", "gen_ai.request.model"},
					Base:     0.8,
					Definitive: []Indicator{
						{Key: "gen_ai.usage.prompt_tokens", Delta: 0.1},
						{Key: "gen_ai.usage.completion_tokens", Delta: 0.1},
					},
					Exclusion: []Indicator{
						{Key: "gen_ai.usage.input_tokens", Delta: 0.3},
						{Key: "gen_ai.usage.output_tokens", Delta: 0.3},
					},
				},
			},
		},
		{
			Name:          "gen_ai",
			Version:       "1.37.0",
			Priority:      10,
			FallbackRank:  1,
			VersionMarker: "gen_ai.semconv.version",
			Rules: []Rule{
				{
					Required: []string{
						"gen_ai.request.model",
						"gen_ai.system",
						"gen_ai.usage.input_tokens",
						"gen_ai.usage.output_tokens",
					},
					Base: 0.85,
					Definitive: []Indicator{
						{Key: "gen_ai.response.model", Delta: 0.1},
						{Key: "gen_ai.provider.name", Delta: 0.1},
					},
					Compatible: []Indicator{
						{Key: "gen_ai.request.temperature", Delta: 0.05},
						{Key: "gen_ai.request.max_tokens", Delta: 0.05},
					},
					Exclusion: []Indicator{
						{Key: "gen_ai.usage.prompt_tokens", Delta: 0.3},
						{Key: "gen_ai.usage.completion_tokens", Delta: 0.3},
					},
				},
				{
					Required: []string{"gen_ai.system", "gen_ai.request.model"},
					Base:     0.8,
					Definitive: []Indicator{
						{Key: "gen_ai.usage.input_tokens", Delta: 0.1},
						{Key: "gen_ai.usage.output_tokens", Delta: 0.1},
					},
					Exclusion: []Indicator{
						{Key: "gen_ai.usage.prompt_tokens", Delta: 0.3},
						{Key: "gen_ai.usage.completion_tokens", Delta: 0.3},
					},
				},
			},
		},

		{
			Name:         "openinference",
			Version:      "0.1.9",
			Priority:     20,
			FallbackRank: 2,
			Rules: []Rule{
				{
					Required: []string{"llm.model_name"},
					Base:     0.85,
					Definitive: []Indicator{
						{Key: "openinference.span.kind", Delta: 0.1},
						{Key: "llm.invocation_parameters", Delta: 0.05},
					},
					Compatible: []Indicator{
						{Key: "llm.token_count.prompt", Delta: 0.05},
						{Key: "llm.token_count.completion", Delta: 0.05},
					},
				},
				{
					Required: []string{"openinference.span.kind"},
					Base:     0.85,
					Compatible: []Indicator{
						{Key: "input.value", Delta: 0.05},
						{Key: "output.value", Delta: 0.05},
					},
				},
			},
		},

		{
			Name:         "traceloop",
			Version:      "0.9.0",
			Priority:     30,
			FallbackRank: 3,
			Rules: []Rule{
				{
					Required: []string{"traceloop.entity.name"},
					Base:     0.85,
					Definitive: []Indicator{
						{Key: "traceloop.workflow.name", Delta: 0.1},
						{Key: "traceloop.span.kind", Delta: 0.05},
					},
					Compatible: []Indicator{
						{Key: "traceloop.entity.input", Delta: 0.05},
						{Key: "traceloop.entity.output", Delta: 0.05},
					},
				},
				{
					Required: []string{"traceloop.workflow.name"},
					Base:     0.85,
					Compatible: []Indicator{
						{Key: "traceloop.entity.input", Delta: 0.05},
						{Key: "traceloop.entity.output", Delta: 0.05},
					},
				},
			},
		},
	}
}
