package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// FakeClient returns deterministic, minimal JSON payloads per operation
// kind for offline use and testing. It is selected by explicit
// configuration (LLM_PROVIDER=fake), or as the local-development default
// when no provider is configured and no Gemini key is present; outside
// local runs a missing key is a startup error, never a silent fallback.
//
// The bodies intentionally omit fields the repair pipeline owns
// (trace_id, generated_at, risk scores and ids, test-case defaults) so
// that downstream normalization stays exercised end to end.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, system string, payload any) (json.RawMessage, error) {
	in := map[string]any{}
	if b, err := json.Marshal(payload); err == nil {
		_ = json.Unmarshal(b, &in)
	}

	var obj any
	switch OperationFrom(ctx) {
	case "tradeoff":
		criteria := stringList(in["criteria"])
		matrix := make([]any, 0, len(criteria))
		for _, c := range criteria {
			matrix = append(matrix, map[string]any{
				"criterion": c,
				"option_a":  "ok",
				"option_b":  "better",
				"verdict":   "B",
				"notes":     "",
			})
		}
		obj = map[string]any{
			"version": "1.0",
			"context": map[string]any{
				"option_a": str(in["option_a"]),
				"option_b": str(in["option_b"]),
			},
			"criteria": criteria,
			"matrix":   matrix,
			"summary":  "Stub trade-off summary",
			"recommendation": map[string]any{
				"winner":    "B",
				"rationale": "Stub rationale",
				"caveats":   "Stub caveats",
			},
		}
	case "review":
		obj = map[string]any{
			"version": "1.0",
			"summary": "Stub review summary",
			"risks": []any{map[string]any{
				"area":       "Reliability",
				"severity":   "Medium",
				"likelihood": "Medium",
				"impact":     "Degraded service during failover",
				"mitigation": "Add health checks and automated failover drills",
			}},
			"action_items": []any{"Document the failover procedure"},
		}
	case "risk":
		obj = map[string]any{
			"version": "1.0",
			"summary": "Stub risk summary",
			"risks": []any{map[string]any{
				"category":    "Reliability",
				"description": "Possible queue backlog",
				"likelihood":  2,
				"impact":      3,
				"mitigation":  "Add a dead-letter queue",
			}},
		}
	case "testcases":
		count := 1
		if n, ok := in["count"].(float64); ok && int(n) > 0 {
			count = int(n)
		}
		cases := make([]any, 0, count)
		for i := 0; i < count; i++ {
			cases = append(cases, map[string]any{
				"title": fmt.Sprintf("Sample case %d", i+1),
				"given": "A valid user in the system",
				"when":  "They perform the primary action",
				"then":  "The expected outcome occurs",
				"data":  map[string]any{},
			})
		}
		obj = map[string]any{
			"version": "1.0",
			"summary": "Stub test cases generated",
			"cases":   cases,
		}
	case "design":
		obj = map[string]any{
			"version": "1.0",
			"summary": "Two viable options for the stated goals.",
			"options": []any{
				map[string]any{
					"name":            "Simple 3-tier",
					"when_to_use":     "Small team, moderate traffic.",
					"key_components":  []any{"API", "Service", "DB", "Cache", "LB", "CDN"},
					"pros":            []any{"Easy to build", "Low ops overhead", "Well understood", "Cheap to start"},
					"cons":            []any{"Limited scalability"},
					"diagram_mermaid": "graph LR; API-->Svc; Svc-->DB;",
				},
				map[string]any{
					"name":            "Queue-based async",
					"when_to_use":     "Spiky workload; decoupling needed.",
					"key_components":  []any{"API", "Worker", "Queue", "DB"},
					"pros":            []any{"Resilient to spikes", "Improved user latency"},
					"cons":            []any{"More moving parts"},
					"diagram_mermaid": "graph LR; API-->Q; Q-->W; W-->DB;",
				},
			},
			"recommendation": "Pick queue-based async if spikes or decoupling matter; otherwise 3-tier.",
		}
	case "techstack":
		obj = map[string]any{
			"version": "1.0",
			"summary": "Stub tech stack assessment",
			"tech_recommendations": []any{map[string]any{
				"layer":          "Datastore",
				"recommendation": "PostgreSQL",
				"rationale":      "Relational workload with modest write volume",
			}},
		}
	case "compliance":
		obj = map[string]any{
			"version":   "1.0",
			"summary":   "Stub compliance check",
			"compliant": false,
			"findings": []any{map[string]any{
				"rule":        "naming-convention",
				"severity":    "Low",
				"line":        12,
				"description": "Identifier does not follow the project naming convention",
				"suggestion":  "Rename to lowerCamelCase",
			}},
		}
	case "debug":
		obj = map[string]any{
			"version":         "1.0",
			"summary":         "Stub debug analysis",
			"probable_causes": []any{"Nil map write on first use"},
			"suggested_fixes": []any{map[string]any{
				"description": "Initialize the map before writing",
				"patch":       "m := make(map[string]int)",
			}},
			"optimizations": []any{"Preallocate the map with an expected size"},
		}
	default:
		obj = map[string]any{}
	}
	b, _ := json.Marshal(obj)
	return json.RawMessage(b), nil
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
