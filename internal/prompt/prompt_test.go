package prompt

import (
	"strings"
	"testing"

	"sdlcassist/internal/schema"
)

func TestBuild_RendersSections(t *testing.T) {
	req := &schema.TradeoffRequest{
		OptionA:  "PostgreSQL",
		OptionB:  "DynamoDB",
		Criteria: []string{"cost", "latency"},
	}
	system, payload, err := Build(req)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	for _, sec := range []string{"[ROLE]", "[RULES]", "[OUTPUT_SCHEMA]", "[OUTPUT_FORMAT]"} {
		if !strings.Contains(system, sec) {
			t.Fatalf("expected section %s in system prompt", sec)
		}
	}
	if payload != req {
		t.Fatalf("expected the request itself as payload")
	}
	if !strings.Contains(system, "strict JSON") {
		t.Fatalf("expected shared JSON rules in prompt")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	req := &schema.RiskRequest{Design: "A queue-based ingestion pipeline."}
	a, _, err := Build(req)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	b, _, err := Build(req)
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if a != b {
		t.Fatalf("expected identical prompts for identical requests")
	}
}

func TestBuild_EmbedsSchemaHint(t *testing.T) {
	system, _, err := Build(&schema.RiskRequest{Design: "d"})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !strings.Contains(system, `"likelihood": "int (1-3)"`) {
		t.Fatalf("expected likelihood range hint in schema section:\n%s", system)
	}
	if !strings.Contains(system, `"impact": "int (1-4)"`) {
		t.Fatalf("expected impact range hint in schema section")
	}
}

func TestBuild_TestCaseCountRule(t *testing.T) {
	system, _, err := Build(&schema.TestCaseRequest{UserStory: "As a user I log in."})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !strings.Contains(system, "Return exactly 6 test cases.") {
		t.Fatalf("expected default count rule, got:\n%s", system)
	}

	system, _, err = Build(&schema.TestCaseRequest{UserStory: "As a user I log in.", Count: 3})
	if err != nil {
		t.Fatalf("build error: %v", err)
	}
	if !strings.Contains(system, "Return exactly 3 test cases.") {
		t.Fatalf("expected explicit count rule, got:\n%s", system)
	}
}

func TestBuild_EveryKindHasPersona(t *testing.T) {
	for _, k := range schema.Kinds() {
		req := schema.NewRequest(k)
		system, _, err := Build(req)
		if err != nil {
			t.Fatalf("build %s: %v", k, err)
		}
		if !strings.HasPrefix(system, "[ROLE]") {
			t.Fatalf("build %s: prompt does not start with role section", k)
		}
	}
}
