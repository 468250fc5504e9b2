package llm

import (
	"context"
	"encoding/json"
	"testing"
)

func TestFakeClient_AllKindsReturnObjects(t *testing.T) {
	kinds := []string{"tradeoff", "review", "risk", "testcases", "design", "techstack", "compliance", "debug"}
	f := NewFakeClient()
	for _, k := range kinds {
		ctx := WithOperation(context.Background(), k)
		raw, err := f.GenerateJSON(ctx, "system", map[string]any{})
		if err != nil {
			t.Fatalf("%s: %v", k, err)
		}
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			t.Fatalf("%s: output is not a JSON object: %v", k, err)
		}
		if len(obj) == 0 {
			t.Fatalf("%s: empty output object", k)
		}
	}
}

func TestFakeClient_TradeoffMatrixTracksCriteria(t *testing.T) {
	f := NewFakeClient()
	ctx := WithOperation(context.Background(), "tradeoff")
	raw, err := f.GenerateJSON(ctx, "system", map[string]any{
		"option_a": "A",
		"option_b": "B",
		"criteria": []string{"cost", "latency", "ops"},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var obj struct {
		Criteria []string         `json:"criteria"`
		Matrix   []map[string]any `json:"matrix"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(obj.Matrix) != 3 {
		t.Fatalf("expected one matrix row per criterion, got %d", len(obj.Matrix))
	}
	for i, row := range obj.Matrix {
		if row["criterion"] != obj.Criteria[i] {
			t.Fatalf("row %d criterion mismatch: %v", i, row["criterion"])
		}
	}
}

func TestFakeClient_TestCaseCountHonored(t *testing.T) {
	f := NewFakeClient()
	ctx := WithOperation(context.Background(), "testcases")
	raw, err := f.GenerateJSON(ctx, "system", map[string]any{"user_story": "s", "count": 4})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	var obj struct {
		Cases []any `json:"cases"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(obj.Cases) != 4 {
		t.Fatalf("expected 4 cases, got %d", len(obj.Cases))
	}
}

func TestOperationContext(t *testing.T) {
	if got := OperationFrom(context.Background()); got != "" {
		t.Fatalf("expected empty operation, got %q", got)
	}
	ctx := WithOperation(context.Background(), "risk")
	if got := OperationFrom(ctx); got != "risk" {
		t.Fatalf("expected risk, got %q", got)
	}
}
