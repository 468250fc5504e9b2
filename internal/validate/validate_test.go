package validate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sdlcassist/internal/schema"
)

func envelope() map[string]any {
	return map[string]any{
		"version":      "1.0",
		"trace_id":     "t-1",
		"generated_at": "2025-06-01T12:00:00Z",
	}
}

func validRisk() map[string]any {
	obj := envelope()
	obj["summary"] = "two risks found"
	obj["risks"] = []any{map[string]any{
		"risk_id":     "R-abc123",
		"category":    "Reliability",
		"description": "queue backlog",
		"likelihood":  float64(2),
		"impact":      float64(3),
		"score":       float64(6),
		"mitigation":  "add DLQ",
		"owner":       "Unassigned",
	}}
	return obj
}

func TestValidate_RiskOK(t *testing.T) {
	resp, err := Validate(schema.KindRisk, validRisk())
	require.NoError(t, err)
	typed, ok := resp.(*schema.RiskResponse)
	require.True(t, ok)
	require.Equal(t, "t-1", typed.TraceID)
	require.Len(t, typed.Risks, 1)
	require.Equal(t, 6, typed.Risks[0].Score)
}

func TestValidate_MissingRequiredField(t *testing.T) {
	obj := validRisk()
	delete(obj, "summary")
	_, err := Validate(schema.KindRisk, obj)
	var sv *SchemaViolationError
	require.ErrorAs(t, err, &sv)
	require.Equal(t, "summary", sv.Field)
}

func TestValidate_WrongTypeNamesPath(t *testing.T) {
	obj := validRisk()
	obj["summary"] = 42
	_, err := Validate(schema.KindRisk, obj)
	var sv *SchemaViolationError
	require.ErrorAs(t, err, &sv)
	require.Equal(t, "summary", sv.Field)
}

func TestValidate_RangeViolationInList(t *testing.T) {
	obj := validRisk()
	row := obj["risks"].([]any)[0].(map[string]any)
	row["likelihood"] = float64(5)
	_, err := Validate(schema.KindRisk, obj)
	var sv *SchemaViolationError
	require.ErrorAs(t, err, &sv)
	require.Equal(t, "risks[0].likelihood", sv.Field)
}

func TestValidate_NonIntegralNumberRejected(t *testing.T) {
	obj := validRisk()
	row := obj["risks"].([]any)[0].(map[string]any)
	row["impact"] = 2.5
	_, err := Validate(schema.KindRisk, obj)
	var sv *SchemaViolationError
	require.ErrorAs(t, err, &sv)
	require.Equal(t, "risks[0].impact", sv.Field)
}

func TestValidate_EnumViolation(t *testing.T) {
	obj := envelope()
	obj["context"] = map[string]any{}
	obj["criteria"] = []any{"cost"}
	obj["matrix"] = []any{map[string]any{
		"criterion": "cost",
		"option_a":  "cheap",
		"option_b":  "pricey",
		"verdict":   "Maybe",
	}}
	obj["summary"] = "s"
	obj["recommendation"] = map[string]any{"winner": "A", "rationale": "r"}
	_, err := Validate(schema.KindTradeoff, obj)
	var sv *SchemaViolationError
	require.ErrorAs(t, err, &sv)
	require.Equal(t, "matrix[0].verdict", sv.Field)
}

func TestValidate_OptionalFieldsMayBeAbsent(t *testing.T) {
	obj := envelope()
	obj["context"] = map[string]any{"option_a": "x", "option_b": "y"}
	obj["criteria"] = []any{"cost"}
	obj["matrix"] = []any{map[string]any{
		"criterion": "cost",
		"option_a":  "cheap",
		"option_b":  "pricey",
		"verdict":   "Tie",
	}}
	obj["summary"] = "s"
	obj["recommendation"] = map[string]any{"winner": "Insufficient Data", "rationale": "r"}
	resp, err := Validate(schema.KindTradeoff, obj)
	require.NoError(t, err)
	typed := resp.(*schema.TradeoffResponse)
	require.Equal(t, "Insufficient Data", typed.Recommendation.Winner)
	require.Empty(t, typed.Matrix[0].Notes)
}

func TestValidate_BoolField(t *testing.T) {
	obj := envelope()
	obj["summary"] = "s"
	obj["compliant"] = "yes"
	obj["findings"] = []any{}
	_, err := Validate(schema.KindCompliance, obj)
	var sv *SchemaViolationError
	require.ErrorAs(t, err, &sv)
	require.Equal(t, "compliant", sv.Field)
}

func TestValidate_ListElementTypeMismatch(t *testing.T) {
	obj := envelope()
	obj["summary"] = "s"
	obj["probable_causes"] = []any{"nil map", 7}
	obj["suggested_fixes"] = []any{}
	obj["optimizations"] = []any{}
	_, err := Validate(schema.KindDebug, obj)
	var sv *SchemaViolationError
	require.ErrorAs(t, err, &sv)
	require.Equal(t, "probable_causes[1]", sv.Field)
}
