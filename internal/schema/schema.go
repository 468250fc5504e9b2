package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType is the primitive shape of a declared response field.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeInt    FieldType = "int"
	TypeBool   FieldType = "bool"
	TypeObject FieldType = "object"
	TypeList   FieldType = "list"
)

// Field declares one response field: its primitive type, whether it is
// required, enum literals for string fields, an inclusive integer range
// for int fields, and nested fields for objects and lists of objects.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Enum     []string
	Min, Max int       // int range; both zero means unchecked
	Elem     FieldType // element type for lists
	Fields   []Field   // nested fields for objects / object-list elements
}

// Schema declares the full response shape for one operation kind.
type Schema struct {
	Kind   Kind
	Fields []Field
}

// Field looks up a top-level field by name.
func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func envelopeFields() []Field {
	return []Field{
		{Name: "version", Type: TypeString, Required: true},
		{Name: "trace_id", Type: TypeString, Required: true},
		{Name: "generated_at", Type: TypeString, Required: true},
	}
}

var verdictEnum = []string{"A", "B", "Tie", "Insufficient Data"}
var severityEnum = []string{"Low", "Medium", "High", "Critical"}
var levelEnum = []string{"Low", "Medium", "High"}
var caseTypeEnum = []string{"Positive", "Negative", "Edge"}

var registry = map[Kind]Schema{
	KindTradeoff: {Kind: KindTradeoff, Fields: append(envelopeFields(),
		Field{Name: "context", Type: TypeObject, Required: true},
		Field{Name: "criteria", Type: TypeList, Required: true, Elem: TypeString},
		Field{Name: "matrix", Type: TypeList, Required: true, Elem: TypeObject, Fields: []Field{
			{Name: "criterion", Type: TypeString, Required: true},
			{Name: "option_a", Type: TypeString, Required: true},
			{Name: "option_b", Type: TypeString, Required: true},
			{Name: "verdict", Type: TypeString, Required: true, Enum: verdictEnum},
			{Name: "notes", Type: TypeString},
		}},
		Field{Name: "summary", Type: TypeString, Required: true},
		Field{Name: "recommendation", Type: TypeObject, Required: true, Fields: []Field{
			{Name: "winner", Type: TypeString, Required: true, Enum: verdictEnum},
			{Name: "rationale", Type: TypeString, Required: true},
			{Name: "caveats", Type: TypeString},
		}},
	)},
	KindReview: {Kind: KindReview, Fields: append(envelopeFields(),
		Field{Name: "summary", Type: TypeString, Required: true},
		Field{Name: "risks", Type: TypeList, Required: true, Elem: TypeObject, Fields: []Field{
			{Name: "area", Type: TypeString, Required: true},
			{Name: "severity", Type: TypeString, Required: true, Enum: severityEnum},
			{Name: "likelihood", Type: TypeString, Required: true, Enum: levelEnum},
			{Name: "impact", Type: TypeString, Required: true},
			{Name: "mitigation", Type: TypeString, Required: true},
		}},
		Field{Name: "action_items", Type: TypeList, Required: true, Elem: TypeString},
	)},
	KindRisk: {Kind: KindRisk, Fields: append(envelopeFields(),
		Field{Name: "summary", Type: TypeString, Required: true},
		Field{Name: "risks", Type: TypeList, Required: true, Elem: TypeObject, Fields: []Field{
			{Name: "risk_id", Type: TypeString, Required: true},
			{Name: "category", Type: TypeString, Required: true},
			{Name: "description", Type: TypeString, Required: true},
			{Name: "likelihood", Type: TypeInt, Required: true, Min: 1, Max: 3},
			{Name: "impact", Type: TypeInt, Required: true, Min: 1, Max: 4},
			{Name: "score", Type: TypeInt, Required: true},
			{Name: "mitigation", Type: TypeString, Required: true},
			{Name: "owner", Type: TypeString},
			{Name: "due_by", Type: TypeString},
		}},
	)},
	KindTestCases: {Kind: KindTestCases, Fields: append(envelopeFields(),
		Field{Name: "summary", Type: TypeString, Required: true},
		Field{Name: "cases", Type: TypeList, Required: true, Elem: TypeObject, Fields: []Field{
			{Name: "id", Type: TypeString, Required: true},
			{Name: "title", Type: TypeString, Required: true},
			{Name: "given", Type: TypeString, Required: true},
			{Name: "when", Type: TypeString, Required: true},
			{Name: "then", Type: TypeString, Required: true},
			{Name: "priority", Type: TypeString, Required: true, Enum: levelEnum},
			{Name: "type", Type: TypeString, Required: true, Enum: caseTypeEnum},
			{Name: "data", Type: TypeObject},
		}},
	)},
	KindDesign: {Kind: KindDesign, Fields: append(envelopeFields(),
		Field{Name: "summary", Type: TypeString, Required: true},
		Field{Name: "options", Type: TypeList, Required: true, Elem: TypeObject, Fields: []Field{
			{Name: "name", Type: TypeString, Required: true},
			{Name: "when_to_use", Type: TypeString, Required: true},
			{Name: "key_components", Type: TypeList, Required: true, Elem: TypeString},
			{Name: "pros", Type: TypeList, Required: true, Elem: TypeString},
			{Name: "cons", Type: TypeList, Required: true, Elem: TypeString},
			{Name: "diagram_mermaid", Type: TypeString},
		}},
		Field{Name: "recommendation", Type: TypeString, Required: true},
	)},
	KindTechStack: {Kind: KindTechStack, Fields: append(envelopeFields(),
		Field{Name: "summary", Type: TypeString, Required: true},
		Field{Name: "performance_review", Type: TypeList, Required: true, Elem: TypeString},
		Field{Name: "tech_recommendations", Type: TypeList, Required: true, Elem: TypeObject, Fields: []Field{
			{Name: "layer", Type: TypeString, Required: true},
			{Name: "recommendation", Type: TypeString, Required: true},
			{Name: "rationale", Type: TypeString, Required: true},
		}},
		Field{Name: "reference_comparison", Type: TypeObject, Required: true, Fields: []Field{
			{Name: "matched", Type: TypeList, Required: true, Elem: TypeString},
			{Name: "missing", Type: TypeList, Required: true, Elem: TypeString},
			{Name: "improvements", Type: TypeList, Required: true, Elem: TypeString},
		}},
	)},
	KindCompliance: {Kind: KindCompliance, Fields: append(envelopeFields(),
		Field{Name: "summary", Type: TypeString, Required: true},
		Field{Name: "compliant", Type: TypeBool, Required: true},
		Field{Name: "findings", Type: TypeList, Required: true, Elem: TypeObject, Fields: []Field{
			{Name: "rule", Type: TypeString, Required: true},
			{Name: "severity", Type: TypeString, Required: true, Enum: severityEnum},
			{Name: "line", Type: TypeInt},
			{Name: "description", Type: TypeString, Required: true},
			{Name: "suggestion", Type: TypeString, Required: true},
		}},
	)},
	KindDebug: {Kind: KindDebug, Fields: append(envelopeFields(),
		Field{Name: "summary", Type: TypeString, Required: true},
		Field{Name: "probable_causes", Type: TypeList, Required: true, Elem: TypeString},
		Field{Name: "suggested_fixes", Type: TypeList, Required: true, Elem: TypeObject, Fields: []Field{
			{Name: "description", Type: TypeString, Required: true},
			{Name: "patch", Type: TypeString},
		}},
		Field{Name: "optimizations", Type: TypeList, Required: true, Elem: TypeString},
	)},
}

// For returns the declared response schema for kind.
func For(k Kind) (Schema, error) {
	s, ok := registry[k]
	if !ok {
		return Schema{}, fmt.Errorf("schema: unknown kind %q", k)
	}
	return s, nil
}

// JSONHint renders the response shape as an indented JSON skeleton used to
// steer the model. Values are type descriptions, e.g. "string" or
// "int (1-3)"; enum fields list their literals joined by "|". Key order is
// alphabetical (encoding/json map ordering), so the hint is deterministic.
func JSONHint(k Kind) (string, error) {
	s, err := For(k)
	if err != nil {
		return "", err
	}
	b, err := json.MarshalIndent(hintObject(s.Fields), "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func hintObject(fields []Field) map[string]any {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		out[f.Name] = hintValue(f)
	}
	return out
}

func hintValue(f Field) any {
	switch f.Type {
	case TypeString:
		if len(f.Enum) > 0 {
			return strings.Join(f.Enum, "|")
		}
		return "string"
	case TypeInt:
		if f.Min != 0 || f.Max != 0 {
			return fmt.Sprintf("int (%d-%d)", f.Min, f.Max)
		}
		return "int"
	case TypeBool:
		return "bool"
	case TypeObject:
		if len(f.Fields) == 0 {
			return map[string]any{}
		}
		return hintObject(f.Fields)
	case TypeList:
		if f.Elem == TypeObject {
			return []any{hintObject(f.Fields)}
		}
		return []any{"string"}
	}
	return "string"
}
