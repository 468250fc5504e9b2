// Package repair coerces loosely-structured model output into an object
// that matches the declared response schema: JSON extraction, list-field
// defaulting, kind-specific normalization, and stamping of the
// system-owned trace/timestamp fields.
package repair

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"sdlcassist/internal/schema"
)

// Pipeline repairs raw model output for one operation kind. Now and NewID
// are injectable for tests; zero values fall back to the real clock and
// random UUIDs.
type Pipeline struct {
	Now   func() time.Time
	NewID func() string
}

func NewPipeline() *Pipeline {
	return &Pipeline{Now: time.Now, NewID: uuid.NewString}
}

// Run extracts the JSON object from raw, applies schema-driven defaults
// and the kind's normalization, then stamps trace_id and generated_at.
// Model-supplied values for the stamped fields are always overwritten.
func (p *Pipeline) Run(kind schema.Kind, raw json.RawMessage) (map[string]any, error) {
	obj, err := ExtractObject(raw)
	if err != nil {
		return nil, err
	}
	s, err := schema.For(kind)
	if err != nil {
		return nil, err
	}
	defaultLists(s.Fields, obj)

	switch kind {
	case schema.KindRisk:
		normalizeRisk(obj)
	case schema.KindTestCases:
		normalizeTestCases(obj)
	case schema.KindDesign:
		normalizeDesign(obj)
	case schema.KindTechStack:
		normalizeTechStack(obj)
	}

	if v, ok := obj["version"].(string); !ok || v == "" {
		obj["version"] = "1.0"
	}
	obj["trace_id"] = p.newID()
	obj["generated_at"] = p.now().UTC().Format(time.RFC3339)
	return obj, nil
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) newID() string {
	if p.NewID != nil {
		return p.NewID()
	}
	return uuid.NewString()
}

// defaultLists sets every absent list-typed field to an empty list, so the
// validator never rejects on "missing list" where "empty list" is an
// acceptable degenerate case. Nested objects and object-list elements are
// walked recursively; absent objects are not invented.
func defaultLists(fields []schema.Field, obj map[string]any) {
	for _, f := range fields {
		v, present := obj[f.Name]
		switch f.Type {
		case schema.TypeList:
			if !present || v == nil {
				obj[f.Name] = []any{}
				continue
			}
			if f.Elem == schema.TypeObject {
				items, _ := v.([]any)
				for _, it := range items {
					if m, ok := it.(map[string]any); ok {
						defaultLists(f.Fields, m)
					}
				}
			}
		case schema.TypeObject:
			if m, ok := v.(map[string]any); ok {
				defaultLists(f.Fields, m)
			}
		}
	}
}
