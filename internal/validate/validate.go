// Package validate checks a repaired object against the declared response
// schema and converts it to the typed response only once it fully matches.
// There is no partial acceptance: either every required field is present
// with the right type, or the call fails naming the first offending field.
package validate

import (
	"encoding/json"
	"fmt"
	"math"

	"sdlcassist/internal/schema"
)

// SchemaViolationError reports the first field path at which the repaired
// object diverges from the declared schema.
type SchemaViolationError struct {
	Field  string
	Reason string
}

func (e *SchemaViolationError) Error() string {
	return fmt.Sprintf("schema violation: %s: %s", e.Field, e.Reason)
}

func violation(field, reason string) error {
	return &SchemaViolationError{Field: field, Reason: reason}
}

// Validate checks obj against the schema for kind and returns the typed
// response struct for that kind.
func Validate(kind schema.Kind, obj map[string]any) (any, error) {
	s, err := schema.For(kind)
	if err != nil {
		return nil, err
	}
	if err := checkFields("", s.Fields, obj); err != nil {
		return nil, err
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, violation("", "object not serializable")
	}
	resp := schema.NewResponse(kind)
	if err := json.Unmarshal(b, resp); err != nil {
		return nil, violation("", "object does not fit response type")
	}
	return resp, nil
}

func checkFields(path string, fields []schema.Field, obj map[string]any) error {
	for _, f := range fields {
		fp := joinPath(path, f.Name)
		v, present := obj[f.Name]
		if !present || v == nil {
			if f.Required {
				return violation(fp, "missing required field")
			}
			continue
		}
		if err := checkValue(fp, f, v); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(path string, f schema.Field, v any) error {
	switch f.Type {
	case schema.TypeString:
		s, ok := v.(string)
		if !ok {
			return violation(path, "expected string")
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return violation(path, fmt.Sprintf("value %q not in allowed set", s))
		}
	case schema.TypeInt:
		n, ok := asInt(v)
		if !ok {
			return violation(path, "expected integer")
		}
		if (f.Min != 0 || f.Max != 0) && (n < f.Min || n > f.Max) {
			return violation(path, fmt.Sprintf("value %d outside range %d-%d", n, f.Min, f.Max))
		}
	case schema.TypeBool:
		if _, ok := v.(bool); !ok {
			return violation(path, "expected boolean")
		}
	case schema.TypeObject:
		m, ok := v.(map[string]any)
		if !ok {
			return violation(path, "expected object")
		}
		if len(f.Fields) > 0 {
			return checkFields(path, f.Fields, m)
		}
	case schema.TypeList:
		items, ok := v.([]any)
		if !ok {
			return violation(path, "expected list")
		}
		for i, it := range items {
			ep := fmt.Sprintf("%s[%d]", path, i)
			switch f.Elem {
			case schema.TypeObject:
				m, ok := it.(map[string]any)
				if !ok {
					return violation(ep, "expected object")
				}
				if err := checkFields(ep, f.Fields, m); err != nil {
					return err
				}
			default:
				if _, ok := it.(string); !ok {
					return violation(ep, "expected string")
				}
			}
		}
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

func contains(set []string, s string) bool {
	for _, x := range set {
		if x == s {
			return true
		}
	}
	return false
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
