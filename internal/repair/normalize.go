package repair

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

const (
	maxKeyComponents = 5
	maxProsCons      = 3
)

// normalizeRisk recomputes score = likelihood * impact for every row (the
// model's arithmetic is never trusted), assigns a risk_id where absent,
// defaults owner, and stable-sorts rows by score descending. Applying it
// twice yields the same scores and order.
func normalizeRisk(obj map[string]any) {
	rows, _ := obj["risks"].([]any)
	for _, r := range rows {
		row, ok := r.(map[string]any)
		if !ok {
			continue
		}
		row["score"] = intOr(row["likelihood"], 1) * intOr(row["impact"], 1)
		if id, _ := row["risk_id"].(string); id == "" {
			row["risk_id"] = newRiskID()
		}
		if owner, _ := row["owner"].(string); owner == "" {
			row["owner"] = "Unassigned"
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].(map[string]any)
		b, _ := rows[j].(map[string]any)
		return intOr(a["score"], 0) > intOr(b["score"], 0)
	})
}

// normalizeTestCases assigns sequential TC-NNN ids where absent and
// defaults priority/type.
func normalizeTestCases(obj map[string]any) {
	cases, _ := obj["cases"].([]any)
	for i, c := range cases {
		row, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if id, _ := row["id"].(string); id == "" {
			row["id"] = fmt.Sprintf("TC-%03d", i+1)
		}
		if p, _ := row["priority"].(string); p == "" {
			row["priority"] = "Medium"
		}
		if t, _ := row["type"].(string); t == "" {
			row["type"] = "Positive"
		}
		if _, ok := row["data"].(map[string]any); !ok {
			row["data"] = map[string]any{}
		}
	}
}

// normalizeDesign bounds per-option list lengths, dropping the tail while
// preserving order.
func normalizeDesign(obj map[string]any) {
	options, _ := obj["options"].([]any)
	for _, o := range options {
		opt, ok := o.(map[string]any)
		if !ok {
			continue
		}
		truncateList(opt, "key_components", maxKeyComponents)
		truncateList(opt, "pros", maxProsCons)
		truncateList(opt, "cons", maxProsCons)
	}
}

// normalizeTechStack fills the comparison object when the model omitted it
// entirely; the list defaults inside a present object are handled by the
// schema-driven pass.
func normalizeTechStack(obj map[string]any) {
	if _, ok := obj["reference_comparison"].(map[string]any); !ok {
		obj["reference_comparison"] = map[string]any{
			"matched":      []any{},
			"missing":      []any{},
			"improvements": []any{},
		}
	}
}

func truncateList(obj map[string]any, key string, max int) {
	items, ok := obj[key].([]any)
	if ok && len(items) > max {
		obj[key] = items[:max]
	}
}

func newRiskID() string {
	u := uuid.New()
	return fmt.Sprintf("R-%x", u[:3])
}

// intOr converts a decoded JSON number to int, falling back when the value
// is absent, non-numeric, or non-integral.
func intOr(v any, fallback int) int {
	switch n := v.(type) {
	case int:
		return n
	case float64:
		if n == math.Trunc(n) {
			return int(n)
		}
	}
	return fallback
}
