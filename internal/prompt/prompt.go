// Package prompt turns a validated operation request into the (system
// instruction, user payload) pair sent to the model gateway. Building is
// deterministic and performs no I/O.
package prompt

import (
	"bytes"
	"fmt"
	"strings"

	"sdlcassist/internal/schema"
)

var personas = map[schema.Kind]string{
	schema.KindTradeoff:   "You are a senior systems architect performing a quantitative trade-off analysis between two design options.",
	schema.KindReview:     "You are a meticulous design reviewer conducting a preliminary design review of the provided document.",
	schema.KindRisk:       "You are a risk management expert assessing a system design.",
	schema.KindTestCases:  "You are a senior QA engineer generating high-quality BDD-style test cases (Given/When/Then).",
	schema.KindDesign:     "You are a pragmatic solutions architect proposing candidate architectures for a stated problem.",
	schema.KindTechStack:  "You are a performance engineer reviewing a design and recommending a technology stack.",
	schema.KindCompliance: "You are a code standards auditor checking source code against the given standards.",
	schema.KindDebug:      "You are a senior engineer assisting with debugging and optimization of the provided code.",
}

// strictJSON holds the rules shared by every operation kind. The caps keep
// responses small enough that validation stays tractable.
var strictJSON = []string{
	"Return strict JSON only, matching the schema exactly.",
	"No extra fields, no markdown, no comments, no trailing commas.",
	"If something is unknown, return an empty string or empty array explicitly.",
}

func kindRules(req schema.Request) []string {
	switch req.Kind() {
	case schema.KindTradeoff:
		return []string{
			"Produce exactly one matrix row per requested criterion, in the given order.",
			"recommendation.winner must be one of A, B, Tie, Insufficient Data.",
		}
	case schema.KindReview:
		return []string{
			"List at most 10 risks, ordered from most to least severe.",
			"List at most 10 action items.",
		}
	case schema.KindRisk:
		return []string{
			"List at most 10 risks.",
			"likelihood is an integer 1-3 and impact an integer 1-4.",
		}
	case schema.KindTestCases:
		return []string{
			fmt.Sprintf("Return exactly %d test cases.", testCaseCount(req)),
			"Each case needs concrete given/when/then narratives.",
		}
	case schema.KindDesign:
		return []string{
			"Propose 2 or 3 options.",
			"Per option: at most 5 key components, at most 3 pros, at most 3 cons.",
		}
	case schema.KindTechStack:
		return []string{
			"Group recommendations by layer (e.g. API, service, datastore, infra).",
			"reference_comparison relates the recommendation to the provided reference stack.",
		}
	case schema.KindCompliance:
		return []string{
			"List at most 15 findings, most severe first.",
			"compliant is true only when there are no findings of severity High or Critical.",
		}
	case schema.KindDebug:
		return []string{
			"Order probable causes from most to least likely.",
			"Suggested fixes must be concrete; include a patch snippet when possible.",
		}
	}
	return nil
}

func testCaseCount(req schema.Request) int {
	switch r := req.(type) {
	case *schema.TestCaseRequest:
		return r.EffectiveCount()
	case schema.TestCaseRequest:
		return r.EffectiveCount()
	}
	return schema.DefaultTestCaseCount
}

// Build renders the system instruction for req and returns the request
// itself as the user payload. The response schema hint is embedded so the
// model is steered toward the declared shape.
func Build(req schema.Request) (system string, payload any, err error) {
	kind := req.Kind()
	persona, ok := personas[kind]
	if !ok {
		return "", nil, fmt.Errorf("prompt: unknown kind %q", kind)
	}
	hint, err := schema.JSONHint(kind)
	if err != nil {
		return "", nil, err
	}

	var buf bytes.Buffer
	writeSection(&buf, "ROLE", persona)
	writeSection(&buf, "RULES", formatList(append(append([]string{}, strictJSON...), kindRules(req)...)))
	writeSection(&buf, "OUTPUT_SCHEMA", hint)
	writeSection(&buf, "OUTPUT_FORMAT", "JSON only.")
	return strings.TrimSpace(buf.String()) + "\n", req, nil
}

func formatList(items []string) string {
	var buf strings.Builder
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		fmt.Fprintf(&buf, "- %s\n", item)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func writeSection(buf *bytes.Buffer, title, body string) {
	if strings.TrimSpace(body) == "" {
		return
	}
	buf.WriteString("[")
	buf.WriteString(title)
	buf.WriteString("]\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString("\n")
}
