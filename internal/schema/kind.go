package schema

import "fmt"

// Kind identifies one of the supported analysis operations.
type Kind string

const (
	KindTradeoff   Kind = "tradeoff"
	KindReview     Kind = "review"
	KindRisk       Kind = "risk"
	KindTestCases  Kind = "testcases"
	KindDesign     Kind = "design"
	KindTechStack  Kind = "techstack"
	KindCompliance Kind = "compliance"
	KindDebug      Kind = "debug"
)

// Kinds returns all operation kinds in route order.
func Kinds() []Kind {
	return []Kind{
		KindTradeoff, KindReview, KindRisk, KindTestCases,
		KindDesign, KindTechStack, KindCompliance, KindDebug,
	}
}

// Valid reports whether k names a known operation kind.
func (k Kind) Valid() bool {
	switch k {
	case KindTradeoff, KindReview, KindRisk, KindTestCases,
		KindDesign, KindTechStack, KindCompliance, KindDebug:
		return true
	}
	return false
}

// ValidationError reports an inbound request that fails its declared shape.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid request: %s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
