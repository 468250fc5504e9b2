package schema

import "strings"

// Request is an inbound operation payload. Validate checks the request
// shape declared in the registry: required free-text fields non-empty,
// numeric fields non-negative.
type Request interface {
	Kind() Kind
	Validate() error
}

// DefaultTestCaseCount is used when a test-case request omits count.
const DefaultTestCaseCount = 6

type TradeoffRequest struct {
	OptionA     string   `json:"option_a"`
	OptionB     string   `json:"option_b"`
	Criteria    []string `json:"criteria"`
	Constraints []string `json:"constraints,omitempty"`
	Context     string   `json:"context,omitempty"`
}

func (TradeoffRequest) Kind() Kind { return KindTradeoff }

func (r TradeoffRequest) Validate() error {
	if strings.TrimSpace(r.OptionA) == "" {
		return invalid("option_a", "must not be empty")
	}
	if strings.TrimSpace(r.OptionB) == "" {
		return invalid("option_b", "must not be empty")
	}
	if len(r.Criteria) == 0 {
		return invalid("criteria", "at least one criterion is required")
	}
	for _, c := range r.Criteria {
		if strings.TrimSpace(c) == "" {
			return invalid("criteria", "criteria entries must not be empty")
		}
	}
	return nil
}

type ReviewRequest struct {
	Document     string   `json:"document"`
	QualityGoals []string `json:"quality_goals"`
	Checklists   []string `json:"checklists,omitempty"`
}

func (ReviewRequest) Kind() Kind { return KindReview }

func (r ReviewRequest) Validate() error {
	if strings.TrimSpace(r.Document) == "" {
		return invalid("document", "must not be empty")
	}
	return nil
}

type RiskRequest struct {
	Design         string   `json:"design"`
	NonFunctionals []string `json:"non_functionals,omitempty"`
	Constraints    []string `json:"constraints,omitempty"`
}

func (RiskRequest) Kind() Kind { return KindRisk }

func (r RiskRequest) Validate() error {
	if strings.TrimSpace(r.Design) == "" {
		return invalid("design", "must not be empty")
	}
	return nil
}

// TestCaseRequest asks for count BDD-style cases from a user story.
// A zero count means "use the default"; negative counts are rejected.
type TestCaseRequest struct {
	UserStory string   `json:"user_story"`
	Count     int      `json:"count,omitempty"`
	Focus     []string `json:"focus,omitempty"`
}

func (TestCaseRequest) Kind() Kind { return KindTestCases }

func (r TestCaseRequest) Validate() error {
	if strings.TrimSpace(r.UserStory) == "" {
		return invalid("user_story", "must not be empty")
	}
	if r.Count < 0 {
		return invalid("count", "must be positive")
	}
	return nil
}

// EffectiveCount resolves the defaulted test-case count.
func (r TestCaseRequest) EffectiveCount() int {
	if r.Count <= 0 {
		return DefaultTestCaseCount
	}
	return r.Count
}

type DesignRequest struct {
	Problem      string   `json:"problem"`
	QualityGoals []string `json:"quality_goals,omitempty"`
	Constraints  []string `json:"constraints,omitempty"`
}

func (DesignRequest) Kind() Kind { return KindDesign }

func (r DesignRequest) Validate() error {
	if strings.TrimSpace(r.Problem) == "" {
		return invalid("problem", "must not be empty")
	}
	return nil
}

type TechStackRequest struct {
	Design         string   `json:"design"`
	Workload       string   `json:"workload,omitempty"`
	Constraints    []string `json:"constraints,omitempty"`
	ReferenceStack []string `json:"reference_stack,omitempty"`
}

func (TechStackRequest) Kind() Kind { return KindTechStack }

func (r TechStackRequest) Validate() error {
	if strings.TrimSpace(r.Design) == "" {
		return invalid("design", "must not be empty")
	}
	return nil
}

type ComplianceRequest struct {
	Code      string   `json:"code"`
	Language  string   `json:"language"`
	Standards []string `json:"standards,omitempty"`
}

func (ComplianceRequest) Kind() Kind { return KindCompliance }

func (r ComplianceRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return invalid("code", "must not be empty")
	}
	if strings.TrimSpace(r.Language) == "" {
		return invalid("language", "must not be empty")
	}
	return nil
}

type DebugRequest struct {
	Code         string `json:"code"`
	Language     string `json:"language,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
	Context      string `json:"context,omitempty"`
}

func (DebugRequest) Kind() Kind { return KindDebug }

func (r DebugRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return invalid("code", "must not be empty")
	}
	return nil
}

// NewRequest returns a zero request value for kind, for decoding inbound JSON.
func NewRequest(k Kind) Request {
	switch k {
	case KindTradeoff:
		return &TradeoffRequest{}
	case KindReview:
		return &ReviewRequest{}
	case KindRisk:
		return &RiskRequest{}
	case KindTestCases:
		return &TestCaseRequest{}
	case KindDesign:
		return &DesignRequest{}
	case KindTechStack:
		return &TechStackRequest{}
	case KindCompliance:
		return &ComplianceRequest{}
	case KindDebug:
		return &DebugRequest{}
	}
	return nil
}
