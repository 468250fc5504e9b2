package schema

// Envelope carries the system-owned fields present on every response.
// trace_id and generated_at are stamped by the repair pipeline and never
// taken from the model.
type Envelope struct {
	Version     string `json:"version"`
	TraceID     string `json:"trace_id"`
	GeneratedAt string `json:"generated_at"`
}

type TradeoffRow struct {
	Criterion string `json:"criterion"`
	OptionA   string `json:"option_a"`
	OptionB   string `json:"option_b"`
	Verdict   string `json:"verdict"`
	Notes     string `json:"notes"`
}

type Recommendation struct {
	Winner    string `json:"winner"`
	Rationale string `json:"rationale"`
	Caveats   string `json:"caveats"`
}

type TradeoffResponse struct {
	Envelope
	Context        map[string]string `json:"context"`
	Criteria       []string          `json:"criteria"`
	Matrix         []TradeoffRow     `json:"matrix"`
	Summary        string            `json:"summary"`
	Recommendation Recommendation    `json:"recommendation"`
}

type ReviewRisk struct {
	Area       string `json:"area"`
	Severity   string `json:"severity"`
	Likelihood string `json:"likelihood"`
	Impact     string `json:"impact"`
	Mitigation string `json:"mitigation"`
}

type ReviewResponse struct {
	Envelope
	Summary     string       `json:"summary"`
	Risks       []ReviewRisk `json:"risks"`
	ActionItems []string     `json:"action_items"`
}

// RiskRow is one scored risk. Score is always likelihood*impact as
// recomputed by the repair pipeline.
type RiskRow struct {
	RiskID      string `json:"risk_id"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Likelihood  int    `json:"likelihood"`
	Impact      int    `json:"impact"`
	Score       int    `json:"score"`
	Mitigation  string `json:"mitigation"`
	Owner       string `json:"owner"`
	DueBy       string `json:"due_by,omitempty"`
}

type RiskResponse struct {
	Envelope
	Summary string    `json:"summary"`
	Risks   []RiskRow `json:"risks"`
}

type TestCase struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Given    string         `json:"given"`
	When     string         `json:"when"`
	Then     string         `json:"then"`
	Priority string         `json:"priority"`
	Type     string         `json:"type"`
	Data     map[string]any `json:"data"`
}

type TestCaseResponse struct {
	Envelope
	Summary string     `json:"summary"`
	Cases   []TestCase `json:"cases"`
}

type DesignOption struct {
	Name           string   `json:"name"`
	WhenToUse      string   `json:"when_to_use"`
	KeyComponents  []string `json:"key_components"`
	Pros           []string `json:"pros"`
	Cons           []string `json:"cons"`
	DiagramMermaid string   `json:"diagram_mermaid"`
}

type DesignResponse struct {
	Envelope
	Summary        string         `json:"summary"`
	Options        []DesignOption `json:"options"`
	Recommendation string         `json:"recommendation"`
}

type TechRecommendation struct {
	Layer          string `json:"layer"`
	Recommendation string `json:"recommendation"`
	Rationale      string `json:"rationale"`
}

type ReferenceComparison struct {
	Matched      []string `json:"matched"`
	Missing      []string `json:"missing"`
	Improvements []string `json:"improvements"`
}

type TechStackResponse struct {
	Envelope
	Summary             string               `json:"summary"`
	PerformanceReview   []string             `json:"performance_review"`
	TechRecommendations []TechRecommendation `json:"tech_recommendations"`
	ReferenceComparison ReferenceComparison  `json:"reference_comparison"`
}

type ComplianceFinding struct {
	Rule        string `json:"rule"`
	Severity    string `json:"severity"`
	Line        int    `json:"line,omitempty"`
	Description string `json:"description"`
	Suggestion  string `json:"suggestion"`
}

type ComplianceResponse struct {
	Envelope
	Summary   string              `json:"summary"`
	Compliant bool                `json:"compliant"`
	Findings  []ComplianceFinding `json:"findings"`
}

type SuggestedFix struct {
	Description string `json:"description"`
	Patch       string `json:"patch,omitempty"`
}

type DebugResponse struct {
	Envelope
	Summary        string         `json:"summary"`
	ProbableCauses []string       `json:"probable_causes"`
	SuggestedFixes []SuggestedFix `json:"suggested_fixes"`
	Optimizations  []string       `json:"optimizations"`
}

// NewResponse returns a zero response value for kind. The validator fills
// it only after the repaired object passes the structural checks.
func NewResponse(k Kind) any {
	switch k {
	case KindTradeoff:
		return &TradeoffResponse{}
	case KindReview:
		return &ReviewResponse{}
	case KindRisk:
		return &RiskResponse{}
	case KindTestCases:
		return &TestCaseResponse{}
	case KindDesign:
		return &DesignResponse{}
	case KindTechStack:
		return &TechStackResponse{}
	case KindCompliance:
		return &ComplianceResponse{}
	case KindDebug:
		return &DebugResponse{}
	}
	return nil
}
