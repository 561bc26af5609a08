package model

const (
	SeverityLow    = "low"
	SeverityMedium = "medium"
	SeverityHigh   = "high"
)

const (
	CategoryRiskManagement    = "risk-management"
	CategoryOvertrading       = "overtrading"
	CategoryEmotionalDecision = "emotional-decision"
	CategoryDiscipline        = "discipline"
)

// MistakeFinding is one flagged behavioral or risk issue on a trade.
// Findings are produced per analysis request and stored as part of the
// Analysis snapshot, not as independent rows. The ID is derived from
// (rule, trade) so re-running the same rules yields the same IDs.
type MistakeFinding struct {
	ID          string `json:"id"`
	RuleID      string `json:"rule_id,omitempty"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"` // low | medium | high
	Suggestion  string `json:"suggestion"`
}
