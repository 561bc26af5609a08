package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Analysis is the persisted result of one trade-analysis request.
// The external payload and the rule findings are stored as complete
// snapshots so the record stays meaningful even after rule definitions
// change. Rows are append-only: a later request supersedes an earlier
// one by creation time, never by update.
type Analysis struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	TradeID uint `gorm:"index;not null" json:"trade_id"`
	UserID  uint `gorm:"index;not null" json:"user_id"`

	External     datatypes.JSON              `gorm:"type:jsonb" json:"external"`
	RuleFindings datatypes.JSON              `gorm:"type:jsonb" json:"rule_findings"`
	PatternTags  datatypes.JSONSlice[string] `json:"pattern_tags"` // reserved for cross-trade pattern detection

	TotalMistakesFound int `json:"total_mistakes_found"`
	ConfidenceScore    int `json:"confidence_score"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TableName allows you to control the exact table name for analyses.
func (Analysis) TableName() string {
	return "analyses"
}

// ExternalAnalysis decodes the stored external payload.
func (a *Analysis) ExternalAnalysis() (ExternalAnalysis, error) {
	var out ExternalAnalysis
	err := json.Unmarshal(a.External, &out)
	return out, err
}

// Findings decodes the stored rule-finding snapshot.
func (a *Analysis) Findings() ([]MistakeFinding, error) {
	var out []MistakeFinding
	err := json.Unmarshal(a.RuleFindings, &out)
	return out, err
}
