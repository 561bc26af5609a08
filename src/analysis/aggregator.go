package analysis

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"tradejournal/src/model"
)

// Aggregate merges the rule findings and the external assessment into
// one self-contained Analysis record. Both inputs are snapshotted in
// full so the stored row stays readable after rule definitions change.
func Aggregate(tradeID, userID uint, findings []model.MistakeFinding, external model.ExternalAnalysis) *model.Analysis {
	if findings == nil {
		findings = []model.MistakeFinding{}
	}

	externalJSON, _ := json.Marshal(external)
	findingsJSON, _ := json.Marshal(findings)

	return &model.Analysis{
		TradeID:            tradeID,
		UserID:             userID,
		External:           externalJSON,
		RuleFindings:       findingsJSON,
		PatternTags:        datatypes.JSONSlice[string]{},
		TotalMistakesFound: len(findings) + len(external.Mistakes),
		ConfidenceScore:    external.OverallRating,
		CreatedAt:          time.Now().UTC(),
	}
}
