package llm

import "tradejournal/src/model"

// FallbackSummary is the summary stored whenever the qualitative
// capability could not be reached or returned something unusable.
const FallbackSummary = "Qualitative analysis was unavailable for this trade. Only rule-based mistake detection was applied."

// FallbackAnalysis is the fixed neutral result substituted on any
// external failure. It is always fully populated so downstream code has
// a single path regardless of whether the model answered.
func FallbackAnalysis() model.ExternalAnalysis {
	return model.ExternalAnalysis{
		Mistakes:  []model.MistakeFinding{},
		Strengths: []model.Strength{},
		EmotionalAnalysis: model.EmotionalAnalysis{
			DetectedEmotions: []string{},
			EmotionalScore:   5,
			Impact:           "No qualitative assessment available.",
			Suggestions:      []string{},
		},
		RiskAnalysis: model.RiskAnalysis{
			RiskRewardRatio: 0,
			PositionSizing:  "not assessed",
			StopLossQuality: "not assessed",
			Recommendations: []string{},
		},
		OverallRating: 5,
		Summary:       FallbackSummary,
	}
}
