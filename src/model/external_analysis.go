package model

// ExternalAnalysis is the normalized qualitative assessment of a trade
// coming back from the language-model capability. Callers always receive
// a fully populated value: when the external call fails for any reason a
// deterministic neutral fallback is substituted instead.
type ExternalAnalysis struct {
	Mistakes          []MistakeFinding  `json:"mistakes"`
	Strengths         []Strength        `json:"strengths"`
	EmotionalAnalysis EmotionalAnalysis `json:"emotional_analysis"`
	RiskAnalysis      RiskAnalysis      `json:"risk_analysis"`
	OverallRating     int               `json:"overall_rating"` // 1-10
	Summary           string            `json:"summary"`
}

// Strength highlights one thing the trader did well on this trade.
type Strength struct {
	Aspect         string `json:"aspect"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

type EmotionalAnalysis struct {
	DetectedEmotions []string `json:"detected_emotions"`
	EmotionalScore   int      `json:"emotional_score"` // 1-10
	Impact           string   `json:"impact"`
	Suggestions      []string `json:"suggestions"`
}

type RiskAnalysis struct {
	RiskRewardRatio float64  `json:"risk_reward_ratio"`
	PositionSizing  string   `json:"position_sizing"`
	StopLossQuality string   `json:"stop_loss_quality"`
	Recommendations []string `json:"recommendations"`
}
