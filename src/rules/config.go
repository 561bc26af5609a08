package rules

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the thresholds for the mistake-detection rules. Every
// rule reads its limits from here at construction so the engine can be
// tested with injected values instead of ambient state.
type Config struct {
	// HistoryWindow is the number of recent trades fetched as context
	// for the pattern rules.
	HistoryWindow int `envconfig:"RULES_HISTORY_WINDOW" default:"50"`

	// AccountEquity is the account size used to judge position sizing.
	AccountEquity float64 `envconfig:"RULES_ACCOUNT_EQUITY" default:"100000"`

	// MaxPositionPct is the largest share of equity one position may
	// commit before the sizing rule fires.
	MaxPositionPct float64 `envconfig:"RULES_MAX_POSITION_PCT" default:"25"`

	// MinRiskReward is the lowest acceptable reward-to-risk ratio.
	MinRiskReward float64 `envconfig:"RULES_MIN_RISK_REWARD" default:"1.5"`

	// OvertradingWindow and OvertradingMaxTrades bound how many entries
	// inside the window are tolerated before the frequency rule fires.
	OvertradingWindow    time.Duration `envconfig:"RULES_OVERTRADING_WINDOW" default:"24h"`
	OvertradingMaxTrades int           `envconfig:"RULES_OVERTRADING_MAX_TRADES" default:"5"`

	// RevengeSizeFactor is the size increase over the preceding losing
	// trade that marks a revenge-trade signature.
	RevengeSizeFactor float64 `envconfig:"RULES_REVENGE_SIZE_FACTOR" default:"1.5"`

	// EmotionLossMinCount is how many historical losses an emotion tag
	// must appear on before its recurrence is flagged.
	EmotionLossMinCount int `envconfig:"RULES_EMOTION_LOSS_MIN_COUNT" default:"3"`
}

// DefaultConfig reasonable defaults, tweak as you like.
func DefaultConfig() Config {
	return Config{
		HistoryWindow:        50,
		AccountEquity:        100000,
		MaxPositionPct:       25,
		MinRiskReward:        1.5,
		OvertradingWindow:    24 * time.Hour,
		OvertradingMaxTrades: 5,
		RevengeSizeFactor:    1.5,
		EmotionLossMinCount:  3,
	}
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
