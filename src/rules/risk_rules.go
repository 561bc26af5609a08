package rules

import (
	"fmt"

	"github.com/shopspring/decimal"

	"tradejournal/src/model"
)

// missingStopLossRule flags trades entered without any stop in place.
type missingStopLossRule struct{}

func (r *missingStopLossRule) ID() string { return "missing-stop-loss" }

func (r *missingStopLossRule) Evaluate(trade *model.Trade, _ []model.Trade) *model.MistakeFinding {
	if trade.StopLoss != nil && *trade.StopLoss > 0 {
		return nil
	}

	return &model.MistakeFinding{
		Category:    model.CategoryRiskManagement,
		Description: "No stop-loss was recorded for this trade, leaving the downside unbounded.",
		Severity:    model.SeverityHigh,
		Suggestion:  "Define a stop-loss before entering and record it with the trade.",
	}
}

// oversizedPositionRule flags positions committing too large a share of
// account equity.
type oversizedPositionRule struct {
	cfg Config
}

func (r *oversizedPositionRule) ID() string { return "oversized-position" }

func (r *oversizedPositionRule) Evaluate(trade *model.Trade, _ []model.Trade) *model.MistakeFinding {
	if r.cfg.AccountEquity <= 0 || trade.PositionSize <= 0 {
		return nil
	}

	size := decimal.NewFromFloat(trade.PositionSize)
	equity := decimal.NewFromFloat(r.cfg.AccountEquity)
	pct := size.Div(equity).Mul(decimal.NewFromInt(100))

	if pct.LessThanOrEqual(decimal.NewFromFloat(r.cfg.MaxPositionPct)) {
		return nil
	}

	return &model.MistakeFinding{
		Category: model.CategoryRiskManagement,
		Description: fmt.Sprintf(
			"Position size commits %s%% of account equity, above the %.0f%% limit.",
			pct.Round(1), r.cfg.MaxPositionPct,
		),
		Severity:   model.SeverityHigh,
		Suggestion: "Scale the position down so a single trade cannot dominate the account.",
	}
}

// poorRiskRewardRule flags trades whose planned reward does not justify
// the planned risk. It needs both a stop and a target on the correct
// side of the entry; otherwise it stays silent and leaves the missing
// pieces to the other risk rules.
type poorRiskRewardRule struct {
	cfg Config
}

func (r *poorRiskRewardRule) ID() string { return "poor-risk-reward" }

func (r *poorRiskRewardRule) Evaluate(trade *model.Trade, _ []model.Trade) *model.MistakeFinding {
	if trade.StopLoss == nil || *trade.StopLoss <= 0 || trade.Target == nil || *trade.Target <= 0 {
		return nil
	}

	entry := decimal.NewFromFloat(trade.EntryPrice)
	stop := decimal.NewFromFloat(*trade.StopLoss)
	target := decimal.NewFromFloat(*trade.Target)

	var risk, reward decimal.Decimal
	if trade.Direction == model.DirectionShort {
		risk = stop.Sub(entry)
		reward = entry.Sub(target)
	} else {
		risk = entry.Sub(stop)
		reward = target.Sub(entry)
	}

	if risk.Sign() <= 0 || reward.Sign() < 0 {
		return nil
	}

	ratio := reward.Div(risk)
	if ratio.GreaterThanOrEqual(decimal.NewFromFloat(r.cfg.MinRiskReward)) {
		return nil
	}

	return &model.MistakeFinding{
		Category: model.CategoryRiskManagement,
		Description: fmt.Sprintf(
			"Planned risk/reward is %s, below the %.1f minimum.",
			ratio.Round(2), r.cfg.MinRiskReward,
		),
		Severity:   model.SeverityMedium,
		Suggestion: "Skip setups where the target does not pay for the risk taken at the stop.",
	}
}
