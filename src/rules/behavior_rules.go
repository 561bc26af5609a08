package rules

import (
	"fmt"
	"strings"

	"tradejournal/src/model"
)

// overtradingRule flags a burst of entries inside a short window ending
// at the subject trade's entry time.
type overtradingRule struct {
	cfg Config
}

func (r *overtradingRule) ID() string { return "overtrading" }

func (r *overtradingRule) Evaluate(trade *model.Trade, history []model.Trade) *model.MistakeFinding {
	if r.cfg.OvertradingMaxTrades <= 0 || trade.EntryTime.IsZero() {
		return nil
	}

	windowStart := trade.EntryTime.Add(-r.cfg.OvertradingWindow)

	count := 1 // the subject trade itself
	for _, h := range history {
		if h.ID == trade.ID || h.EntryTime.IsZero() {
			continue
		}
		if h.EntryTime.After(windowStart) && !h.EntryTime.After(trade.EntryTime) {
			count++
		}
	}

	if count <= r.cfg.OvertradingMaxTrades {
		return nil
	}

	return &model.MistakeFinding{
		Category: model.CategoryOvertrading,
		Description: fmt.Sprintf(
			"%d trades entered within %s of each other, above the %d-trade limit.",
			count, r.cfg.OvertradingWindow, r.cfg.OvertradingMaxTrades,
		),
		Severity:   model.SeverityMedium,
		Suggestion: "Cap the number of entries per session and wait for the next planned setup.",
	}
}

// revengeTradingRule flags the classic signature of sizing up right
// after a loss. The history is newest first; the rule compares against
// the most recent trade entered before the subject.
type revengeTradingRule struct {
	cfg Config
}

func (r *revengeTradingRule) ID() string { return "revenge-trading" }

func (r *revengeTradingRule) Evaluate(trade *model.Trade, history []model.Trade) *model.MistakeFinding {
	if trade.PositionSize <= 0 || trade.EntryTime.IsZero() {
		return nil
	}

	var prev *model.Trade
	for i := range history {
		h := &history[i]
		if h.ID == trade.ID || !h.EntryTime.Before(trade.EntryTime) {
			continue
		}
		prev = h
		break
	}

	if prev == nil || prev.Status != model.TradeStatusLoss || prev.PositionSize <= 0 {
		return nil
	}

	if trade.PositionSize < prev.PositionSize*r.cfg.RevengeSizeFactor {
		return nil
	}

	return &model.MistakeFinding{
		Category: model.CategoryEmotionalDecision,
		Description: fmt.Sprintf(
			"Position size grew from %.2f to %.2f immediately after a losing trade.",
			prev.PositionSize, trade.PositionSize,
		),
		Severity:   model.SeverityHigh,
		Suggestion: "After a loss, keep size flat or smaller until the setup quality justifies more.",
	}
}

// missingReasonRule flags trades logged without any entry rationale.
type missingReasonRule struct{}

func (r *missingReasonRule) ID() string { return "missing-reason" }

func (r *missingReasonRule) Evaluate(trade *model.Trade, _ []model.Trade) *model.MistakeFinding {
	if strings.TrimSpace(trade.Reason) != "" {
		return nil
	}

	return &model.MistakeFinding{
		Category:    model.CategoryDiscipline,
		Description: "No entry reason or plan was recorded for this trade.",
		Severity:    model.SeverityMedium,
		Suggestion:  "Write down the setup and the reason to enter before placing the order.",
	}
}

// emotionLossRecurrenceRule flags emotion tags on the current trade that
// have repeatedly shown up on past losing trades.
type emotionLossRecurrenceRule struct {
	cfg Config
}

func (r *emotionLossRecurrenceRule) ID() string { return "emotion-loss-recurrence" }

func (r *emotionLossRecurrenceRule) Evaluate(trade *model.Trade, history []model.Trade) *model.MistakeFinding {
	if len(trade.EmotionTags) == 0 || r.cfg.EmotionLossMinCount <= 0 {
		return nil
	}

	lossCounts := make(map[string]int)
	for _, h := range history {
		if h.ID == trade.ID || h.Status != model.TradeStatusLoss {
			continue
		}
		for _, tag := range h.EmotionTags {
			lossCounts[strings.ToLower(tag)]++
		}
	}

	var recurring []string
	for _, tag := range trade.EmotionTags {
		if lossCounts[strings.ToLower(tag)] >= r.cfg.EmotionLossMinCount {
			recurring = append(recurring, tag)
		}
	}

	if len(recurring) == 0 {
		return nil
	}

	return &model.MistakeFinding{
		Category: model.CategoryEmotionalDecision,
		Description: fmt.Sprintf(
			"Emotion tags historically tied to losses recurred on this trade: %s.",
			strings.Join(recurring, ", "),
		),
		Severity:   model.SeverityMedium,
		Suggestion: "Treat these emotional states as a no-trade signal until they pass.",
	}
}
