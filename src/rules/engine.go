package rules

import (
	"fmt"

	logger "github.com/sirupsen/logrus"

	"tradejournal/src/model"
)

// Rule is one independent mistake check. Evaluate receives the subject
// trade plus the trader's recent history (newest first, may include the
// subject) and returns a finding or nil. A rule fires at most once per
// trade and must not error: when its preconditions are not met it simply
// returns nil.
type Rule interface {
	ID() string
	Evaluate(trade *model.Trade, history []model.Trade) *model.MistakeFinding
}

// Engine runs the registered rules in order over one (trade, history)
// pair. Adding a rule is additive: existing rules never branch on engine
// state, so a new check cannot change the output of the others.
type Engine struct {
	cfg   Config
	rules []Rule
}

// NewEngine builds an engine with the full default rule set.
func NewEngine(cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	e.Register(
		&missingStopLossRule{},
		&oversizedPositionRule{cfg: cfg},
		&poorRiskRewardRule{cfg: cfg},
		&overtradingRule{cfg: cfg},
		&revengeTradingRule{cfg: cfg},
		&missingReasonRule{},
		&emotionLossRecurrenceRule{cfg: cfg},
	)
	return e
}

// Register appends rules to the pipeline.
func (e *Engine) Register(rules ...Rule) {
	e.rules = append(e.rules, rules...)
}

// Evaluate runs every rule and collects the findings. It never fails.
func (e *Engine) Evaluate(trade *model.Trade, history []model.Trade) []model.MistakeFinding {
	findings := make([]model.MistakeFinding, 0, len(e.rules))
	if trade == nil {
		return findings
	}

	for _, rule := range e.rules {
		finding := rule.Evaluate(trade, history)
		if finding == nil {
			continue
		}

		finding.RuleID = rule.ID()
		finding.ID = findingID(rule.ID(), trade.ID)
		findings = append(findings, *finding)
	}

	logger.WithFields(map[string]interface{}{
		"component": "RuleEngine",
		"trade_id":  trade.ID,
		"history":   len(history),
		"findings":  len(findings),
	}).Debug("Rule evaluation completed")

	return findings
}

// findingID is stable across repeated evaluations of the same trade so
// identifiers inside stored analyses stay comparable.
func findingID(ruleID string, tradeID uint) string {
	return fmt.Sprintf("%s-%d", ruleID, tradeID)
}
