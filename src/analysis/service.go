package analysis

import (
	"context"

	"github.com/google/uuid"
	logger "github.com/sirupsen/logrus"

	"tradejournal/src/model"
	"tradejournal/src/pnl"
	"tradejournal/src/rules"
)

// TradeStore is the slice of the trade repository the service needs.
type TradeStore interface {
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Trade, error)
	FindRecentByUser(ctx context.Context, userID uint, limit int) ([]model.Trade, error)
}

// AnalysisStore persists finished analyses.
type AnalysisStore interface {
	Create(ctx context.Context, analysis *model.Analysis) error
}

// TradeAnalyzer is the external qualitative capability. Implementations
// must never fail: on any internal error they return the fallback value.
type TradeAnalyzer interface {
	Analyze(ctx context.Context, trade *model.Trade) model.ExternalAnalysis
}

// Service runs the trade-analysis pipeline: load the trade and its
// history window, evaluate the mistake rules and the external model
// concurrently, aggregate, then persist best-effort.
type Service struct {
	trades        TradeStore
	analyses      AnalysisStore
	engine        *rules.Engine
	analyzer      TradeAnalyzer
	historyWindow int
}

func NewService(trades TradeStore, analyses AnalysisStore, engine *rules.Engine, analyzer TradeAnalyzer, historyWindow int) *Service {
	if historyWindow <= 0 {
		historyWindow = rules.DefaultConfig().HistoryWindow
	}

	return &Service{
		trades:        trades,
		analyses:      analyses,
		engine:        engine,
		analyzer:      analyzer,
		historyWindow: historyWindow,
	}
}

// AnalyzeTrade produces and stores a new Analysis for the given trade.
// It fails only when the trade is missing or owned by someone else; an
// unreachable external capability degrades to the fallback assessment
// and a failed insert degrades to a warning, never to a request error.
func (s *Service) AnalyzeTrade(ctx context.Context, tradeID, userID uint) (*model.Analysis, error) {
	log := logger.WithFields(map[string]interface{}{
		"component": "AnalysisService",
		"op":        "AnalyzeTrade",
		"run_id":    uuid.NewString(),
		"trade_id":  tradeID,
		"user_id":   userID,
	})

	trade, err := s.trades.FindByIDAndUser(ctx, tradeID, userID)
	if err != nil {
		log.WithError(err).Error("Failed to load trade")
		return nil, err
	}
	if trade == nil {
		log.Info("Trade not found for user")
		return nil, ErrTradeNotFound
	}

	history, err := s.trades.FindRecentByUser(ctx, userID, s.historyWindow)
	if err != nil {
		// Pattern rules just see an empty window; the request proceeds.
		log.WithError(err).Warn("Failed to load trade history, evaluating without it")
		history = nil
	}

	// The rule evaluation and the external call are independent, so run
	// them side by side. The external call is bounded by the client's
	// timeout and cannot hang the request.
	externalCh := make(chan model.ExternalAnalysis, 1)
	go func() {
		externalCh <- s.analyzer.Analyze(ctx, trade)
	}()

	findings := s.engine.Evaluate(trade, history)
	external := <-externalCh

	record := Aggregate(trade.ID, userID, findings, external)

	if err := s.analyses.Create(ctx, record); err != nil {
		// Analyses are advisory. The computed result still goes back to
		// the caller even when durability failed.
		log.WithError(err).Warn("Failed to persist analysis, returning in-memory result")
	}

	log.WithFields(map[string]interface{}{
		"rule_findings":  len(findings),
		"total_mistakes": record.TotalMistakesFound,
		"confidence":     record.ConfidenceScore,
	}).Info("Trade analysis completed")

	return record, nil
}

// ComputePnl exposes the realized P&L calculation used on trade
// mutation. Thin delegation kept on the service so callers depend on
// one surface for both pipeline operations.
func (s *Service) ComputePnl(in pnl.Input) (pnl.Result, error) {
	return pnl.Compute(in)
}
