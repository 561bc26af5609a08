package handler

import (
	"context"
	"errors"
	"net/http"

	logger "github.com/sirupsen/logrus"

	"tradejournal/src/analysis"
	"tradejournal/src/auth"
	"tradejournal/src/model"
	"tradejournal/src/repository"
)

type tradeAnalyzer interface {
	AnalyzeTrade(ctx context.Context, tradeID, userID uint) (*model.Analysis, error)
}

type analysisFinder interface {
	FindByTrade(ctx context.Context, tradeID, userID uint) ([]model.Analysis, error)
	FindLatestByTrade(ctx context.Context, tradeID, userID uint) (*model.Analysis, error)
}

// AnalyzeTradeHandler runs the analysis pipeline for one owned trade
// and returns the resulting record. A failed persistence write does not
// surface here; the pipeline logs it and the response still carries the
// computed analysis.
func AnalyzeTradeHandler(svc tradeAnalyzer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tradeID, ok := tradeIDParam(w, r)
		if !ok {
			return
		}

		record, err := svc.AnalyzeTrade(r.Context(), tradeID, user.ID)
		if err != nil {
			if errors.Is(err, analysis.ErrTradeNotFound) {
				http.Error(w, "Not Found", http.StatusNotFound)
				return
			}
			logger.WithError(err).Error("failed to analyze trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, record)
	}
}

// ListAnalysesHandler returns every stored analysis for a trade, newest
// first.
func ListAnalysesHandler(repo analysisFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tradeID, ok := tradeIDParam(w, r)
		if !ok {
			return
		}

		analyses, err := repo.FindByTrade(r.Context(), tradeID, user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to list analyses")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, analyses)
	}
}

// GetLatestAnalysisHandler returns the canonical current analysis for a
// trade, 404 when it was never analyzed.
func GetLatestAnalysisHandler(repo analysisFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		tradeID, ok := tradeIDParam(w, r)
		if !ok {
			return
		}

		record, err := repo.FindLatestByTrade(r.Context(), tradeID, user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to fetch latest analysis")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if record == nil {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, record)
	}
}

// DefaultAnalysisHandlers wires the handlers to the production service
// and repository.
func DefaultAnalysisHandlers(svc tradeAnalyzer) (analyze, list, latest http.HandlerFunc) {
	repo := repository.NewAnalysisRepository()
	return AnalyzeTradeHandler(svc), ListAnalysesHandler(repo), GetLatestAnalysisHandler(repo)
}
