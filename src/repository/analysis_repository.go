package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/database"
	"tradejournal/src/model"
)

// AnalysisRepository handles persistence of trade analyses. Rows are
// append-only: newer analyses supersede older ones by creation time.
type AnalysisRepository struct {
	db *gorm.DB
}

// NewAnalysisRepository creates a new repository instance using the main
// read/write database.
func NewAnalysisRepository() *AnalysisRepository {
	logger.WithField("component", "AnalysisRepository").
		Info("Creating new AnalysisRepository with MainDB")

	return &AnalysisRepository{
		db: database.MainDB,
	}
}

// WithDB allows overriding the underlying *gorm.DB instance.
func (r *AnalysisRepository) WithDB(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Create inserts a finished analysis.
func (r *AnalysisRepository) Create(
	ctx context.Context,
	analysis *model.Analysis,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":           "AnalysisRepository",
		"op":             "Create",
		"trade_id":       analysis.TradeID,
		"user_id":        analysis.UserID,
		"total_mistakes": analysis.TotalMistakesFound,
	}).Debug("Creating analysis")

	err := r.db.WithContext(ctx).Create(analysis).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "AnalysisRepository",
			"op":       "Create",
			"trade_id": analysis.TradeID,
		}).WithError(err).Error("Failed to create analysis")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "AnalysisRepository",
		"op":          "Create",
		"analysis_id": analysis.ID,
	}).Info("Analysis created successfully")

	return nil
}

// FindByTrade returns every analysis for a trade, newest first, scoped
// to the owner.
func (r *AnalysisRepository) FindByTrade(
	ctx context.Context,
	tradeID, userID uint,
) ([]model.Analysis, error) {

	logger.WithFields(map[string]interface{}{
		"repo":     "AnalysisRepository",
		"op":       "FindByTrade",
		"trade_id": tradeID,
		"user_id":  userID,
	}).Debug("Fetching analyses for trade")

	var analyses []model.Analysis

	err := r.db.WithContext(ctx).
		Where("trade_id = ? AND user_id = ?", tradeID, userID).
		Order("created_at DESC").
		Find(&analyses).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "AnalysisRepository",
			"op":       "FindByTrade",
			"trade_id": tradeID,
		}).WithError(err).Error("Failed to fetch analyses")

		return nil, err
	}

	return analyses, nil
}

// FindLatestByTrade returns the canonical "current" analysis for a
// trade: the most recently created one. Returns (nil, nil) when the
// trade has never been analyzed.
func (r *AnalysisRepository) FindLatestByTrade(
	ctx context.Context,
	tradeID, userID uint,
) (*model.Analysis, error) {

	logger.WithFields(map[string]interface{}{
		"repo":     "AnalysisRepository",
		"op":       "FindLatestByTrade",
		"trade_id": tradeID,
		"user_id":  userID,
	}).Debug("Fetching latest analysis for trade")

	var analysis model.Analysis

	err := r.db.WithContext(ctx).
		Where("trade_id = ? AND user_id = ?", tradeID, userID).
		Order("created_at DESC").
		First(&analysis).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":     "AnalysisRepository",
			"op":       "FindLatestByTrade",
			"trade_id": tradeID,
		}).WithError(err).Error("Failed to fetch latest analysis")

		return nil, err
	}

	return &analysis, nil
}
