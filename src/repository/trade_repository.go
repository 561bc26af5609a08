package repository

import (
	"context"
	"errors"

	logger "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"tradejournal/src/database"
	"tradejournal/src/model"
)

// TradeRepository handles read/write operations for journal trades.
type TradeRepository struct {
	db *gorm.DB
}

// NewTradeRepository creates a new repository instance using the main
// read/write database.
func NewTradeRepository() *TradeRepository {
	logger.WithField("component", "TradeRepository").
		Info("Creating new TradeRepository with MainDB")

	return &TradeRepository{
		db: database.MainDB,
	}
}

// WithDB allows overriding the underlying *gorm.DB instance.
// Useful for tests or when using a specific session/transaction.
func (r *TradeRepository) WithDB(db *gorm.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// Create inserts a new trade. The given trade is updated with the
// generated ID and timestamps.
func (r *TradeRepository) Create(
	ctx context.Context,
	trade *model.Trade,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":    "TradeRepository",
		"op":      "Create",
		"user_id": trade.UserID,
		"symbol":  trade.Symbol,
		"side":    trade.Direction,
	}).Debug("Creating new trade")

	err := r.db.WithContext(ctx).Create(trade).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "TradeRepository",
			"op":   "Create",
		}).WithError(err).Error("Failed to create trade")

		return err
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Create",
		"trade_id": trade.ID,
	}).Info("Trade created successfully")

	return nil
}

// FindByIDAndUser fetches one trade scoped to its owner.
// Returns (nil, nil) if the trade is not found or owned by someone else.
func (r *TradeRepository) FindByIDAndUser(
	ctx context.Context,
	id, userID uint,
) (*model.Trade, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "TradeRepository",
		"op":      "FindByIDAndUser",
		"id":      id,
		"user_id": userID,
	}).Debug("Fetching trade by ID and user")

	var trade model.Trade

	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&trade).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.WithFields(map[string]interface{}{
				"repo":    "TradeRepository",
				"op":      "FindByIDAndUser",
				"id":      id,
				"user_id": userID,
			}).Info("Trade not found for user")

			return nil, nil
		}

		logger.WithFields(map[string]interface{}{
			"repo":    "TradeRepository",
			"op":      "FindByIDAndUser",
			"id":      id,
			"user_id": userID,
		}).WithError(err).Error("Failed to fetch trade")

		return nil, err
	}

	return &trade, nil
}

// FindRecentByUser returns the user's most recent trades ordered by
// entry time, newest first. The limit bounds the history window used by
// the rule engine.
func (r *TradeRepository) FindRecentByUser(
	ctx context.Context,
	userID uint,
	limit int,
) ([]model.Trade, error) {

	if limit <= 0 {
		limit = 50
	}

	logger.WithFields(map[string]interface{}{
		"repo":    "TradeRepository",
		"op":      "FindRecentByUser",
		"user_id": userID,
		"limit":   limit,
	}).Debug("Fetching recent trades")

	var trades []model.Trade

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("entry_time DESC").
		Limit(limit).
		Find(&trades).Error

	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":    "TradeRepository",
			"op":      "FindRecentByUser",
			"user_id": userID,
			"limit":   limit,
		}).WithError(err).Error("Failed to fetch recent trades")

		return nil, err
	}

	logger.WithFields(map[string]interface{}{
		"repo":        "TradeRepository",
		"op":          "FindRecentByUser",
		"user_id":     userID,
		"rows_return": len(trades),
	}).Debug("Recent trades fetched")

	return trades, nil
}

// Save persists all fields of an existing trade.
func (r *TradeRepository) Save(
	ctx context.Context,
	trade *model.Trade,
) error {

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Save",
		"trade_id": trade.ID,
		"status":   trade.Status,
	}).Debug("Saving trade")

	err := r.db.WithContext(ctx).Save(trade).Error
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"repo":     "TradeRepository",
			"op":       "Save",
			"trade_id": trade.ID,
		}).WithError(err).Error("Failed to save trade")

		return err
	}

	return nil
}

// Delete removes a trade scoped to its owner. Returns false when no row
// matched.
func (r *TradeRepository) Delete(
	ctx context.Context,
	id, userID uint,
) (bool, error) {

	logger.WithFields(map[string]interface{}{
		"repo":    "TradeRepository",
		"op":      "Delete",
		"id":      id,
		"user_id": userID,
	}).Debug("Deleting trade")

	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.Trade{})

	if result.Error != nil {
		logger.WithFields(map[string]interface{}{
			"repo": "TradeRepository",
			"op":   "Delete",
			"id":   id,
		}).WithError(result.Error).Error("Failed to delete trade")

		return false, result.Error
	}

	if result.RowsAffected == 0 {
		return false, nil
	}

	logger.WithFields(map[string]interface{}{
		"repo":     "TradeRepository",
		"op":       "Delete",
		"trade_id": id,
	}).Info("Trade deleted")

	return true, nil
}
