package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	logger "github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"tradejournal/src/auth"
	"tradejournal/src/model"
	"tradejournal/src/pnl"
	"tradejournal/src/repository"
)

type tradeStore interface {
	Create(ctx context.Context, trade *model.Trade) error
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Trade, error)
	FindRecentByUser(ctx context.Context, userID uint, limit int) ([]model.Trade, error)
	Save(ctx context.Context, trade *model.Trade) error
	Delete(ctx context.Context, id, userID uint) (bool, error)
}

// tradePayload is the mutation body shared by create and update. Pointer
// fields distinguish "absent" from zero on update.
type tradePayload struct {
	Symbol       *string    `json:"symbol"`
	AssetType    *string    `json:"asset_type"`
	Direction    *string    `json:"direction"`
	EntryPrice   *float64   `json:"entry_price"`
	ExitPrice    *float64   `json:"exit_price"`
	StopLoss     *float64   `json:"stop_loss"`
	Target       *float64   `json:"target"`
	Quantity     *float64   `json:"quantity"`
	PositionSize *float64   `json:"position_size"`
	EntryTime    *time.Time `json:"entry_time"`
	ExitTime     *time.Time `json:"exit_time"`
	Timeframe    *string    `json:"timeframe"`
	Setup        *string    `json:"setup"`
	Reason       *string    `json:"reason"`
	EmotionTags  []string   `json:"emotion_tags"`
	CategoryTags []string   `json:"category_tags"`
}

func (p *tradePayload) applyTo(trade *model.Trade) {
	if p.Symbol != nil {
		trade.Symbol = *p.Symbol
	}
	if p.AssetType != nil {
		trade.AssetType = *p.AssetType
	}
	if p.Direction != nil {
		trade.Direction = *p.Direction
	}
	if p.EntryPrice != nil {
		trade.EntryPrice = *p.EntryPrice
	}
	if p.ExitPrice != nil {
		trade.ExitPrice = p.ExitPrice
	}
	if p.StopLoss != nil {
		trade.StopLoss = p.StopLoss
	}
	if p.Target != nil {
		trade.Target = p.Target
	}
	if p.Quantity != nil {
		trade.Quantity = *p.Quantity
	}
	if p.PositionSize != nil {
		trade.PositionSize = *p.PositionSize
	}
	if p.EntryTime != nil {
		trade.EntryTime = *p.EntryTime
	}
	if p.ExitTime != nil {
		trade.ExitTime = p.ExitTime
	}
	if p.Timeframe != nil {
		trade.Timeframe = *p.Timeframe
	}
	if p.Setup != nil {
		trade.Setup = *p.Setup
	}
	if p.Reason != nil {
		trade.Reason = *p.Reason
	}
	if p.EmotionTags != nil {
		trade.EmotionTags = datatypes.NewJSONSlice(p.EmotionTags)
	}
	if p.CategoryTags != nil {
		trade.CategoryTags = datatypes.NewJSONSlice(p.CategoryTags)
	}
}

// applyPnl runs the calculator over the trade's current fields and
// writes the result back. The calculator is the only writer of the
// financial result columns.
func applyPnl(trade *model.Trade) error {
	result, err := pnl.Compute(pnl.Input{
		Direction:    trade.Direction,
		EntryPrice:   trade.EntryPrice,
		ExitPrice:    trade.ExitPrice,
		Quantity:     trade.Quantity,
		PositionSize: trade.PositionSize,
	})
	if err != nil {
		return err
	}

	trade.Pnl = result.Pnl
	trade.PnlPercentage = result.PnlPercentage
	trade.Status = result.Status
	return nil
}

// CreateTradeHandler returns a handler that records a new trade for the
// authenticated user, computing realized P&L before the write.
func CreateTradeHandler(repo tradeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		var payload tradePayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid trade create payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		trade := &model.Trade{UserID: user.ID, EntryTime: time.Now().UTC()}
		payload.applyTo(trade)

		if trade.Symbol == "" {
			http.Error(w, "symbol is required", http.StatusBadRequest)
			return
		}

		if err := applyPnl(trade); err != nil {
			var vErr *pnl.ValidationError
			if errors.As(err, &vErr) {
				http.Error(w, vErr.Error(), http.StatusBadRequest)
				return
			}
			logger.WithError(err).Error("failed to compute trade pnl")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if err := repo.Create(r.Context(), trade); err != nil {
			logger.WithError(err).Error("failed to create trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, trade)
	}
}

// UpdateTradeHandler mutates an owned trade and recomputes its P&L.
func UpdateTradeHandler(repo tradeStore) http.HandlerFunc {
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

		trade, err := repo.FindByIDAndUser(r.Context(), tradeID, user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to load trade for update")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if trade == nil {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		var payload tradePayload
		decoder := json.NewDecoder(r.Body)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&payload); err != nil {
			logger.WithError(err).Warn("invalid trade update payload")
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		payload.applyTo(trade)

		if err := applyPnl(trade); err != nil {
			var vErr *pnl.ValidationError
			if errors.As(err, &vErr) {
				http.Error(w, vErr.Error(), http.StatusBadRequest)
				return
			}
			logger.WithError(err).Error("failed to compute trade pnl")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if err := repo.Save(r.Context(), trade); err != nil {
			logger.WithError(err).Error("failed to save trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, trade)
	}
}

// ListTradesHandler returns the user's recent trades, newest first.
func ListTradesHandler(repo tradeStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := auth.GetUserFromContext(r.Context())
		if !ok || user == nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		limit := 50
		if limitParam := r.URL.Query().Get("limit"); limitParam != "" {
			parsed, err := strconv.Atoi(limitParam)
			if err != nil || parsed <= 0 {
				http.Error(w, "invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}

		trades, err := repo.FindRecentByUser(r.Context(), user.ID, limit)
		if err != nil {
			logger.WithError(err).Error("failed to list trades")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, trades)
	}
}

// GetTradeHandler fetches a single owned trade.
func GetTradeHandler(repo tradeStore) http.HandlerFunc {
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

		trade, err := repo.FindByIDAndUser(r.Context(), tradeID, user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to fetch trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if trade == nil {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, trade)
	}
}

// DeleteTradeHandler removes an owned trade.
func DeleteTradeHandler(repo tradeStore) http.HandlerFunc {
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

		deleted, err := repo.Delete(r.Context(), tradeID, user.ID)
		if err != nil {
			logger.WithError(err).Error("failed to delete trade")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if !deleted {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// DefaultTradeHandlers wires the handlers to the production repository.
func DefaultTradeHandlers() (create, update, list, get, del http.HandlerFunc) {
	repo := repository.NewTradeRepository()
	return CreateTradeHandler(repo), UpdateTradeHandler(repo), ListTradesHandler(repo), GetTradeHandler(repo), DeleteTradeHandler(repo)
}

func tradeIDParam(w http.ResponseWriter, r *http.Request) (uint, bool) {
	idParam := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || id == 0 {
		http.Error(w, "invalid trade id", http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("failed to encode response")
	}
}
