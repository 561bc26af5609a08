package model

import (
	"time"

	"gorm.io/datatypes"
)

const (
	DirectionLong  = "long"
	DirectionShort = "short"
)

const (
	TradeStatusOpen      = "open"
	TradeStatusWin       = "win"
	TradeStatusLoss      = "loss"
	TradeStatusBreakeven = "breakeven"
)

// Trade represents one logged position in the journal, open or closed.
// Financial result fields (Pnl, PnlPercentage, Status) are only written
// by the P&L calculator on create/update, never by hand.
type Trade struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"index" json:"user_id"`

	Symbol    string `gorm:"size:30;not null" json:"symbol"`
	AssetType string `gorm:"size:20" json:"asset_type,omitempty"` // e.g. stock, crypto, forex
	Direction string `gorm:"size:10;not null" json:"direction"`   // long, short

	EntryPrice   float64  `json:"entry_price"`
	ExitPrice    *float64 `json:"exit_price,omitempty"`
	StopLoss     *float64 `json:"stop_loss,omitempty"`
	Target       *float64 `json:"target,omitempty"`
	Quantity     float64  `json:"quantity"`
	PositionSize float64  `json:"position_size"` // capital committed to the trade

	Pnl           *float64 `json:"pnl,omitempty"`
	PnlPercentage *float64 `json:"pnl_percentage,omitempty"`
	Status        string   `gorm:"size:20;not null;default:open" json:"status"`

	EntryTime time.Time  `gorm:"index" json:"entry_time"`
	ExitTime  *time.Time `json:"exit_time,omitempty"`

	Timeframe    string                      `gorm:"size:20" json:"timeframe,omitempty"`
	Setup        string                      `gorm:"size:60" json:"setup,omitempty"`
	Reason       string                      `gorm:"type:text" json:"reason,omitempty"`
	EmotionTags  datatypes.JSONSlice[string] `json:"emotion_tags,omitempty"`
	CategoryTags datatypes.JSONSlice[string] `json:"category_tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName allows you to control the exact table name for trades.
func (Trade) TableName() string {
	return "trades"
}

// IsClosed reports whether the trade has an exit price recorded.
func (t *Trade) IsClosed() bool {
	return t.ExitPrice != nil
}
