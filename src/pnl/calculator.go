package pnl

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"tradejournal/src/model"
)

// Input carries the raw trade fields the calculator needs. ExitPrice is
// nil while the position is still open.
type Input struct {
	Direction    string
	EntryPrice   float64
	ExitPrice    *float64
	Quantity     float64
	PositionSize float64
}

// Result is the computed outcome. Pnl and PnlPercentage stay nil for
// open trades so the storage layer keeps NULL columns until exit.
type Result struct {
	Pnl           *float64
	PnlPercentage *float64
	Status        string
}

// ValidationError reports a malformed numeric input. It is fatal to the
// single request that carried it and is never silently coerced.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Compute converts raw trade fields into realized P&L, percentage return
// and outcome status. It is pure: no side effects, identical inputs give
// identical outputs.
//
//	long:  pnl = (exit - entry) * quantity
//	short: pnl = (entry - exit) * quantity
//	pct   = pnl / position_size * 100
func Compute(in Input) (Result, error) {
	if err := validate(in); err != nil {
		return Result{}, err
	}

	if in.ExitPrice == nil {
		return Result{Status: model.TradeStatusOpen}, nil
	}

	entry := decimal.NewFromFloat(in.EntryPrice)
	exit := decimal.NewFromFloat(*in.ExitPrice)
	qty := decimal.NewFromFloat(in.Quantity)
	size := decimal.NewFromFloat(in.PositionSize)

	var gross decimal.Decimal
	if in.Direction == model.DirectionShort {
		gross = entry.Sub(exit).Mul(qty)
	} else {
		gross = exit.Sub(entry).Mul(qty)
	}

	pct := gross.Div(size).Mul(decimal.NewFromInt(100))

	var status string
	switch gross.Sign() {
	case 1:
		status = model.TradeStatusWin
	case -1:
		status = model.TradeStatusLoss
	default:
		status = model.TradeStatusBreakeven
	}

	pnlVal, _ := gross.Float64()
	pctVal, _ := pct.Float64()

	return Result{
		Pnl:           &pnlVal,
		PnlPercentage: &pctVal,
		Status:        status,
	}, nil
}

func validate(in Input) error {
	if in.Direction != model.DirectionLong && in.Direction != model.DirectionShort {
		return &ValidationError{Field: "direction", Reason: "must be long or short"}
	}
	if !isFinite(in.EntryPrice) {
		return &ValidationError{Field: "entry_price", Reason: "must be a finite number"}
	}
	if in.ExitPrice != nil && !isFinite(*in.ExitPrice) {
		return &ValidationError{Field: "exit_price", Reason: "must be a finite number"}
	}
	if !isFinite(in.Quantity) || in.Quantity <= 0 {
		return &ValidationError{Field: "quantity", Reason: "must be a positive number"}
	}
	if !isFinite(in.PositionSize) || in.PositionSize <= 0 {
		return &ValidationError{Field: "position_size", Reason: "must be a positive number"}
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
