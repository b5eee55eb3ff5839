package engine

import (
	"context"

	"github.com/fdjrr/mt5-livetrade/internal/exchange"
	"github.com/fdjrr/mt5-livetrade/internal/models"
)

// Ledger reads per-tick snapshots of open positions and pending orders from
// the gateway. Nothing is cached across ticks: positions can close behind
// the bot's back through TP/SL fills, so every tick re-queries.
type Ledger struct {
	gw     exchange.Gateway
	symbol string
}

func NewLedger(gw exchange.Gateway, symbol string) *Ledger {
	return &Ledger{gw: gw, symbol: symbol}
}

func (l *Ledger) OpenPositions(ctx context.Context) ([]models.Position, error) {
	return l.gw.GetOpenPositions(ctx, l.symbol)
}

func (l *Ledger) PendingOrders(ctx context.Context) ([]models.PendingOrder, error) {
	return l.gw.GetPendingOrders(ctx, l.symbol)
}

// TotalProfit sums the floating profit over a position snapshot.
func TotalProfit(positions []models.Position) float64 {
	var total float64
	for _, p := range positions {
		total += p.Profit
	}
	return total
}

// Validate inspects the first position in the snapshot and reports whether
// it trades in the expected direction. Direction mismatch alone decides
// validity. Fails with ErrNoPosition on an empty snapshot; callers must
// guard with the position count first.
func Validate(positions []models.Position, expected models.OrderDirection) (bool, error) {
	if len(positions) == 0 {
		return false, ErrNoPosition
	}
	return positions[0].Direction == expected, nil
}
