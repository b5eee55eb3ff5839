// Package paper is an in-memory gateway used for dry runs. Market data is
// delegated to a real upstream gateway; trade requests never leave the
// process. Market legs open simulated positions immediately, limit legs sit
// as pending orders until cancelled.
package paper

import (
	"context"
	"sync"

	"github.com/fdjrr/mt5-livetrade/internal/exchange"
	"github.com/fdjrr/mt5-livetrade/internal/logger"
	"github.com/fdjrr/mt5-livetrade/internal/models"
)

type Gateway struct {
	data exchange.Gateway
	log  *logger.Logger

	mu         sync.Mutex
	nextTicket int64
	positions  map[int64]models.Position
	pending    map[int64]models.PendingOrder
}

var _ exchange.Gateway = (*Gateway)(nil)

func New(data exchange.Gateway, log *logger.Logger) *Gateway {
	return &Gateway{
		data:       data,
		log:        log,
		nextTicket: 1,
		positions:  map[int64]models.Position{},
		pending:    map[int64]models.PendingOrder{},
	}
}

func (g *Gateway) GetPriceHistory(ctx context.Context, symbol, timeframe string, count int) ([]models.PriceBar, error) {
	return g.data.GetPriceHistory(ctx, symbol, timeframe, count)
}

func (g *Gateway) GetTick(ctx context.Context, symbol string) (models.Tick, error) {
	return g.data.GetTick(ctx, symbol)
}

func (g *Gateway) GetInstrumentInfo(ctx context.Context, symbol string) (exchange.InstrumentInfo, error) {
	return g.data.GetInstrumentInfo(ctx, symbol)
}

func (g *Gateway) GetAccountInfo(ctx context.Context) (exchange.AccountInfo, error) {
	return g.data.GetAccountInfo(ctx)
}

func (g *Gateway) GetOpenPositions(ctx context.Context, symbol string) ([]models.Position, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []models.Position
	for _, pos := range g.positions {
		if pos.Symbol == symbol {
			out = append(out, pos)
		}
	}
	return out, nil
}

func (g *Gateway) GetPendingOrders(ctx context.Context, symbol string) ([]models.PendingOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var out []models.PendingOrder
	for _, ord := range g.pending {
		if ord.Symbol == symbol {
			out = append(out, ord)
		}
	}
	return out, nil
}

func (g *Gateway) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ticket := g.nextTicket
	g.nextTicket++

	if req.Kind.IsPending() {
		g.pending[ticket] = models.PendingOrder{
			Ticket: ticket,
			Symbol: req.Symbol,
			Kind:   req.Kind,
			Price:  req.Price,
			Volume: req.Volume,
		}
	} else {
		g.positions[ticket] = models.Position{
			Ticket:    ticket,
			Symbol:    req.Symbol,
			Direction: req.Kind.Direction(),
			Volume:    req.Volume,
			OpenPrice: req.Price,
			Magic:     req.Magic,
		}
	}

	g.log.WithComponent("paper").WithFields(map[string]interface{}{
		"ticket": ticket,
		"kind":   req.Kind,
		"lot":    req.Volume,
		"price":  req.Price,
	}).Info("Simulated order.")

	return models.OrderResult{Ticket: ticket, Status: models.OrderStatusPlaced}, nil
}

func (g *Gateway) ClosePosition(ctx context.Context, ticket int64) (models.OrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.positions[ticket]; !ok {
		return models.OrderResult{Ticket: ticket, Status: models.OrderStatusRejected, Message: "position not found"}, nil
	}
	delete(g.positions, ticket)
	return models.OrderResult{Ticket: ticket, Status: models.OrderStatusPlaced}, nil
}

func (g *Gateway) CancelPendingOrder(ctx context.Context, ticket int64) (models.OrderResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.pending[ticket]; !ok {
		return models.OrderResult{Ticket: ticket, Status: models.OrderStatusRejected, Message: "order not found"}, nil
	}
	delete(g.pending, ticket)
	return models.OrderResult{Ticket: ticket, Status: models.OrderStatusPlaced}, nil
}
