package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/config"
	"github.com/fdjrr/mt5-livetrade/internal/exchange"
	"github.com/fdjrr/mt5-livetrade/internal/indicators"
	"github.com/fdjrr/mt5-livetrade/internal/logger"
	"github.com/fdjrr/mt5-livetrade/internal/metrics"
	"github.com/fdjrr/mt5-livetrade/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const pollInterval = 1 * time.Second

// Engine runs the strategy loop: one fully sequential evaluation per tick,
// blocking on every gateway call. There is never more than one ladder in
// flight per symbol because nothing in here runs concurrently.
type Engine struct {
	cfg    config.StrategyConfig
	gw     exchange.Gateway
	log    *logger.Logger
	ledger *Ledger
	pricer *Pricer

	interval time.Duration
}

func New(cfg config.StrategyConfig, gw exchange.Gateway, log *logger.Logger) *Engine {
	return &Engine{
		cfg:      cfg,
		gw:       gw,
		log:      log,
		ledger:   NewLedger(gw, cfg.Symbol),
		interval: pollInterval,
	}
}

// Run blocks until ctx is cancelled. Open positions are left at the broker
// on shutdown: they outlive the bot by design.
func (e *Engine) Run(ctx context.Context) error {
	info, err := e.withRetryInstrument(ctx)
	if err != nil {
		return err
	}

	pricer, err := NewPricer(info.TickValue, info.TickSize, e.cfg.InitialLot, e.cfg.TakeProfitAmount, e.cfg.StopLossAmount)
	if err != nil {
		return err
	}
	e.pricer = pricer

	e.reportStartup(ctx, info)

	for {
		if err := e.step(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}

		select {
		case <-ctx.Done():
			e.logEntry().Info("Stopping strategy loop.")
			return ctx.Err()
		case <-time.After(e.interval):
		}
	}
}

// step is one full evaluation of the state machine. A nil return means the
// loop keeps going; an error aborts the run (configuration or programming
// errors only — a bad tick is logged and skipped).
func (e *Engine) step(ctx context.Context) error {
	metrics.Ticks.Inc()

	bars, err := e.gw.GetPriceHistory(ctx, e.cfg.Symbol, e.cfg.Timeframe, e.cfg.HistoryBars)
	if err != nil {
		return e.skipTick(ctx, err, "Could not fetch price history.")
	}

	closes := make([]float64, len(bars))
	for i, bar := range bars {
		closes[i] = bar.Close
	}
	rsi := indicators.Last(closes, e.cfg.RSIPeriod)
	if math.IsNaN(rsi) {
		e.logEntry().WithField("bars", len(bars)).Warn("Not enough history for an oscillator reading, skipping tick.")
		return nil
	}
	metrics.RSI.Set(rsi)

	positions, err := e.ledger.OpenPositions(ctx)
	if err != nil {
		return e.skipTick(ctx, err, "Could not fetch open positions.")
	}
	count := len(positions)
	profit := TotalProfit(positions)
	metrics.OpenPositions.Set(float64(count))
	metrics.FloatingProfit.Set(profit)

	e.logEntry().WithFields(map[string]interface{}{
		"rsi":       rsi,
		"positions": count,
		"profit":    profit,
	}).Debug("Tick evaluated.")

	var direction models.OrderDirection
	switch {
	case rsi > e.cfg.Overbought:
		direction = models.DirectionSell
	case rsi < e.cfg.Oversold:
		direction = models.DirectionBuy
	default:
		metrics.Decisions.WithLabelValues("idle").Inc()
		if count == 0 {
			// Pending ladder legs without a filled anchor are stale.
			e.cancelAllPending(ctx)
		}
		return nil
	}

	e.logEntry().WithFields(map[string]interface{}{
		"rsi":       rsi,
		"direction": direction,
	}).Info("Signal detected.")
	metrics.Decisions.WithLabelValues(strings.ToLower(string(direction))).Inc()

	if count > 0 {
		valid, err := Validate(positions, direction)
		if err != nil {
			return err
		}
		if valid {
			e.logEntry().Info("Position is valid, holding.")
			return nil
		}

		e.logEntry().Info("Position is not valid, closing all positions.")
		e.closeAllPositions(ctx, positions)
		e.cancelAllPending(ctx)
	}

	tick, err := e.gw.GetTick(ctx, e.cfg.Symbol)
	if err != nil {
		return e.skipTick(ctx, err, "Could not fetch tick.")
	}

	price := tick.Bid
	if direction == models.DirectionBuy {
		price = tick.Ask
	}

	return e.submitLadder(ctx, direction, price)
}

// submitLadder sends every leg of the ladder in the same cycle,
// fire-and-forget: a rejected or failed leg is logged and the remaining
// legs still go out. Nothing is rolled back or retried.
func (e *Engine) submitLadder(ctx context.Context, direction models.OrderDirection, price float64) error {
	legs, err := BuildLadder(e.cfg, e.pricer, direction, price)
	if err != nil {
		return err
	}

	ladderID := newLadderID()
	e.logEntry().WithFields(map[string]interface{}{
		"ladder_id": ladderID,
		"direction": direction,
		"price":     price,
		"legs":      len(legs),
	}).Info("Submitting ladder.")

	for _, leg := range legs {
		leg.LinkID = fmt.Sprintf("%s-%d", ladderID, leg.Magic)

		entry := e.logEntry().WithFields(map[string]interface{}{
			"link_id": leg.LinkID,
			"kind":    leg.Kind,
			"step":    leg.Magic,
			"lot":     leg.Volume,
			"price":   leg.Price,
			"tp":      leg.TakeProfit,
			"sl":      leg.StopLoss,
		})

		result, err := e.gw.PlaceOrder(ctx, leg)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			entry.WithError(err).Warn("Leg submission failed.")
			continue
		}
		if result.Rejected() {
			metrics.OrderRejections.Inc()
			entry.WithField("reason", result.Message).Warn("Leg rejected by broker.")
			continue
		}

		metrics.Orders.WithLabelValues(string(leg.Kind)).Inc()
		entry.WithField("ticket", result.Ticket).Info("Leg placed.")
	}

	return nil
}

func (e *Engine) closeAllPositions(ctx context.Context, positions []models.Position) {
	for _, pos := range positions {
		result, err := e.gw.ClosePosition(ctx, pos.Ticket)
		if err != nil {
			e.log.WithTicket(pos.Ticket).WithError(err).Warn("Could not close position.")
			continue
		}
		if result.Rejected() {
			e.log.WithTicket(pos.Ticket).WithField("reason", result.Message).Warn("Close rejected by broker.")
			continue
		}
		metrics.PositionsClosed.Inc()
		e.log.WithTicket(pos.Ticket).Info("Position closed.")
	}
}

func (e *Engine) cancelAllPending(ctx context.Context) {
	orders, err := e.ledger.PendingOrders(ctx)
	if err != nil {
		e.logEntry().WithError(err).Warn("Could not fetch pending orders.")
		return
	}

	for _, ord := range orders {
		result, err := e.gw.CancelPendingOrder(ctx, ord.Ticket)
		if err != nil {
			e.log.WithTicket(ord.Ticket).WithError(err).Warn("Could not cancel pending order.")
			continue
		}
		if result.Rejected() {
			e.log.WithTicket(ord.Ticket).WithField("reason", result.Message).Warn("Cancel rejected by broker.")
			continue
		}
		metrics.PendingCancelled.Inc()
		e.log.WithTicket(ord.Ticket).Info("Pending order cancelled.")
	}
}

// skipTick downgrades transient gateway failures to a warning so a single
// bad tick never kills the run. Fatal error kinds still propagate.
func (e *Engine) skipTick(ctx context.Context, err error, msg string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, ErrConfiguration) || errors.Is(err, ErrInvalidDirection) || errors.Is(err, ErrNoPosition) {
		return err
	}
	e.logEntry().WithError(err).Warn(msg)
	return nil
}

func (e *Engine) withRetryInstrument(ctx context.Context) (exchange.InstrumentInfo, error) {
	var lastErr error
	backoff := 1 * time.Second
	for i := 0; i < 5; i++ {
		info, err := e.gw.GetInstrumentInfo(ctx, e.cfg.Symbol)
		if err == nil {
			return info, nil
		}
		lastErr = err
		e.logEntry().WithError(lastErr).Warn("Could not fetch instrument info, retrying.")
		select {
		case <-ctx.Done():
			return exchange.InstrumentInfo{}, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return exchange.InstrumentInfo{}, lastErr
}

// reportStartup logs the account, symbol and strategy banners the way the
// terminal console would show them.
func (e *Engine) reportStartup(ctx context.Context, info exchange.InstrumentInfo) {
	if account, err := e.gw.GetAccountInfo(ctx); err != nil {
		e.logEntry().WithError(err).Warn("Could not fetch account info.")
	} else {
		e.log.WithFields(map[string]interface{}{
			"login":        account.Login,
			"server":       account.Server,
			"currency":     account.Currency,
			"balance":      account.Balance,
			"equity":       account.Equity,
			"free_margin":  account.FreeMargin,
			"margin_level": account.MarginLevel,
			"profit":       account.Profit,
		}).Info("Account information.")
	}

	e.log.WithFields(map[string]interface{}{
		"symbol":      info.Symbol,
		"tick_value":  info.TickValue,
		"tick_size":   info.TickSize,
		"description": info.Description,
	}).Info("Symbol information.")

	e.log.WithFields(map[string]interface{}{
		"timeframe":      e.cfg.Timeframe,
		"rsi_period":     e.cfg.RSIPeriod,
		"rsi_oversold":   e.cfg.Oversold,
		"rsi_overbought": e.cfg.Overbought,
		"initial_lot":    e.cfg.InitialLot,
		"martingale":     e.cfg.Martingale,
		"max_steps":      e.cfg.MaxSteps,
		"multiplier":     e.cfg.Multiplier,
		"take_profit":    e.cfg.TakeProfitAmount,
		"stop_loss":      e.cfg.StopLossAmount,
	}).Info("Strategy information.")
}

func (e *Engine) logEntry() *logrus.Entry {
	return e.log.WithComponent("engine").WithField("symbol", e.cfg.Symbol)
}

func newLadderID() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	if len(raw) > 12 {
		return raw[:12]
	}
	return raw
}
