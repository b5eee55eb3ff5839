package engine

import (
	"fmt"
	"math"

	"github.com/fdjrr/mt5-livetrade/internal/config"
	"github.com/fdjrr/mt5-livetrade/internal/models"
)

// BuildLadder produces the martingale order legs for a detected signal.
// Leg 1 is an immediate market order at startPrice; every later leg is a
// pending limit order placed at the previous leg's stop-loss price, with
// volume growing by multiplier^(step-1). Each leg is tagged with its step
// number as the magic id. With martingale disabled the config normalization
// guarantees exactly one leg.
func BuildLadder(cfg config.StrategyConfig, pricer *Pricer, direction models.OrderDirection, startPrice float64) ([]models.OrderRequest, error) {
	if direction != models.DirectionBuy && direction != models.DirectionSell {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	legs := make([]models.OrderRequest, 0, cfg.MaxSteps)
	entry := startPrice

	for step := 1; step <= cfg.MaxSteps; step++ {
		kind := legKind(direction, step)
		lot := cfg.InitialLot * math.Pow(cfg.Multiplier, float64(step-1))

		tp, sl, err := pricer.Entry(kind, entry)
		if err != nil {
			return nil, err
		}

		legs = append(legs, models.OrderRequest{
			Kind:        kind,
			Symbol:      cfg.Symbol,
			Volume:      lot,
			Price:       entry,
			TakeProfit:  tp,
			StopLoss:    sl,
			Magic:       step,
			Deviation:   cfg.Deviation,
			TimeInForce: models.TimeInForceGTC,
			FillPolicy:  models.FillPolicyIOC,
		})

		// The ladder walks toward the adverse side: the next leg sits
		// where this one stops out.
		entry = sl
	}

	return legs, nil
}

func legKind(direction models.OrderDirection, step int) models.OrderKind {
	if step == 1 {
		if direction == models.DirectionBuy {
			return models.OrderKindMarketBuy
		}
		return models.OrderKindMarketSell
	}
	if direction == models.DirectionBuy {
		return models.OrderKindBuyLimit
	}
	return models.OrderKindSellLimit
}
