package engine

import (
	"fmt"

	"github.com/fdjrr/mt5-livetrade/internal/models"
)

// Pricer converts account-currency profit/loss targets into price offsets
// for a given instrument. Offsets are anchored on the initial lot for every
// leg, so the ladder legs are evenly spaced regardless of their own volume.
type Pricer struct {
	tpOffset float64
	slOffset float64
}

// NewPricer fails with ErrConfiguration when the pip value degenerates to
// zero (zero lot or tick size), instead of letting the offsets blow up to
// infinity downstream.
func NewPricer(tickValue, tickSize, lot, takeProfit, stopLoss float64) (*Pricer, error) {
	if tickSize == 0 {
		return nil, fmt.Errorf("%w: tick size is zero", ErrConfiguration)
	}
	pipValue := (tickValue / tickSize) * lot
	if pipValue == 0 {
		return nil, fmt.Errorf("%w: pip value is zero (tick value %v, tick size %v, lot %v)", ErrConfiguration, tickValue, tickSize, lot)
	}

	return &Pricer{
		tpOffset: takeProfit / pipValue,
		slOffset: stopLoss / pipValue,
	}, nil
}

// Entry returns the take-profit and stop-loss prices for an order of the
// given kind entered at price.
func (p *Pricer) Entry(kind models.OrderKind, price float64) (tp, sl float64, err error) {
	switch kind {
	case models.OrderKindMarketBuy, models.OrderKindBuyLimit:
		return price + p.tpOffset, price - p.slOffset, nil
	case models.OrderKindMarketSell, models.OrderKindSellLimit:
		return price - p.tpOffset, price + p.slOffset, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidDirection, kind)
	}
}
