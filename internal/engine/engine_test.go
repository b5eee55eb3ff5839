package engine

import (
	"context"
	"testing"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/exchange"
	"github.com/fdjrr/mt5-livetrade/internal/logger"
	"github.com/fdjrr/mt5-livetrade/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGateway struct {
	bars      []models.PriceBar
	barsErr   error
	tick      models.Tick
	positions []models.Position
	pending   []models.PendingOrder
	info      exchange.InstrumentInfo
	account   exchange.AccountInfo

	rejectFirst bool

	placed    []models.OrderRequest
	closed    []int64
	cancelled []int64
}

func (f *fakeGateway) GetPriceHistory(ctx context.Context, symbol, timeframe string, count int) ([]models.PriceBar, error) {
	if f.barsErr != nil {
		return nil, f.barsErr
	}
	return f.bars, nil
}

func (f *fakeGateway) GetTick(ctx context.Context, symbol string) (models.Tick, error) {
	return f.tick, nil
}

func (f *fakeGateway) GetOpenPositions(ctx context.Context, symbol string) ([]models.Position, error) {
	return f.positions, nil
}

func (f *fakeGateway) GetPendingOrders(ctx context.Context, symbol string) ([]models.PendingOrder, error) {
	return f.pending, nil
}

func (f *fakeGateway) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	f.placed = append(f.placed, req)
	if f.rejectFirst && len(f.placed) == 1 {
		return models.OrderResult{Status: models.OrderStatusRejected, Message: "no money"}, nil
	}
	return models.OrderResult{Ticket: int64(len(f.placed)), Status: models.OrderStatusPlaced}, nil
}

func (f *fakeGateway) ClosePosition(ctx context.Context, ticket int64) (models.OrderResult, error) {
	f.closed = append(f.closed, ticket)
	return models.OrderResult{Ticket: ticket, Status: models.OrderStatusPlaced}, nil
}

func (f *fakeGateway) CancelPendingOrder(ctx context.Context, ticket int64) (models.OrderResult, error) {
	f.cancelled = append(f.cancelled, ticket)
	return models.OrderResult{Ticket: ticket, Status: models.OrderStatusPlaced}, nil
}

func (f *fakeGateway) GetInstrumentInfo(ctx context.Context, symbol string) (exchange.InstrumentInfo, error) {
	return f.info, nil
}

func (f *fakeGateway) GetAccountInfo(ctx context.Context) (exchange.AccountInfo, error) {
	return f.account, nil
}

func bars(closes ...float64) []models.PriceBar {
	out := make([]models.PriceBar, len(closes))
	now := time.Now()
	for i, c := range closes {
		out[i] = models.PriceBar{
			Time:  now.Add(time.Duration(i-len(closes)) * time.Minute),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return out
}

func newTestEngine(t *testing.T, fake *fakeGateway) *Engine {
	t.Helper()
	cfg := ladderConfig()
	cfg.RSIPeriod = 2
	cfg.HistoryBars = 3

	e := New(cfg, fake, logger.Discard())
	e.pricer = newTestPricer(t)
	return e
}

func TestStep_OverboughtAndFlatSubmitsSellLadderAtBid(t *testing.T) {
	fake := &fakeGateway{
		bars: bars(100, 101, 102), // rising, RSI saturates above the 70 threshold
		tick: models.Tick{Symbol: "XAUUSD", Bid: 1999, Ask: 2001, Time: time.Now()},
	}
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))

	require.Len(t, fake.placed, 5)
	assert.Equal(t, models.OrderKindMarketSell, fake.placed[0].Kind)
	assert.Equal(t, 1999.0, fake.placed[0].Price, "sell ladder anchors at the bid")
	for i := 1; i < 5; i++ {
		assert.Equal(t, models.OrderKindSellLimit, fake.placed[i].Kind)
	}
	for _, req := range fake.placed {
		assert.NotEmpty(t, req.LinkID)
	}
}

func TestStep_OversoldAndFlatSubmitsBuyLadderAtAsk(t *testing.T) {
	fake := &fakeGateway{
		bars: bars(102, 101, 100), // falling, RSI saturates below the 30 threshold
		tick: models.Tick{Symbol: "XAUUSD", Bid: 1999, Ask: 2001, Time: time.Now()},
	}
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))

	require.Len(t, fake.placed, 5)
	assert.Equal(t, models.OrderKindMarketBuy, fake.placed[0].Kind)
	assert.Equal(t, 2001.0, fake.placed[0].Price, "buy ladder anchors at the ask")
}

func TestStep_BetweenThresholdsCancelsStalePendingsWhenFlat(t *testing.T) {
	fake := &fakeGateway{
		bars: bars(100, 101, 100), // one gain, one loss: RSI 50
		pending: []models.PendingOrder{
			{Ticket: 11, Symbol: "XAUUSD", Kind: models.OrderKindSellLimit},
			{Ticket: 12, Symbol: "XAUUSD", Kind: models.OrderKindSellLimit},
		},
	}
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))

	assert.Empty(t, fake.placed)
	assert.Equal(t, []int64{11, 12}, fake.cancelled)
}

func TestStep_BetweenThresholdsLeavesPendingsWhilePositionOpen(t *testing.T) {
	fake := &fakeGateway{
		bars:      bars(100, 101, 100),
		positions: []models.Position{{Ticket: 1, Direction: models.DirectionSell}},
		pending:   []models.PendingOrder{{Ticket: 11, Kind: models.OrderKindSellLimit}},
	}
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))

	assert.Empty(t, fake.placed)
	assert.Empty(t, fake.cancelled)
}

func TestStep_ValidPositionHolds(t *testing.T) {
	fake := &fakeGateway{
		bars:      bars(100, 101, 102), // sell signal
		positions: []models.Position{{Ticket: 1, Direction: models.DirectionSell, Magic: 1}},
	}
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))

	assert.Empty(t, fake.placed)
	assert.Empty(t, fake.closed)
	assert.Empty(t, fake.cancelled)
}

func TestStep_InvalidPositionClosesAndReentersSameCycle(t *testing.T) {
	fake := &fakeGateway{
		bars: bars(100, 101, 102), // sell signal
		tick: models.Tick{Symbol: "XAUUSD", Bid: 1999, Ask: 2001, Time: time.Now()},
		positions: []models.Position{
			{Ticket: 1, Direction: models.DirectionBuy, Magic: 1},
			{Ticket: 2, Direction: models.DirectionBuy, Magic: 2},
		},
		pending: []models.PendingOrder{{Ticket: 11, Kind: models.OrderKindBuyLimit}},
	}
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))

	assert.Equal(t, []int64{1, 2}, fake.closed)
	assert.Equal(t, []int64{11}, fake.cancelled)
	require.Len(t, fake.placed, 5, "re-enters in the same cycle")
	assert.Equal(t, models.OrderKindMarketSell, fake.placed[0].Kind)
}

func TestStep_DataUnavailableSkipsTick(t *testing.T) {
	fake := &fakeGateway{barsErr: exchange.ErrDataUnavailable}
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))
	assert.Empty(t, fake.placed)
}

func TestStep_InsufficientHistorySkipsTick(t *testing.T) {
	fake := &fakeGateway{bars: bars(100, 101)} // period+1 bars needed
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))
	assert.Empty(t, fake.placed)
}

func TestSubmitLadder_RejectedLegDoesNotStopTheRest(t *testing.T) {
	fake := &fakeGateway{
		bars:        bars(100, 101, 102),
		tick:        models.Tick{Symbol: "XAUUSD", Bid: 1999, Ask: 2001, Time: time.Now()},
		rejectFirst: true,
	}
	e := newTestEngine(t, fake)

	require.NoError(t, e.step(context.Background()))

	// All five legs were still attempted despite the rejected anchor.
	assert.Len(t, fake.placed, 5)
}

func TestRun_StopsOnCancel(t *testing.T) {
	fake := &fakeGateway{
		bars: bars(100, 101, 100),
		info: exchange.InstrumentInfo{Symbol: "XAUUSD", TickValue: 1, TickSize: 0.01},
	}
	cfg := ladderConfig()
	cfg.RSIPeriod = 2
	cfg.HistoryBars = 3
	e := New(cfg, fake, logger.Discard())
	e.interval = time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- e.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("engine did not stop on cancellation")
	}
}
