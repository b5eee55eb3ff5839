package exchange

import (
	"context"
	"errors"

	"github.com/fdjrr/mt5-livetrade/internal/models"
)

var (
	// ErrDataUnavailable means the broker could not supply the requested
	// amount of price history. Callers skip the tick and retry.
	ErrDataUnavailable = errors.New("price history unavailable")

	// ErrConnectivity is a transport failure talking to the terminal,
	// distinct from a broker-side order rejection.
	ErrConnectivity = errors.New("terminal unreachable")
)

type InstrumentInfo struct {
	Symbol      string
	TickValue   float64
	TickSize    float64
	Digits      int
	Description string
}

type AccountInfo struct {
	Login       int64
	Server      string
	Currency    string
	Balance     float64
	Equity      float64
	FreeMargin  float64
	MarginLevel float64
	Profit      float64
}

// Gateway is the broker-facing boundary of the strategy core. Order
// rejection by the broker is a normal OrderResult with StatusRejected,
// never an error; errors mean the request itself could not be carried out.
type Gateway interface {
	GetPriceHistory(ctx context.Context, symbol, timeframe string, count int) ([]models.PriceBar, error)
	GetTick(ctx context.Context, symbol string) (models.Tick, error)
	GetOpenPositions(ctx context.Context, symbol string) ([]models.Position, error)
	GetPendingOrders(ctx context.Context, symbol string) ([]models.PendingOrder, error)
	PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error)
	ClosePosition(ctx context.Context, ticket int64) (models.OrderResult, error)
	CancelPendingOrder(ctx context.Context, ticket int64) (models.OrderResult, error)
	GetInstrumentInfo(ctx context.Context, symbol string) (InstrumentInfo, error)
	GetAccountInfo(ctx context.Context) (AccountInfo, error)
}
