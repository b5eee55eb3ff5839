package models

import "time"

type OrderDirection string
type OrderKind string
type OrderStatus string

const (
	DirectionBuy  OrderDirection = "BUY"
	DirectionSell OrderDirection = "SELL"

	OrderKindMarketBuy  OrderKind = "MARKET_BUY"
	OrderKindMarketSell OrderKind = "MARKET_SELL"
	OrderKindBuyLimit   OrderKind = "BUY_LIMIT"
	OrderKindSellLimit  OrderKind = "SELL_LIMIT"

	OrderStatusPlaced   OrderStatus = "PLACED"
	OrderStatusRejected OrderStatus = "REJECTED"

	TimeInForceGTC = "GTC"
	FillPolicyIOC  = "IOC"
)

// Direction reports which side of the market the order kind trades on.
func (k OrderKind) Direction() OrderDirection {
	if k == OrderKindMarketBuy || k == OrderKindBuyLimit {
		return DirectionBuy
	}
	return DirectionSell
}

func (k OrderKind) IsPending() bool {
	return k == OrderKindBuyLimit || k == OrderKindSellLimit
}

type PriceBar struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

type Tick struct {
	Symbol string    `json:"symbol"`
	Bid    float64   `json:"bid"`
	Ask    float64   `json:"ask"`
	Time   time.Time `json:"time"`
}

// OrderRequest is built fresh for every submission and never mutated after
// it is handed to the gateway.
type OrderRequest struct {
	Kind        OrderKind `json:"kind"`
	Symbol      string    `json:"symbol"`
	Volume      float64   `json:"volume"`
	Price       float64   `json:"price"`
	TakeProfit  float64   `json:"take_profit"`
	StopLoss    float64   `json:"stop_loss"`
	Magic       int       `json:"magic"`
	Deviation   int       `json:"deviation"`
	LinkID      string    `json:"link_id"`
	TimeInForce string    `json:"time_in_force"`
	FillPolicy  string    `json:"fill_policy"`
}

type OrderResult struct {
	Ticket  int64       `json:"ticket"`
	Status  OrderStatus `json:"status"`
	Message string      `json:"message"`
}

func (r OrderResult) Rejected() bool {
	return r.Status == OrderStatusRejected
}

// Position is owned by the broker; the engine only ever reads per-poll
// snapshots (positions may close externally via TP/SL fills).
type Position struct {
	Ticket    int64          `json:"ticket"`
	Symbol    string         `json:"symbol"`
	Direction OrderDirection `json:"direction"`
	Volume    float64        `json:"volume"`
	OpenPrice float64        `json:"open_price"`
	Profit    float64        `json:"profit"`
	Magic     int            `json:"magic"`
}

type PendingOrder struct {
	Ticket int64     `json:"ticket"`
	Symbol string    `json:"symbol"`
	Kind   OrderKind `json:"kind"`
	Price  float64   `json:"price"`
	Volume float64   `json:"volume"`
}
