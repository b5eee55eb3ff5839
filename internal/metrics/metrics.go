// Package metrics exposes the Prometheus series the bot updates while
// trading:
//
//	bot_ticks_total                  – strategy loop iterations
//	bot_decisions_total{signal}      – decisions per tick (buy|sell|idle)
//	bot_orders_total{kind}           – orders submitted, by order kind
//	bot_order_rejections_total       – broker-side rejections
//	bot_positions_closed_total       – positions closed by the bot
//	bot_pending_cancelled_total      – pending orders cancelled by the bot
//	bot_rsi                          – last oscillator reading (gauge)
//	bot_open_positions               – open position count (gauge)
//	bot_floating_profit              – floating profit snapshot (gauge)
//
// Registered in init() and served by the handler mounted in cmd/bot at
// /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Ticks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_ticks_total",
			Help: "Strategy loop iterations",
		},
	)

	Decisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_decisions_total",
			Help: "Decisions taken per tick",
		},
		[]string{"signal"}, // buy|sell|idle
	)

	Orders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_orders_total",
			Help: "Orders submitted to the broker",
		},
		[]string{"kind"},
	)

	OrderRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_order_rejections_total",
			Help: "Broker-side order rejections",
		},
	)

	PositionsClosed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_positions_closed_total",
			Help: "Positions closed by the bot",
		},
	)

	PendingCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_pending_cancelled_total",
			Help: "Pending orders cancelled by the bot",
		},
	)

	RSI = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_rsi",
			Help: "Last oscillator reading",
		},
	)

	OpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_open_positions",
			Help: "Open position count for the traded symbol",
		},
	)

	FloatingProfit = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "bot_floating_profit",
			Help: "Floating profit over open positions",
		},
	)
)

func init() {
	prometheus.MustRegister(Ticks, Decisions, Orders, OrderRejections)
	prometheus.MustRegister(PositionsClosed, PendingCancelled)
	prometheus.MustRegister(RSI, OpenPositions, FloatingProfit)
}

// Handler returns the /metrics handler in Prometheus text exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
