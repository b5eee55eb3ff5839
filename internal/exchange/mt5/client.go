// Package mt5 implements the broker gateway against an MT5 terminal bridge:
// REST for history, account state and trade requests, a websocket stream for
// live ticks. The strategy core only sees the exchange.Gateway contract.
package mt5

import (
	"context"
	"sync"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/exchange"
	"github.com/fdjrr/mt5-livetrade/internal/exchange/mt5/rest"
	"github.com/fdjrr/mt5-livetrade/internal/exchange/mt5/ws"
	"github.com/fdjrr/mt5-livetrade/internal/logger"
	"github.com/fdjrr/mt5-livetrade/internal/models"
)

// tickMaxAge bounds how stale a streamed tick may be before GetTick falls
// back to a REST round trip.
const tickMaxAge = 2 * time.Second

type Client struct {
	*rest.Client

	stream *ws.Client
	log    *logger.Logger

	mu       sync.Mutex
	lastTick models.Tick
}

var _ exchange.Gateway = (*Client)(nil)

func New(baseURL, wsURL, apiKey, secret string, log *logger.Logger) *Client {
	return &Client{
		Client: rest.New(baseURL, apiKey, secret, log),
		stream: ws.New(wsURL, log),
		log:    log,
	}
}

// Start connects the tick stream and begins caching the freshest tick.
// The gateway stays usable without it; GetTick just pays a REST round trip
// per call.
func (c *Client) Start(ctx context.Context, symbol string) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(symbol); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				c.stream.Close()
				return
			case tick, ok := <-c.stream.Ticks():
				if !ok {
					return
				}
				c.mu.Lock()
				c.lastTick = tick
				c.mu.Unlock()
			}
		}
	}()

	return nil
}

func (c *Client) GetTick(ctx context.Context, symbol string) (models.Tick, error) {
	c.mu.Lock()
	cached := c.lastTick
	c.mu.Unlock()

	if cached.Symbol == symbol && time.Since(cached.Time) < tickMaxAge {
		return cached, nil
	}

	return c.Client.GetTick(ctx, symbol)
}
