package ws

import (
	"context"
	"fmt"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/logger"
	"github.com/fdjrr/mt5-livetrade/internal/models"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func New(url string, log *logger.Logger) *Client {
	return &Client{
		url:          url,
		log:          log,
		ticks:        make(chan models.Tick, 100),
		stopCh:       make(chan struct{}),
		reconnectMin: 1 * time.Second,
		reconnectMax: 30 * time.Second,
	}
}

func (w *Client) Connect(ctx context.Context) error {
	w.logEntry().WithField("url", w.url).Info("Connecting to bridge stream.")

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, w.url, nil)
	if err != nil {
		return fmt.Errorf("could not connect to bridge stream: %w", err)
	}

	w.conn = conn
	w.conn.SetReadLimit(1 << 20)

	w.logEntry().Info("Bridge stream connected.")

	go w.readLoop()

	return nil
}

func (w *Client) Close() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		if w.conn != nil {
			_ = w.conn.Close()
		}
	})
}

// Ticks delivers the live tick stream for the subscribed symbol.
func (w *Client) Ticks() <-chan models.Tick {
	return w.ticks
}

func (w *Client) logEntry() *logrus.Entry {
	entry := w.log.WithComponent("mt5_ws")
	if w.symbol != "" {
		entry = entry.WithField("symbol", w.symbol)
	}
	return entry
}
