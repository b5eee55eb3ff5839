package ws

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/models"
	"github.com/gorilla/websocket"
)

func (w *Client) readLoop() {
	w.logEntry().Debug("readLoop started.")

	for {
		select {
		case <-w.stopCh:
			return
		default:
		}
		_, data, err := w.conn.ReadMessage()
		if err != nil {
			w.logEntry().WithError(err).Warn("Stream read failed.")

			if !w.reconnect() {
				return
			}
			continue
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			w.logEntry().WithError(err).Warn("Could not decode stream message.")
			continue
		}

		if strings.HasPrefix(msg.Topic, "ticks") {
			w.handleTick(msg)
		}
	}
}

func (w *Client) handleTick(msg Message) {
	var data tickData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		w.logEntry().WithError(err).Warn("Could not decode tick.")
		return
	}

	tick := models.Tick{
		Symbol: data.Symbol,
		Bid:    data.Bid,
		Ask:    data.Ask,
		Time:   time.UnixMilli(data.Time),
	}

	select {
	case w.ticks <- tick:
	default:
		// Consumers only care about the freshest tick; drop on backpressure.
	}
}

func (w *Client) reconnect() bool {
	backoff := w.reconnectMin

	for {
		select {
		case <-w.stopCh:
			return false
		default:
		}

		w.logEntry().Info("Reconnecting to bridge stream.")

		time.Sleep(backoff)

		conn, _, err := websocket.DefaultDialer.Dial(w.url, nil)
		if err != nil {
			w.logEntry().WithError(err).Warn("Reconnect failed.")
			backoff = w.nextBackoff(backoff)
			continue
		}

		if w.conn != nil {
			_ = w.conn.Close()
		}

		w.conn = conn
		w.conn.SetReadLimit(1 << 20)

		if w.symbol != "" {
			if err := w.Subscribe(w.symbol); err != nil {
				w.logEntry().WithError(err).Warn("Could not resubscribe after reconnect.")
				backoff = w.nextBackoff(backoff)
				continue
			}
		}

		w.logEntry().Info("Bridge stream reconnected.")
		return true
	}
}

func (w *Client) nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > w.reconnectMax {
		return w.reconnectMax
	}
	return next
}
