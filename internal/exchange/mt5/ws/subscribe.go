package ws

import "fmt"

func (w *Client) Subscribe(symbol string) error {
	w.symbol = symbol

	msg := SubscribeMessage{
		Op:   "subscribe",
		Args: []string{"ticks." + symbol},
	}
	if err := w.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("could not subscribe to %s: %w", symbol, err)
	}
	return nil
}
