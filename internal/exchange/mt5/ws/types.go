package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/logger"
	"github.com/fdjrr/mt5-livetrade/internal/models"
	"github.com/gorilla/websocket"
)

type Client struct {
	url          string
	log          *logger.Logger
	conn         *websocket.Conn
	ticks        chan models.Tick
	stopCh       chan struct{}
	stopOnce     sync.Once
	symbol       string
	reconnectMin time.Duration
	reconnectMax time.Duration
}

type Message struct {
	Topic string          `json:"topic"`
	TS    int64           `json:"ts"`
	Data  json.RawMessage `json:"data"`
}

type SubscribeMessage struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

type tickData struct {
	Symbol string  `json:"symbol"`
	Bid    float64 `json:"bid"`
	Ask    float64 `json:"ask"`
	Time   int64   `json:"time_msc"`
}
