package rest

import (
	"net/http"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/logger"
	"golang.org/x/time/rate"
)

// Client talks to the MT5 terminal bridge over HTTP. The bridge throttles
// aggressive callers, so all requests go through a shared rate limiter.
type Client struct {
	baseURL string
	apiKey  string
	secret  string

	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

func New(baseURL, apiKey, secret string, log *logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		secret:  secret,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(10), 20),
		log:     log,
	}
}
