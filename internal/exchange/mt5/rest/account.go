package rest

import (
	"context"
	"net/http"

	"github.com/fdjrr/mt5-livetrade/internal/exchange"
)

func (c *Client) GetAccountInfo(ctx context.Context) (exchange.AccountInfo, error) {
	var resp bridgeResponse[struct {
		Login       int64   `json:"login"`
		Server      string  `json:"server"`
		Currency    string  `json:"currency"`
		Balance     float64 `json:"balance"`
		Equity      float64 `json:"equity"`
		Margin      float64 `json:"margin_free"`
		MarginLevel float64 `json:"margin_level"`
		Profit      float64 `json:"profit"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/account", nil, nil, &resp); err != nil {
		return exchange.AccountInfo{}, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return exchange.AccountInfo{}, err
	}

	return exchange.AccountInfo{
		Login:       resp.Result.Login,
		Server:      resp.Result.Server,
		Currency:    resp.Result.Currency,
		Balance:     resp.Result.Balance,
		Equity:      resp.Result.Equity,
		FreeMargin:  resp.Result.Margin,
		MarginLevel: resp.Result.MarginLevel,
		Profit:      resp.Result.Profit,
	}, nil
}
