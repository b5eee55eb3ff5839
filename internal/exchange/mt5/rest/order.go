package rest

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fdjrr/mt5-livetrade/internal/models"
)

// tradeRetDone is the terminal's "request completed" trade return code.
// Anything else in an order result is a broker-side rejection, which is a
// normal result, not an error.
const tradeRetDone = 10009

type orderResult struct {
	Ticket  int64  `json:"ticket"`
	Retcode int    `json:"retcode"`
	Comment string `json:"comment"`
}

func (r orderResult) toModel() models.OrderResult {
	status := models.OrderStatusPlaced
	if r.Retcode != tradeRetDone {
		status = models.OrderStatusRejected
	}
	return models.OrderResult{
		Ticket:  r.Ticket,
		Status:  status,
		Message: r.Comment,
	}
}

func (c *Client) GetOpenPositions(ctx context.Context, symbol string) ([]models.Position, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp bridgeResponse[struct {
		Positions []struct {
			Ticket    int64   `json:"ticket"`
			Symbol    string  `json:"symbol"`
			Type      string  `json:"type"`
			Volume    float64 `json:"volume"`
			PriceOpen float64 `json:"price_open"`
			Profit    float64 `json:"profit"`
			Magic     int     `json:"magic"`
		} `json:"positions"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/positions", params, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return nil, err
	}

	var positions []models.Position
	for _, item := range resp.Result.Positions {
		direction := models.DirectionBuy
		if item.Type == "SELL" {
			direction = models.DirectionSell
		}
		positions = append(positions, models.Position{
			Ticket:    item.Ticket,
			Symbol:    item.Symbol,
			Direction: direction,
			Volume:    item.Volume,
			OpenPrice: item.PriceOpen,
			Profit:    item.Profit,
			Magic:     item.Magic,
		})
	}
	return positions, nil
}

func (c *Client) GetPendingOrders(ctx context.Context, symbol string) ([]models.PendingOrder, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp bridgeResponse[struct {
		Orders []struct {
			Ticket int64   `json:"ticket"`
			Symbol string  `json:"symbol"`
			Type   string  `json:"type"`
			Price  float64 `json:"price_open"`
			Volume float64 `json:"volume_current"`
		} `json:"orders"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/orders", params, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return nil, err
	}

	var orders []models.PendingOrder
	for _, item := range resp.Result.Orders {
		kind := models.OrderKindBuyLimit
		if item.Type == "SELL_LIMIT" {
			kind = models.OrderKindSellLimit
		}
		orders = append(orders, models.PendingOrder{
			Ticket: item.Ticket,
			Symbol: item.Symbol,
			Kind:   kind,
			Price:  item.Price,
			Volume: item.Volume,
		})
	}
	return orders, nil
}

func (c *Client) PlaceOrder(ctx context.Context, req models.OrderRequest) (models.OrderResult, error) {
	body := map[string]any{
		"kind":          req.Kind,
		"symbol":        req.Symbol,
		"volume":        req.Volume,
		"price":         req.Price,
		"tp":            req.TakeProfit,
		"sl":            req.StopLoss,
		"magic":         req.Magic,
		"deviation":     req.Deviation,
		"comment":       req.LinkID,
		"type_time":     req.TimeInForce,
		"type_filling":  req.FillPolicy,
	}

	var resp bridgeResponse[orderResult]
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/order/send", nil, body, &resp); err != nil {
		return models.OrderResult{}, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return models.OrderResult{}, err
	}

	return resp.Result.toModel(), nil
}

func (c *Client) ClosePosition(ctx context.Context, ticket int64) (models.OrderResult, error) {
	body := map[string]any{
		"ticket": ticket,
	}

	var resp bridgeResponse[orderResult]
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/position/close", nil, body, &resp); err != nil {
		return models.OrderResult{}, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return models.OrderResult{}, err
	}

	return resp.Result.toModel(), nil
}

func (c *Client) CancelPendingOrder(ctx context.Context, ticket int64) (models.OrderResult, error) {
	body := map[string]any{
		"ticket": ticket,
	}

	var resp bridgeResponse[orderResult]
	if err := c.doRequest(ctx, http.MethodPost, "/api/v1/order/cancel", nil, body, &resp); err != nil {
		return models.OrderResult{}, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return models.OrderResult{}, err
	}

	return resp.Result.toModel(), nil
}
