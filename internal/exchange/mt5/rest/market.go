package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/exchange"
	"github.com/fdjrr/mt5-livetrade/internal/models"
)

func (c *Client) GetPriceHistory(ctx context.Context, symbol, timeframe string, count int) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("timeframe", timeframe)
	params.Set("count", strconv.Itoa(count))

	var resp bridgeResponse[struct {
		Bars []struct {
			Time   int64   `json:"time"`
			Open   float64 `json:"open"`
			High   float64 `json:"high"`
			Low    float64 `json:"low"`
			Close  float64 `json:"close"`
			Volume float64 `json:"tick_volume"`
		} `json:"bars"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/rates", params, nil, &resp); err != nil {
		return nil, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return nil, err
	}

	if len(resp.Result.Bars) < count {
		return nil, fmt.Errorf("%w: wanted %d bars for %s, got %d", exchange.ErrDataUnavailable, count, symbol, len(resp.Result.Bars))
	}

	bars := make([]models.PriceBar, 0, len(resp.Result.Bars))
	for _, item := range resp.Result.Bars {
		bars = append(bars, models.PriceBar{
			Time:   time.Unix(item.Time, 0),
			Open:   item.Open,
			High:   item.High,
			Low:    item.Low,
			Close:  item.Close,
			Volume: item.Volume,
		})
	}
	return bars, nil
}

func (c *Client) GetTick(ctx context.Context, symbol string) (models.Tick, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp bridgeResponse[struct {
		Bid  float64 `json:"bid"`
		Ask  float64 `json:"ask"`
		Time int64   `json:"time_msc"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/tick", params, nil, &resp); err != nil {
		return models.Tick{}, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return models.Tick{}, err
	}

	return models.Tick{
		Symbol: symbol,
		Bid:    resp.Result.Bid,
		Ask:    resp.Result.Ask,
		Time:   time.UnixMilli(resp.Result.Time),
	}, nil
}

func (c *Client) GetInstrumentInfo(ctx context.Context, symbol string) (exchange.InstrumentInfo, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	var resp bridgeResponse[struct {
		Name        string  `json:"name"`
		TickValue   float64 `json:"trade_tick_value"`
		TickSize    float64 `json:"trade_tick_size"`
		Digits      int     `json:"digits"`
		Description string  `json:"description"`
	}]

	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/symbol", params, nil, &resp); err != nil {
		return exchange.InstrumentInfo{}, err
	}
	if err := checkRet(resp.RetCode, resp.RetMsg); err != nil {
		return exchange.InstrumentInfo{}, err
	}

	return exchange.InstrumentInfo{
		Symbol:      resp.Result.Name,
		TickValue:   resp.Result.TickValue,
		TickSize:    resp.Result.TickSize,
		Digits:      resp.Result.Digits,
		Description: resp.Result.Description,
	}, nil
}
