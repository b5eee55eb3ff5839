package rest

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fdjrr/mt5-livetrade/internal/exchange"
)

type bridgeResponse[T any] struct {
	RetCode int    `json:"ret_code"`
	RetMsg  string `json:"ret_msg"`
	Result  T      `json:"result"`
	Time    int64  `json:"time"`
}

func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var bodyReader io.Reader
	var bodyStr string
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("could not encode request body: %w", err)
		}
		bodyStr = string(payload)
		bodyReader = bytes.NewReader(payload)
	}

	urlStr := c.baseURL + path
	if len(params) > 0 {
		urlStr += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, bodyReader)
	if err != nil {
		return fmt.Errorf("could not build request: %w", err)
	}

	if c.apiKey != "" {
		timestamp := strconv.FormatInt(time.Now().UnixMilli(), 10)
		query := ""
		if method == http.MethodGet && len(params) > 0 {
			query = params.Encode()
		}

		signature := sign(c.secret, timestamp+c.apiKey+query+bodyStr)
		req.Header.Set("X-MT5-API-KEY", c.apiKey)
		req.Header.Set("X-MT5-SIGN", signature)
		req.Header.Set("X-MT5-TIMESTAMP", timestamp)
	}

	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", exchange.ErrConnectivity, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: could not read response: %v", exchange.ErrConnectivity, err)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: bridge returned %s", exchange.ErrConnectivity, resp.Status)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("could not decode response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("bridge request failed: %s", resp.Status)
	}

	return nil
}

func sign(secret, payload string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func checkRet(retCode int, retMsg string) error {
	if retCode != 0 {
		return fmt.Errorf("bridge error: %s (code=%d)", retMsg, retCode)
	}
	return nil
}
