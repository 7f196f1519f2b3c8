package brapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"stockprovider/internal/provider"
)

// errorBody is the JSON error envelope Brapi returns on non-200 responses.
type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// get performs a GET on path and decodes a 200 body into out.
// Any other outcome is returned as a *provider.Error for ticker.
func (c *BrapiAPIClient) get(ctx context.Context, path string, params url.Values, ticker string, out any) error {
	query := maps.Clone(c.query)
	for key, values := range params {
		for _, value := range values {
			query.Add(key, value)
		}
	}

	u := fmt.Sprintf("%s%s", c.baseURL, path)
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return &provider.Error{Ticker: ticker, Message: fmt.Sprintf("error fetching %s from Brapi: creating request: %v", ticker, err), Err: err}
	}
	req.Header = c.header.Clone()
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("brapi request failed", zap.String("ticker", ticker), zap.Error(err))
		return &provider.Error{Ticker: ticker, Message: fmt.Sprintf("error fetching %s from Brapi: %v", ticker, err), Err: err}
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusUnauthorized, http.StatusTooManyRequests:
		// Brapi answers 401 both for missing tokens and for exhausted quotas.
		c.logger.Warn("brapi rate limited", zap.String("ticker", ticker), zap.Int("status", res.StatusCode))
		return &provider.Error{
			Ticker:      ticker,
			Message:     fmt.Sprintf("Brapi rate limit reached for %s. Wait a few seconds and try again.", ticker),
			RateLimited: true,
		}

	default:
		c.logger.Warn("brapi unexpected status", zap.String("ticker", ticker), zap.Int("status", res.StatusCode))
		return &provider.Error{
			Ticker:  ticker,
			Message: fmt.Sprintf("error fetching %s from Brapi: %s", ticker, errorMessage(res)),
		}
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return &provider.Error{Ticker: ticker, Message: fmt.Sprintf("error fetching %s from Brapi: decoding response: %v", ticker, err), Err: err}
	}
	return nil
}

// errorMessage extracts the upstream message, defaulting to the status code.
func errorMessage(res *http.Response) string {
	b, _ := io.ReadAll(io.LimitReader(res.Body, 4<<10))
	var body errorBody
	if len(b) > 0 && json.Unmarshal(b, &body) == nil && strings.TrimSpace(body.Message) != "" {
		return body.Message
	}
	return fmt.Sprintf("HTTP %d", res.StatusCode)
}

func notFound(ticker, what string) error {
	return &provider.Error{Ticker: ticker, Message: fmt.Sprintf("%s not available for %s on Brapi. Check that the ticker is correct.", what, ticker)}
}
