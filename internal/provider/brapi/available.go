package brapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"stockprovider/internal/provider"
	"stockprovider/internal/ticker"
)

// Brapi asset type filters for /v2/available.
const (
	typeStocks = "stocks"
	typeFunds  = "real-estate-investment-funds"
)

type availableResponse struct {
	Stocks []json.RawMessage `json:"stocks"`
}

type availableEntry struct {
	Stock    string `json:"stock"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	LongName string `json:"longName"`
	Exchange string `json:"exchange"`
}

// Available searches the assets Brapi lists. assetType is "stock", "fii" or
// "all". Entries may be bare ticker strings or objects; both are accepted.
func (c *BrapiAPIClient) Available(ctx context.Context, query string, limit int, assetType string) ([]provider.SearchResult, error) {
	params := url.Values{}
	params.Set("search", query)
	params.Set("limit", strconv.Itoa(limit))
	switch assetType {
	case string(provider.AssetFII):
		params.Set("type", typeFunds)
	case string(provider.AssetStock):
		params.Set("type", typeStocks)
	}

	var body availableResponse
	if err := c.get(ctx, "/v2/available", params, query, &body); err != nil {
		return nil, err
	}

	results := make([]provider.SearchResult, 0, len(body.Stocks))
	for _, raw := range body.Stocks {
		if limit > 0 && len(results) >= limit {
			break
		}
		r, err := decodeAvailable(raw)
		if err != nil {
			return nil, fmt.Errorf("decoding available entry: %w", err)
		}
		if r.Ticker == "" {
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func decodeAvailable(raw json.RawMessage) (provider.SearchResult, error) {
	// "PETR4" or {"stock": "PETR4", "name": "Petrobras", "exchange": "B3"}
	var tk string
	var e availableEntry
	if err := json.Unmarshal(raw, &tk); err != nil {
		if err := json.Unmarshal(raw, &e); err != nil {
			return provider.SearchResult{}, err
		}
		tk = firstNonEmpty(e.Stock, e.Symbol)
	}
	tk = strings.ToUpper(strings.TrimSpace(tk))
	return provider.SearchResult{
		Ticker: tk,
		Name:   firstNonEmpty(e.Name, e.LongName, tk),
		Market: firstNonEmpty(e.Exchange, ticker.MarketB3),
		Type:   ticker.Classify(tk),
	}, nil
}
