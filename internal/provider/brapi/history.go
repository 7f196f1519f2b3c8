package brapi

import (
	"context"
	"net/url"
	"time"

	"go.uber.org/zap"

	"stockprovider/internal/aggregate"
	"stockprovider/internal/provider"
	"stockprovider/internal/ticker"
)

// Ranges are the history periods Brapi understands.
var Ranges = map[string]struct{}{
	"1d": {}, "5d": {}, "1mo": {}, "3mo": {}, "6mo": {},
	"1y": {}, "2y": {}, "5y": {}, "10y": {}, "ytd": {}, "max": {},
}

// DefaultRange is used for unknown periods.
const DefaultRange = "1mo"

type historicalPrice struct {
	Date          *int64   `json:"date"`
	Open          *float64 `json:"open"`
	High          *float64 `json:"high"`
	Low           *float64 `json:"low"`
	Close         *float64 `json:"close"`
	Volume        *float64 `json:"volume"`
	AdjustedClose *float64 `json:"adjustedClose"`
	AdjClose      *float64 `json:"adjClose"`
}

// GetHistory retrieves daily bars of t over period at interval.
func (c *BrapiAPIClient) GetHistory(ctx context.Context, t, period, interval string) (provider.History, error) {
	normalized := ticker.Normalize(t)

	rng := period
	if _, ok := Ranges[rng]; !ok {
		rng = DefaultRange
	}
	params := url.Values{}
	params.Set("interval", interval)
	params.Set("range", rng)

	var body quoteResponse
	if err := c.get(ctx, "/quote/"+url.PathEscape(normalized), params, normalized, &body); err != nil {
		return provider.History{}, err
	}
	if len(body.Results) == 0 {
		c.logger.Warn("brapi returned no history results", zap.String("ticker", normalized))
		return provider.History{}, notFound(normalized, "history")
	}
	result := body.Results[0]

	bars := barsFromPrices(result.HistoricalDataPrice)
	if len(bars) == 0 {
		c.logger.Warn("brapi history empty", zap.String("ticker", normalized), zap.String("range", rng))
		return provider.History{}, notFound(normalized, "history")
	}

	h := provider.History{
		Success:          true,
		Ticker:           normalized,
		NormalizedTicker: normalized,
		Period:           period,
		Interval:         interval,
		Currency:         firstNonEmpty(result.Currency, "BRL"),
		Timestamp:        provider.Now(),
		Source:           Name,
	}
	aggregate.Apply(&h, bars)
	return h, nil
}

func barsFromPrices(prices []historicalPrice) []provider.Bar {
	bars := make([]provider.Bar, 0, len(prices))
	for _, p := range prices {
		// {"date": 1704205800, "open": 37.1, "high": 37.9, "low": 36.8,
		//  "close": 37.5, "volume": 41234500, "adjustedClose": 35.2}
		if p.Date == nil || *p.Date == 0 {
			continue
		}
		b := provider.Bar{
			Date:  time.Unix(*p.Date, 0).UTC().Format(time.DateOnly),
			Open:  provider.Round2(value(p.Open)),
			High:  provider.Round2(value(p.High)),
			Low:   provider.Round2(value(p.Low)),
			Close: provider.Round2(value(p.Close)),
		}
		switch {
		case p.AdjustedClose != nil:
			b.AdjClose = provider.Round2(*p.AdjustedClose)
		case p.AdjClose != nil:
			b.AdjClose = provider.Round2(*p.AdjClose)
		default:
			b.AdjClose = b.Close
		}
		if p.Volume != nil && *p.Volume != 0 {
			b.Volume = provider.Ptr(int64(*p.Volume))
		}
		bars = append(bars, b)
	}
	return bars
}

func value(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
