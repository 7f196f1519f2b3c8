package brapi

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"stockprovider/internal/provider"
	"stockprovider/internal/ticker"
)

// quoteResponse is the body of GET /quote/{ticker}.
type quoteResponse struct {
	Results []quoteResult `json:"results"`
}

type quoteResult struct {
	Symbol                     string            `json:"symbol"`
	ShortName                  string            `json:"shortName"`
	LongName                   string            `json:"longName"`
	Currency                   string            `json:"currency"`
	RegularMarketPrice         *float64          `json:"regularMarketPrice"`
	RegularMarketChange        *float64          `json:"regularMarketChange"`
	RegularMarketChangePercent *float64          `json:"regularMarketChangePercent"`
	RegularMarketDayHigh       *float64          `json:"regularMarketDayHigh"`
	RegularMarketDayLow        *float64          `json:"regularMarketDayLow"`
	RegularMarketVolume        *float64          `json:"regularMarketVolume"`
	MarketCap                  *float64          `json:"marketCap"`
	Sector                     *string           `json:"sector"`
	Industry                   *string           `json:"industry"`
	HistoricalDataPrice        []historicalPrice `json:"historicalDataPrice"`
}

// GetQuote retrieves the current quote of t.
func (c *BrapiAPIClient) GetQuote(ctx context.Context, t string) (provider.Quote, error) {
	normalized := ticker.Normalize(t)

	var body quoteResponse
	if err := c.get(ctx, "/quote/"+url.PathEscape(normalized), nil, normalized, &body); err != nil {
		return provider.Quote{}, err
	}
	if len(body.Results) == 0 {
		c.logger.Warn("brapi returned no results", zap.String("ticker", normalized))
		return provider.Quote{}, notFound(normalized, "quote")
	}
	return quoteFromResult(normalized, body.Results[0]), nil
}

func quoteFromResult(normalized string, r quoteResult) provider.Quote {
	// {
	//   "symbol": "PETR4",
	//   "longName": "Petróleo Brasileiro S.A. - Petrobras",
	//   "regularMarketPrice": 38.45,
	//   "regularMarketChange": 0.32,
	//   "regularMarketChangePercent": 0.84,
	//   "currency": "BRL",
	//   ...
	// }
	q := provider.Quote{
		Success:          true,
		Ticker:           normalized,
		NormalizedTicker: normalized,
		Symbol:           firstNonEmpty(r.Symbol, normalized),
		Name:             firstNonEmpty(r.LongName, r.ShortName, normalized),
		Currency:         firstNonEmpty(r.Currency, "BRL"),
		Market:           ticker.Market(normalized),
		Sector:           nonEmpty(r.Sector),
		Industry:         nonEmpty(r.Industry),
		Timestamp:        provider.Now(),
		Source:           Name,
	}

	var change float64
	if r.RegularMarketChange != nil {
		change = *r.RegularMarketChange
	}
	q.Change = provider.Round2(change)
	if r.RegularMarketChangePercent != nil {
		q.ChangePercent = provider.Round2(*r.RegularMarketChangePercent)
	}

	q.CurrentPrice = provider.Round2Ptr(r.RegularMarketPrice)
	if r.RegularMarketPrice != nil && *r.RegularMarketPrice != 0 {
		prev := *r.RegularMarketPrice - change
		q.PreviousClose = provider.Round2Ptr(&prev)
	}
	q.DayHigh = provider.Round2Ptr(r.RegularMarketDayHigh)
	q.DayLow = provider.Round2Ptr(r.RegularMarketDayLow)
	if r.RegularMarketVolume != nil && *r.RegularMarketVolume != 0 {
		q.Volume = provider.Ptr(int64(*r.RegularMarketVolume))
	}
	if r.MarketCap != nil && *r.MarketCap != 0 {
		q.MarketCap = provider.Ptr(strconv.FormatFloat(*r.MarketCap, 'f', -1, 64))
	}
	return q
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
