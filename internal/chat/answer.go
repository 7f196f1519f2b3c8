package chat

import (
	"context"

	"stockprovider/internal/provider"
)

// Lookup is the subset of stock.Service that Answer needs.
type Lookup interface {
	Quote(ctx context.Context, t string) (provider.Quote, error)
	History(ctx context.Context, t, period, interval string) (provider.History, error)
	Variation(ctx context.Context, t, period string) (provider.Variation, error)
}

// Answer performs the lookup r asks for and summarizes it. It returns an
// empty string when r names no ticker.
func Answer(ctx context.Context, l Lookup, r Request) (string, error) {
	if !r.IsStockRequest || r.Ticker == "" {
		return "", nil
	}
	period := r.Period
	if period == "" {
		period = "1mo"
	}

	switch r.Action {
	case ActionVariation:
		v, err := l.Variation(ctx, r.Ticker, period)
		if err != nil {
			return "", err
		}
		return SummarizeVariation(v), nil
	case ActionHistory:
		h, err := l.History(ctx, r.Ticker, period, "1d")
		if err != nil {
			return "", err
		}
		return SummarizeHistory(h), nil
	default:
		q, err := l.Quote(ctx, r.Ticker)
		if err != nil {
			return "", err
		}
		return SummarizeQuote(q), nil
	}
}
