// Package yahoo is the secondary quote source. It reads Yahoo Finance
// through a Source and reshapes the rows into the canonical records.
package yahoo

import (
	"context"
	"time"
)

// Info is the descriptive part of a Yahoo quote.
type Info struct {
	Symbol    string
	Name      string
	Currency  string
	Sector    string
	Industry  string
	MarketCap int64
}

// Row is one OHLCV bar.
type Row struct {
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	AdjClose float64
	Volume   int64
}

// Source is the Yahoo Finance surface the client needs.
//
//go:generate mockgen -package=yahoo_test -destination=mock_source_test.go -source=source.go Source
type Source interface {
	// Info returns descriptive data for symbol.
	Info(ctx context.Context, symbol string) (Info, error)
	// History returns bars for symbol over a named period such as "5d".
	History(ctx context.Context, symbol, period, interval string) ([]Row, error)
	// Download returns daily bars for symbol between start and end.
	Download(ctx context.Context, symbol string, start, end time.Time) ([]Row, error)
}

// Span returns the calendar window a named period covers, ending at now.
// Unknown periods span one month.
func Span(period string, now time.Time) (time.Time, time.Time) {
	switch period {
	case "1d":
		return now.AddDate(0, 0, -1), now
	case "5d":
		return now.AddDate(0, 0, -7), now
	case "3mo":
		return now.AddDate(0, -3, 0), now
	case "6mo":
		return now.AddDate(0, -6, 0), now
	case "1y":
		return now.AddDate(-1, 0, 0), now
	case "2y":
		return now.AddDate(-2, 0, 0), now
	case "5y":
		return now.AddDate(-5, 0, 0), now
	case "10y":
		return now.AddDate(-10, 0, 0), now
	case "ytd":
		return time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location()), now
	case "max":
		return time.Unix(0, 0).UTC(), now
	default:
		return now.AddDate(0, -1, 0), now
	}
}
