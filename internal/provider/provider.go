package provider

import (
    "errors"
    "time"

    "github.com/shopspring/decimal"
)

// Quote is the normalized shape returned by every quote source.
// Nullable numbers are pointers so missing upstream fields encode as null.
type Quote struct {
    Success          bool     `json:"success"`
    Ticker           string   `json:"ticker"`
    NormalizedTicker string   `json:"normalized_ticker"`
    Symbol           string   `json:"symbol"`
    Name             string   `json:"name"`
    CurrentPrice     *float64 `json:"current_price"`
    PreviousClose    *float64 `json:"previous_close"`
    Change           float64  `json:"change"`
    ChangePercent    float64  `json:"change_percent"`
    DayHigh          *float64 `json:"day_high"`
    DayLow           *float64 `json:"day_low"`
    Volume           *int64   `json:"volume"`
    Currency         string   `json:"currency"`
    Market           string   `json:"market"`
    Sector           *string  `json:"sector"`
    Industry         *string  `json:"industry"`
    MarketCap        *string  `json:"market_cap"`
    Timestamp        string   `json:"timestamp"`
    Source           string   `json:"source"`
}

// Bar is a single daily (or interval) price bar.
type Bar struct {
    Date     string  `json:"date"`
    Open     float64 `json:"open"`
    High     float64 `json:"high"`
    Low      float64 `json:"low"`
    Close    float64 `json:"close"`
    Volume   *int64  `json:"volume"`
    AdjClose float64 `json:"adj_close"`
}

// History is a price series plus its aggregate stats.
type History struct {
    Success             bool     `json:"success"`
    Ticker              string   `json:"ticker"`
    NormalizedTicker    string   `json:"normalized_ticker"`
    Period              string   `json:"period"`
    Interval            string   `json:"interval"`
    DataPoints          int      `json:"data_points"`
    FirstDate           *string  `json:"first_date"`
    LastDate            *string  `json:"last_date"`
    FirstClose          *float64 `json:"first_close"`
    LastClose           *float64 `json:"last_close"`
    PeriodChange        float64  `json:"period_change"`
    PeriodChangePercent float64  `json:"period_change_percent"`
    HighPrice           *float64 `json:"high_price"`
    LowPrice            *float64 `json:"low_price"`
    AvgPrice            *float64 `json:"avg_price"`
    History             []Bar    `json:"history"`
    Currency            string   `json:"currency"`
    Timestamp           string   `json:"timestamp"`
    Source              string   `json:"source"`
}

// Variation is the start/end change of a ticker over a period.
type Variation struct {
    Success          bool     `json:"success"`
    Ticker           string   `json:"ticker"`
    NormalizedTicker string   `json:"normalized_ticker"`
    Name             string   `json:"name"`
    Period           string   `json:"period"`
    StartPrice       *float64 `json:"start_price"`
    EndPrice         *float64 `json:"end_price"`
    Change           float64  `json:"change"`
    ChangePercent    float64  `json:"change_percent"`
    Currency         string   `json:"currency"`
    Timestamp        string   `json:"timestamp"`
}

// AssetType classifies a search result.
type AssetType string

const (
    AssetStock   AssetType = "stock"
    AssetFII     AssetType = "fii"
    AssetUnknown AssetType = "unknown"
)

type SearchResult struct {
    Ticker string    `json:"ticker"`
    Name   string    `json:"name"`
    Market string    `json:"market"`
    Type   AssetType `json:"type"`
}

type SearchResponse struct {
    Success bool           `json:"success"`
    Query   string         `json:"query"`
    Results []SearchResult `json:"results"`
    Count   int            `json:"count"`
    Source  string         `json:"source"`
}

// Error is a provider failure tied to a ticker.
// RateLimited is set when the upstream answered 401/429 or equivalent.
type Error struct {
    Ticker      string
    Message     string
    RateLimited bool
    Err         error
}

func (e *Error) Error() string {
    if e.Message != "" {
        return e.Message
    }
    if e.Err != nil {
        return e.Err.Error()
    }
    return "provider error"
}

func (e *Error) Unwrap() error { return e.Err }

// IsRateLimited reports whether err carries a rate-limited provider error.
func IsRateLimited(err error) bool {
    var pe *Error
    return errors.As(err, &pe) && pe.RateLimited
}

// Failure is the uniform error payload. Error is never empty.
type Failure struct {
    Success     bool   `json:"success"`
    Error       string `json:"error"`
    Ticker      string `json:"ticker,omitempty"`
    RateLimited bool   `json:"rate_limited,omitempty"`
}

// FailureFrom converts err into a Failure for ticker.
func FailureFrom(err error, ticker string) Failure {
    f := Failure{Ticker: ticker}
    if err == nil {
        f.Error = "unknown error"
        return f
    }
    f.Error = err.Error()
    if f.Error == "" {
        f.Error = "unknown error"
    }
    var pe *Error
    if errors.As(err, &pe) {
        f.RateLimited = pe.RateLimited
        if pe.Ticker != "" {
            f.Ticker = pe.Ticker
        }
    }
    return f
}

// Round2 rounds v to two decimal places, half away from zero.
func Round2(v float64) float64 {
    return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// Round2Ptr rounds v to two decimals; nil or zero yields nil.
func Round2Ptr(v *float64) *float64 {
    if v == nil || *v == 0 {
        return nil
    }
    r := Round2(*v)
    return &r
}

// Now returns the timestamp format used on every record.
func Now() string { return time.Now().Format(time.RFC3339Nano) }

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }
