package yahoo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockprovider/internal/aggregate"
	"stockprovider/internal/pacing"
	"stockprovider/internal/provider"
	"stockprovider/internal/ticker"
)

// Name is the source tag put on records built from Yahoo data.
const Name = "yahoo"

// ProbePeriods are tried in order until one yields bars.
var ProbePeriods = []string{"5d", "1d", "1mo", "3mo"}

const (
	defaultProbeDelay    = 500 * time.Millisecond
	defaultDownloadDelay = time.Second
	downloadDays         = 30
)

// Client builds quotes and histories out of a Source.
type Client struct {
	source        Source
	probeDelay    time.Duration
	downloadDelay time.Duration
	logger        *zap.Logger
	now           func() time.Time
}

// ClientOption is a configuration option for the Yahoo client.
type ClientOption func(*Client)

// WithProbeDelay sets the pause before each history probe.
func WithProbeDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.probeDelay = d
	}
}

// WithDownloadDelay sets the pause before the CSV download fallback.
func WithDownloadDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.downloadDelay = d
	}
}

// WithLogger sets the logger used for probe failures.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the clock used for download windows.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a Yahoo client reading from source.
func NewClient(source Source, options ...ClientOption) *Client {
	c := &Client{
		source:        source,
		probeDelay:    defaultProbeDelay,
		downloadDelay: defaultDownloadDelay,
		logger:        zap.NewNop(),
		now:           time.Now,
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Name returns the source tag of the client.
func (c *Client) Name() string { return Name }

// GetQuote retrieves the latest quote of t. Prices come from the most recent
// daily bars since the info endpoint is the first to be throttled.
func (c *Client) GetQuote(ctx context.Context, t string) (provider.Quote, error) {
	symbol := ticker.ToYahoo(t)

	info, err := c.source.Info(ctx, symbol)
	if err != nil {
		if isRateLimited(err) {
			return provider.Quote{}, rateLimited(symbol, err)
		}
		c.logger.Debug("yahoo info unavailable", zap.String("ticker", symbol), zap.Error(err))
		info = Info{}
	}

	rows, err := c.recentRows(ctx, symbol)
	if err != nil {
		return provider.Quote{}, err
	}
	if len(rows) == 0 {
		return provider.Quote{}, notFound(symbol, "quote")
	}
	return quoteFromRows(t, symbol, info, rows), nil
}

// recentRows probes the history periods and then the CSV download.
func (c *Client) recentRows(ctx context.Context, symbol string) ([]Row, error) {
	for _, period := range ProbePeriods {
		if err := pacing.Sleep(ctx, c.probeDelay); err != nil {
			return nil, err
		}
		rows, err := c.source.History(ctx, symbol, period, "1d")
		if err != nil {
			if isRateLimited(err) {
				return nil, rateLimited(symbol, err)
			}
			c.logger.Debug("yahoo history probe failed", zap.String("ticker", symbol), zap.String("period", period), zap.Error(err))
			continue
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}

	if err := pacing.Sleep(ctx, c.downloadDelay); err != nil {
		return nil, err
	}
	end := c.now()
	rows, err := c.source.Download(ctx, symbol, end.AddDate(0, 0, -downloadDays), end)
	if err != nil {
		if isRateLimited(err) {
			return nil, rateLimited(symbol, err)
		}
		c.logger.Warn("yahoo download failed", zap.String("ticker", symbol), zap.Error(err))
		return nil, nil
	}
	return rows, nil
}

func quoteFromRows(input, symbol string, info Info, rows []Row) provider.Quote {
	last := rows[len(rows)-1]
	current := last.Close
	previous := current
	if len(rows) > 1 {
		previous = rows[len(rows)-2].Close
	}
	var change, changePercent float64
	if previous != 0 {
		change = current - previous
		changePercent = change / previous * 100
	}

	brazilian := strings.HasSuffix(symbol, ".SA")
	currency := "USD"
	market := ticker.MarketUS
	if brazilian {
		currency = "BRL"
		market = ticker.MarketB3
	}

	q := provider.Quote{
		Success:          true,
		Ticker:           input,
		NormalizedTicker: symbol,
		Symbol:           firstNonEmpty(info.Symbol, symbol),
		Name:             firstNonEmpty(info.Name, input),
		CurrentPrice:     provider.Round2Ptr(&current),
		PreviousClose:    provider.Round2Ptr(&previous),
		Change:           provider.Round2(change),
		ChangePercent:    provider.Round2(changePercent),
		DayHigh:          provider.Round2Ptr(&last.High),
		DayLow:           provider.Round2Ptr(&last.Low),
		Volume:           provider.Ptr(last.Volume),
		Currency:         firstNonEmpty(info.Currency, currency),
		Market:           market,
		Timestamp:        provider.Now(),
		Source:           Name,
	}
	if info.Sector != "" {
		q.Sector = provider.Ptr(info.Sector)
	}
	if info.Industry != "" {
		q.Industry = provider.Ptr(info.Industry)
	}
	if info.MarketCap != 0 {
		q.MarketCap = provider.Ptr(strconv.FormatInt(info.MarketCap, 10))
	}
	return q
}

// GetHistory retrieves bars of t over period at interval, falling back to the
// CSV download over the same calendar span.
func (c *Client) GetHistory(ctx context.Context, t, period, interval string) (provider.History, error) {
	symbol := ticker.ToYahoo(t)

	rows, err := c.source.History(ctx, symbol, period, interval)
	if err != nil && isRateLimited(err) {
		return provider.History{}, rateLimited(symbol, err)
	}
	if len(rows) == 0 {
		if err != nil {
			c.logger.Debug("yahoo history failed", zap.String("ticker", symbol), zap.String("period", period), zap.Error(err))
		}
		if err := pacing.Sleep(ctx, c.downloadDelay); err != nil {
			return provider.History{}, err
		}
		start, end := Span(period, c.now())
		rows, err = c.source.Download(ctx, symbol, start, end)
		if err != nil {
			if isRateLimited(err) {
				return provider.History{}, rateLimited(symbol, err)
			}
			c.logger.Warn("yahoo download failed", zap.String("ticker", symbol), zap.Error(err))
		}
	}
	if len(rows) == 0 {
		return provider.History{}, notFound(symbol, "history")
	}

	currency := "USD"
	if strings.HasSuffix(symbol, ".SA") {
		currency = "BRL"
	}
	h := provider.History{
		Success:          true,
		Ticker:           t,
		NormalizedTicker: symbol,
		Period:           period,
		Interval:         interval,
		Currency:         currency,
		Timestamp:        provider.Now(),
		Source:           Name,
	}
	aggregate.Apply(&h, barsFromRows(rows))
	return h, nil
}

func barsFromRows(rows []Row) []provider.Bar {
	bars := make([]provider.Bar, 0, len(rows))
	for _, r := range rows {
		b := provider.Bar{
			Date:     r.Time.UTC().Format(time.DateOnly),
			Open:     provider.Round2(r.Open),
			High:     provider.Round2(r.High),
			Low:      provider.Round2(r.Low),
			Close:    provider.Round2(r.Close),
			AdjClose: provider.Round2(r.AdjClose),
		}
		if r.AdjClose == 0 {
			b.AdjClose = b.Close
		}
		if r.Volume != 0 {
			b.Volume = provider.Ptr(r.Volume)
		}
		bars = append(bars, b)
	}
	return bars
}

// isRateLimited recognizes throttling in upstream error text; finance-go does
// not expose status codes.
func isRateLimited(err error) bool {
	if err == nil {
		return false
	}
	if provider.IsRateLimited(err) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "too many requests") ||
		strings.Contains(msg, "rate limit")
}

func rateLimited(symbol string, err error) error {
	return &provider.Error{
		Ticker:      symbol,
		Message:     fmt.Sprintf("Yahoo Finance rate limit reached for %s. Wait a few seconds and try again.", symbol),
		RateLimited: true,
		Err:         err,
	}
}

func notFound(symbol, what string) error {
	return &provider.Error{Ticker: symbol, Message: fmt.Sprintf("%s not available for %s on Yahoo Finance. Check that the ticker is correct.", what, symbol)}
}
