// Package stock is the entry point for quote, history, variation and search
// lookups. It decides which upstream source answers each ticker.
package stock

import (
    "context"
    "fmt"
    "strings"
    "time"

    "go.uber.org/zap"
    "golang.org/x/sync/singleflight"

    "stockprovider/internal/provider"
    "stockprovider/internal/search"
    "stockprovider/internal/telemetry"
    "stockprovider/internal/ticker"
)

// Source is an upstream quote provider.
type Source interface {
    Name() string
    GetQuote(ctx context.Context, t string) (provider.Quote, error)
    GetHistory(ctx context.Context, t, period, interval string) (provider.History, error)
}

// Searcher answers asset searches.
type Searcher interface {
    Search(ctx context.Context, query string, limit int, assetType string) provider.SearchResponse
}

// Defaults applied when callers leave arguments empty.
const (
    DefaultPeriod     = "1mo"
    DefaultInterval   = "1d"
    DefaultSearchType = search.TypeStock
)

// DefaultQuoteTimeout bounds a shared quote lookup once it no longer follows
// any single caller's context.
const DefaultQuoteTimeout = 30 * time.Second

// Service routes lookups to the primary source and, for tickers outside B3,
// to the secondary source when the primary fails.
type Service struct {
    primary   Source
    secondary Source
    searcher  Searcher
    logger    *zap.Logger
    quotes    singleflight.Group
    timeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithSecondary sets the fallback source for non-B3 tickers. nil disables it.
func WithSecondary(s Source) Option {
    return func(svc *Service) {
        svc.secondary = s
    }
}

// WithSearcher sets the asset searcher.
func WithSearcher(s Searcher) Option {
    return func(svc *Service) {
        svc.searcher = s
    }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
    return func(svc *Service) {
        if logger != nil {
            svc.logger = logger
        }
    }
}

// WithQuoteTimeout bounds each shared quote lookup.
func WithQuoteTimeout(d time.Duration) Option {
    return func(svc *Service) {
        if d > 0 {
            svc.timeout = d
        }
    }
}

// New returns a Service backed by primary.
func New(primary Source, options ...Option) *Service {
    svc := &Service{
        primary: primary,
        logger:  zap.NewNop(),
        timeout: DefaultQuoteTimeout,
    }
    for _, option := range options {
        option(svc)
    }
    if svc.searcher == nil {
        svc.searcher = search.New(nil, "", svc.logger)
    }
    return svc
}

// sources lists the sources to try for t, in order.
func (s *Service) sources(t string) []Source {
    if ticker.IsBrazilian(t) || s.secondary == nil {
        return []Source{s.primary}
    }
    return []Source{s.primary, s.secondary}
}

// Quote returns the current quote of t. Concurrent lookups of the same
// ticker share one upstream call. The shared call is detached from the
// callers' cancellation; each caller stops waiting when its own ctx ends.
func (s *Service) Quote(ctx context.Context, t string) (provider.Quote, error) {
    if strings.TrimSpace(t) == "" {
        return provider.Quote{}, &provider.Error{Message: "ticker is required"}
    }
    // PETR4 and PETR4.SA follow different source policies.
    key := strings.ToUpper(strings.TrimSpace(t))
    ch := s.quotes.DoChan(key, func() (any, error) {
        shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
        defer cancel()
        return try(s, t, func(src Source) (provider.Quote, error) {
            return src.GetQuote(shared, t)
        })
    })
    select {
    case <-ctx.Done():
        return provider.Quote{}, ctx.Err()
    case res := <-ch:
        if res.Err != nil {
            return provider.Quote{}, res.Err
        }
        return res.Val.(provider.Quote), nil
    }
}

// History returns bars of t over period at interval.
func (s *Service) History(ctx context.Context, t, period, interval string) (provider.History, error) {
    if strings.TrimSpace(t) == "" {
        return provider.History{}, &provider.Error{Message: "ticker is required"}
    }
    if period == "" {
        period = DefaultPeriod
    }
    if interval == "" {
        interval = DefaultInterval
    }
    return try(s, t, func(src Source) (provider.History, error) {
        return src.GetHistory(ctx, t, period, interval)
    })
}

// Variation returns the change of t between the first and last daily close
// of period. The display name comes from the quote when available.
func (s *Service) Variation(ctx context.Context, t, period string) (provider.Variation, error) {
    if period == "" {
        period = DefaultPeriod
    }
    h, err := s.History(ctx, t, period, DefaultInterval)
    if err != nil {
        return provider.Variation{}, err
    }

    name := t
    if q, err := s.Quote(ctx, t); err == nil && q.Name != "" {
        name = q.Name
    }
    currency := h.Currency
    if currency == "" {
        currency = "BRL"
    }
    return provider.Variation{
        Success:          true,
        Ticker:           t,
        NormalizedTicker: h.NormalizedTicker,
        Name:             name,
        Period:           period,
        StartPrice:       h.FirstClose,
        EndPrice:         h.LastClose,
        Change:           h.PeriodChange,
        ChangePercent:    h.PeriodChangePercent,
        Currency:         currency,
        Timestamp:        provider.Now(),
    }, nil
}

// Search looks up assets by ticker or name.
func (s *Service) Search(ctx context.Context, query string, limit int, assetType string) provider.SearchResponse {
    if assetType == "" {
        assetType = DefaultSearchType
    }
    return s.searcher.Search(ctx, query, limit, assetType)
}

// try calls fn on each source for t until one succeeds. When every source
// fails, a rate-limited error from the fallback wins; otherwise the primary
// error is returned since it names the main provider.
func try[T any](s *Service, t string, fn func(Source) (T, error)) (T, error) {
    var (
        zero     T
        firstErr error
    )
    for i, src := range s.sources(t) {
        v, err := fn(src)
        telemetry.ObserveProvider(src.Name(), err)
        if err == nil {
            return v, nil
        }
        s.logger.Info("source failed",
            zap.String("provider", src.Name()),
            zap.String("ticker", t),
            zap.Bool("rate_limited", provider.IsRateLimited(err)),
            zap.Error(err),
        )
        if i == 0 {
            firstErr = err
            continue
        }
        if provider.IsRateLimited(err) {
            return zero, err
        }
    }
    if firstErr == nil {
        firstErr = fmt.Errorf("no data for %s", t)
    }
    return zero, firstErr
}

// GetStockInfo returns the quote of t or a provider.Failure.
func (s *Service) GetStockInfo(ctx context.Context, t string) any {
    q, err := s.Quote(ctx, t)
    if err != nil {
        return provider.FailureFrom(err, t)
    }
    return q
}

// GetStockHistory returns the history of t or a provider.Failure.
func (s *Service) GetStockHistory(ctx context.Context, t, period, interval string) any {
    h, err := s.History(ctx, t, period, interval)
    if err != nil {
        return provider.FailureFrom(err, t)
    }
    return h
}

// GetStockVariation returns the variation of t or a provider.Failure.
func (s *Service) GetStockVariation(ctx context.Context, t, period string) any {
    v, err := s.Variation(ctx, t, period)
    if err != nil {
        return provider.FailureFrom(err, t)
    }
    return v
}

// SearchStocks returns matching assets. It never fails.
func (s *Service) SearchStocks(ctx context.Context, query string, limit int, assetType string) provider.SearchResponse {
    return s.Search(ctx, query, limit, assetType)
}
