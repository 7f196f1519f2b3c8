package stock_test

import (
    "context"
    "errors"
    "sync"
    "sync/atomic"
    "testing"
    "time"

    "github.com/stretchr/testify/require"
    "go.uber.org/zap/zaptest"

    "stockprovider/internal/provider"
    "stockprovider/internal/stock"
)

type fakeSource struct {
    name    string
    quote   provider.Quote
    history provider.History
    err     error
    calls   atomic.Int32
    block   chan struct{}
    mu      sync.Mutex
    periods []string
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) GetQuote(ctx context.Context, t string) (provider.Quote, error) {
    f.calls.Add(1)
    if f.block != nil {
        select {
        case <-f.block:
        case <-ctx.Done():
            return provider.Quote{}, ctx.Err()
        }
    }
    if f.err != nil {
        return provider.Quote{}, f.err
    }
    q := f.quote
    q.Ticker = t
    return q, nil
}

func (f *fakeSource) GetHistory(_ context.Context, t, period, interval string) (provider.History, error) {
    f.calls.Add(1)
    f.mu.Lock()
    f.periods = append(f.periods, period+"/"+interval)
    f.mu.Unlock()
    if f.err != nil {
        return provider.History{}, f.err
    }
    h := f.history
    h.Ticker = t
    return h, nil
}

var errNotFound = &provider.Error{Message: "quote not available"}

func TestQuote_BrazilianUsesOnlyPrimary(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", err: errNotFound}
    secondary := &fakeSource{name: "yahoo", quote: provider.Quote{Success: true}}
    svc := stock.New(primary, stock.WithSecondary(secondary), stock.WithLogger(zaptest.NewLogger(t)))

    res := svc.GetStockInfo(t.Context(), "PETR4")

    f, ok := res.(provider.Failure)
    require.True(t, ok)
    require.False(t, f.Success)
    require.Equal(t, "quote not available", f.Error)
    require.Equal(t, "PETR4", f.Ticker)
    require.EqualValues(t, 1, primary.calls.Load())
    require.Zero(t, secondary.calls.Load())
}

func TestQuote_ForeignFallsBackToSecondary(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", err: errNotFound}
    secondary := &fakeSource{name: "yahoo", quote: provider.Quote{Success: true, Name: "Apple Inc.", Source: "yahoo"}}
    svc := stock.New(primary, stock.WithSecondary(secondary))

    res := svc.GetStockInfo(t.Context(), "AAPL")

    q, ok := res.(provider.Quote)
    require.True(t, ok)
    require.Equal(t, "yahoo", q.Source)
    require.EqualValues(t, 1, primary.calls.Load())
    require.EqualValues(t, 1, secondary.calls.Load())
}

func TestQuote_ForeignWithoutSecondary(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", err: errNotFound}
    svc := stock.New(primary)

    _, err := svc.Quote(t.Context(), "AAPL")
    require.ErrorIs(t, err, errNotFound)
}

func TestQuote_RateLimitedPreserved(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", err: &provider.Error{Ticker: "VALE3", Message: "Brapi rate limit reached for VALE3.", RateLimited: true}}
    svc := stock.New(primary)

    f, ok := svc.GetStockInfo(t.Context(), "VALE3").(provider.Failure)
    require.True(t, ok)
    require.True(t, f.RateLimited)
    require.NotEmpty(t, f.Error)
}

func TestQuote_FallbackRateLimitWins(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", err: errNotFound}
    secondary := &fakeSource{name: "yahoo", err: &provider.Error{Message: "Yahoo Finance rate limit reached", RateLimited: true}}
    svc := stock.New(primary, stock.WithSecondary(secondary))

    _, err := svc.Quote(t.Context(), "MSFT")
    require.True(t, provider.IsRateLimited(err))

    secondary.err = errors.New("not found either")
    _, err = svc.Quote(t.Context(), "MSFT")
    require.ErrorIs(t, err, errNotFound)
}

func TestQuote_EmptyTicker(t *testing.T) {
    t.Parallel()

    svc := stock.New(&fakeSource{name: "brapi"})
    f, ok := svc.GetStockInfo(t.Context(), "").(provider.Failure)
    require.True(t, ok)
    require.NotEmpty(t, f.Error)
}

func TestQuote_CoalescesConcurrentLookups(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", quote: provider.Quote{Success: true}, block: make(chan struct{})}
    svc := stock.New(primary)

    var wg sync.WaitGroup
    for range 5 {
        wg.Add(1)
        go func() {
            defer wg.Done()
            _, err := svc.Quote(t.Context(), "PETR4")
            require.NoError(t, err)
        }()
    }
    // Let the callers pile up on the in-flight lookup, then release it.
    require.Eventually(t, func() bool { return primary.calls.Load() == 1 }, time.Second, time.Millisecond)
    close(primary.block)
    wg.Wait()
    require.LessOrEqual(t, primary.calls.Load(), int32(5))
    require.GreaterOrEqual(t, primary.calls.Load(), int32(1))
}

func TestQuote_CanceledCallerDoesNotFailOthers(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", quote: provider.Quote{Success: true}, block: make(chan struct{})}
    svc := stock.New(primary)

    ctxA, cancelA := context.WithCancel(t.Context())
    errA := make(chan error, 1)
    go func() {
        _, err := svc.Quote(ctxA, "PETR4")
        errA <- err
    }()
    require.Eventually(t, func() bool { return primary.calls.Load() == 1 }, time.Second, time.Millisecond)

    type result struct {
        q   provider.Quote
        err error
    }
    resB := make(chan result, 1)
    go func() {
        q, err := svc.Quote(context.Background(), "PETR4")
        resB <- result{q, err}
    }()

    cancelA()
    require.ErrorIs(t, <-errA, context.Canceled)

    close(primary.block)
    b := <-resB
    require.NoError(t, b.err)
    require.True(t, b.q.Success)
    require.Equal(t, "PETR4", b.q.Ticker)
}

func TestQuote_SuffixedTickerIsNotCoalesced(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", quote: provider.Quote{Success: true}, block: make(chan struct{})}
    svc := stock.New(primary)

    tickers := make(chan string, 2)
    for _, in := range []string{"PETR4", "PETR4.SA"} {
        go func() {
            q, err := svc.Quote(t.Context(), in)
            require.NoError(t, err)
            tickers <- q.Ticker
        }()
    }
    require.Eventually(t, func() bool { return primary.calls.Load() == 2 }, time.Second, time.Millisecond)
    close(primary.block)
    require.ElementsMatch(t, []string{"PETR4", "PETR4.SA"}, []string{<-tickers, <-tickers})
}

func TestQuote_BlankTicker(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi"}
    svc := stock.New(primary)

    _, err := svc.Quote(t.Context(), "   ")
    require.Error(t, err)
    _, err = svc.History(t.Context(), " \t", "", "")
    require.Error(t, err)
    require.Zero(t, primary.calls.Load())
}

func TestHistory_Defaults(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{name: "brapi", history: provider.History{Success: true}}
    svc := stock.New(primary)

    res := svc.GetStockHistory(t.Context(), "PETR4", "", "")
    h, ok := res.(provider.History)
    require.True(t, ok)
    require.True(t, h.Success)
    require.Equal(t, []string{"1mo/1d"}, primary.periods)
}

func TestVariation(t *testing.T) {
    t.Parallel()

    primary := &fakeSource{
        name:  "brapi",
        quote: provider.Quote{Success: true, Name: "Petrobras"},
        history: provider.History{
            Success:             true,
            NormalizedTicker:    "PETR4",
            FirstClose:          provider.Ptr(37.5),
            LastClose:           provider.Ptr(39.0),
            PeriodChange:        1.5,
            PeriodChangePercent: 4.0,
        },
    }
    svc := stock.New(primary)

    res := svc.GetStockVariation(t.Context(), "PETR4", "3mo")
    v, ok := res.(provider.Variation)
    require.True(t, ok)
    require.Equal(t, "Petrobras", v.Name)
    require.Equal(t, "3mo", v.Period)
    require.InEpsilon(t, 37.5, *v.StartPrice, 0.0001)
    require.InEpsilon(t, 39.0, *v.EndPrice, 0.0001)
    require.InEpsilon(t, 1.5, v.Change, 0.0001)
    require.Equal(t, "BRL", v.Currency)
    require.Equal(t, []string{"3mo/1d"}, primary.periods)
}

func TestVariation_HistoryFailure(t *testing.T) {
    t.Parallel()

    svc := stock.New(&fakeSource{name: "brapi", err: errNotFound})

    f, ok := svc.GetStockVariation(t.Context(), "PETR4", "").(provider.Failure)
    require.True(t, ok)
    require.Equal(t, "quote not available", f.Error)
}

func TestSearchStocks_LocalWithoutRemote(t *testing.T) {
    t.Parallel()

    svc := stock.New(&fakeSource{name: "brapi"})
    res := svc.SearchStocks(t.Context(), "petr4", 10, "")
    require.True(t, res.Success)
    require.Equal(t, "local", res.Source)
    require.Equal(t, "PETR4", res.Results[0].Ticker)
}
