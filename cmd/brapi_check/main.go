// Command brapi_check queries Brapi for a few tickers one at a time and
// prints what worked. It exits 1 when every ticker fails.
package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "io"
    "os"
    "strings"
    "time"

    "go.uber.org/zap"

    "stockprovider/internal/config"
    "stockprovider/internal/httpx"
    "stockprovider/internal/logger"
    "stockprovider/internal/pacing"
    "stockprovider/internal/provider"
    "stockprovider/internal/provider/brapi"
)

// checker is the part of the Brapi client exercised by the check.
type checker interface {
    GetQuote(ctx context.Context, t string) (provider.Quote, error)
    GetHistory(ctx context.Context, t, period, interval string) (provider.History, error)
    Available(ctx context.Context, query string, limit int, assetType string) ([]provider.SearchResult, error)
}

type report struct {
    Ticker        string   `json:"ticker"`
    OK            bool     `json:"ok"`
    Price         *float64 `json:"price,omitempty"`
    HistoryPoints int      `json:"history_points"`
    SearchResults int      `json:"search_results"`
    RateLimited   bool     `json:"rate_limited,omitempty"`
    Errors        []string `json:"errors,omitempty"`
}

func main() {
    var (
        tickersCSV string
        cfgPath    string
        gap        time.Duration
    )
    flag.StringVar(&tickersCSV, "tickers", "PETR4,VALE3,ITUB4,BBDC4", "comma-separated tickers")
    flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
    flag.DurationVar(&gap, "gap", time.Second, "pause between tickers")
    flag.Parse()

    cfg, err := config.Load(cfgPath)
    log := logger.New(cfg.Log.Level)
    if err != nil {
        log.Fatal("config", zap.Error(err))
    }
    if cfg.Brapi.APIKey == "" {
        log.Warn("BRAPI_API_KEY not set; only a few tickers work without a token")
    }

    client, _ := brapi.NewBrapiAPIClient(cfg.Brapi.APIKey,
        brapi.WithBaseURL(cfg.Brapi.BaseURL),
        brapi.WithHTTPClient(httpx.New(time.Duration(cfg.Brapi.TimeoutSec)*time.Second)),
        brapi.WithLogger(log),
    )

    tickers := splitCSV(tickersCSV)
    if len(tickers) == 0 {
        log.Fatal("no tickers provided")
    }
    os.Exit(run(context.Background(), client, tickers, gap, os.Stdout))
}

func run(ctx context.Context, c checker, tickers []string, gap time.Duration, w io.Writer) int {
    gate := &pacing.Gate{Interval: gap}
    reports := make([]report, 0, len(tickers))
    passed := 0
    for _, t := range tickers {
        if err := gate.Wait(ctx); err != nil {
            break
        }
        r := check(ctx, c, t)
        if r.OK {
            passed++
        }
        reports = append(reports, r)
    }

    enc := json.NewEncoder(w)
    enc.SetIndent("", "  ")
    _ = enc.Encode(reports)
    fmt.Fprintf(w, "%d/%d tickers ok\n", passed, len(tickers))
    if passed == 0 {
        return 1
    }
    return 0
}

func check(ctx context.Context, c checker, t string) report {
    r := report{Ticker: t}
    fail := func(err error) {
        r.Errors = append(r.Errors, err.Error())
        r.RateLimited = r.RateLimited || provider.IsRateLimited(err)
    }

    q, err := c.GetQuote(ctx, t)
    if err != nil {
        fail(err)
    } else {
        r.Price = q.CurrentPrice
    }
    h, err := c.GetHistory(ctx, t, "1mo", "1d")
    if err != nil {
        fail(err)
    } else {
        r.HistoryPoints = h.DataPoints
    }
    res, err := c.Available(ctx, t, 5, "all")
    if err != nil {
        fail(err)
    } else {
        r.SearchResults = len(res)
    }
    r.OK = len(r.Errors) == 0
    return r
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" {
            out = append(out, p)
        }
    }
    return out
}
