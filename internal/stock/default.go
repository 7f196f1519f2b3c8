package stock

import (
    "sync"
    "time"

    "go.uber.org/zap"

    "stockprovider/internal/config"
    "stockprovider/internal/httpx"
    "stockprovider/internal/logger"
    "stockprovider/internal/provider/brapi"
    "stockprovider/internal/provider/yahoo"
    "stockprovider/internal/search"
)

var (
    defaultOnce    sync.Once
    defaultService *Service
)

// Default returns the process-wide Service, built on first use from
// config.Load("").
func Default() *Service {
    defaultOnce.Do(func() {
        cfg, err := config.Load("")
        log := logger.New(cfg.Log.Level)
        if err != nil {
            log.Warn("config load failed, using defaults", zap.Error(err))
            cfg = config.Default()
        }
        defaultService = NewFromConfig(cfg, log)
    })
    return defaultService
}

// NewFromConfig wires the Brapi and Yahoo clients described by cfg.
func NewFromConfig(cfg config.Config, log *zap.Logger) *Service {
    if log == nil {
        log = zap.NewNop()
    }
    if cfg.Brapi.APIKey == "" {
        log.Warn("BRAPI_API_KEY not set; Brapi serves only a few tickers without a token")
    }

    brapiHTTP := httpx.New(time.Duration(cfg.Brapi.TimeoutSec) * time.Second)
    // NewBrapiAPIClient never fails.
    primary, _ := brapi.NewBrapiAPIClient(cfg.Brapi.APIKey,
        brapi.WithBaseURL(cfg.Brapi.BaseURL),
        brapi.WithHTTPClient(brapiHTTP),
        brapi.WithLogger(log.Named("brapi")),
    )

    options := []Option{
        WithLogger(log),
        WithSearcher(search.New(primary, brapi.Name, log.Named("search"))),
    }
    if cfg.Yahoo.Enabled {
        yahooHTTP := httpx.New(time.Duration(cfg.Yahoo.TimeoutSec) * time.Second)
        yahoo.UseHTTPClient(yahooHTTP.HTTP)
        secondary := yahoo.NewClient(
            yahoo.NewFinanceSource(yahooHTTP, cfg.Yahoo.DownloadURL),
            yahoo.WithProbeDelay(time.Duration(cfg.Yahoo.ProbeDelayMS)*time.Millisecond),
            yahoo.WithDownloadDelay(time.Duration(cfg.Yahoo.DownloadDelayMS)*time.Millisecond),
            yahoo.WithLogger(log.Named("yahoo")),
        )
        options = append(options, WithSecondary(secondary))
    }
    return New(primary, options...)
}
