package main

import (
    "context"
    "errors"
    "net/http"
    "os/signal"
    "syscall"
    "time"

    "go.uber.org/zap"

    "stockprovider/internal/config"
    "stockprovider/internal/logger"
    "stockprovider/internal/stock"
)

func main() {
    cfg, err := config.Load("")
    log := logger.New(cfg.Log.Level)
    defer func() { _ = log.Sync() }()
    if err != nil {
        log.Fatal("config", zap.Error(err))
    }

    svc := stock.NewFromConfig(cfg, log)
    timeout := time.Duration(cfg.Server.RequestTimeoutSec) * time.Second

    srv := &http.Server{
        Addr:              ":" + cfg.Server.Port,
        Handler:           newHandler(svc, log, timeout),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        // Yahoo fallbacks pace their requests, so allow for the full
        // upstream budget plus encoding.
        WriteTimeout: timeout + 10*time.Second,
        IdleTimeout:  60 * time.Second,
    }

    go func() {
        log.Info("server listening", zap.String("addr", srv.Addr))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatal("server", zap.Error(err))
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.Warn("shutdown", zap.Error(err))
    }
}
