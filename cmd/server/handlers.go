package main

import (
    "context"
    "encoding/json"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/gorilla/mux"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promhttp"
    "github.com/rs/cors"
    "go.uber.org/zap"

    "stockprovider/internal/chat"
    "stockprovider/internal/provider"
    "stockprovider/internal/telemetry"
)

// service is the part of stock.Service the API exposes.
type service interface {
    chat.Lookup
    Search(ctx context.Context, query string, limit int, assetType string) provider.SearchResponse
}

type api struct {
    svc     service
    log     *zap.Logger
    timeout time.Duration
}

// newHandler builds the full HTTP stack. All stock routes live under /api/v1.
func newHandler(svc service, log *zap.Logger, timeout time.Duration) http.Handler {
    a := &api{svc: svc, log: log, timeout: timeout}

    router := mux.NewRouter()
    router.Use(requestID, accessLog(log), telemetry.Middleware)
    router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
        w.WriteHeader(http.StatusOK)
        _, _ = w.Write([]byte("ok"))
    }).Methods(http.MethodGet)
    // withGzip compresses the whole stack; promhttp must not compress again.
    metrics := promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true})
    router.Handle("/metrics", metrics).Methods(http.MethodGet)

    v1 := router.PathPrefix("/api/v1").Subrouter()
    v1.HandleFunc("/stocks/{ticker}", a.getStock).Methods(http.MethodGet)
    v1.HandleFunc("/stocks/{ticker}/history", a.getHistory).Methods(http.MethodGet)
    v1.HandleFunc("/stocks/{ticker}/variation", a.getVariation).Methods(http.MethodGet)
    v1.HandleFunc("/search", a.search).Methods(http.MethodGet)
    v1.HandleFunc("/detect", a.detect).Methods(http.MethodPost)

    c := cors.New(cors.Options{
        AllowedOrigins: []string{"*"},
        AllowedHeaders: []string{"Authorization", "Content-Type"},
        AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
    })
    return c.Handler(withGzip(recoverPanic(log, limitBody(router))))
}

func (a *api) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
    if a.timeout <= 0 {
        return context.WithCancel(r.Context())
    }
    return context.WithTimeout(r.Context(), a.timeout)
}

func (a *api) getStock(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := a.requestContext(r)
    defer cancel()
    t := mux.Vars(r)["ticker"]
    q, err := a.svc.Quote(ctx, t)
    if err != nil {
        writeFailure(w, err, t)
        return
    }
    writeJSON(w, http.StatusOK, q)
}

func (a *api) getHistory(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := a.requestContext(r)
    defer cancel()
    t := mux.Vars(r)["ticker"]
    query := r.URL.Query()
    h, err := a.svc.History(ctx, t, query.Get("period"), query.Get("interval"))
    if err != nil {
        writeFailure(w, err, t)
        return
    }
    writeJSON(w, http.StatusOK, h)
}

func (a *api) getVariation(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := a.requestContext(r)
    defer cancel()
    t := mux.Vars(r)["ticker"]
    v, err := a.svc.Variation(ctx, t, r.URL.Query().Get("period"))
    if err != nil {
        writeFailure(w, err, t)
        return
    }
    writeJSON(w, http.StatusOK, v)
}

func (a *api) search(w http.ResponseWriter, r *http.Request) {
    ctx, cancel := a.requestContext(r)
    defer cancel()
    query := r.URL.Query()
    q := strings.TrimSpace(query.Get("q"))
    if q == "" {
        writeJSON(w, http.StatusBadRequest, provider.Failure{Error: "missing q query param"})
        return
    }
    limit := 0
    if v := query.Get("limit"); v != "" {
        n, err := strconv.Atoi(v)
        if err != nil || n < 0 {
            writeJSON(w, http.StatusBadRequest, provider.Failure{Error: "limit must be a non-negative integer"})
            return
        }
        limit = n
    }
    writeJSON(w, http.StatusOK, a.svc.Search(ctx, q, limit, query.Get("type")))
}

type detectBody struct {
    Message string `json:"message"`
}

type detectResponse struct {
    Success bool         `json:"success"`
    Request chat.Request `json:"request"`
    Summary string       `json:"summary,omitempty"`
}

func (a *api) detect(w http.ResponseWriter, r *http.Request) {
    var b detectBody
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&b); err != nil {
        writeJSON(w, http.StatusBadRequest, provider.Failure{Error: "invalid JSON body"})
        return
    }
    if strings.TrimSpace(b.Message) == "" {
        writeJSON(w, http.StatusBadRequest, provider.Failure{Error: "message cannot be empty"})
        return
    }

    ctx, cancel := a.requestContext(r)
    defer cancel()
    req := chat.Detect(b.Message)
    summary, err := chat.Answer(ctx, a.svc, req)
    if err != nil {
        writeFailure(w, err, req.Ticker)
        return
    }
    writeJSON(w, http.StatusOK, detectResponse{Success: true, Request: req, Summary: summary})
}

// writeFailure maps err to 429 when the upstream throttled us, 502 otherwise.
func writeFailure(w http.ResponseWriter, err error, ticker string) {
    f := provider.FailureFrom(err, ticker)
    status := http.StatusBadGateway
    if f.RateLimited {
        status = http.StatusTooManyRequests
    }
    writeJSON(w, status, f)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
    w.Header().Set("Content-Type", "application/json; charset=utf-8")
    w.WriteHeader(status)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    _ = enc.Encode(v)
}
