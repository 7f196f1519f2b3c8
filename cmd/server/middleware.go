package main

import (
    "compress/gzip"
    "io"
    "net/http"
    "strings"
    "sync"
    "time"

    "github.com/google/uuid"
    "go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// requestID propagates the caller's request id or assigns a new one.
func requestID(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        id := r.Header.Get(requestIDHeader)
        if id == "" {
            id = uuid.NewString()
            r.Header.Set(requestIDHeader, id)
        }
        w.Header().Set(requestIDHeader, id)
        next.ServeHTTP(w, r)
    })
}

type loggedWriter struct {
    http.ResponseWriter
    status int
}

func (l *loggedWriter) WriteHeader(status int) {
    l.status = status
    l.ResponseWriter.WriteHeader(status)
}

func accessLog(log *zap.Logger) func(http.Handler) http.Handler {
    return func(next http.Handler) http.Handler {
        return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
            start := time.Now()
            lw := &loggedWriter{ResponseWriter: w, status: http.StatusOK}
            next.ServeHTTP(lw, r)
            log.Info("request",
                zap.String("method", r.Method),
                zap.String("path", r.URL.Path),
                zap.Int("status", lw.status),
                zap.Duration("duration", time.Since(start)),
                zap.String("request_id", r.Header.Get(requestIDHeader)),
            )
        })
    }
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        // Prefer best speed to reduce CPU usage since payloads are JSON
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        next.ServeHTTP(gzipResponseWriter{ResponseWriter: w, Writer: gz}, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// limitBody caps request body size.
func limitBody(next http.Handler) http.Handler {
    const maxBody = 64 << 10
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method == http.MethodPost && r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic turns handler panics into a JSON 500.
func recoverPanic(log *zap.Logger, next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                log.Error("handler panic", zap.Any("panic", rec), zap.String("path", r.URL.Path))
                writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false, "error": "internal server error"})
            }
        }()
        next.ServeHTTP(w, r)
    })
}
