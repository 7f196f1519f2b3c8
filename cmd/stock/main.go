// Command stock prints quote data for one ticker as JSON.
//
//	stock <method> <ticker> [period] [interval]
//
// Methods: get_stock_info, get_stock_history, get_stock_variation,
// search_stocks and detect (the rest of the line is free text).
package main

import (
    "context"
    "encoding/json"
    "fmt"
    "io"
    "os"
    "strings"

    "stockprovider/internal/chat"
    "stockprovider/internal/provider"
    "stockprovider/internal/search"
    "stockprovider/internal/stock"
)

const usage = "usage: stock <method> <ticker> [period] [interval]\n" +
    "methods: get_stock_info, get_stock_history, get_stock_variation, search_stocks, detect\n"

// service is the part of stock.Service the command uses.
type service interface {
    chat.Lookup
    GetStockInfo(ctx context.Context, t string) any
    GetStockHistory(ctx context.Context, t, period, interval string) any
    GetStockVariation(ctx context.Context, t, period string) any
    SearchStocks(ctx context.Context, query string, limit int, assetType string) provider.SearchResponse
}

func main() {
    os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, func() service { return stock.Default() }))
}

// detection is the output of the detect method.
type detection struct {
    Success bool         `json:"success"`
    Request chat.Request `json:"request"`
    Summary string       `json:"summary,omitempty"`
    Error   string       `json:"error,omitempty"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, newService func() service) (code int) {
    defer func() {
        if r := recover(); r != nil {
            writeJSON(stdout, provider.Failure{Error: fmt.Sprint(r)})
            code = 1
        }
    }()

    if len(args) < 2 {
        fmt.Fprint(stderr, usage)
        writeJSON(stdout, provider.Failure{Error: "method and ticker are required"})
        return 1
    }
    method, arg := args[0], args[1]
    opt := func(i int, def string) string {
        if len(args) > i && args[i] != "" {
            return args[i]
        }
        return def
    }

    var out any
    switch method {
    case "get_stock_info":
        out = newService().GetStockInfo(ctx, arg)
    case "get_stock_history":
        out = newService().GetStockHistory(ctx, arg, opt(2, stock.DefaultPeriod), opt(3, stock.DefaultInterval))
    case "get_stock_variation":
        out = newService().GetStockVariation(ctx, arg, opt(2, stock.DefaultPeriod))
    case "search_stocks":
        out = newService().SearchStocks(ctx, arg, search.DefaultLimit, stock.DefaultSearchType)
    case "detect":
        out = detect(ctx, newService(), strings.Join(args[1:], " "))
    default:
        fmt.Fprint(stderr, usage)
        writeJSON(stdout, provider.Failure{Error: fmt.Sprintf("unknown method %q", method)})
        return 1
    }
    writeJSON(stdout, out)
    return 0
}

func detect(ctx context.Context, svc service, message string) detection {
    d := detection{Success: true, Request: chat.Detect(message)}
    summary, err := chat.Answer(ctx, svc, d.Request)
    if err != nil {
        d.Success = false
        d.Error = provider.FailureFrom(err, d.Request.Ticker).Error
        return d
    }
    d.Summary = summary
    return d
}

// writeJSON prints v indented, leaving non-ASCII text as is.
func writeJSON(w io.Writer, v any) {
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    enc.SetIndent("", "  ")
    if err := enc.Encode(v); err != nil {
        fmt.Fprintf(w, "{\"success\": false, \"error\": %q}\n", err.Error())
    }
}
