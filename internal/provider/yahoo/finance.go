package yahoo

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/piquette/finance-go/equity"
)

// DefaultDownloadURL is the CSV history endpoint. {symbol} is replaced with
// the Yahoo symbol.
const DefaultDownloadURL = "https://query1.finance.yahoo.com/v7/finance/download/{symbol}"

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNoData is returned when Yahoo knows nothing about a symbol.
var ErrNoData = errors.New("no data")

// FinanceSource reads Yahoo Finance with finance-go for quotes and charts and
// with the CSV download endpoint for plain daily history.
type FinanceSource struct {
	httpClient  HTTPClient
	downloadURL string
	now         func() time.Time
	getEquity   func(symbol string) (*finance.Equity, error)
	getChart    func(params *chart.Params) *chart.Iter
}

// NewFinanceSource returns a Source backed by Yahoo Finance. An empty
// downloadURL selects DefaultDownloadURL.
func NewFinanceSource(httpClient HTTPClient, downloadURL string) *FinanceSource {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if downloadURL == "" {
		downloadURL = DefaultDownloadURL
	}
	return &FinanceSource{
		httpClient:  httpClient,
		downloadURL: downloadURL,
		now:         time.Now,
		getEquity:   equity.Get,
		getChart:    chart.Get,
	}
}

// UseHTTPClient routes the finance-go quote and chart calls through c.
// finance-go keeps a process-wide backend, so call it once at startup before
// the first lookup.
func UseHTTPClient(c *http.Client) {
	if c != nil {
		finance.SetHTTPClient(c)
	}
}

// await runs fn and stops waiting when ctx ends. finance-go takes no context,
// so an abandoned call finishes in the background under the client timeout.
func await[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	type result struct {
		v   T
		err error
	}
	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{v, err}
	}()
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case r := <-ch:
		return r.v, r.err
	}
}

func (s *FinanceSource) Info(ctx context.Context, symbol string) (Info, error) {
	e, err := await(ctx, func() (*finance.Equity, error) {
		return s.getEquity(symbol)
	})
	if err != nil {
		return Info{}, fmt.Errorf("yahoo info %s: %w", symbol, err)
	}
	if e == nil {
		return Info{}, fmt.Errorf("yahoo info %s: %w", symbol, ErrNoData)
	}
	return Info{
		Symbol:    e.Symbol,
		Name:      firstNonEmpty(e.LongName, e.ShortName),
		Currency:  e.CurrencyID,
		MarketCap: e.MarketCap,
	}, nil
}

func (s *FinanceSource) History(ctx context.Context, symbol, period, interval string) ([]Row, error) {
	start, end := Span(period, s.now())
	params := &chart.Params{
		Symbol:   symbol,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.Interval(interval),
	}
	rows, err := await(ctx, func() ([]Row, error) {
		iter := s.getChart(params)
		var rows []Row
		for iter.Next() {
			if r, ok := rowFromBar(iter.Bar()); ok {
				rows = append(rows, r)
			}
		}
		return rows, iter.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s %s: %w", symbol, period, err)
	}
	return rows, nil
}

func rowFromBar(b *finance.ChartBar) (Row, bool) {
	if b == nil || b.Close.IsZero() {
		return Row{}, false
	}
	return Row{
		Time:     time.Unix(int64(b.Timestamp), 0).UTC(),
		Open:     b.Open.InexactFloat64(),
		High:     b.High.InexactFloat64(),
		Low:      b.Low.InexactFloat64(),
		Close:    b.Close.InexactFloat64(),
		AdjClose: b.AdjClose.InexactFloat64(),
		Volume:   int64(b.Volume),
	}, true
}

func (s *FinanceSource) Download(ctx context.Context, symbol string, start, end time.Time) ([]Row, error) {
	params := url.Values{}
	params.Set("period1", strconv.FormatInt(start.Unix(), 10))
	params.Set("period2", strconv.FormatInt(end.Unix(), 10))
	params.Set("interval", "1d")
	params.Set("events", "history")
	u := strings.ReplaceAll(s.downloadURL, "{symbol}", url.PathEscape(symbol)) + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo download %s: %w", symbol, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("yahoo download %s: HTTP 429 Too Many Requests", symbol)
	case http.StatusNotFound:
		return nil, fmt.Errorf("yahoo download %s: %w", symbol, ErrNoData)
	default:
		return nil, fmt.Errorf("yahoo download %s: HTTP %d", symbol, res.StatusCode)
	}

	rows, err := parseCSV(res.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo download %s: %w", symbol, err)
	}
	return rows, nil
}

// parseCSV reads Date,Open,High,Low,Close,Adj Close,Volume rows. Rows with a
// null or zero close are skipped.
func parseCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	for _, name := range []string{"Date", "Close"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("missing %q column", name)
		}
	}

	field := func(rec []string, name string) (float64, bool) {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
		return v, err == nil
	}

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if col["Date"] >= len(rec) {
			continue
		}
		date, err := time.Parse(time.DateOnly, strings.TrimSpace(rec[col["Date"]]))
		if err != nil {
			continue
		}
		closing, ok := field(rec, "Close")
		if !ok || closing == 0 {
			continue
		}
		row := Row{Time: date, Close: closing}
		row.Open, _ = field(rec, "Open")
		row.High, _ = field(rec, "High")
		row.Low, _ = field(rec, "Low")
		if adj, ok := field(rec, "Adj Close"); ok {
			row.AdjClose = adj
		} else {
			row.AdjClose = closing
		}
		if vol, ok := field(rec, "Volume"); ok {
			row.Volume = int64(vol)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
