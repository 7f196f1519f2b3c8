package yahoo_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/require"
	yahoo "stockprovider/internal/provider/yahoo"
)

const mockCSV = `Date,Open,High,Low,Close,Adj Close,Volume
2024-03-13,37.10,37.90,36.80,37.50,35.20,41234500
2024-03-14,null,null,null,null,null,null
2024-03-15,37.50,38.40,37.20,38.10,35.80,38000000
`

func TestDownload(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 16, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v7/finance/download/PETR4.SA", r.URL.Path)
		require.Equal(t, "1707955200", r.URL.Query().Get("period1"))
		require.Equal(t, "1710547200", r.URL.Query().Get("period2"))
		require.Equal(t, "1d", r.URL.Query().Get("interval"))
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(mockCSV))
	}))
	defer srv.Close()

	source := yahoo.NewFinanceSource(srv.Client(), srv.URL+"/v7/finance/download/{symbol}")
	rows, err := source.Download(t.Context(), "PETR4.SA", start, end)
	require.NoError(t, err)

	// Assert: the null row is skipped
	require.Len(t, rows, 2)
	require.Equal(t, time.Date(2024, time.March, 13, 0, 0, 0, 0, time.UTC), rows[0].Time)
	require.InEpsilon(t, 37.5, rows[0].Close, 0.0001)
	require.InEpsilon(t, 35.2, rows[0].AdjClose, 0.0001)
	require.Equal(t, int64(41234500), rows[0].Volume)
	require.InEpsilon(t, 38.4, rows[1].High, 0.0001)
}

func TestDownload_TooManyRequests(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	source := yahoo.NewFinanceSource(srv.Client(), srv.URL+"/{symbol}")
	_, err := source.Download(t.Context(), "AAPL", time.Now().AddDate(0, 0, -30), time.Now())
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")
}

func TestDownload_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	source := yahoo.NewFinanceSource(srv.Client(), srv.URL+"/{symbol}")
	_, err := source.Download(t.Context(), "ZZZZ", time.Now().AddDate(0, 0, -30), time.Now())
	require.ErrorIs(t, err, yahoo.ErrNoData)
}

func TestDownload_MissingColumns(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Date,Open\n2024-03-13,1\n"))
	}))
	defer srv.Close()

	source := yahoo.NewFinanceSource(srv.Client(), srv.URL+"/{symbol}")
	_, err := source.Download(t.Context(), "AAPL", time.Now().AddDate(0, 0, -30), time.Now())
	require.Error(t, err)
}

func TestSpan(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	for period, want := range map[string]time.Time{
		"1d":      time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC),
		"5d":      time.Date(2024, time.March, 8, 12, 0, 0, 0, time.UTC),
		"1mo":     time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC),
		"1y":      time.Date(2023, time.March, 15, 12, 0, 0, 0, time.UTC),
		"ytd":     time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		"unknown": time.Date(2024, time.February, 15, 12, 0, 0, 0, time.UTC),
	} {
		start, end := yahoo.Span(period, now)
		require.Equalf(t, want, start, "period %s", period)
		require.Equal(t, now, end)
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()

	src := yahoo.NewFinanceSource(nil, "")
	src.SetEquityGetter(func(symbol string) (*finance.Equity, error) {
		require.Equal(t, "PETR4.SA", symbol)
		e := &finance.Equity{}
		e.Symbol = symbol
		e.LongName = "Petróleo Brasileiro S.A. - Petrobras"
		e.CurrencyID = "BRL"
		e.MarketCap = 501234567890
		return e, nil
	})

	info, err := src.Info(t.Context(), "PETR4.SA")
	require.NoError(t, err)
	require.Equal(t, "Petróleo Brasileiro S.A. - Petrobras", info.Name)
	require.Equal(t, "BRL", info.Currency)
	require.Equal(t, int64(501234567890), info.MarketCap)
}

func TestInfo_ReturnsWhenContextEnds(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	defer close(release)

	src := yahoo.NewFinanceSource(nil, "")
	src.SetEquityGetter(func(string) (*finance.Equity, error) {
		<-release
		return nil, errors.New("too late")
	})

	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := src.Info(ctx, "PETR4.SA")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), time.Second)
}
