package ticker_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"stockprovider/internal/provider"
	"stockprovider/internal/ticker"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"petr4":       "PETR4",
		" PETR4.SA ":  "PETR4",
		"AAPL":        "AAPL",
		"vale3.sa":    "VALE3",
		"PETR4.SA.SA": "PETR4",
		"PETR4 .SA":   "PETR4",
		"":            "",
	}
	for in, want := range cases {
		require.Equalf(t, want, ticker.Normalize(in), "Normalize(%q)", in)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"petr4.sa", "AAPL", "  knri11 ", "MSFT", "BRK.B", "PETR4.SA.SA", "PETR4 .SA", ".SA"} {
		once := ticker.Normalize(in)
		require.Equal(t, once, ticker.Normalize(once))

		y := ticker.ToYahoo(in)
		require.Equal(t, y, ticker.ToYahoo(y))
	}
}

func TestIsBrazilian(t *testing.T) {
	t.Parallel()

	require.True(t, ticker.IsBrazilian("PETR4"))
	require.True(t, ticker.IsBrazilian("knri11"))
	require.True(t, ticker.IsBrazilian(" VALE3 "))
	require.False(t, ticker.IsBrazilian("AAPL"))
	require.False(t, ticker.IsBrazilian("PETR4.SA"))
	require.False(t, ticker.IsBrazilian(""))
}

func TestToYahoo(t *testing.T) {
	t.Parallel()

	require.Equal(t, "PETR4.SA", ticker.ToYahoo("petr4"))
	require.Equal(t, "PETR4.SA", ticker.ToYahoo("PETR4.SA"))
	require.Equal(t, "AAPL", ticker.ToYahoo("aapl"))
	require.Equal(t, "KNRI11.SA", ticker.ToYahoo("KNRI11"))
	// long symbol with a known issuer prefix
	require.Equal(t, "VALE3XYZ1.SA", ticker.ToYahoo("VALE3XYZ1"))
	// long symbol without a known prefix keeps its form
	require.Equal(t, "ABCDEFG1", ticker.ToYahoo("ABCDEFG1"))
}

func TestMarket(t *testing.T) {
	t.Parallel()

	require.Equal(t, ticker.MarketB3, ticker.Market("ITUB4"))
	require.Equal(t, ticker.MarketUS, ticker.Market("MSFT"))
}

func TestClassify(t *testing.T) {
	t.Parallel()

	require.Equal(t, provider.AssetFII, ticker.Classify("HGLG11"))
	require.Equal(t, provider.AssetStock, ticker.Classify("petr4"))
	// units in the stock table end in 11 but stay stocks
	require.Equal(t, provider.AssetStock, ticker.Classify("SANB11"))
	require.Equal(t, provider.AssetFII, ticker.Classify("ABCD11"))
	require.Equal(t, provider.AssetStock, ticker.Classify("ABCD3"))
	require.Equal(t, provider.AssetUnknown, ticker.Classify("AAPL"))
	require.Equal(t, provider.AssetUnknown, ticker.Classify(""))
}

func TestLookup(t *testing.T) {
	t.Parallel()

	a, ok := ticker.Lookup("knri11.sa")
	require.True(t, ok)
	require.Equal(t, "Kinea Renda Imobiliária", a.Name)
	require.Equal(t, provider.AssetFII, a.Type)

	_, ok = ticker.Lookup("ZZZZ3")
	require.False(t, ok)
}
