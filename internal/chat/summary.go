package chat

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/enescakir/emoji"

	"stockprovider/internal/provider"
)

// SummarizeQuote renders a quote as a few lines of text.
func SummarizeQuote(q provider.Quote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  Quote for %s (%s):\n", emoji.CurrencyExchange, q.Name, q.Ticker)
	fmt.Fprintf(&b, "- Current price: %s %s\n", q.Currency, num(q.CurrentPrice))
	fmt.Fprintf(&b, "- Day change: %s %s (%s%%)\n", trend(q.Change), signed(q.Change), signed(q.ChangePercent))
	fmt.Fprintf(&b, "- Day high: %s\n", num(q.DayHigh))
	fmt.Fprintf(&b, "- Day low: %s\n", num(q.DayLow))
	volume := "N/A"
	if q.Volume != nil {
		volume = strconv.FormatInt(*q.Volume, 10)
	}
	fmt.Fprintf(&b, "- Volume: %s\n", volume)
	if q.Sector != nil {
		fmt.Fprintf(&b, "- Sector: %s\n", *q.Sector)
	}
	if q.Industry != nil {
		fmt.Fprintf(&b, "- Industry: %s\n", *q.Industry)
	}
	fmt.Fprintf(&b, "- Market: %s\n", q.Market)
	return b.String()
}

// SummarizeHistory renders a history's aggregate stats.
func SummarizeHistory(h provider.History) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  History for %s (%s):\n", emoji.Calendar, h.Ticker, h.Period)
	fmt.Fprintf(&b, "- Range: %s to %s\n", str(h.FirstDate), str(h.LastDate))
	fmt.Fprintf(&b, "- First close: %s\n", num(h.FirstClose))
	fmt.Fprintf(&b, "- Last close: %s\n", num(h.LastClose))
	fmt.Fprintf(&b, "- Change: %s %s (%s%%)\n", trend(h.PeriodChange), signed(h.PeriodChange), signed(h.PeriodChangePercent))
	fmt.Fprintf(&b, "- High: %s\n", num(h.HighPrice))
	fmt.Fprintf(&b, "- Low: %s\n", num(h.LowPrice))
	fmt.Fprintf(&b, "- Average: %s\n", num(h.AvgPrice))
	fmt.Fprintf(&b, "- Data points: %d\n", h.DataPoints)
	return b.String()
}

// SummarizeVariation renders the start/end change over a period.
func SummarizeVariation(v provider.Variation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s (%s):\n", emoji.Megaphone, v.Name, v.Ticker)
	fmt.Fprintf(&b, "- Period: %s\n", v.Period)
	fmt.Fprintf(&b, "- Start price: %s %s\n", v.Currency, num(v.StartPrice))
	fmt.Fprintf(&b, "- End price: %s %s\n", v.Currency, num(v.EndPrice))
	fmt.Fprintf(&b, "- Change: %s %s (%s%%)\n", trend(v.Change), signed(v.Change), signed(v.ChangePercent))
	return b.String()
}

func trend(change float64) string {
	switch {
	case change > 0:
		return emoji.GreenCircle.String()
	case change < 0:
		return emoji.RedCircle.String()
	default:
		return emoji.YellowCircle.String()
	}
}

func signed(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v >= 0 {
		return "+" + s
	}
	return s
}

func num(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func str(v *string) string {
	if v == nil {
		return "N/A"
	}
	return *v
}
