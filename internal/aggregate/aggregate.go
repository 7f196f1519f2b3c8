package aggregate

import (
    "stockprovider/internal/provider"
)

// Summary holds the aggregate stats of a bar series.
// OK is false when there were no bars.
type Summary struct {
    OK                  bool
    FirstDate           string
    LastDate            string
    FirstClose          float64
    LastClose           float64
    PeriodChange        float64
    PeriodChangePercent float64
    High                float64
    Low                 float64
    Avg                 float64
}

// Summarize computes period change and close stats for bars, in input order.
// Rules:
// - change = round2(last close - first close)
// - change percent = round2(change / first close * 100), 0 when first close is 0
// - high/low/avg are taken over closes only
func Summarize(bars []provider.Bar) Summary {
    if len(bars) == 0 {
        return Summary{}
    }
    first := bars[0]
    last := bars[len(bars)-1]

    s := Summary{
        OK:         true,
        FirstDate:  first.Date,
        LastDate:   last.Date,
        FirstClose: first.Close,
        LastClose:  last.Close,
    }
    change := last.Close - first.Close
    s.PeriodChange = provider.Round2(change)
    if first.Close != 0 {
        s.PeriodChangePercent = provider.Round2(change / first.Close * 100)
    }

    high, low, sum := first.Close, first.Close, 0.0
    for _, b := range bars {
        if b.Close > high {
            high = b.Close
        }
        if b.Close < low {
            low = b.Close
        }
        sum += b.Close
    }
    s.High = provider.Round2(high)
    s.Low = provider.Round2(low)
    s.Avg = provider.Round2(sum / float64(len(bars)))
    return s
}

// Apply fills h with bars and their summary. Zero closes stay null.
func Apply(h *provider.History, bars []provider.Bar) {
    s := Summarize(bars)
    h.History = bars
    h.DataPoints = len(bars)
    if !s.OK {
        return
    }
    h.FirstDate = provider.Ptr(s.FirstDate)
    h.LastDate = provider.Ptr(s.LastDate)
    h.FirstClose = provider.Round2Ptr(&s.FirstClose)
    h.LastClose = provider.Round2Ptr(&s.LastClose)
    h.PeriodChange = s.PeriodChange
    h.PeriodChangePercent = s.PeriodChangePercent
    h.HighPrice = provider.Round2Ptr(&s.High)
    h.LowPrice = provider.Round2Ptr(&s.Low)
    h.AvgPrice = provider.Round2Ptr(&s.Avg)
}
