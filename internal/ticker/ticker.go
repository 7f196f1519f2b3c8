// Package ticker converts symbols between the Brapi and Yahoo conventions
// and classifies B3 assets.
package ticker

import (
	"regexp"
	"strings"

	"stockprovider/internal/provider"
)

const yahooSuffix = ".SA"

const (
	MarketB3 = "B3"
	MarketUS = "NYSE/NASDAQ"
)

// b3Prefixes are issuers that always get the Yahoo .SA suffix.
var b3Prefixes = []string{
	"PETR", "VALE", "ITUB", "BBDC", "ABEV", "WEGE", "RENT",
	"SUZB", "RADL", "ELET", "BBAS", "SANB", "CMIG", "EMBR",
	"HAPV", "VIVT", "KLBN", "UGPA", "CCRO", "CYRE", "EGIE",
	"FLRY", "GGBR", "GOAU", "HYPE", "JBSS", "LREN", "MULT",
	"PCAR", "QUAL", "RAIL", "SBSP", "SMLE", "TIMP", "USIM",
}

var b3Shape = regexp.MustCompile(`^[A-Z]{4}\d{1,2}$`)

func clean(t string) string { return strings.ToUpper(strings.TrimSpace(t)) }

// Normalize returns the Brapi form of t: upper-cased, trimmed, without .SA.
func Normalize(t string) string {
	t = clean(t)
	for strings.HasSuffix(t, yahooSuffix) {
		t = strings.TrimSpace(strings.TrimSuffix(t, yahooSuffix))
	}
	return t
}

// IsBrazilian reports whether t looks like a B3 ticker (trailing digit).
func IsBrazilian(t string) bool {
	t = clean(t)
	return t != "" && isDigit(t[len(t)-1])
}

// ToYahoo returns the Yahoo Finance form of t.
func ToYahoo(t string) string {
	t = clean(t)
	if strings.HasSuffix(t, yahooSuffix) {
		return t
	}
	if t == "" || !isDigit(t[len(t)-1]) {
		return t
	}
	if len(t) <= 6 || hasB3Prefix(t) {
		return t + yahooSuffix
	}
	return t
}

// Market labels the exchange for t.
func Market(t string) string {
	if IsBrazilian(t) {
		return MarketB3
	}
	return MarketUS
}

// Classify reports whether t is a stock, a real-estate fund or unknown.
func Classify(t string) provider.AssetType {
	t = Normalize(t)
	if _, ok := knownFIIs[t]; ok {
		return provider.AssetFII
	}
	if _, ok := knownStocks[t]; ok {
		return provider.AssetStock
	}
	if !b3Shape.MatchString(t) {
		return provider.AssetUnknown
	}
	if strings.HasSuffix(t, "11") {
		return provider.AssetFII
	}
	return provider.AssetStock
}

func hasB3Prefix(t string) bool {
	for _, p := range b3Prefixes {
		if strings.HasPrefix(t, p) {
			return true
		}
	}
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
