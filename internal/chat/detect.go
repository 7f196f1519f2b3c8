// Package chat recognizes stock questions in free text and renders lookup
// results as short plain-text summaries.
package chat

import (
	"regexp"
	"strings"
)

// Actions a request can ask for.
const (
	ActionInfo      = "info"
	ActionVariation = "variation"
	ActionHistory   = "history"
)

// Request is what Detect understood from a message.
type Request struct {
	IsStockRequest bool   `json:"is_stock_request"`
	Ticker         string `json:"ticker,omitempty"`
	Period         string `json:"period,omitempty"`
	Action         string `json:"action,omitempty"`
}

var keywords = []string{
	"ação", "acoes", "ações", "stock", "stocks",
	"petrobras", "vale", "itau", "bradesco", "ambev", "weg",
	"petr4", "vale3", "itub4", "bbdc4", "abev3", "wege3",
	"variação", "variacao",
	"como está", "como esta", "como ta", "preço", "preco",
	"cotação", "cotacao", "valor da ação", "valor da acao",
	"histórico", "historico", "gráfico", "grafico",
	"performance", "rentabilidade", "retorno",
}

var tickerPattern = regexp.MustCompile(`(?i)\b([A-Z]{4}\d{1,2}(?:\.SA)?)\b`)

// companies maps names to tickers; checked in order.
var companies = []struct{ name, ticker string }{
	{"petrobras", "PETR4"},
	{"vale", "VALE3"},
	{"itau", "ITUB4"},
	{"itaú", "ITUB4"},
	{"bradesco", "BBDC4"},
	{"ambev", "ABEV3"},
	{"weg", "WEGE3"},
	{"localiza", "RENT3"},
	{"suzano", "SUZB3"},
	{"raia", "RADL3"},
	{"eletrobras", "ELET3"},
	{"banco do brasil", "BBAS3"},
	{"santander", "SANB11"},
	{"embraer", "EMBR3"},
}

// periods maps words to history periods; the first hit wins. "trimestre"
// and "semestre" contain "mes", so they come before it.
var periods = []struct {
	words  []string
	period string
}{
	{[]string{"hoje", "dia"}, "1d"},
	{[]string{"semana"}, "5d"},
	{[]string{"trimestre", "3 meses"}, "3mo"},
	{[]string{"semestre", "6 meses"}, "6mo"},
	{[]string{"mês", "mes"}, "1mo"},
	{[]string{"ano"}, "1y"},
}

// Detect reports whether message asks about a stock and, if so, which ticker,
// period and kind of lookup it wants. Ticker is empty when none is named.
func Detect(message string) Request {
	lower := strings.ToLower(message)
	if !containsAny(lower, keywords...) {
		return Request{}
	}

	r := Request{IsStockRequest: true, Period: "1mo", Action: ActionInfo}

	if m := tickerPattern.FindStringSubmatch(message); m != nil {
		r.Ticker = strings.ToUpper(m[1])
	} else {
		for _, c := range companies {
			if strings.Contains(lower, c.name) {
				r.Ticker = c.ticker
				break
			}
		}
	}

	for _, p := range periods {
		if containsAny(lower, p.words...) {
			r.Period = p.period
			break
		}
	}

	switch {
	case containsAny(lower, "variação", "variacao", "variou"):
		r.Action = ActionVariation
	case containsAny(lower, "histórico", "historico", "gráfico", "grafico"):
		r.Action = ActionHistory
	}
	return r
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
