package yahoo

import (
	finance "github.com/piquette/finance-go"
)

// SetEquityGetter replaces the finance-go quote lookup.
func (s *FinanceSource) SetEquityGetter(fn func(symbol string) (*finance.Equity, error)) {
	s.getEquity = fn
}
