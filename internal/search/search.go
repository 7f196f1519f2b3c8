// Package search finds B3 assets by ticker or name, asking Brapi first and
// falling back to the built-in catalog.
package search

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"stockprovider/internal/provider"
	"stockprovider/internal/ticker"
)

// DefaultLimit caps results when the caller passes a non-positive limit.
const DefaultLimit = 10

// SourceLocal tags responses built from the catalog.
const SourceLocal = "local"

// Type filters. Anything else is treated as TypeAll.
const (
	TypeStock = "stock"
	TypeFII   = "fii"
	TypeAll   = "all"
)

// Remote is a live asset listing, such as brapi.BrapiAPIClient.
type Remote interface {
	Available(ctx context.Context, query string, limit int, assetType string) ([]provider.SearchResult, error)
}

// Searcher answers asset searches.
type Searcher struct {
	remote     Remote
	remoteName string
	logger     *zap.Logger
}

// New returns a Searcher. remote may be nil, in which case only the catalog
// is searched.
func New(remote Remote, remoteName string, logger *zap.Logger) *Searcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Searcher{remote: remote, remoteName: remoteName, logger: logger}
}

// Search looks query up remotely, then locally when the remote call fails or
// finds nothing. It always succeeds.
func (s *Searcher) Search(ctx context.Context, query string, limit int, assetType string) provider.SearchResponse {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if s.remote != nil {
		results, err := s.remote.Available(ctx, query, limit, assetType)
		switch {
		case err != nil:
			s.logger.Warn("remote search failed", zap.String("query", query), zap.Error(err))
		case len(results) > 0:
			return response(query, results, s.remoteName)
		}
	}
	return response(query, Local(query, limit, assetType), SourceLocal)
}

func response(query string, results []provider.SearchResult, source string) provider.SearchResponse {
	if results == nil {
		results = []provider.SearchResult{}
	}
	return provider.SearchResponse{
		Success: true,
		Query:   query,
		Results: results,
		Count:   len(results),
		Source:  source,
	}
}

// Local searches the catalog: an exact ticker match first, then partial
// matches on ticker or name in catalog order. At most limit results.
func Local(query string, limit int, assetType string) []provider.SearchResult {
	if limit <= 0 {
		limit = DefaultLimit
	}
	assets := catalog(assetType)
	q := strings.ToUpper(strings.TrimSpace(query))

	results := make([]provider.SearchResult, 0, limit)
	seen := make(map[string]struct{})
	add := func(a ticker.Asset) {
		if _, ok := seen[a.Ticker]; ok || len(results) >= limit {
			return
		}
		seen[a.Ticker] = struct{}{}
		results = append(results, provider.SearchResult{
			Ticker: a.Ticker,
			Name:   a.Name,
			Market: ticker.MarketB3,
			Type:   a.Type,
		})
	}

	for _, a := range assets {
		if a.Ticker == q {
			add(a)
			break
		}
	}
	for _, a := range assets {
		if len(results) >= limit {
			break
		}
		if strings.Contains(a.Ticker, q) || strings.Contains(strings.ToUpper(a.Name), q) {
			add(a)
		}
	}
	return results
}

func catalog(assetType string) []ticker.Asset {
	switch assetType {
	case TypeStock:
		return ticker.Stocks
	case TypeFII:
		return ticker.FIIs
	default:
		all := make([]ticker.Asset, 0, len(ticker.Stocks)+len(ticker.FIIs))
		all = append(all, ticker.Stocks...)
		return append(all, ticker.FIIs...)
	}
}
