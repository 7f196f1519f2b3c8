package brapi

import (
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
)

// baseURL is the public Brapi API root.
const baseURL = "https://brapi.dev/api"

// Name is the source tag put on records built from Brapi data.
const Name = "brapi"

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=brapi_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// BrapiAPIClient is a client for the Brapi quote API.
type BrapiAPIClient struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient is the HTTP client.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
	// query contains additional query parameters to be sent with each request.
	query url.Values
	logger *zap.Logger
}

// BrapiAPIClientOption is a configuration option for the Brapi API client.
type BrapiAPIClientOption func(*BrapiAPIClient)

// WithBaseURL sets the base URL for the API. Empty keeps the default.
func WithBaseURL(baseURL string) BrapiAPIClientOption {
	return func(c *BrapiAPIClient) {
		if baseURL != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client for the API.
func WithHTTPClient(httpClient HTTPClient) BrapiAPIClientOption {
	return func(c *BrapiAPIClient) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) BrapiAPIClientOption {
	return func(c *BrapiAPIClient) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// WithLogger sets the logger used for upstream warnings.
func WithLogger(logger *zap.Logger) BrapiAPIClientOption {
	return func(c *BrapiAPIClient) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewBrapiAPIClient creates a new Brapi API client. An empty token is allowed;
// Brapi serves a handful of tickers without one.
func NewBrapiAPIClient(token string, options ...BrapiAPIClientOption) (*BrapiAPIClient, error) {
	var brapiAPIClient = &BrapiAPIClient{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
		query:      url.Values{},
		logger:     zap.NewNop(),
	}
	if token != "" {
		// https://brapi.dev/docs
		brapiAPIClient.query.Add("token", token)
	}
	for _, option := range options {
		option(brapiAPIClient)
	}
	return brapiAPIClient, nil
}

// Name returns the source tag of the client.
func (c *BrapiAPIClient) Name() string { return Name }
