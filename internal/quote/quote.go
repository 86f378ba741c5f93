// Package quote resolves stock symbols to company names and prices.
package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/papertrade/papertrade/internal/model"
	"github.com/shopspring/decimal"
)

// Source answers price lookups for stock symbols.
//
// A lookup that fails for any reason reports found = false, and callers must
// treat that the same as an unknown symbol.
type Source interface {
	Lookup(ctx context.Context, symbol string) (model.Quote, bool)
}

// Client fetches quotes from the external quote API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// DefaultBaseURL is the quote API endpoint used when QUOTE_API_URL is unset.
const DefaultBaseURL = "https://cloud.iexapis.com/stable"

// NewClientFromEnvironment builds a Client from API_KEY and QUOTE_API_URL.
func NewClientFromEnvironment() *Client {
	baseURL := os.Getenv("QUOTE_API_URL")

	if len(baseURL) == 0 {
		baseURL = DefaultBaseURL
	}

	return &Client{
		BaseURL: baseURL,
		APIKey:  os.Getenv("API_KEY"),
		// A single slow upstream request should not hang an order forever.
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

type quoteResult struct {
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"companyName"`
	LatestPrice json.Number `json:"latestPrice"`
}

// Lookup resolves a symbol to a quote.
//
// Network failures, unknown symbols, and malformed responses all report
// found = false. The quote service is only asked once per call.
func (client *Client) Lookup(ctx context.Context, symbol string) (model.Quote, bool) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	if len(symbol) == 0 {
		return model.Quote{}, false
	}

	requestURL := client.BaseURL +
		"/stock/" + url.PathEscape(symbol) +
		"/quote?token=" + url.QueryEscape(client.APIKey)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)

	if err != nil {
		return model.Quote{}, false
	}

	response, err := client.HTTPClient.Do(request)

	if err != nil {
		return model.Quote{}, false
	}

	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		return model.Quote{}, false
	}

	var result quoteResult

	if err := json.NewDecoder(response.Body).Decode(&result); err != nil {
		return model.Quote{}, false
	}

	price, err := decimal.NewFromString(result.LatestPrice.String())

	if err != nil || len(result.Symbol) == 0 {
		return model.Quote{}, false
	}

	return model.Quote{
		Symbol: result.Symbol,
		Name:   result.CompanyName,
		Price:  price,
	}, true
}
