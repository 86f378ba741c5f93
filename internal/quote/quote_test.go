package quote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(server *httptest.Server) *Client {
	return &Client{
		BaseURL:    server.URL,
		APIKey:     "test-key",
		HTTPClient: server.Client(),
	}
}

func TestLookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/stock/NFLX/quote", request.URL.Path)
		assert.Equal(t, "test-key", request.URL.Query().Get("token"))

		writer.Header().Set("Content-Type", "application/json")
		writer.Write([]byte(`{"symbol": "NFLX", "companyName": "Netflix, Inc.", "latestPrice": 123.45}`))
	}))
	defer server.Close()

	client := newClient(server)

	// The submitted symbol is upper-cased before the request is made.
	result, found := client.Lookup(context.Background(), "nflx")

	require.True(t, found)
	assert.Equal(t, "NFLX", result.Symbol)
	assert.Equal(t, "Netflix, Inc.", result.Name)
	assert.True(t, decimal.RequireFromString("123.45").Equal(result.Price))
}

func TestLookupUnknownSymbol(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		http.Error(writer, "Unknown symbol", http.StatusNotFound)
	}))
	defer server.Close()

	_, found := newClient(server).Lookup(context.Background(), "NOPE")

	assert.False(t, found)
}

func TestLookupMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("not json at all"))
	}))
	defer server.Close()

	_, found := newClient(server).Lookup(context.Background(), "NFLX")

	assert.False(t, found)
}

func TestLookupMissingPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte(`{"symbol": "NFLX", "companyName": "Netflix, Inc."}`))
	}))
	defer server.Close()

	_, found := newClient(server).Lookup(context.Background(), "NFLX")

	assert.False(t, found)
}

func TestLookupEmptySymbol(t *testing.T) {
	client := &Client{BaseURL: "http://localhost:1", APIKey: "x", HTTPClient: http.DefaultClient}

	_, found := client.Lookup(context.Background(), "   ")

	assert.False(t, found)
}

func TestLookupServerUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {}))
	client := newClient(server)
	server.Close()

	_, found := client.Lookup(context.Background(), "NFLX")

	assert.False(t, found)
}
