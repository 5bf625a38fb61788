package repository

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"crypto-news-radar/internal/analyzer/config"
	"crypto-news-radar/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func coinGeckoConfig(baseURL string) *config.Config {
	return &config.Config{
		CoinGecko: config.CoinGecko{
			BaseURL:             baseURL,
			MaxRequestPerMinute: 6000,
		},
	}
}

func TestCoinGeckoRepository_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/search", r.URL.Path)
		assert.Equal(t, "pepe", r.URL.Query().Get("query"))
		_, _ = w.Write([]byte(`{"coins": [
			{"id": "pepe", "name": "Pepe", "symbol": "PEPE"},
			{"id": "pepe-2", "name": "Pepe 2.0", "symbol": "PEPE2"}
		]}`))
	}))
	defer server.Close()

	repo := NewCoinGeckoRepository(coinGeckoConfig(server.URL), logger.NewNop())

	coins, err := repo.Search(context.Background(), "pepe")

	require.NoError(t, err)
	require.Len(t, coins, 2)
	assert.Equal(t, "pepe", coins[0].ID)
	assert.Equal(t, "PEPE", coins[0].Symbol)
}

func TestCoinGeckoRepository_GetSimplePrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "true", r.URL.Query().Get("include_24hr_change"))
		_, _ = w.Write([]byte(`{"bitcoin": {"usd": 65123.45, "usd_24h_change": -3.2}}`))
	}))
	defer server.Close()

	repo := NewCoinGeckoRepository(coinGeckoConfig(server.URL), logger.NewNop())

	price, err := repo.GetSimplePrice(context.Background(), "bitcoin")

	require.NoError(t, err)
	assert.Equal(t, 65123.45, price.USD)
	assert.Equal(t, -3.2, price.USD24hChange)
}

func TestCoinGeckoRepository_GetSimplePriceMissingEntry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	repo := NewCoinGeckoRepository(coinGeckoConfig(server.URL), logger.NewNop())

	_, err := repo.GetSimplePrice(context.Background(), "ghost-coin")

	require.Error(t, err)
}

func TestCoinGeckoRepository_GetMarketChartClampsDays(t *testing.T) {
	var gotDays string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/coins/bitcoin/market_chart", r.URL.Path)
		gotDays = r.URL.Query().Get("days")
		_, _ = w.Write([]byte(`{"prices": [[1714564200000, 64000.5]]}`))
	}))
	defer server.Close()

	repo := NewCoinGeckoRepository(coinGeckoConfig(server.URL), logger.NewNop())

	chart, err := repo.GetMarketChart(context.Background(), "bitcoin", 365)
	require.NoError(t, err)
	assert.Equal(t, "90", gotDays)
	require.Len(t, chart.Prices, 1)
	assert.Equal(t, 64000.5, chart.Prices[0][1])

	_, err = repo.GetMarketChart(context.Background(), "bitcoin", 0)
	require.NoError(t, err)
	assert.Equal(t, "1", gotDays)
}

func TestCoinGeckoRepository_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer server.Close()

	repo := NewCoinGeckoRepository(coinGeckoConfig(server.URL), logger.NewNop())

	_, err := repo.Search(context.Background(), "pepe")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
