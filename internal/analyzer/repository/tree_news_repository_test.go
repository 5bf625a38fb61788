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

func newsFeedConfig(baseURL string) *config.Config {
	return &config.Config{
		NewsFeed: config.NewsFeed{
			BaseURL:             baseURL,
			Limit:               1500,
			MaxRequestPerMinute: 6000,
		},
	}
}

func TestTreeNewsRepository_GetLatestNews(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/news", r.URL.Path)
		assert.Equal(t, "1500", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"time": 1714563600000, "source": "TWITTER", "title": "Alice: bought the dip", "url": "https://twitter.com/alice/status/1"},
			{"_id": "abc", "sendTime": 1714563500000, "title": "ETF approved", "body": "details", "url": "https://example.com/etf"}
		]`))
	}))
	defer server.Close()

	repo := NewTreeNewsRepository(newsFeedConfig(server.URL), logger.NewNop())

	records, err := repo.GetLatestNews(context.Background())

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, int64(1714563600000), records[0].Time)
	assert.Equal(t, "TWITTER", records[0].Source)
	assert.Equal(t, int64(1714563500000), records[1].SendTime)
	assert.Equal(t, "details", records[1].Body)
}

func TestTreeNewsRepository_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	repo := NewTreeNewsRepository(newsFeedConfig(server.URL), logger.NewNop())

	_, err := repo.GetLatestNews(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestTreeNewsRepository_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not": "an array"}`))
	}))
	defer server.Close()

	repo := NewTreeNewsRepository(newsFeedConfig(server.URL), logger.NewNop())

	_, err := repo.GetLatestNews(context.Background())

	require.Error(t, err)
}
