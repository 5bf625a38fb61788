package repository

import (
	"context"
	"time"

	"crypto-news-radar/internal/analyzer/dto"
)

// NewsFeedRepository defines the interface for fetching raw news records.
type NewsFeedRepository interface {
	GetLatestNews(ctx context.Context) ([]dto.RawNewsRecord, error)
}

// AIRepository defines the interface for the significance-filtering call.
// The API key is a per-request input supplied by the caller of the run.
type AIRepository interface {
	ClassifyNews(ctx context.Context, apiKey string, items []dto.NormalizedNewsItem) (*dto.ClassificationResult, error)
}

// BinanceRepository defines the interface for the primary market-data backend.
type BinanceRepository interface {
	// GetSpotPrice returns the current price for a trading pair.
	GetSpotPrice(ctx context.Context, symbol string) (float64, error)
	// GetCloseAt returns the close of the first bar at or after the given time.
	GetCloseAt(ctx context.Context, symbol string, at time.Time) (float64, error)
	// GetKlines returns fixed-interval candles between start and end, capped at limit rows.
	GetKlines(ctx context.Context, symbol, interval string, start, end time.Time, limit int) ([]dto.BinanceKline, error)
}

// CoinGeckoRepository defines the interface for the secondary market-data backend.
type CoinGeckoRepository interface {
	// Search performs a free-text symbol search.
	Search(ctx context.Context, query string) ([]dto.CoinGeckoCoin, error)
	// GetSimplePrice returns the spot price and trailing 24h change for a coin id.
	GetSimplePrice(ctx context.Context, id string) (*dto.CoinGeckoSimplePrice, error)
	// GetMarketChart returns the trade-price history for the last N days.
	GetMarketChart(ctx context.Context, id string, days int) (*dto.CoinGeckoMarketChart, error)
}
