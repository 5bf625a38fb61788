package strategy

import (
	"context"
	"time"

	"crypto-news-radar/internal/analyzer/dto"
)

// MarketDataStrategy is one market-data backend in the fallback chain. The
// correlator and chart provider iterate the configured strategies in order and
// take the first non-empty answer; a backend that cannot answer reports
// ok=false or an empty series rather than an error.
type MarketDataStrategy interface {
	Name() string
	// PriceChange computes the percent price change for a ticker anchored at
	// the given publication time. A nil anchor means the anchor is unknown;
	// backends that require one report ok=false.
	PriceChange(ctx context.Context, ticker string, anchor *time.Time) (float64, bool)
	// Series returns OHLC points for the ticker in [start, end], ascending.
	Series(ctx context.Context, ticker string, start, end time.Time) []dto.OHLCPoint
}

// TickerResolver maps a free-text ticker to a backend-internal asset id.
type TickerResolver interface {
	Resolve(ctx context.Context, ticker string) (string, bool)
}
