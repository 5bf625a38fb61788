package service

import (
	"context"
	"sort"
	"time"

	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/internal/analyzer/strategy"
	"crypto-news-radar/pkg/logger"
)

// ChartSeriesProvider fetches a bounded OHLC series for a ticker between two
// points in time, falling back through the backend chain. An empty result
// means "no chart available", never a failure.
type ChartSeriesProvider struct {
	logger     *logger.Logger
	strategies []strategy.MarketDataStrategy
}

// NewChartSeriesProvider creates a provider over the ordered backend list.
func NewChartSeriesProvider(log *logger.Logger, strategies []strategy.MarketDataStrategy) *ChartSeriesProvider {
	return &ChartSeriesProvider{
		logger:     log,
		strategies: strategies,
	}
}

// Series returns OHLC points for the ticker in [start, end], ascending by
// timestamp.
func (p *ChartSeriesProvider) Series(ctx context.Context, ticker string, start, end time.Time) []dto.OHLCPoint {
	for _, s := range p.strategies {
		points := s.Series(ctx, ticker, start, end)
		if len(points) == 0 {
			continue
		}

		sort.Slice(points, func(i, j int) bool {
			return points[i].Timestamp.Before(points[j].Timestamp)
		})

		p.logger.DebugContext(ctx, "Chart series fetched",
			logger.StringField("ticker", ticker),
			logger.StringField("backend", s.Name()),
			logger.IntField("points", len(points)),
		)
		return points
	}

	return []dto.OHLCPoint{}
}
