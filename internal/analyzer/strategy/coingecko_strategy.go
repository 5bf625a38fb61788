package strategy

import (
	"context"
	"time"

	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/internal/analyzer/repository"
	"crypto-news-radar/pkg/logger"
)

// CoinGeckoStrategy answers price questions from the CoinGecko aggregator. It
// is the fallback backend: it only knows spot prices and a trailing 24h change
// statistic, so its candles are flat and its change ignores the anchor.
type CoinGeckoStrategy struct {
	logger        *logger.Logger
	coinGeckoRepo repository.CoinGeckoRepository
	resolver      TickerResolver
}

// NewCoinGeckoStrategy creates a new CoinGeckoStrategy.
func NewCoinGeckoStrategy(log *logger.Logger, coinGeckoRepo repository.CoinGeckoRepository, resolver TickerResolver) *CoinGeckoStrategy {
	return &CoinGeckoStrategy{
		logger:        log,
		coinGeckoRepo: coinGeckoRepo,
		resolver:      resolver,
	}
}

// Name returns the strategy name.
func (s *CoinGeckoStrategy) Name() string {
	return "coingecko"
}

// PriceChange returns the trailing 24h change for the resolved coin.
func (s *CoinGeckoStrategy) PriceChange(ctx context.Context, ticker string, _ *time.Time) (float64, bool) {
	id, ok := s.resolver.Resolve(ctx, ticker)
	if !ok {
		return 0, false
	}

	price, err := s.coinGeckoRepo.GetSimplePrice(ctx, id)
	if err != nil {
		s.logger.DebugContext(ctx, "CoinGecko price change unavailable",
			logger.StringField("coin_id", id), logger.ErrorField(err))
		return 0, false
	}

	return price.USD24hChange, true
}

// Series returns the coin's trade-price history filtered to [start, end],
// synthesized into flat candles.
func (s *CoinGeckoStrategy) Series(ctx context.Context, ticker string, start, end time.Time) []dto.OHLCPoint {
	id, ok := s.resolver.Resolve(ctx, ticker)
	if !ok {
		return nil
	}

	days := int(time.Since(start).Hours()/24) + 1

	chart, err := s.coinGeckoRepo.GetMarketChart(ctx, id, days)
	if err != nil {
		s.logger.DebugContext(ctx, "CoinGecko series unavailable",
			logger.StringField("coin_id", id), logger.ErrorField(err))
		return nil
	}

	var points []dto.OHLCPoint
	for _, row := range chart.Prices {
		if len(row) < 2 {
			continue
		}
		ts := time.UnixMilli(int64(row[0]))
		if ts.Before(start) || ts.After(end) {
			continue
		}
		price := row[1]
		points = append(points, dto.OHLCPoint{
			Timestamp: ts,
			Open:      price,
			High:      price,
			Low:       price,
			Close:     price,
		})
	}

	return points
}
