package strategy

import (
	"context"
	"strings"
	"sync"
	"time"

	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/internal/analyzer/repository"
	"crypto-news-radar/pkg/logger"
	"crypto-news-radar/pkg/utils"
)

const (
	binanceQuoteAsset    = "USDT"
	binanceChartInterval = "5m"
	binanceChartLimit    = 500
)

// binancePairAliases maps tickers whose Binance trading symbol differs from
// the name the classification output uses.
var binancePairAliases = map[string]string{
	"BITCOIN":  "BTC",
	"ETHEREUM": "ETH",
	"SOLANA":   "SOL",
	"RIPPLE":   "XRP",
	"DOGECOIN": "DOGE",
	"CARDANO":  "ADA",
}

// BinanceStrategy answers price questions from the Binance spot API. It is the
// primary backend in the fallback chain.
type BinanceStrategy struct {
	logger      *logger.Logger
	binanceRepo repository.BinanceRepository
}

// NewBinanceStrategy creates a new BinanceStrategy.
func NewBinanceStrategy(log *logger.Logger, binanceRepo repository.BinanceRepository) *BinanceStrategy {
	return &BinanceStrategy{
		logger:      log,
		binanceRepo: binanceRepo,
	}
}

// Name returns the strategy name.
func (s *BinanceStrategy) Name() string {
	return "binance"
}

// PriceChange fetches the close at the anchor and the current spot price
// concurrently and returns the percent change between them. An anchor is
// required; without one Binance cannot place the historical bar.
func (s *BinanceStrategy) PriceChange(ctx context.Context, ticker string, anchor *time.Time) (float64, bool) {
	if anchor == nil {
		return 0, false
	}

	pair := s.TradingPair(ticker)

	var (
		wg         sync.WaitGroup
		historical float64
		current    float64
		histErr    error
		spotErr    error
	)

	wg.Add(2)
	utils.GoSafe(func() {
		defer wg.Done()
		historical, histErr = s.binanceRepo.GetCloseAt(ctx, pair, *anchor)
	})
	utils.GoSafe(func() {
		defer wg.Done()
		current, spotErr = s.binanceRepo.GetSpotPrice(ctx, pair)
	})
	wg.Wait()

	if histErr != nil || spotErr != nil {
		s.logger.DebugContext(ctx, "Binance price change unavailable",
			logger.StringField("pair", pair),
			logger.ErrorField(histErr),
			logger.ErrorField(spotErr),
		)
		return 0, false
	}

	if historical <= 0 {
		return 0, false
	}

	return (current - historical) / historical * 100, true
}

// Series returns 5m candles for the ticker in [start, end], capped at the
// backend's row limit.
func (s *BinanceStrategy) Series(ctx context.Context, ticker string, start, end time.Time) []dto.OHLCPoint {
	pair := s.TradingPair(ticker)

	klines, err := s.binanceRepo.GetKlines(ctx, pair, binanceChartInterval, start, end, binanceChartLimit)
	if err != nil {
		s.logger.DebugContext(ctx, "Binance series unavailable",
			logger.StringField("pair", pair), logger.ErrorField(err))
		return nil
	}

	points := make([]dto.OHLCPoint, 0, len(klines))
	for _, k := range klines {
		points = append(points, dto.OHLCPoint{
			Timestamp: time.UnixMilli(k.OpenTime),
			Open:      k.Open,
			High:      k.High,
			Low:       k.Low,
			Close:     k.Close,
		})
	}

	return points
}

// TradingPair derives the Binance trading pair for a ticker.
func (s *BinanceStrategy) TradingPair(ticker string) string {
	base := strings.ToUpper(strings.TrimSpace(ticker))
	if alias, ok := binancePairAliases[base]; ok {
		base = alias
	}
	return base + binanceQuoteAsset
}
