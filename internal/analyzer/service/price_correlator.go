package service

import (
	"context"
	"fmt"
	"time"

	"crypto-news-radar/internal/analyzer/strategy"
	"crypto-news-radar/pkg/logger"
)

// PriceCorrelator computes the percent price change for a ticker anchored at
// the publication time of the news it came from. Backends are tried in the
// configured order; a run with no answer is missing data, not an error.
type PriceCorrelator struct {
	logger     *logger.Logger
	strategies []strategy.MarketDataStrategy
	now        func() time.Time
}

// NewPriceCorrelator creates a correlator over the ordered backend list.
func NewPriceCorrelator(log *logger.Logger, strategies []strategy.MarketDataStrategy) *PriceCorrelator {
	return &PriceCorrelator{
		logger:     log,
		strategies: strategies,
		now:        time.Now,
	}
}

// Correlate returns the percent change for ticker since anchor, or nil when no
// backend can answer.
func (c *PriceCorrelator) Correlate(ctx context.Context, ticker string, anchor *time.Time) *float64 {
	for _, s := range c.strategies {
		if change, ok := s.PriceChange(ctx, ticker, anchor); ok {
			c.logger.DebugContext(ctx, "Price change computed",
				logger.StringField("ticker", ticker),
				logger.StringField("backend", s.Name()),
				logger.Float64Field("percent_change", change),
			)
			return &change
		}
	}

	c.logger.DebugContext(ctx, "No backend could price the ticker", logger.StringField("ticker", ticker))
	return nil
}

// TimeAgo formats the elapsed time since anchor using the largest unit that is
// at least one: seconds below a minute, minutes below an hour, hours below a
// day, days otherwise.
func (c *PriceCorrelator) TimeAgo(anchor time.Time) string {
	elapsed := c.now().Sub(anchor)
	if elapsed < 0 {
		elapsed = 0
	}

	switch {
	case elapsed < time.Minute:
		return fmt.Sprintf("%ds", int(elapsed.Seconds()))
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd", int(elapsed.Hours()/24))
	}
}
