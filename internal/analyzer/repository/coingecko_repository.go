package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"crypto-news-radar/internal/analyzer/config"
	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/pkg/logger"

	"golang.org/x/time/rate"
)

// coinGeckoMaxChartDays is the deepest history the free market_chart endpoint serves.
const coinGeckoMaxChartDays = 90

type coinGeckoRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewCoinGeckoRepository creates a market-data client for the CoinGecko API.
func NewCoinGeckoRepository(cfg *config.Config, log *logger.Logger) CoinGeckoRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.CoinGecko.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &coinGeckoRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

// Search performs a free-text coin search.
func (r *coinGeckoRepository) Search(ctx context.Context, query string) ([]dto.CoinGeckoCoin, error) {
	params := url.Values{}
	params.Set("query", query)

	body, err := r.sendRequest(ctx, "/api/v3/search", params)
	if err != nil {
		return nil, err
	}

	var resp dto.CoinGeckoSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return resp.Coins, nil
}

// GetSimplePrice returns the spot price and trailing 24h change for a coin id.
func (r *coinGeckoRepository) GetSimplePrice(ctx context.Context, id string) (*dto.CoinGeckoSimplePrice, error) {
	params := url.Values{}
	params.Set("ids", id)
	params.Set("vs_currencies", "usd")
	params.Set("include_24hr_change", "true")

	body, err := r.sendRequest(ctx, "/api/v3/simple/price", params)
	if err != nil {
		return nil, err
	}

	var resp map[string]dto.CoinGeckoSimplePrice
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode simple price response: %w", err)
	}

	price, ok := resp[id]
	if !ok {
		return nil, fmt.Errorf("no price entry for coin id %q", id)
	}

	return &price, nil
}

// GetMarketChart returns the trade-price history for the last N days, capped
// at the backend's maximum lookback.
func (r *coinGeckoRepository) GetMarketChart(ctx context.Context, id string, days int) (*dto.CoinGeckoMarketChart, error) {
	if days < 1 {
		days = 1
	}
	if days > coinGeckoMaxChartDays {
		days = coinGeckoMaxChartDays
	}

	params := url.Values{}
	params.Set("vs_currency", "usd")
	params.Set("days", strconv.Itoa(days))

	body, err := r.sendRequest(ctx, fmt.Sprintf("/api/v3/coins/%s/market_chart", url.PathEscape(id)), params)
	if err != nil {
		return nil, err
	}

	var resp dto.CoinGeckoMarketChart
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode market chart response: %w", err)
	}

	return &resp, nil
}

func (r *coinGeckoRepository) sendRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err))
		return nil, err
	}

	reqURL := fmt.Sprintf("%s%s?%s", r.cfg.CoinGecko.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to CoinGecko API",
			logger.ErrorField(err), logger.StringField("url", reqURL))
		return nil, fmt.Errorf("failed to send request to CoinGecko API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from CoinGecko API",
			logger.IntField("status_code", resp.StatusCode), logger.StringField("url", reqURL))
		return nil, fmt.Errorf("coingecko API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from CoinGecko API: %w", err)
	}

	return body, nil
}
