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

type binanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewBinanceRepository creates a market-data client for the Binance spot API.
func NewBinanceRepository(cfg *config.Config, log *logger.Logger) BinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Binance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &binanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

// GetSpotPrice returns the current price for a trading pair.
func (r *binanceRepository) GetSpotPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)

	body, err := r.sendRequest(ctx, "/api/v3/ticker/price", params)
	if err != nil {
		return 0, err
	}

	var resp dto.BinanceSpotPrice
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, fmt.Errorf("failed to decode spot price response: %w", err)
	}

	price, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse spot price %q: %w", resp.Price, err)
	}

	return price, nil
}

// GetCloseAt returns the close price of the first 1m bar at or after the given time.
func (r *binanceRepository) GetCloseAt(ctx context.Context, symbol string, at time.Time) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1m")
	params.Set("startTime", strconv.FormatInt(at.UnixMilli(), 10))
	params.Set("limit", "1")

	klines, err := r.fetchKlines(ctx, params)
	if err != nil {
		return 0, err
	}
	if len(klines) == 0 {
		return 0, fmt.Errorf("no kline found for %s at %s", symbol, at)
	}

	return klines[0].Close, nil
}

// GetKlines returns fixed-interval candles between start and end, capped at limit rows.
func (r *binanceRepository) GetKlines(ctx context.Context, symbol, interval string, start, end time.Time, limit int) ([]dto.BinanceKline, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", interval)
	params.Set("startTime", strconv.FormatInt(start.UnixMilli(), 10))
	params.Set("endTime", strconv.FormatInt(end.UnixMilli(), 10))
	params.Set("limit", strconv.Itoa(limit))

	return r.fetchKlines(ctx, params)
}

func (r *binanceRepository) fetchKlines(ctx context.Context, params url.Values) ([]dto.BinanceKline, error) {
	body, err := r.sendRequest(ctx, "/api/v3/klines", params)
	if err != nil {
		return nil, err
	}

	var rows [][]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode klines response: %w", err)
	}

	klines := make([]dto.BinanceKline, 0, len(rows))
	for _, row := range rows {
		kline, err := parseKlineRow(row)
		if err != nil {
			r.log.Warn("Skipping malformed kline row", logger.ErrorField(err))
			continue
		}
		klines = append(klines, kline)
	}

	return klines, nil
}

// parseKlineRow parses one wire row: [openTime, open, high, low, close, ...].
func parseKlineRow(row []interface{}) (dto.BinanceKline, error) {
	if len(row) < 5 {
		return dto.BinanceKline{}, fmt.Errorf("kline row has %d fields, want at least 5", len(row))
	}

	openTime, ok := row[0].(float64)
	if !ok {
		return dto.BinanceKline{}, fmt.Errorf("kline open time has unexpected type %T", row[0])
	}

	prices := make([]float64, 4)
	for i := 1; i <= 4; i++ {
		s, ok := row[i].(string)
		if !ok {
			return dto.BinanceKline{}, fmt.Errorf("kline field %d has unexpected type %T", i, row[i])
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return dto.BinanceKline{}, fmt.Errorf("failed to parse kline field %d: %w", i, err)
		}
		prices[i-1] = v
	}

	return dto.BinanceKline{
		OpenTime: int64(openTime),
		Open:     prices[0],
		High:     prices[1],
		Low:      prices[2],
		Close:    prices[3],
	}, nil
}

func (r *binanceRepository) sendRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.ErrorContext(ctx, "Failed to wait for request limit", logger.ErrorField(err))
		return nil, err
	}

	reqURL := fmt.Sprintf("%s%s?%s", r.cfg.Binance.BaseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Binance API",
			logger.ErrorField(err), logger.StringField("url", reqURL))
		return nil, fmt.Errorf("failed to send request to Binance API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Received non-OK response from Binance API",
			logger.IntField("status_code", resp.StatusCode), logger.StringField("url", reqURL))
		return nil, fmt.Errorf("binance API error: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from Binance API: %w", err)
	}

	return body, nil
}
