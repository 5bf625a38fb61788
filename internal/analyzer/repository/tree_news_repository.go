package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crypto-news-radar/internal/analyzer/config"
	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/pkg/logger"

	"golang.org/x/time/rate"
)

type treeNewsRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
}

// NewTreeNewsRepository creates a news feed client for the TreeNews-compatible API.
func NewTreeNewsRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.NewsFeed.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)
	return &treeNewsRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		requestLimiter: requestLimiter,
	}
}

// GetLatestNews fetches the most recent raw news records from the feed.
func (r *treeNewsRepository) GetLatestNews(ctx context.Context) ([]dto.RawNewsRecord, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.log.Error("Failed to wait for request limit", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	url := fmt.Sprintf("%s/api/news?limit=%d", r.cfg.NewsFeed.BaseURL, r.cfg.NewsFeed.Limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	r.log.DebugContext(ctx, "Fetching news feed", logger.StringField("url", url))

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.Error("Failed to send request to news feed", logger.ErrorField(err), logger.StringField("url", url))
		return nil, fmt.Errorf("failed to send request to news feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.Error("Received non-OK response from news feed",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("url", url),
		)
		return nil, fmt.Errorf("news feed error %d: %s", resp.StatusCode, string(body))
	}

	var records []dto.RawNewsRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode news feed response: %w", err)
	}

	r.log.DebugContext(ctx, "Fetched news feed", logger.IntField("count", len(records)))

	return records, nil
}
