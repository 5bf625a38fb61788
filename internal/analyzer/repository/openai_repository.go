package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"crypto-news-radar/internal/analyzer/config"
	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/pkg/common"
	"crypto-news-radar/pkg/logger"
	"crypto-news-radar/pkg/ratelimit"

	"golang.org/x/time/rate"
)

type openAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
}

// NewOpenAIRepository creates a classification client for an OpenAI-compatible
// chat completions endpoint.
func NewOpenAIRepository(cfg *config.Config, logger *logger.Logger) AIRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.OpenAI.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.OpenAI.MaxTokenPerMinute)

	return &openAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         logger,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
	}
}

// ClassifyNews submits the normalized batch for significance filtering and
// returns the provider's free-text reply.
func (r *openAIRepository) ClassifyNews(ctx context.Context, apiKey string, items []dto.NormalizedNewsItem) (*dto.ClassificationResult, error) {
	if err := r.requestLimiter.Wait(ctx); err != nil {
		r.logger.Error("failed to wait for request limit", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	messages, err := BuildClassificationMessages(items)
	if err != nil {
		return nil, err
	}

	payload := dto.ChatRequest{
		Model:       r.cfg.OpenAI.Model,
		Messages:    messages,
		Temperature: 0,
		MaxTokens:   1000,
		TopP:        1,
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	url := r.cfg.OpenAI.BaseURL + "/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	r.logger.DebugContext(ctx, "Sending classification request",
		logger.StringField("url", url),
		logger.StringField("model", r.cfg.OpenAI.Model),
		logger.IntField("batch_size", len(items)),
	)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to OpenAI API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		detail := extractErrorDetail(body)
		r.logger.Error("Received non-OK response from OpenAI API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("detail", detail),
		)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: %s", common.ErrAuthentication, detail)
		}
		return nil, fmt.Errorf("OpenAI error %d: %s", resp.StatusCode, detail)
	}

	var chatResp dto.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("no content found in OpenAI response")
	}

	if err := r.tokenLimiter.Wait(ctx, chatResp.Usage.TotalTokens); err != nil {
		r.logger.Error("failed to wait for token limit", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	return &dto.ClassificationResult{
		Content: chatResp.Choices[0].Message.Content,
		Usage:   chatResp.Usage,
	}, nil
}

// extractErrorDetail pulls a human-readable message from an OpenAI-style error
// payload, falling back to the raw body.
func extractErrorDetail(body []byte) string {
	var errResp dto.ChatErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return string(body)
}
