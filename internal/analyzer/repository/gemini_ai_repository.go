package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"crypto-news-radar/internal/analyzer/config"
	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/pkg/logger"
	"crypto-news-radar/pkg/ratelimit"

	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

// geminiAIRepository is an AIRepository backed by the Google Gemini API. The
// credential comes from service config; the per-request key is ignored.
type geminiAIRepository struct {
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// ClassifyNews performs significance filtering using the Gemini API.
func (r *geminiAIRepository) ClassifyNews(ctx context.Context, _ string, items []dto.NormalizedNewsItem) (*dto.ClassificationResult, error) {
	batch, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal news batch: %w", err)
	}
	userMessage := fmt.Sprintf("<BATCH>\n%s\n</BATCH>", batch)

	contents := []*genai.Content{
		genai.NewContentFromText(userMessage, "user"),
	}

	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, r.cfg.Gemini.Model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{
		Temperature:       genai.Ptr[float32](0),
		TopP:              genai.Ptr[float32](1),
		MaxOutputTokens:   1000,
		SystemInstruction: genai.NewContentFromText(significanceSystemPrompt, "system"),
	}

	resp, err := r.genAiClient.Models.GenerateContent(ctx, r.cfg.Gemini.Model, contents, genCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content from Gemini API: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("no content found in Gemini response")
	}

	result := &dto.ClassificationResult{Content: text}
	if resp.UsageMetadata != nil {
		result.Usage = dto.Usage{
			PromptTokens:     int(resp.UsageMetadata.PromptTokenCount),
			CompletionTokens: int(resp.UsageMetadata.CandidatesTokenCount),
			TotalTokens:      int(resp.UsageMetadata.TotalTokenCount),
		}
	}

	return result, nil
}
