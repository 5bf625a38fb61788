package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"crypto-news-radar/internal/analyzer/config"
	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/internal/analyzer/repository"
	"crypto-news-radar/pkg/logger"
	"crypto-news-radar/pkg/telegram"
	"crypto-news-radar/pkg/utils"
)

// AnalyzerService runs one full analysis: fetch news, filter the window,
// normalize, classify, and enrich each surfaced highlight with market data.
type AnalyzerService interface {
	Analyze(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResult, error)
}

type analyzerService struct {
	cfg              *config.Config
	logger           *logger.Logger
	newsRepo         repository.NewsFeedRepository
	aiRepo           repository.AIRepository
	normalizer       *Normalizer
	extractor        *HighlightExtractor
	resolver         *SymbolResolver
	correlator       *PriceCorrelator
	telegramNotifier telegram.Notifier
	now              func() time.Time
}

// NewAnalyzerService creates a new AnalyzerService. The Telegram notifier may
// be nil when notifications are disabled.
func NewAnalyzerService(
	cfg *config.Config,
	log *logger.Logger,
	newsRepo repository.NewsFeedRepository,
	aiRepo repository.AIRepository,
	normalizer *Normalizer,
	extractor *HighlightExtractor,
	resolver *SymbolResolver,
	correlator *PriceCorrelator,
	telegramNotifier telegram.Notifier,
) AnalyzerService {
	return &analyzerService{
		cfg:              cfg,
		logger:           log,
		newsRepo:         newsRepo,
		aiRepo:           aiRepo,
		normalizer:       normalizer,
		extractor:        extractor,
		resolver:         resolver,
		correlator:       correlator,
		telegramNotifier: telegramNotifier,
		now:              time.Now,
	}
}

// Analyze runs the full pipeline for one caller-supplied window.
func (s *analyzerService) Analyze(ctx context.Context, req dto.AnalysisRequest) (*dto.AnalysisResult, error) {
	records, err := s.newsRepo.GetLatestNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("news feed unavailable: %w", err)
	}

	windowed := s.filterWindow(records, req.HoursBack)
	items := s.normalizer.Normalize(windowed)

	result := &dto.AnalysisResult{
		Highlights: []dto.Highlight{},
		Stats:      batchStats(items),
	}

	if len(items) == 0 {
		s.logger.Info("No news in the requested window",
			logger.Float64Field("hours_back", req.HoursBack))
		result.NoSignificantNews = true
		return result, nil
	}

	s.logger.Info("Classifying news batch",
		logger.IntField("batch_size", len(items)),
		logger.Float64Field("hours_back", req.HoursBack),
	)

	classification, err := s.aiRepo.ClassifyNews(ctx, req.APIKey, items)
	if err != nil {
		return nil, err
	}

	result.Usage = classification.Usage
	result.RawClassification = classification.Content

	highlights := s.extractor.Extract(classification.Content)
	if len(highlights) == 0 {
		s.logger.Info("No significant news in batch",
			logger.IntField("batch_size", len(items)))
		result.NoSignificantNews = true
		return result, nil
	}

	// Sequential enrichment bounds in-flight requests against the market
	// backends; fan-out happens only inside the primary backend's price pair.
	for i := range highlights {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		s.enrichHighlight(ctx, &highlights[i], items)
	}

	result.Highlights = highlights

	s.notify(highlights)

	return result, nil
}

// enrichHighlight fills in anchor, time-ago, resolved symbol, and price change
// where available. Enrichment failures leave the highlight text-only.
func (s *analyzerService) enrichHighlight(ctx context.Context, h *dto.Highlight, items []dto.NormalizedNewsItem) {
	anchor := s.anchorFor(h.URL, items)
	if anchor != nil {
		h.AnchorTime = anchor
		h.TimeAgo = s.correlator.TimeAgo(*anchor)
	}

	if h.Ticker == "" {
		return
	}

	if id, ok := s.resolver.Resolve(ctx, h.Ticker); ok {
		h.Symbol = id
	}

	h.PriceChange = s.correlator.Correlate(ctx, h.Ticker, anchor)
}

// anchorFor finds the publication time of the news item a highlight came from
// by matching its URL, falling back to the newest item in the window.
func (s *analyzerService) anchorFor(url string, items []dto.NormalizedNewsItem) *time.Time {
	if url != "" {
		for _, item := range items {
			if item.URL == url {
				t := item.PublishedAt
				return &t
			}
		}
	}

	if len(items) > 0 {
		t := items[0].PublishedAt
		return &t
	}

	return nil
}

// filterWindow keeps records published within the last hoursBack hours, newest
// first. Records with no usable publish time are excluded from the batch.
func (s *analyzerService) filterWindow(records []dto.RawNewsRecord, hoursBack float64) []dto.RawNewsRecord {
	cutoff := s.now().Add(-time.Duration(hoursBack * float64(time.Hour)))

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PublishedAt().After(records[j].PublishedAt())
	})

	var windowed []dto.RawNewsRecord
	for _, record := range records {
		publishedAt := record.PublishedAt()
		if publishedAt.IsZero() || publishedAt.Before(cutoff) {
			continue
		}
		windowed = append(windowed, record)
	}

	return windowed
}

func (s *analyzerService) notify(highlights []dto.Highlight) {
	if s.telegramNotifier == nil {
		return
	}

	messages := telegram.FormatHighlightsForTelegram(highlights)
	for _, message := range messages {
		if err := s.telegramNotifier.SendMessage(message); err != nil {
			s.logger.Error("Failed to send Telegram notification", logger.ErrorField(err))
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func batchStats(items []dto.NormalizedNewsItem) dto.BatchStats {
	stats := dto.BatchStats{TotalNews: len(items)}
	if len(items) == 0 {
		return stats
	}
	stats.Newest = items[0].PublishedAt
	stats.Oldest = items[len(items)-1].PublishedAt
	return stats
}
