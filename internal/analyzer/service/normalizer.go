package service

import (
	"strings"
	"time"

	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/pkg/utils"
)

const (
	sourceUnknown = "NO_SOURCE"
	sourceTwitter = "TWITTER"

	twitterURLPrefix = "https://twitter.com/"
)

// Normalizer converts heterogeneous raw news records into the canonical shape
// fed to the classification provider. Absent fields degrade to defaults; a
// record is never dropped or rejected.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer creates a new Normalizer.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize maps every raw record to a normalized item, preserving order.
func (n *Normalizer) Normalize(records []dto.RawNewsRecord) []dto.NormalizedNewsItem {
	items := make([]dto.NormalizedNewsItem, 0, len(records))
	for _, record := range records {
		items = append(items, n.normalizeOne(record))
	}
	return items
}

func (n *Normalizer) normalizeOne(record dto.RawNewsRecord) dto.NormalizedNewsItem {
	source := record.Source
	if source == "" {
		source = sourceUnknown
	}
	if source == sourceUnknown && strings.HasPrefix(record.URL, twitterURLPrefix) {
		source = sourceTwitter
	}

	publishedAt := record.PublishedAt()
	if publishedAt.IsZero() {
		// Fails closed: an undated item sorts as least relevant but is kept.
		publishedAt = n.now()
	}

	item := dto.NormalizedNewsItem{
		Timestamp:   utils.FormatNewsTime(publishedAt),
		Source:      source,
		Title:       record.Title,
		Body:        record.Body,
		URL:         record.URL,
		PublishedAt: publishedAt,
	}

	if strings.EqualFold(source, sourceTwitter) {
		if idx := strings.Index(record.Title, ":"); idx > 0 {
			author := strings.TrimSpace(record.Title[:idx])
			item.Source = author
			item.Title = author
			item.Author = author
			item.Body = strings.TrimSpace(record.Title[idx+1:])
		} else {
			item.Body = record.Title
		}
	}

	if item.Body == "" {
		item.Body = item.Title
	}

	return item
}
