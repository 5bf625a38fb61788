package service

import (
	"regexp"
	"strings"

	"crypto-news-radar/internal/analyzer/dto"
	"crypto-news-radar/internal/analyzer/repository"
)

var (
	// ordinalLinePattern matches the start of a new highlight, e.g. "3. ...".
	ordinalLinePattern = regexp.MustCompile(`^\d+\.`)
	// tickerPattern matches $-prefixed ticker candidates of 2-10 uppercase
	// alphanumerics.
	tickerPattern = regexp.MustCompile(`\$([A-Z0-9]{2,10})`)
	// dollarAmountPattern recognizes candidates that are really money amounts
	// ($250M, $10B, $500K), which must not be mistaken for tickers.
	dollarAmountPattern = regexp.MustCompile(`^\d+[KMB]?$`)

	linkPrefix = "Link:"
)

// HighlightExtractor parses the classification provider's free-text reply into
// discrete highlight records. Extraction is deterministic and preserves the
// ordinal order of the reply.
type HighlightExtractor struct{}

// NewHighlightExtractor creates a new HighlightExtractor.
func NewHighlightExtractor() *HighlightExtractor {
	return &HighlightExtractor{}
}

// Extract returns the highlights found in raw. The provider's "nothing
// significant" sentinel yields zero highlights.
func (e *HighlightExtractor) Extract(raw string) []dto.Highlight {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == repository.NoSignificantNewsSentinel {
		return nil
	}

	var highlights []dto.Highlight
	var current *dto.Highlight

	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case ordinalLinePattern.MatchString(line) && strings.Contains(line, ":"):
			if current != nil {
				highlights = append(highlights, *current)
			}
			current = &dto.Highlight{
				Text:   line,
				Ticker: extractTicker(line),
			}
		case strings.HasPrefix(line, linkPrefix):
			// First Link: line wins; later ones are ignored.
			if current != nil && current.URL == "" {
				current.URL = strings.TrimSpace(strings.TrimPrefix(line, linkPrefix))
			}
		default:
			if current != nil {
				current.Text += " " + line
			}
		}
	}

	if current != nil {
		highlights = append(highlights, *current)
	}

	return highlights
}

// extractTicker returns the first $TICKER token in the line that is not a
// dollar amount, or "" when none is present.
func extractTicker(line string) string {
	for _, match := range tickerPattern.FindAllStringSubmatch(line, -1) {
		candidate := match[1]
		if dollarAmountPattern.MatchString(candidate) {
			continue
		}
		return candidate
	}
	return ""
}
