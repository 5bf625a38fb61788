package telegram

import (
	"fmt"
	"strings"

	"crypto-news-radar/internal/analyzer/dto"
)

// FormatHighlightsForTelegram formats enriched highlights into Markdown
// messages for Telegram, splitting so no message exceeds the API limit.
func FormatHighlightsForTelegram(highlights []dto.Highlight) []string {
	if len(highlights) == 0 {
		return []string{"No significant crypto news in this window."}
	}

	const maxLen = 4090
	var messages []string
	var currentMessage strings.Builder
	part := 1

	startNewPart := func() {
		currentMessage.Reset()
		var header string
		if part == 1 {
			header = "🚨 *Market-Moving Crypto News* 🚨\n\n"
		} else {
			header = fmt.Sprintf("---*Market-Moving Crypto News Part %d*---\n\n", part)
		}
		currentMessage.WriteString(header)
	}

	startNewPart()

	for _, h := range highlights {
		var entryBuilder strings.Builder
		entryBuilder.WriteString(fmt.Sprintf("📰 %s\n", h.Text))

		if h.Ticker != "" {
			entryBuilder.WriteString(fmt.Sprintf("🪙 *Ticker:* $%s\n", h.Ticker))
		}
		if h.PriceChange != nil {
			icon := "📈"
			if *h.PriceChange < 0 {
				icon = "📉"
			}
			entryBuilder.WriteString(fmt.Sprintf("%s *Since publication:* %+.2f%%\n", icon, *h.PriceChange))
		}
		if h.TimeAgo != "" {
			entryBuilder.WriteString(fmt.Sprintf("⏰ *Published:* %s ago\n", h.TimeAgo))
		}
		if h.URL != "" {
			entryBuilder.WriteString(fmt.Sprintf("🔗 %s\n", h.URL))
		}
		entryBuilder.WriteString("\n")

		if currentMessage.Len()+entryBuilder.Len() > maxLen {
			messages = append(messages, currentMessage.String())
			part++
			startNewPart()
		}
		currentMessage.WriteString(entryBuilder.String())
	}

	if currentMessage.Len() > 0 {
		messages = append(messages, currentMessage.String())
	}

	return messages
}
