package repository

import (
	"encoding/json"
	"strings"
	"testing"

	"crypto-news-radar/internal/analyzer/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildClassificationMessages(t *testing.T) {
	items := []dto.NormalizedNewsItem{
		{Timestamp: "2024-05-01 11:50:00", Source: "Alice", Title: "Alice", Body: "bought the dip", Author: "Alice"},
		{Timestamp: "2024-05-01 11:40:00", Source: "Blog", Title: "ETF approved", Body: "details", URL: "https://example.com/etf"},
	}

	messages, err := BuildClassificationMessages(items)

	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "NO_SIGNIFICANT_NEWS")

	assert.Equal(t, "user", messages[1].Role)
	batch := strings.TrimSuffix(strings.TrimPrefix(messages[1].Content, "<BATCH>\n"), "\n</BATCH>")

	var decoded []dto.NormalizedNewsItem
	require.NoError(t, json.Unmarshal([]byte(batch), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "bought the dip", decoded[0].Body)
	assert.Equal(t, "https://example.com/etf", decoded[1].URL)
}
