package service

import (
	"testing"
	"time"

	"crypto-news-radar/internal/analyzer/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizer_TwitterSplit(t *testing.T) {
	n := NewNormalizer()

	items := n.Normalize([]dto.RawNewsRecord{
		{
			Time:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC).UnixMilli(),
			Source: "TWITTER",
			Title:  "Alice: bought the dip",
			URL:    "https://twitter.com/alice/status/1",
		},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "Alice", items[0].Source)
	assert.Equal(t, "Alice", items[0].Title)
	assert.Equal(t, "bought the dip", items[0].Body)
}

func TestNormalizer_TwitterCaseInsensitive(t *testing.T) {
	n := NewNormalizer()

	items := n.Normalize([]dto.RawNewsRecord{
		{Time: 1714563600000, Source: "Twitter", Title: "Bob: risk off"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "Bob", items[0].Source)
	assert.Equal(t, "risk off", items[0].Body)
}

func TestNormalizer_TwitterNoColon(t *testing.T) {
	n := NewNormalizer()

	items := n.Normalize([]dto.RawNewsRecord{
		{Time: 1714563600000, Source: "TWITTER", Title: "gm everyone"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "TWITTER", items[0].Source)
	assert.Equal(t, "gm everyone", items[0].Body)
}

func TestNormalizer_TwitterInferredFromURL(t *testing.T) {
	n := NewNormalizer()

	items := n.Normalize([]dto.RawNewsRecord{
		{Time: 1714563600000, Title: "Carol: new ATH", URL: "https://twitter.com/carol/status/2"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "Carol", items[0].Source)
	assert.Equal(t, "new ATH", items[0].Body)
}

func TestNormalizer_MissingTimestampsFailClosed(t *testing.T) {
	start := time.Now()
	n := NewNormalizer()

	items := n.Normalize([]dto.RawNewsRecord{
		{Source: "Bloomberg", Title: "Headline"},
	})

	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].Timestamp)
	assert.False(t, items[0].PublishedAt.Before(start))
}

func TestNormalizer_SecondaryTimestampPreferred(t *testing.T) {
	n := NewNormalizer()
	sendTime := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	items := n.Normalize([]dto.RawNewsRecord{
		{SendTime: sendTime.UnixMilli(), Source: "Reuters", Title: "Headline"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "2024-05-01 08:30:00", items[0].Timestamp)
}

func TestNormalizer_Defaults(t *testing.T) {
	n := NewNormalizer()

	items := n.Normalize([]dto.RawNewsRecord{
		{Time: 1714563600000, Title: "Only a title"},
	})

	require.Len(t, items, 1)
	assert.Equal(t, "NO_SOURCE", items[0].Source)
	assert.Equal(t, "Only a title", items[0].Body, "body falls back to title")
}

func TestNormalizer_OrderAndLengthPreserved(t *testing.T) {
	n := NewNormalizer()
	records := []dto.RawNewsRecord{
		{Time: 3000, Title: "c"},
		{Time: 1000, Title: "a"},
		{Time: 2000, Title: "b"},
	}

	items := n.Normalize(records)

	require.Len(t, items, len(records))
	assert.Equal(t, "c", items[0].Title)
	assert.Equal(t, "a", items[1].Title)
	assert.Equal(t, "b", items[2].Title)
}
