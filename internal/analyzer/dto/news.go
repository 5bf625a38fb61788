package dto

import "time"

// RawNewsRecord is a single item as returned by the news feed. Every field is
// optional; the feed mixes several upstream shapes.
type RawNewsRecord struct {
	Time     int64  `json:"time,omitempty"`
	SendTime int64  `json:"sendTime,omitempty"`
	Source   string `json:"source,omitempty"`
	Title    string `json:"title,omitempty"`
	Body     string `json:"body,omitempty"`
	URL      string `json:"url,omitempty"`
}

// PublishedAt resolves the record's publish time, preferring the primary time
// field. The zero time is returned when both fields are absent.
func (r RawNewsRecord) PublishedAt() time.Time {
	switch {
	case r.Time > 0:
		return time.UnixMilli(r.Time)
	case r.SendTime > 0:
		return time.UnixMilli(r.SendTime)
	default:
		return time.Time{}
	}
}

// NormalizedNewsItem is the canonical news shape fed to the classification
// provider. Timestamp and Body are always non-empty.
type NormalizedNewsItem struct {
	Timestamp   string    `json:"time"`
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	URL         string    `json:"url"`
	Author      string    `json:"author,omitempty"`
	PublishedAt time.Time `json:"-"`
}
