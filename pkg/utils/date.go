package utils

import "time"

// NewsTimeLayout is the canonical timestamp rendering for normalized news
// items, e.g. "2024-05-01 13:45:09".
const NewsTimeLayout = "2006-01-02 15:04:05"

// FormatNewsTime renders t in the canonical news timestamp layout, in UTC.
func FormatNewsTime(t time.Time) string {
	return t.UTC().Format(NewsTimeLayout)
}
