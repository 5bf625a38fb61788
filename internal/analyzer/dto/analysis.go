package dto

import "time"

// AnalysisRequest carries the caller-supplied inputs for one analysis run.
type AnalysisRequest struct {
	APIKey    string  `json:"api_key"`
	HoursBack float64 `json:"hours_back"`
}

// BatchStats describes the news window that was analyzed.
type BatchStats struct {
	TotalNews int       `json:"total_news"`
	Newest    time.Time `json:"newest,omitempty"`
	Oldest    time.Time `json:"oldest,omitempty"`
}

// AnalysisResult is the final output of an analysis run.
type AnalysisResult struct {
	Highlights        []Highlight `json:"highlights"`
	NoSignificantNews bool        `json:"no_significant_news"`
	RawClassification string      `json:"raw_classification,omitempty"`
	Stats             BatchStats  `json:"stats"`
	Usage             Usage       `json:"usage"`
}
