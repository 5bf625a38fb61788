package dto

import "time"

// Highlight is one parsed item from the classification output. Enrichment
// fields are filled in by the price correlator when data is available.
type Highlight struct {
	Text        string     `json:"text"`
	Ticker      string     `json:"ticker,omitempty"`
	Symbol      string     `json:"symbol,omitempty"`
	URL         string     `json:"url,omitempty"`
	PriceChange *float64   `json:"price_change,omitempty"`
	TimeAgo     string     `json:"time_ago,omitempty"`
	AnchorTime  *time.Time `json:"anchor_time,omitempty"`
}

// OHLCPoint is a single candlestick. When only a spot price is known, all four
// price fields carry the same value (a flat candle).
type OHLCPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
}
