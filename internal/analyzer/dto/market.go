package dto

// BinanceSpotPrice is the response of Binance /api/v3/ticker/price.
type BinanceSpotPrice struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// BinanceKline is one row of a Binance klines response. The wire format is an
// array: [openTime, open, high, low, close, volume, ...].
type BinanceKline struct {
	OpenTime int64
	Open     float64
	High     float64
	Low      float64
	Close    float64
}

// CoinGeckoSearchResponse is the response of CoinGecko /api/v3/search.
type CoinGeckoSearchResponse struct {
	Coins []CoinGeckoCoin `json:"coins"`
}

// CoinGeckoCoin is one coin entry from a CoinGecko symbol search.
type CoinGeckoCoin struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

// CoinGeckoSimplePrice is one entry of the /simple/price response, keyed by
// coin id in the wire format.
type CoinGeckoSimplePrice struct {
	USD          float64 `json:"usd"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// CoinGeckoMarketChart is the response of /coins/{id}/market_chart.
// Prices rows are [timestampMillis, price] pairs.
type CoinGeckoMarketChart struct {
	Prices [][]float64 `json:"prices"`
}
