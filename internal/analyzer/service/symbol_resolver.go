package service

import (
	"context"
	"strings"

	"crypto-news-radar/internal/analyzer/repository"
	"crypto-news-radar/pkg/logger"

	"github.com/patrickmn/go-cache"
)

// knownSymbolOverrides seeds the resolver with high-volume tokens so they
// never cost a search call.
var knownSymbolOverrides = map[string]string{
	"BTC":   "bitcoin",
	"ETH":   "ethereum",
	"SOL":   "solana",
	"BNB":   "binancecoin",
	"XRP":   "ripple",
	"ADA":   "cardano",
	"DOGE":  "dogecoin",
	"TON":   "the-open-network",
	"TRX":   "tron",
	"AVAX":  "avalanche-2",
	"LINK":  "chainlink",
	"MATIC": "matic-network",
	"DOT":   "polkadot",
	"USDT":  "tether",
}

// tickerSuffixes are quote/derivative suffixes stripped before resolution.
var tickerSuffixes = []string{"USDT", "USD", "PERP"}

// SymbolResolver maps a free-text ticker to a CoinGecko coin id. Lookups are
// cached for the process lifetime, including negative results, so a ticker
// costs at most one search call per run.
type SymbolResolver struct {
	logger        *logger.Logger
	coinGeckoRepo repository.CoinGeckoRepository
	symbolCache   *cache.Cache
}

// NewSymbolResolver creates a resolver with its own isolated cache.
func NewSymbolResolver(log *logger.Logger, coinGeckoRepo repository.CoinGeckoRepository) *SymbolResolver {
	return &SymbolResolver{
		logger:        log,
		coinGeckoRepo: coinGeckoRepo,
		symbolCache:   cache.New(cache.NoExpiration, cache.NoExpiration),
	}
}

// Resolve returns the coin id for a ticker, or ok=false when the ticker does
// not resolve to a tradable asset.
func (r *SymbolResolver) Resolve(ctx context.Context, ticker string) (string, bool) {
	normalized := normalizeTicker(ticker)
	if normalized == "" {
		return "", false
	}

	if id, ok := knownSymbolOverrides[normalized]; ok {
		return id, true
	}

	if cached, found := r.symbolCache.Get(normalized); found {
		id := cached.(string)
		return id, id != ""
	}

	id := r.searchSymbol(ctx, normalized)
	// Idempotent insert: a key always maps to the same value within a run, so
	// concurrent resolutions of the same ticker stay consistent.
	r.symbolCache.Set(normalized, id, cache.NoExpiration)

	return id, id != ""
}

// searchSymbol queries the CoinGecko search endpoint and accepts only an exact
// case-insensitive symbol match. Failures resolve to "" (negatively cached by
// the caller).
func (r *SymbolResolver) searchSymbol(ctx context.Context, ticker string) string {
	coins, err := r.coinGeckoRepo.Search(ctx, ticker)
	if err != nil {
		r.logger.DebugContext(ctx, "Symbol search failed",
			logger.StringField("ticker", ticker), logger.ErrorField(err))
		return ""
	}

	for _, coin := range coins {
		if strings.EqualFold(coin.Symbol, ticker) {
			r.logger.DebugContext(ctx, "Resolved ticker",
				logger.StringField("ticker", ticker), logger.StringField("coin_id", coin.ID))
			return coin.ID
		}
	}

	r.logger.DebugContext(ctx, "No exact symbol match", logger.StringField("ticker", ticker))
	return ""
}

func normalizeTicker(ticker string) string {
	normalized := strings.ToUpper(strings.TrimSpace(ticker))
	normalized = strings.TrimPrefix(normalized, "$")
	for _, suffix := range tickerSuffixes {
		if normalized != suffix && strings.HasSuffix(normalized, suffix) {
			normalized = strings.TrimSuffix(normalized, suffix)
			break
		}
	}
	return normalized
}
