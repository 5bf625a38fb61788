package config

import (
	"crypto-news-radar/pkg/config"
)

// NewsFeed holds the configuration for the news feed API.
type NewsFeed struct {
	BaseURL             string `mapstructure:"base_url"`
	Limit               int    `mapstructure:"limit"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// OpenAI holds the configuration for the OpenAI-compatible chat API.
type OpenAI struct {
	BaseURL             string `mapstructure:"base_url"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// Gemini holds the configuration for the Gemini API.
type Gemini struct {
	APIKey              string `mapstructure:"api_key"`
	Model               string `mapstructure:"model"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
	MaxTokenPerMinute   int    `mapstructure:"max_token_per_minute"`
}

// AI holds configuration for AI providers.
type AI struct {
	Provider string `mapstructure:"provider"`
}

// Binance holds the configuration for the Binance market-data API.
type Binance struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// CoinGecko holds the configuration for the CoinGecko market-data API.
type CoinGecko struct {
	BaseURL             string `mapstructure:"base_url"`
	MaxRequestPerMinute int    `mapstructure:"max_request_per_minute"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the analyzer service.
type Config struct {
	App       config.App    `mapstructure:"app"`
	Logger    config.Logger `mapstructure:"logger"`
	API       config.API    `mapstructure:"api"`
	NewsFeed  NewsFeed      `mapstructure:"news_feed"`
	AI        AI            `mapstructure:"ai"`
	OpenAI    OpenAI        `mapstructure:"openai"`
	Gemini    Gemini        `mapstructure:"gemini"`
	Binance   Binance       `mapstructure:"binance"`
	CoinGecko CoinGecko     `mapstructure:"coingecko"`
	Telegram  Telegram      `mapstructure:"telegram"`
}

// Load loads the analyzer configuration from the given path.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
