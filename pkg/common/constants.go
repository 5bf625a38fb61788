package common

import "errors"

const (
	AIProviderOpenAI = "openai"
	AIProviderGemini = "gemini"
)

// ErrAuthentication is returned when the classification provider rejects the
// supplied credential. It is the only per-run error that aborts an analysis.
var ErrAuthentication = errors.New("authentication rejected by AI provider")
