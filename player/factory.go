package player

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	LLMTag    = "llm"
	GeminiTag = "gemini"
)

var tagAliases = map[string]string{
	"":                 RandomTag,
	"randomcardplayer": RandomTag,
	"llmplayer":        LLMTag,
	"geminiplayer":     GeminiTag,
}

type Config struct {
	OpenAIBaseURL string
	OpenAIModel   string
	OpenAIAPIKey  string
	GeminiBaseURL string
	GeminiModel   string
	GeminiAPIKey  string
	Timeout       time.Duration
	RPS           float64
}

// Builder creates a strategy. apiKey is the per player key, possibly empty.
type Builder func(apiKey string) (Strategy, error)

type MissingAPIKeyError struct {
	Tag string
}

func (e MissingAPIKeyError) Error() string {
	return fmt.Sprintf("Strategy %s needs an API key", e.Tag)
}

type UnknownStrategyError struct {
	Tag string
}

func (e UnknownStrategyError) Error() string {
	return fmt.Sprintf("unknown strategy: %s", e.Tag)
}

// Factory builds strategies by tag. Every inference strategy it builds shares
// one rate limiter.
type Factory struct {
	mu       sync.RWMutex
	builders map[string]Builder
	limiter  *rate.Limiter
}

func NewFactory(cfg Config) *Factory {
	if cfg.RPS <= 0 {
		cfg.RPS = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	f := &Factory{
		builders: make(map[string]Builder),
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), 1),
	}
	f.Register(RandomTag, func(string) (Strategy, error) {
		return NewRandomStrategy(0), nil
	})
	f.Register(LLMTag, func(apiKey string) (Strategy, error) {
		if apiKey == "" {
			apiKey = cfg.OpenAIAPIKey
		}
		if apiKey == "" {
			return nil, MissingAPIKeyError{Tag: LLMTag}
		}
		return NewInferenceStrategy(LLMTag, NewOpenAIClient(cfg.OpenAIBaseURL, cfg.OpenAIModel, apiKey, cfg.Timeout), f.limiter), nil
	})
	f.Register(GeminiTag, func(apiKey string) (Strategy, error) {
		if apiKey == "" {
			apiKey = cfg.GeminiAPIKey
		}
		if apiKey == "" {
			return nil, MissingAPIKeyError{Tag: GeminiTag}
		}
		return NewInferenceStrategy(GeminiTag, NewGeminiClient(cfg.GeminiBaseURL, cfg.GeminiModel, apiKey, cfg.Timeout), f.limiter), nil
	})
	return f
}

func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if alias, ok := tagAliases[tag]; ok {
		return alias
	}
	return tag
}

func (f *Factory) Register(tag string, b Builder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.builders[normalizeTag(tag)] = b
}

func (f *Factory) New(tag string, apiKey string) (Strategy, error) {
	f.mu.RLock()
	b, ok := f.builders[normalizeTag(tag)]
	f.mu.RUnlock()
	if !ok {
		return nil, UnknownStrategyError{Tag: tag}
	}
	return b(apiKey)
}
