package llm

import (
	"fmt"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/adapters/llm/anthropic"
	"github.com/hexaciphers/hexaciphers/pkg/ports"
	"go.uber.org/zap"
)

// Supported providers
const (
	ProviderKeyword   = "keyword"
	ProviderAnthropic = "anthropic"
)

// Config holds classifier backend configuration
type Config struct {
	Provider  string
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
	Logger    *zap.Logger
}

// NewClassifier creates the classifier for the configured provider. The
// keyword classifier is returned as-is for "keyword" and wrapped as the
// fallback of every LLM provider.
func NewClassifier(cfg *Config, keyword ports.Classifier, metrics ports.MetricsCollector) (ports.Classifier, error) {
	switch cfg.Provider {
	case "", ProviderKeyword:
		return keyword, nil
	case ProviderAnthropic:
		return anthropic.NewClassifier(anthropic.Config{
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   cfg.Timeout,
		}, keyword, metrics, cfg.Logger)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
