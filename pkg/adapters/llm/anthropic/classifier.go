package anthropic

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/hexaciphers/hexaciphers/pkg/ports"
	"go.uber.org/zap"
)

const (
	llmConfidence = 0.8

	sentimentPrompt = "You label the sentiment of social media posts. " +
		"Answer with exactly one word: positive, negative or neutral."
)

// messageClient is the subset of the Anthropic Messages API the classifier needs
type messageClient interface {
	New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// Classifier asks Claude for a sentiment label and keeps the India-relation
// label from the fallback classifier. Any API error or unrecognised answer
// falls back to the fallback result.
type Classifier struct {
	messages  messageClient
	fallback  ports.Classifier
	metrics   ports.MetricsCollector
	logger    *zap.Logger
	model     string
	maxTokens int64
	timeout   time.Duration
}

// Config holds Anthropic classifier settings
type Config struct {
	APIKey    string
	Model     string
	MaxTokens int64
	Timeout   time.Duration
}

// NewClassifier creates a Claude-backed classifier
func NewClassifier(cfg Config, fallback ports.Classifier, metrics ports.MetricsCollector, logger *zap.Logger) (*Classifier, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}

	client := anthropic.NewClient(option.WithAPIKey(cfg.APIKey))
	return newClassifier(&client.Messages, cfg, fallback, metrics, logger), nil
}

func newClassifier(messages messageClient, cfg Config, fallback ports.Classifier, metrics ports.MetricsCollector, logger *zap.Logger) *Classifier {
	return &Classifier{
		messages:  messages,
		fallback:  fallback,
		metrics:   metrics,
		logger:    logger,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
	}
}

// Name identifies the classifier backend
func (c *Classifier) Name() string {
	return "anthropic"
}

// Classify labels text, preferring the model's sentiment answer
func (c *Classifier) Classify(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	result, err := c.fallback.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("fallback classification failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return result, nil
	}

	sentiment, err := c.askSentiment(ctx, text)
	if err != nil {
		c.logger.Warn("LLM sentiment failed, using keyword result",
			zap.String("model", c.model),
			zap.Error(err))
		return result, nil
	}

	result.Sentiment = domain.SentimentResult{
		Sentiment:  sentiment,
		Confidence: llmConfidence,
		Scores:     sentimentScores(sentiment),
		ModelUsed:  c.model,
	}
	result.ModelInfo.SentimentModel = c.model
	result.ModelInfo.LLMAvailable = true
	return result, nil
}

func (c *Classifier) askSentiment(ctx context.Context, text string) (domain.Sentiment, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	msg, err := c.messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: c.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: sentimentPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text)),
		},
	})
	if err != nil {
		c.metrics.RecordLLMCall(c.model, "error", time.Since(start))
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}
	c.metrics.RecordLLMCall(c.model, "success", time.Since(start))

	var answer strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			answer.WriteString(block.Text)
		}
	}

	return ParseSentimentAnswer(answer.String())
}

// ParseSentimentAnswer extracts a sentiment label from a free-text answer
// such as "Negative." or "positive\n"
func ParseSentimentAnswer(answer string) (domain.Sentiment, error) {
	fields := strings.Fields(answer)
	if len(fields) == 0 {
		return "", fmt.Errorf("%w: empty answer", domain.ErrInvalidInput)
	}
	word := strings.Trim(fields[0], ".,!?:;\"'`*")
	return domain.ParseSentiment(word)
}

func sentimentScores(s domain.Sentiment) map[string]float64 {
	rest := (1 - llmConfidence) / 2
	scores := map[string]float64{
		string(domain.SentimentPositive): rest,
		string(domain.SentimentNegative): rest,
		string(domain.SentimentNeutral):  rest,
	}
	scores[string(s)] = llmConfidence
	return scores
}
