package anthropic

import (
	"context"
	"errors"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/hexaciphers/hexaciphers/internal/application/analysis"
	"github.com/hexaciphers/hexaciphers/pkg/adapters/metrics/noop"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeMessages struct {
	answer string
	err    error
	params anthropic.MessageNewParams
}

func (f *fakeMessages) New(ctx context.Context, body anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	f.params = body
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: f.answer}},
	}, nil
}

func newTestClassifier(fake *fakeMessages) *Classifier {
	cfg := Config{Model: "claude-3-5-haiku-latest", MaxTokens: 16}
	return newClassifier(fake, cfg, analysis.NewKeywordClassifier(nil), noop.NewCollector(), zap.NewNop())
}

func TestParseSentimentAnswer(t *testing.T) {
	tests := []struct {
		answer  string
		want    domain.Sentiment
		wantErr bool
	}{
		{answer: "negative", want: domain.SentimentNegative},
		{answer: "Positive.", want: domain.SentimentPositive},
		{answer: "  neutral\n", want: domain.SentimentNeutral},
		{answer: "**Negative** overall", want: domain.SentimentNegative},
		{answer: "", wantErr: true},
		{answer: "mixed feelings", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			got, err := ParseSentimentAnswer(tt.answer)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyUsesModelAnswer(t *testing.T) {
	fake := &fakeMessages{answer: "Negative"}
	c := newTestClassifier(fake)

	res, err := c.Classify(context.Background(), "What a wonderful day in Delhi")
	require.NoError(t, err)

	assert.Equal(t, domain.SentimentNegative, res.Sentiment.Sentiment)
	assert.Equal(t, "claude-3-5-haiku-latest", res.Sentiment.ModelUsed)
	assert.True(t, res.ModelInfo.LLMAvailable)
	assert.Equal(t, analysis.KeywordRelationModel, res.ModelInfo.ClassificationModel)
	assert.Equal(t, int64(16), fake.params.MaxTokens)
	assert.Equal(t, "anthropic", c.Name())
}

func TestClassifyFallsBack(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeMessages
	}{
		{name: "api error", fake: &fakeMessages{err: errors.New("overloaded")}},
		{name: "unknown label", fake: &fakeMessages{answer: "sarcastic"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClassifier(tt.fake)

			res, err := c.Classify(context.Background(), "What a wonderful day")
			require.NoError(t, err)
			assert.Equal(t, domain.SentimentPositive, res.Sentiment.Sentiment)
			assert.Equal(t, analysis.KeywordSentimentModel, res.Sentiment.ModelUsed)
			assert.False(t, res.ModelInfo.LLMAvailable)
		})
	}
}

func TestClassifyEmptySkipsModel(t *testing.T) {
	fake := &fakeMessages{answer: "negative"}
	c := newTestClassifier(fake)

	res, err := c.Classify(context.Background(), "  ")
	require.NoError(t, err)
	assert.Equal(t, int64(0), fake.params.MaxTokens)
	assert.NotEqual(t, domain.SentimentNegative, res.Sentiment.Sentiment)
}
