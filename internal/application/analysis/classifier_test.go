package analysis

import (
	"context"
	"strings"
	"testing"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySentiment(t *testing.T) {
	c := NewKeywordClassifier(nil)

	tests := []struct {
		name       string
		text       string
		want       domain.Sentiment
		confidence float64
	}{
		{name: "empty", text: "", want: domain.SentimentNeutral, confidence: 0},
		{name: "no keywords", text: "The parliament met today", want: domain.SentimentNeutral, confidence: 0.6},
		{name: "positive", text: "What an amazing and wonderful day", want: domain.SentimentPositive, confidence: 1},
		{name: "negative", text: "This is terrible and awful", want: domain.SentimentNegative, confidence: 1},
		{name: "mixed majority positive", text: "good great but sad", want: domain.SentimentPositive, confidence: 2.0 / 3.0},
		{name: "tie", text: "good and bad", want: domain.SentimentNeutral, confidence: 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ClassifySentiment(tt.text)
			assert.Equal(t, tt.want, got.Sentiment)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
		})
	}
}

func TestClassifyRelation(t *testing.T) {
	c := NewKeywordClassifier(nil)

	tests := []struct {
		name       string
		text       string
		want       domain.Classification
		confidence float64
	}{
		{name: "empty", text: "", want: domain.ClassificationNeutral, confidence: 0},
		{name: "unrelated", text: "Weather is nice", want: domain.ClassificationNeutral, confidence: 0.9},
		{name: "bare mention", text: "Visiting India next week", want: domain.ClassificationNeutral, confidence: 0.2},
		{name: "many mentions capped", text: "india india india india india", want: domain.ClassificationNeutral, confidence: 0.7},
		{name: "pro", text: "Proud India, incredible india!", want: domain.ClassificationProIndia, confidence: 0.9},
		{name: "anti", text: "Boycott India now #BoycottIndia", want: domain.ClassificationAntiIndia, confidence: 0.9},
		{name: "balanced", text: "love india vs hate india", want: domain.ClassificationNeutral, confidence: 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.ClassifyRelation(tt.text)
			assert.Equal(t, tt.want, got.Classification)
			assert.InDelta(t, tt.confidence, got.Confidence, 1e-9)
		})
	}
}

func TestClassifyCombined(t *testing.T) {
	c := NewKeywordClassifier(nil)

	long := strings.Repeat("a", 150)
	res, err := c.Classify(context.Background(), long)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 100)+"...", res.Text)
	assert.Equal(t, "success", res.ProcessingStatus)
	assert.Equal(t, KeywordSentimentModel, res.ModelInfo.SentimentModel)
	assert.Equal(t, KeywordRelationModel, res.ModelInfo.ClassificationModel)

	empty, err := c.Classify(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "unknown", empty.ModelInfo.SentimentModel)
	assert.Equal(t, "keyword", c.Name())
}

func TestPreviewRuneSafe(t *testing.T) {
	assert.Equal(t, "भारत", Preview("भारत", 4))
	assert.Equal(t, "भा...", Preview("भारत", 2))
}
