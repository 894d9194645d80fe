package analysis

import (
	"context"
	"math"
	"strings"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

const (
	// KeywordSentimentModel names the keyword sentiment backend
	KeywordSentimentModel = "keyword_fallback"
	// KeywordRelationModel names the keyword India-relation backend
	KeywordRelationModel = "keyword_analysis"

	previewRunes = 100
)

// KeywordClassifier labels text by counting lexicon phrases
type KeywordClassifier struct {
	lexicon *Lexicon
}

// NewKeywordClassifier creates a keyword classifier
func NewKeywordClassifier(lexicon *Lexicon) *KeywordClassifier {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	return &KeywordClassifier{lexicon: lexicon}
}

// Name identifies the classifier backend
func (c *KeywordClassifier) Name() string {
	return "keyword"
}

// Classify runs sentiment and India-relation classification
func (c *KeywordClassifier) Classify(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	sentiment := c.ClassifySentiment(text)
	relation := c.ClassifyRelation(text)

	return &domain.ClassificationResult{
		Text:                Preview(text, previewRunes),
		Sentiment:           sentiment,
		IndiaClassification: relation,
		ProcessingStatus:    "success",
		ModelInfo: domain.ModelInfo{
			SentimentModel:      modelOrUnknown(sentiment.ModelUsed),
			ClassificationModel: modelOrUnknown(relation.ModelUsed),
		},
	}, nil
}

// ClassifySentiment labels text positive, negative or neutral
func (c *KeywordClassifier) ClassifySentiment(text string) domain.SentimentResult {
	if text == "" {
		return domain.SentimentResult{
			Sentiment:  domain.SentimentNeutral,
			Confidence: 0,
			Scores:     map[string]float64{"positive": 0, "negative": 0, "neutral": 1},
		}
	}

	lower := strings.ToLower(text)
	pos := countMatches(lower, c.lexicon.PositiveWords)
	neg := countMatches(lower, c.lexicon.NegativeWords)
	total := pos + neg

	switch {
	case total == 0:
		return domain.SentimentResult{
			Sentiment:  domain.SentimentNeutral,
			Confidence: 0.6,
			Scores:     map[string]float64{"positive": 0.2, "negative": 0.2, "neutral": 0.6},
			ModelUsed:  KeywordSentimentModel,
		}
	case pos > neg:
		conf := float64(pos) / float64(total)
		return domain.SentimentResult{
			Sentiment:  domain.SentimentPositive,
			Confidence: conf,
			Scores:     map[string]float64{"positive": conf, "negative": 1 - conf, "neutral": 0},
			ModelUsed:  KeywordSentimentModel,
		}
	case neg > pos:
		conf := float64(neg) / float64(total)
		return domain.SentimentResult{
			Sentiment:  domain.SentimentNegative,
			Confidence: conf,
			Scores:     map[string]float64{"negative": conf, "positive": 1 - conf, "neutral": 0},
			ModelUsed:  KeywordSentimentModel,
		}
	default:
		return domain.SentimentResult{
			Sentiment:  domain.SentimentNeutral,
			Confidence: 0.5,
			Scores:     map[string]float64{"positive": 0.25, "negative": 0.25, "neutral": 0.5},
			ModelUsed:  KeywordSentimentModel,
		}
	}
}

// ClassifyRelation labels text Pro-India, Anti-India or Neutral
func (c *KeywordClassifier) ClassifyRelation(text string) domain.RelationResult {
	if text == "" {
		return domain.RelationResult{
			Classification: domain.ClassificationNeutral,
			Confidence:     0,
			Scores:         relationScores(0, 0, 1),
		}
	}

	lower := strings.ToLower(text)
	pro := countMatches(lower, c.lexicon.ProIndia)
	anti := countMatches(lower, c.lexicon.AntiIndia)
	total := pro + anti

	if total == 0 {
		mentions := 0
		for _, m := range c.lexicon.IndiaMentions {
			if m != "" {
				mentions += strings.Count(lower, m)
			}
		}
		if mentions > 0 {
			return domain.RelationResult{
				Classification: domain.ClassificationNeutral,
				Confidence:     math.Min(0.7, float64(mentions)*0.2),
				Scores:         relationScores(0.2, 0.2, 0.6),
				ModelUsed:      KeywordRelationModel,
			}
		}
		return domain.RelationResult{
			Classification: domain.ClassificationNeutral,
			Confidence:     0.9,
			Scores:         relationScores(0.05, 0.05, 0.9),
			ModelUsed:      KeywordRelationModel,
		}
	}

	switch {
	case pro > anti:
		conf := math.Min(0.9, float64(pro)/float64(total))
		return domain.RelationResult{
			Classification: domain.ClassificationProIndia,
			Confidence:     conf,
			Scores:         relationScores(conf, 1-conf, 0),
			ModelUsed:      KeywordRelationModel,
		}
	case anti > pro:
		conf := math.Min(0.9, float64(anti)/float64(total))
		return domain.RelationResult{
			Classification: domain.ClassificationAntiIndia,
			Confidence:     conf,
			Scores:         relationScores(1-conf, conf, 0),
			ModelUsed:      KeywordRelationModel,
		}
	default:
		return domain.RelationResult{
			Classification: domain.ClassificationNeutral,
			Confidence:     0.6,
			Scores:         relationScores(0.2, 0.2, 0.6),
			ModelUsed:      KeywordRelationModel,
		}
	}
}

func relationScores(pro, anti, neutral float64) map[string]float64 {
	return map[string]float64{
		string(domain.ClassificationProIndia):  pro,
		string(domain.ClassificationAntiIndia): anti,
		string(domain.ClassificationNeutral):   neutral,
	}
}

func modelOrUnknown(model string) string {
	if model == "" {
		return "unknown"
	}
	return model
}

// Preview truncates text to n runes, appending "..." when it was cut
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
