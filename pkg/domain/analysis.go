package domain

// SentimentResult is the output of sentiment classification
type SentimentResult struct {
	Sentiment  Sentiment          `json:"sentiment"`
	Confidence float64            `json:"confidence"`
	Scores     map[string]float64 `json:"scores"`
	ModelUsed  string             `json:"model_used,omitempty"`
}

// RelationResult is the output of India-relation classification
type RelationResult struct {
	Classification Classification     `json:"classification"`
	Confidence     float64            `json:"confidence"`
	Scores         map[string]float64 `json:"scores"`
	ModelUsed      string             `json:"model_used,omitempty"`
}

// ModelInfo reports which backends produced a classification
type ModelInfo struct {
	SentimentModel      string `json:"sentiment_model"`
	ClassificationModel string `json:"classification_model"`
	LLMAvailable        bool   `json:"llm_available"`
}

// ClassificationResult is the combined classification of a text
type ClassificationResult struct {
	Text                string          `json:"text"`
	Sentiment           SentimentResult `json:"sentiment"`
	IndiaClassification RelationResult  `json:"india_classification"`
	ProcessingStatus    string          `json:"processing_status"`
	ModelInfo           ModelInfo       `json:"model_info"`
}

// SentimentIndicators counts sentiment keyword hits
type SentimentIndicators struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// ProcessedText is the output of text preprocessing
type ProcessedText struct {
	OriginalText        string              `json:"original_text"`
	CleanedText         string              `json:"cleaned_text"`
	Language            string              `json:"language"`
	Hashtags            []string            `json:"hashtags"`
	Mentions            []string            `json:"mentions"`
	Keywords            []string            `json:"keywords"`
	SentimentIndicators SentimentIndicators `json:"sentiment_indicators"`
	IndiaClassification Classification      `json:"india_classification"`
	TranslatedText      string              `json:"translated_text"`
}

// Engagement is the interaction summary of a post
type Engagement struct {
	Likes    int `json:"likes"`
	Shares   int `json:"shares"`
	Comments int `json:"comments"`
}

// Total sums all interactions
func (e Engagement) Total() int {
	return e.Likes + e.Shares + e.Comments
}

// URLAnalysis is the result of analyzing a post by URL
type URLAnalysis struct {
	Platform       Platform       `json:"platform"`
	Content        string         `json:"content"`
	Sentiment      Sentiment      `json:"sentiment"`
	Classification Classification `json:"classification"`
	RiskScore      int            `json:"riskScore"`
	RiskLevel      RiskLevel      `json:"riskLevel"`
	BotProbability int            `json:"botProbability"`
	Hashtags       []string       `json:"hashtags"`
	Engagement     Engagement     `json:"engagement"`
	URL            string         `json:"url"`
}
