package domain

import (
	"fmt"
	"strings"
	"time"
)

// Sentiment is the polarity assigned to a piece of content
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment validates a sentiment label
func ParseSentiment(s string) (Sentiment, error) {
	switch Sentiment(strings.ToLower(s)) {
	case SentimentPositive:
		return SentimentPositive, nil
	case SentimentNeutral:
		return SentimentNeutral, nil
	case SentimentNegative:
		return SentimentNegative, nil
	}
	return "", fmt.Errorf("%w: unknown sentiment %q", ErrInvalidInput, s)
}

// Classification is the relation of content to India
type Classification string

const (
	ClassificationProIndia  Classification = "Pro-India"
	ClassificationNeutral   Classification = "Neutral"
	ClassificationAntiIndia Classification = "Anti-India"
)

// ParseClassification validates a classification label
func ParseClassification(s string) (Classification, error) {
	switch Classification(s) {
	case ClassificationProIndia, ClassificationNeutral, ClassificationAntiIndia:
		return Classification(s), nil
	}
	return "", fmt.Errorf("%w: unknown classification %q", ErrInvalidInput, s)
}

// Platform identifies the social network a post came from
type Platform string

const (
	PlatformTwitter Platform = "Twitter"
	PlatformReddit  Platform = "Reddit"
	PlatformYouTube Platform = "YouTube"
)

// Post is a collected social media post
type Post struct {
	ID             int64          `json:"id"`
	Platform       Platform       `json:"platform"`
	UserID         string         `json:"user_id"`
	Username       string         `json:"username,omitempty"`
	Content        string         `json:"content"`
	Language       string         `json:"language,omitempty"`
	TranslatedText string         `json:"translated_text,omitempty"`
	Sentiment      Sentiment      `json:"sentiment,omitempty"`
	Classification Classification `json:"classification,omitempty"`
	URL            string         `json:"url,omitempty"`
	Likes          int            `json:"likes"`
	Shares         int            `json:"shares"`
	Comments       int            `json:"comments"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Engagement is the sum of likes, shares and comments
func (p Post) Engagement() int {
	return p.Likes + p.Shares + p.Comments
}

// Analyzed reports whether the post already carries sentiment and classification labels
func (p Post) Analyzed() bool {
	return p.Sentiment != "" && p.Classification != ""
}

// User is an account that authored collected posts
type User struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Followers int       `json:"followers"`
	IsBot     bool      `json:"is_bot"`
	CreatedAt time.Time `json:"created_at"`
}

// Campaign is a hashtag or user cluster flagged as coordinated activity
type Campaign struct {
	ID            int64     `json:"id"`
	Hashtag       string    `json:"hashtag"`
	Volume        int       `json:"volume"`
	UniqueUsers   int       `json:"unique_users"`
	TimeSpanHours float64   `json:"time_span"`
	RiskScore     float64   `json:"risk_score"`
	RiskLevel     RiskLevel `json:"risk_level"`
	Indicators    []string  `json:"suspicious_indicators"`
	Users         []string  `json:"user_network"`
	FirstDetected time.Time `json:"first_detected"`
	LastDetected  time.Time `json:"last_detected"`
	IsActive      bool      `json:"is_active"`
}

// BotUser is an account whose behaviour matches enough bot indicators
type BotUser struct {
	UserID       string    `json:"user_id"`
	BotScore     float64   `json:"bot_score"`
	Indicators   []string  `json:"indicators"`
	PostCount    int       `json:"post_count"`
	HashtagCount int       `json:"hashtag_count"`
	RiskLevel    RiskLevel `json:"risk_level"`
}

// UserInfluence ranks an account by the reach of its anti-India content
type UserInfluence struct {
	UserID          string    `json:"user_id"`
	Username        string    `json:"username"`
	PostCount       int       `json:"post_count"`
	Followers       int       `json:"followers"`
	TotalEngagement int       `json:"total_engagement"`
	AntiIndiaScore  float64   `json:"anti_india_score"`
	ImpactScore     float64   `json:"impact_score"`
	RiskLevel       RiskLevel `json:"risk_level"`
	IsInfluential   bool      `json:"is_influential"`
}

// InfluenceFilter narrows influence rankings
type InfluenceFilter struct {
	RiskLevel RiskLevel
	Limit     int
}

// AlertType categorises alerts
type AlertType string

const (
	AlertTrendingNegative    AlertType = "trending_negative"
	AlertCoordinatedCampaign AlertType = "coordinated_campaign"
	AlertHighInfluenceUser   AlertType = "high_influence_user"
	AlertHighRiskCampaign    AlertType = "high_risk_campaign"
)

// Severity ranks alerts
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// ParseSeverity validates a severity label
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(s)) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(strings.ToLower(s)), nil
	}
	return "", fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, s)
}

// AlertStatus is the lifecycle state of an alert
type AlertStatus string

const (
	AlertStatusActive   AlertStatus = "active"
	AlertStatusResolved AlertStatus = "resolved"
)

// Alert is a notification raised by the alert engine
type Alert struct {
	ID          string                 `json:"id"`
	Type        AlertType              `json:"type"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Severity    Severity               `json:"severity"`
	Status      AlertStatus            `json:"status"`
	// Subject keys repeat suppression: one active alert per type and subject
	Subject     string                 `json:"subject,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// PostFilter narrows post listings
type PostFilter struct {
	Platform       Platform
	Sentiment      Sentiment
	Classification Classification
	Limit          int
}

// AlertFilter narrows alert listings
type AlertFilter struct {
	Status   AlertStatus
	Severity Severity
	Limit    int
}
