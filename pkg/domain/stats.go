package domain

import "fmt"

// StatsCacheKey is the cache key of the dashboard summary
const StatsCacheKey = "stats"

// SentimentDistribution counts posts per sentiment
type SentimentDistribution struct {
	Positive int `json:"positive"`
	Negative int `json:"negative"`
	Neutral  int `json:"neutral"`
}

// Total returns the number of labelled posts
func (d SentimentDistribution) Total() int {
	return d.Positive + d.Negative + d.Neutral
}

// SentimentPercentages holds display-ready shares such as "45.0%"
type SentimentPercentages struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
	Neutral  string `json:"neutral"`
}

// Percentages returns each share of the total with one decimal place.
// A zero total yields "0.0%" for every share.
func (d SentimentDistribution) Percentages() SentimentPercentages {
	total := d.Total()
	return SentimentPercentages{
		Positive: FormatPercent(d.Positive, total),
		Negative: FormatPercent(d.Negative, total),
		Neutral:  FormatPercent(d.Neutral, total),
	}
}

// FormatPercent renders part/total as a percentage with one decimal
func FormatPercent(part, total int) string {
	if total <= 0 {
		return "0.0%"
	}
	return fmt.Sprintf("%.1f%%", float64(part)*100/float64(total))
}

// ClassificationDistribution counts posts per India-relation label
type ClassificationDistribution struct {
	ProIndia  int `json:"pro_india"`
	AntiIndia int `json:"anti_india"`
	Neutral   int `json:"neutral"`
}

// Stats is the dashboard summary
type Stats struct {
	TotalPosts                 int                        `json:"total_posts"`
	TotalUsers                 int                        `json:"total_users"`
	TotalCampaigns             int                        `json:"total_campaigns"`
	SentimentDistribution      SentimentDistribution      `json:"sentiment_distribution"`
	ClassificationDistribution ClassificationDistribution `json:"classification_distribution"`
	SentimentPercentages       SentimentPercentages       `json:"sentiment_percentages"`
}
