package analysis

import (
	"math/rand/v2"
	"net/url"
	"strings"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

// MaxContentRisk is the ceiling of ContentRiskScore
const MaxContentRisk = 100

// ContentRiskScore scores a single post from 0 to 100. Negative, Anti-India
// content with high engagement scores highest.
func ContentRiskScore(sentiment domain.Sentiment, classification domain.Classification, engagement int) int {
	score := 0

	switch sentiment {
	case domain.SentimentNegative:
		score += 40
	case domain.SentimentNeutral:
		score += 10
	}

	switch classification {
	case domain.ClassificationAntiIndia:
		score += 50
	case domain.ClassificationNeutral:
		score += 5
	}

	if sentiment == domain.SentimentNegative {
		switch {
		case engagement > 500:
			score += 20
		case engagement > 100:
			score += 10
		}
	}

	if score > MaxContentRisk {
		return MaxContentRisk
	}
	return score
}

// ContentRiskLevel buckets a 0..100 content risk score
func ContentRiskLevel(score int) domain.RiskLevel {
	return domain.RiskLevelFor(float64(score) / MaxContentRisk)
}

// BotProbability estimates, in percent, how likely an account is automated
// from the engagement its post received
func BotProbability(engagement int, rng *rand.Rand) int {
	lo, hi := 0, 15
	switch {
	case engagement > 1000:
		lo, hi = 15, 35
	case engagement > 100:
		lo, hi = 5, 25
	}
	return lo + rng.IntN(hi-lo+1)
}

// DetectPlatform maps a post URL to its platform. Only Twitter/X is supported.
func DetectPlatform(rawURL string) (domain.Platform, error) {
	lower := strings.ToLower(strings.TrimSpace(rawURL))
	if lower == "" {
		return "", domain.ErrInvalidInput
	}

	host := lower
	if u, err := url.Parse(lower); err == nil && u.Host != "" {
		host = u.Host
	} else if u, err := url.Parse("https://" + lower); err == nil && u.Host != "" {
		host = u.Host
	}
	host = strings.TrimPrefix(host, "www.")
	host = strings.TrimPrefix(host, "mobile.")

	switch host {
	case "twitter.com", "x.com":
		return domain.PlatformTwitter, nil
	}
	return "", domain.ErrUnsupportedURL
}
