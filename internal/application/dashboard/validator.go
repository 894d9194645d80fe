package dashboard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

const (
	// DefaultListLimit applies when a listing request has no limit
	DefaultListLimit = 50
	// MaxListLimit caps listing requests
	MaxListLimit = 1000
	// DefaultCollectLimit applies when a collection request has no limit
	DefaultCollectLimit = 10
	// DefaultInfluenceLimit applies when an influence ranking request has no limit
	DefaultInfluenceLimit = 100

	defaultKeyword   = "#India"
	defaultSubreddit = "india"
	defaultQuery     = "India"
)

// PostQuery holds raw post listing parameters
type PostQuery struct {
	Platform       string
	Sentiment      string
	Classification string
	Limit          string
}

// AlertQuery holds raw alert listing parameters
type AlertQuery struct {
	Status   string
	Severity string
	Limit    string
}

// InfluenceQuery holds raw influence ranking parameters
type InfluenceQuery struct {
	RiskLevel string
	Limit     string
}

// Validator checks and normalizes dashboard requests
type Validator struct{}

// NewValidator creates a new request validator
func NewValidator() *Validator {
	return &Validator{}
}

// PostFilter converts a post query into a filter
func (v *Validator) PostFilter(q PostQuery) (domain.PostFilter, error) {
	filter := domain.PostFilter{Platform: domain.Platform(strings.TrimSpace(q.Platform))}

	if q.Sentiment != "" {
		s, err := domain.ParseSentiment(q.Sentiment)
		if err != nil {
			return domain.PostFilter{}, err
		}
		filter.Sentiment = s
	}

	if q.Classification != "" {
		c, err := domain.ParseClassification(q.Classification)
		if err != nil {
			return domain.PostFilter{}, err
		}
		filter.Classification = c
	}

	limit, err := v.Limit(q.Limit)
	if err != nil {
		return domain.PostFilter{}, err
	}
	filter.Limit = limit

	return filter, nil
}

// AlertFilter converts an alert query into a filter
func (v *Validator) AlertFilter(q AlertQuery) (domain.AlertFilter, error) {
	var filter domain.AlertFilter

	switch domain.AlertStatus(strings.ToLower(q.Status)) {
	case "":
	case domain.AlertStatusActive:
		filter.Status = domain.AlertStatusActive
	case domain.AlertStatusResolved:
		filter.Status = domain.AlertStatusResolved
	default:
		return domain.AlertFilter{}, fmt.Errorf("%w: unknown alert status %q", domain.ErrInvalidInput, q.Status)
	}

	if q.Severity != "" {
		s, err := domain.ParseSeverity(q.Severity)
		if err != nil {
			return domain.AlertFilter{}, err
		}
		filter.Severity = s
	}

	limit, err := v.Limit(q.Limit)
	if err != nil {
		return domain.AlertFilter{}, err
	}
	filter.Limit = limit

	return filter, nil
}

// InfluenceFilter converts an influence query into a filter
func (v *Validator) InfluenceFilter(q InfluenceQuery) (domain.InfluenceFilter, error) {
	var filter domain.InfluenceFilter

	if q.RiskLevel != "" {
		level, err := domain.ParseRiskLevel(q.RiskLevel)
		if err != nil {
			return domain.InfluenceFilter{}, err
		}
		filter.RiskLevel = level
	}

	filter.Limit = DefaultInfluenceLimit
	if strings.TrimSpace(q.Limit) != "" {
		limit, err := v.Limit(q.Limit)
		if err != nil {
			return domain.InfluenceFilter{}, err
		}
		filter.Limit = limit
	}

	return filter, nil
}

// Limit parses a listing limit: empty means DefaultListLimit, values above
// MaxListLimit are capped
func (v *Validator) Limit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultListLimit, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: limit must be an integer", domain.ErrInvalidInput)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	if n > MaxListLimit {
		n = MaxListLimit
	}
	return n, nil
}

// Text requires a non-blank text field
func (v *Validator) Text(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is required", domain.ErrInvalidInput)
	}
	return nil
}

// URL requires a non-blank url field
func (v *Validator) URL(url string) error {
	if strings.TrimSpace(url) == "" {
		return fmt.Errorf("%w: URL is required", domain.ErrInvalidInput)
	}
	return nil
}

// Post validates a post submitted through the API
func (v *Validator) Post(p *domain.Post) error {
	if p == nil {
		return fmt.Errorf("%w: post is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(string(p.Platform)) == "" {
		return fmt.Errorf("%w: platform is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Content) == "" {
		return fmt.Errorf("%w: content is required", domain.ErrInvalidInput)
	}
	if p.Likes < 0 || p.Shares < 0 || p.Comments < 0 {
		return fmt.Errorf("%w: engagement counts must not be negative", domain.ErrInvalidInput)
	}

	if p.Sentiment != "" {
		s, err := domain.ParseSentiment(string(p.Sentiment))
		if err != nil {
			return err
		}
		p.Sentiment = s
	}
	if p.Classification != "" {
		if _, err := domain.ParseClassification(string(p.Classification)); err != nil {
			return err
		}
	}
	return nil
}

// CollectLimit resolves an optional collection limit
func (v *Validator) CollectLimit(limit *int) (int, error) {
	if limit == nil {
		return DefaultCollectLimit, nil
	}
	if *limit < 1 {
		return 0, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidInput)
	}
	return *limit, nil
}

// Keywords defaults an empty keyword list to #India
func (v *Validator) Keywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	if len(out) == 0 {
		return []string{defaultKeyword}
	}
	return out
}

// Subreddit defaults an empty subreddit to india
func (v *Validator) Subreddit(subreddit string) string {
	if s := strings.TrimSpace(subreddit); s != "" {
		return s
	}
	return defaultSubreddit
}

// Query defaults an empty search query to India
func (v *Validator) Query(query string) string {
	if q := strings.TrimSpace(query); q != "" {
		return q
	}
	return defaultQuery
}
