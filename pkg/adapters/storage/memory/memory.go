package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

// InMemoryStore implements ports.Store using in-memory slices
// Used with STORAGE_BACKEND=memory and in tests
type InMemoryStore struct {
	posts     []domain.Post
	users     map[string]*domain.User
	userOrder []string
	campaigns []domain.Campaign
	alerts    []domain.Alert

	nextPostID     int64
	nextUserID     int64
	nextCampaignID int64

	now func() time.Time
	mu  sync.RWMutex
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		users: make(map[string]*domain.User),
		now:   time.Now,
	}
}

// CreatePost stores a post, assigning its ID and CreatedAt when unset
func (s *InMemoryStore) CreatePost(ctx context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextPostID++
	post.ID = s.nextPostID
	if post.CreatedAt.IsZero() {
		post.CreatedAt = s.now().UTC()
	}
	s.posts = append(s.posts, *post)
	return nil
}

// GetPost retrieves a post by ID
func (s *InMemoryStore) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.posts {
		if s.posts[i].ID == id {
			p := s.posts[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
}

// UpdatePostAnalysis overwrites the analysis fields of a stored post
func (s *InMemoryStore) UpdatePostAnalysis(ctx context.Context, post *domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == post.ID {
			s.posts[i].Sentiment = post.Sentiment
			s.posts[i].Classification = post.Classification
			s.posts[i].Language = post.Language
			s.posts[i].TranslatedText = post.TranslatedText
			return nil
		}
	}
	return fmt.Errorf("post %d: %w", post.ID, domain.ErrNotFound)
}

// ListPosts returns matching posts, newest first
func (s *InMemoryStore) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Post, 0)
	for i := len(s.posts) - 1; i >= 0; i-- {
		p := s.posts[i]
		if filter.Platform != "" && p.Platform != filter.Platform {
			continue
		}
		if filter.Sentiment != "" && p.Sentiment != filter.Sentiment {
			continue
		}
		if filter.Classification != "" && p.Classification != filter.Classification {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// UpsertUser inserts a user or refreshes the stored username and followers
func (s *InMemoryStore) UpsertUser(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.users[user.UserID]; ok {
		existing.Username = user.Username
		existing.Followers = user.Followers
		existing.IsBot = existing.IsBot || user.IsBot
		*user = *existing
		return nil
	}

	s.nextUserID++
	user.ID = s.nextUserID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now().UTC()
	}
	u := *user
	s.users[user.UserID] = &u
	s.userOrder = append(s.userOrder, user.UserID)
	return nil
}

// ListUsers returns users in insertion order
func (s *InMemoryStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, 0, len(s.userOrder))
	for _, id := range s.userOrder {
		out = append(out, *s.users[id])
	}
	return out, nil
}

// SyncCampaigns upserts campaigns by hashtag and deactivates active
// campaigns missing from the set. Stored IDs and FirstDetected are kept.
func (s *InMemoryStore) SyncCampaigns(ctx context.Context, campaigns []domain.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(campaigns))
	for i := range campaigns {
		c := &campaigns[i]
		seen[c.Hashtag] = struct{}{}

		idx := s.campaignIndex(c.Hashtag)
		if idx < 0 {
			s.nextCampaignID++
			c.ID = s.nextCampaignID
			s.campaigns = append(s.campaigns, copyCampaign(*c))
			continue
		}

		stored := &s.campaigns[idx]
		c.ID = stored.ID
		if !stored.FirstDetected.IsZero() {
			c.FirstDetected = stored.FirstDetected
		}
		*stored = copyCampaign(*c)
	}

	for i := range s.campaigns {
		if _, ok := seen[s.campaigns[i].Hashtag]; !ok {
			s.campaigns[i].IsActive = false
		}
	}
	return nil
}

func (s *InMemoryStore) campaignIndex(hashtag string) int {
	for i := range s.campaigns {
		if s.campaigns[i].Hashtag == hashtag {
			return i
		}
	}
	return -1
}

func copyCampaign(c domain.Campaign) domain.Campaign {
	c.Indicators = append([]string(nil), c.Indicators...)
	c.Users = append([]string(nil), c.Users...)
	return c
}

// ListActiveCampaigns returns active campaigns by risk score, highest first
func (s *InMemoryStore) ListActiveCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Campaign, 0)
	for _, c := range s.campaigns {
		if c.IsActive {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RiskScore > out[j].RiskScore
	})
	return out, nil
}

// SaveAlert stores an alert
func (s *InMemoryStore) SaveAlert(ctx context.Context, alert *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = s.now().UTC()
	}
	s.alerts = append(s.alerts, *alert)
	return nil
}

// HasActiveAlert reports whether an active alert of the type exists for subject
func (s *InMemoryStore) HasActiveAlert(ctx context.Context, alertType domain.AlertType, subject string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.alerts {
		if a.Type == alertType && a.Subject == subject && a.Status == domain.AlertStatusActive {
			return true, nil
		}
	}
	return false, nil
}

// ListAlerts returns matching alerts, newest first
func (s *InMemoryStore) ListAlerts(ctx context.Context, filter domain.AlertFilter) ([]domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Alert, 0)
	for i := len(s.alerts) - 1; i >= 0; i-- {
		a := s.alerts[i]
		if filter.Status != "" && a.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && a.Severity != filter.Severity {
			continue
		}
		out = append(out, a)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Stats aggregates counters over the stored rows
func (s *InMemoryStore) Stats(ctx context.Context) (*domain.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &domain.Stats{
		TotalPosts: len(s.posts),
		TotalUsers: len(s.users),
	}
	for _, c := range s.campaigns {
		if c.IsActive {
			stats.TotalCampaigns++
		}
	}

	for _, p := range s.posts {
		switch p.Sentiment {
		case domain.SentimentPositive:
			stats.SentimentDistribution.Positive++
		case domain.SentimentNegative:
			stats.SentimentDistribution.Negative++
		case domain.SentimentNeutral:
			stats.SentimentDistribution.Neutral++
		}
		switch p.Classification {
		case domain.ClassificationProIndia:
			stats.ClassificationDistribution.ProIndia++
		case domain.ClassificationAntiIndia:
			stats.ClassificationDistribution.AntiIndia++
		case domain.ClassificationNeutral:
			stats.ClassificationDistribution.Neutral++
		}
	}
	stats.SentimentPercentages = stats.SentimentDistribution.Percentages()

	return stats, nil
}

// Ping always succeeds
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Close releases nothing
func (s *InMemoryStore) Close() error {
	return nil
}
