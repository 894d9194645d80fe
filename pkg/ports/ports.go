// Package ports declares the interfaces between the application layer and
// its adapters (storage, cache, event bus, metrics, classifiers).
package ports

import (
	"context"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

// Store persists posts, users, campaigns and alerts
type Store interface {
	// CreatePost inserts a post and fills in its ID and CreatedAt
	CreatePost(ctx context.Context, post *domain.Post) error
	GetPost(ctx context.Context, id int64) (*domain.Post, error)
	// UpdatePostAnalysis writes the analysis labels of an existing post
	UpdatePostAnalysis(ctx context.Context, post *domain.Post) error
	// ListPosts returns posts newest first
	ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error)

	// UpsertUser inserts a user or refreshes username and followers by UserID
	UpsertUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]domain.User, error)

	// SyncCampaigns upserts campaigns by hashtag, fills in their IDs and
	// deactivates active campaigns missing from the set
	SyncCampaigns(ctx context.Context, campaigns []domain.Campaign) error
	// ListActiveCampaigns returns active campaigns by risk score descending
	ListActiveCampaigns(ctx context.Context) ([]domain.Campaign, error)

	SaveAlert(ctx context.Context, alert *domain.Alert) error
	// HasActiveAlert reports whether an active alert of the type exists for subject
	HasActiveAlert(ctx context.Context, alertType domain.AlertType, subject string) (bool, error)
	// ListAlerts returns alerts newest first
	ListAlerts(ctx context.Context, filter domain.AlertFilter) ([]domain.Alert, error)

	// Stats aggregates dashboard counters
	Stats(ctx context.Context) (*domain.Stats, error)

	Ping(ctx context.Context) error
	Close() error
}

// Cache stores JSON-serialisable values with a TTL
type Cache interface {
	// Get decodes the cached value into dest and reports whether it was present
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// EventHandler processes an event delivered by the bus
type EventHandler func(ctx context.Context, event domain.Event) error

// EventBus publishes and delivers events by topic
type EventBus interface {
	Publish(ctx context.Context, topic string, event domain.Event) error
	// Subscribe delivers events until ctx is cancelled
	Subscribe(ctx context.Context, topic string, handler EventHandler) error
	Close() error
}

// Classifier labels text with sentiment and India relation
type Classifier interface {
	Classify(ctx context.Context, text string) (*domain.ClassificationResult, error)
	Name() string
}

// MetricsCollector records service metrics
type MetricsCollector interface {
	RecordRequest(method, route string, status int, duration time.Duration)
	RecordClassification(model string, sentiment domain.Sentiment, classification domain.Classification)
	RecordPostsCollected(platform domain.Platform, count int)
	RecordCampaignsDetected(count int, duration time.Duration)
	RecordAlert(alertType domain.AlertType, severity domain.Severity)
	RecordCacheLookup(hit bool)
	RecordWorkerPoolStatus(idle, busy, stopped int)
	RecordPostProcessed(status string, duration time.Duration)
	RecordLLMCall(model, status string, duration time.Duration)
}
