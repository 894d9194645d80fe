package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hexaciphers/hexaciphers/internal/config"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/hexaciphers/hexaciphers/pkg/ports"
	"go.uber.org/zap"
)

const (
	trendingWindow  = time.Hour
	influenceWindow = 24 * time.Hour
)

// Snapshot is the data one evaluation looks at
type Snapshot struct {
	Posts     []domain.Post
	Users     []domain.User
	Campaigns []domain.Campaign
	Now       time.Time
}

// Engine raises alerts when recent activity crosses configured thresholds
type Engine struct {
	store      ports.Store
	eventBus   ports.EventBus
	metrics    ports.MetricsCollector
	thresholds config.AlertConfig
	logger     *zap.Logger
}

// NewEngine creates a new alert engine
func NewEngine(
	store ports.Store,
	eventBus ports.EventBus,
	metrics ports.MetricsCollector,
	thresholds config.AlertConfig,
	logger *zap.Logger,
) *Engine {
	return &Engine{
		store:      store,
		eventBus:   eventBus,
		metrics:    metrics,
		thresholds: thresholds,
		logger:     logger,
	}
}

// Evaluate checks the snapshot, then stores and publishes every alert raised.
// An alert is skipped while an active alert with the same type and subject exists.
func (e *Engine) Evaluate(ctx context.Context, snap Snapshot) ([]domain.Alert, error) {
	if snap.Now.IsZero() {
		snap.Now = time.Now().UTC()
	}

	candidates := make([]domain.Alert, 0)
	candidates = append(candidates, e.checkTrendingNegative(snap)...)
	candidates = append(candidates, e.checkCampaigns(snap)...)
	candidates = append(candidates, e.checkHighInfluenceUsers(snap)...)

	raised := make([]domain.Alert, 0, len(candidates))
	for _, a := range candidates {
		exists, err := e.store.HasActiveAlert(ctx, a.Type, a.Subject)
		if err != nil {
			return nil, fmt.Errorf("failed to check existing alerts: %w", err)
		}
		if exists {
			e.logger.Debug("alert already active",
				zap.String("type", string(a.Type)),
				zap.String("subject", a.Subject))
			continue
		}
		raised = append(raised, a)
	}

	for i := range raised {
		raised[i].ID = uuid.New().String()
		raised[i].Status = domain.AlertStatusActive
		raised[i].CreatedAt = snap.Now

		if err := e.store.SaveAlert(ctx, &raised[i]); err != nil {
			return nil, fmt.Errorf("failed to save alert: %w", err)
		}

		event := domain.Event{
			ID:        uuid.New().String(),
			Type:      domain.EventTypeAlertRaised,
			Timestamp: snap.Now,
			Data: map[string]interface{}{
				"alert": raised[i],
			},
		}
		if err := e.eventBus.Publish(ctx, domain.TopicAlerts, event); err != nil {
			e.logger.Error("failed to publish alert event",
				zap.String("alert_id", raised[i].ID),
				zap.Error(err))
		}

		e.metrics.RecordAlert(raised[i].Type, raised[i].Severity)
		e.logger.Info("alert raised",
			zap.String("alert_id", raised[i].ID),
			zap.String("type", string(raised[i].Type)),
			zap.String("severity", string(raised[i].Severity)))
	}

	return raised, nil
}

func (e *Engine) checkTrendingNegative(snap Snapshot) []domain.Alert {
	since := snap.Now.Add(-trendingWindow)

	posts, engagement := 0, 0
	users := make(map[string]struct{})
	for _, p := range snap.Posts {
		if p.Classification != domain.ClassificationAntiIndia || p.CreatedAt.Before(since) || p.CreatedAt.After(snap.Now) {
			continue
		}
		posts++
		engagement += p.Engagement()
		users[p.UserID] = struct{}{}
	}

	t := e.thresholds
	if posts == 0 ||
		(posts < t.TrendingPostsPerHour && engagement < t.TrendingEngagement && len(users) < t.TrendingUniqueUsers) {
		return nil
	}

	return []domain.Alert{{
		Type:  domain.AlertTrendingNegative,
		Title: "Trending Anti-India Content Detected",
		Description: fmt.Sprintf("Unusual spike in anti-India content: %d posts by %d users with %d total engagement",
			posts, len(users), engagement),
		Severity: TrendingSeverity(posts, engagement, len(users)),
		Subject:  trendingSubject(snap.Now),
		Metadata: map[string]interface{}{
			"posts_count":  posts,
			"engagement":   engagement,
			"unique_users": len(users),
			"time_window":  "1 hour",
		},
	}}
}

func (e *Engine) checkCampaigns(snap Snapshot) []domain.Alert {
	out := make([]domain.Alert, 0)
	for _, c := range snap.Campaigns {
		if !c.IsActive {
			continue
		}

		meta := map[string]interface{}{
			"campaign_id":  c.ID,
			"hashtag":      c.Hashtag,
			"volume":       c.Volume,
			"unique_users": c.UniqueUsers,
			"risk_score":   c.RiskScore,
			"indicators":   c.Indicators,
		}

		if c.UniqueUsers >= e.thresholds.CampaignParticipants {
			out = append(out, domain.Alert{
				Type:  domain.AlertCoordinatedCampaign,
				Title: fmt.Sprintf("Coordinated Campaign: %s", c.Hashtag),
				Description: fmt.Sprintf("%d users posted %d times using %s",
					c.UniqueUsers, c.Volume, c.Hashtag),
				Severity: CampaignSeverity(c.RiskLevel),
				Subject:  c.Hashtag,
				Metadata: meta,
			})
		}

		if c.RiskLevel == domain.RiskHigh {
			out = append(out, domain.Alert{
				Type:        domain.AlertHighRiskCampaign,
				Title:       fmt.Sprintf("High Risk Campaign: %s", c.Hashtag),
				Description: fmt.Sprintf("Campaign %s scored %.2f risk", c.Hashtag, c.RiskScore),
				Severity:    domain.SeverityHigh,
				Subject:     c.Hashtag,
				Metadata:    meta,
			})
		}
	}
	return out
}

func (e *Engine) checkHighInfluenceUsers(snap Snapshot) []domain.Alert {
	since := snap.Now.Add(-influenceWindow)

	antiPosts := make(map[string]int)
	for _, p := range snap.Posts {
		if p.Classification == domain.ClassificationAntiIndia && !p.CreatedAt.Before(since) && !p.CreatedAt.After(snap.Now) {
			antiPosts[p.UserID]++
		}
	}

	out := make([]domain.Alert, 0)
	for _, u := range snap.Users {
		count := antiPosts[u.UserID]
		if u.Followers < e.thresholds.InfluenceFollowers || count < e.thresholds.InfluenceAntiIndiaPost {
			continue
		}
		out = append(out, domain.Alert{
			Type:  domain.AlertHighInfluenceUser,
			Title: fmt.Sprintf("High Influence Account: %s", u.Username),
			Description: fmt.Sprintf("%s (%d followers) posted %d anti-India posts in 24 hours",
				u.Username, u.Followers, count),
			Severity: domain.SeverityHigh,
			Subject:  u.UserID,
			Metadata: map[string]interface{}{
				"user_id":          u.UserID,
				"followers":        u.Followers,
				"anti_india_posts": count,
				"time_window":      "24 hours",
			},
		})
	}
	return out
}

// trendingSubject buckets trending alerts by the hour they were raised in
func trendingSubject(now time.Time) string {
	return now.Truncate(trendingWindow).Format(time.RFC3339)
}

// TrendingSeverity grades a trending-negative spike.
// score = posts*0.4 + engagement/1000*0.4 + users*0.2
func TrendingSeverity(posts, engagement, users int) domain.Severity {
	score := float64(posts)*0.4 + float64(engagement)/1000*0.4 + float64(users)*0.2

	switch {
	case score > 100:
		return domain.SeverityCritical
	case score > 50:
		return domain.SeverityHigh
	case score > 20:
		return domain.SeverityMedium
	default:
		return domain.SeverityLow
	}
}

// CampaignSeverity grades a coordinated campaign by its risk level
func CampaignSeverity(level domain.RiskLevel) domain.Severity {
	if level == domain.RiskHigh {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}
