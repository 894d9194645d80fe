package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyStore(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	posts, err := s.ListPosts(ctx, domain.PostFilter{})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPosts)
	assert.Equal(t, "0.0%", stats.SentimentPercentages.Positive)

	campaigns, err := s.ListActiveCampaigns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, campaigns)
}

func TestPostLifecycle(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	older := &domain.Post{Platform: domain.PlatformTwitter, UserID: "u1", Content: "one", CreatedAt: base}
	newer := &domain.Post{Platform: domain.PlatformReddit, UserID: "u2", Content: "two", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, s.CreatePost(ctx, older))
	require.NoError(t, s.CreatePost(ctx, newer))
	assert.Equal(t, int64(1), older.ID)
	assert.Equal(t, int64(2), newer.ID)

	all, err := s.ListPosts(ctx, domain.PostFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "two", all[0].Content)

	reddit, err := s.ListPosts(ctx, domain.PostFilter{Platform: domain.PlatformReddit})
	require.NoError(t, err)
	require.Len(t, reddit, 1)

	limited, err := s.ListPosts(ctx, domain.PostFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	older.Sentiment = domain.SentimentNegative
	older.Classification = domain.ClassificationAntiIndia
	require.NoError(t, s.UpdatePostAnalysis(ctx, older))

	got, err := s.GetPost(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SentimentNegative, got.Sentiment)

	anti, err := s.ListPosts(ctx, domain.PostFilter{Classification: domain.ClassificationAntiIndia})
	require.NoError(t, err)
	assert.Len(t, anti, 1)

	_, err = s.GetPost(ctx, 99)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.UpdatePostAnalysis(ctx, &domain.Post{ID: 99}), domain.ErrNotFound)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPosts)
	assert.Equal(t, 1, stats.SentimentDistribution.Negative)
	assert.Equal(t, 1, stats.ClassificationDistribution.AntiIndia)
	assert.Equal(t, "100.0%", stats.SentimentPercentages.Negative)
}

func TestUpsertUser(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.UpsertUser(ctx, &domain.User{UserID: "u1", Username: "old", Followers: 10}))
	u := &domain.User{UserID: "u1", Username: "new", Followers: 20}
	require.NoError(t, s.UpsertUser(ctx, u))
	assert.Equal(t, int64(1), u.ID)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "new", users[0].Username)
	assert.Equal(t, 20, users[0].Followers)
}

func TestCampaignsAndAlerts(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	campaigns := []domain.Campaign{
		{Hashtag: "#low", RiskScore: 0.2, IsActive: true},
		{Hashtag: "#high", RiskScore: 0.9, IsActive: true},
		{Hashtag: "#old", RiskScore: 1, IsActive: false},
	}
	require.NoError(t, s.SyncCampaigns(ctx, campaigns))
	assert.Equal(t, int64(3), campaigns[2].ID)

	active, err := s.ListActiveCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "#high", active[0].Hashtag)

	require.NoError(t, s.SaveAlert(ctx, &domain.Alert{ID: "a", Severity: domain.SeverityLow, Status: domain.AlertStatusActive}))
	require.NoError(t, s.SaveAlert(ctx, &domain.Alert{ID: "b", Severity: domain.SeverityHigh, Status: domain.AlertStatusActive}))

	high, err := s.ListAlerts(ctx, domain.AlertFilter{Severity: domain.SeverityHigh})
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "b", high[0].ID)

	resolved, err := s.ListAlerts(ctx, domain.AlertFilter{Status: domain.AlertStatusResolved})
	require.NoError(t, err)
	assert.Empty(t, resolved)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCampaigns)
}

func TestSyncCampaignsUpsertsByHashtag(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	first := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	pass1 := []domain.Campaign{
		{Hashtag: "#boycottindia", Volume: 12, RiskScore: 0.7, FirstDetected: first, LastDetected: first.Add(time.Hour), IsActive: true},
		{Hashtag: "network_0", Volume: 12, RiskScore: 0.5, IsActive: true},
	}
	require.NoError(t, s.SyncCampaigns(ctx, pass1))

	pass2 := []domain.Campaign{
		{Hashtag: "#boycottindia", Volume: 20, RiskScore: 0.8, Indicators: []string{"x"},
			FirstDetected: first.Add(30 * time.Minute), LastDetected: first.Add(2 * time.Hour), IsActive: true},
	}
	require.NoError(t, s.SyncCampaigns(ctx, pass2))
	assert.Equal(t, pass1[0].ID, pass2[0].ID)
	assert.Equal(t, first, pass2[0].FirstDetected)

	active, err := s.ListActiveCampaigns(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "#boycottindia", active[0].Hashtag)
	assert.Equal(t, 20, active[0].Volume)
	assert.Equal(t, first, active[0].FirstDetected)
	assert.Equal(t, first.Add(2*time.Hour), active[0].LastDetected)

	require.NoError(t, s.SyncCampaigns(ctx, nil))
	active, err = s.ListActiveCampaigns(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalCampaigns)

	require.NoError(t, s.SyncCampaigns(ctx, pass1))
	assert.Equal(t, int64(1), pass1[0].ID)
	assert.Equal(t, int64(2), pass1[1].ID)
}

func TestHasActiveAlert(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.SaveAlert(ctx, &domain.Alert{ID: "a", Type: domain.AlertHighRiskCampaign,
		Subject: "#boycottindia", Status: domain.AlertStatusActive}))
	require.NoError(t, s.SaveAlert(ctx, &domain.Alert{ID: "b", Type: domain.AlertHighInfluenceUser,
		Subject: "u1", Status: domain.AlertStatusResolved}))

	tests := []struct {
		alertType domain.AlertType
		subject   string
		want      bool
	}{
		{domain.AlertHighRiskCampaign, "#boycottindia", true},
		{domain.AlertCoordinatedCampaign, "#boycottindia", false},
		{domain.AlertHighRiskCampaign, "#other", false},
		{domain.AlertHighInfluenceUser, "u1", false},
	}
	for _, tt := range tests {
		got, err := s.HasActiveAlert(ctx, tt.alertType, tt.subject)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s %s", tt.alertType, tt.subject)
	}
}
