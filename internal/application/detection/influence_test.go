package detection

import (
	"math"
	"testing"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRankInfluence(t *testing.T) {
	d := NewDetector(zap.NewNop())

	posts := []domain.Post{
		{UserID: "a", Username: "post_name", Classification: domain.ClassificationAntiIndia, Likes: 100, CreatedAt: base},
		{UserID: "a", Classification: domain.ClassificationAntiIndia, Likes: 60, Shares: 40, CreatedAt: base},
		{UserID: "b", Classification: domain.ClassificationNeutral, Likes: 500, CreatedAt: base},
		{UserID: "c", Username: "casual", Classification: domain.ClassificationAntiIndia, Likes: 50, CreatedAt: base},
		{UserID: "", Classification: domain.ClassificationAntiIndia, Likes: 9000, CreatedAt: base},
	}
	users := []domain.User{
		{UserID: "a", Username: "amplifier", Followers: 1000},
		{UserID: "b", Username: "bystander", Followers: 10},
	}

	got := d.RankInfluence(posts, users)
	require.Len(t, got, 3)

	top := got[0]
	assert.Equal(t, "a", top.UserID)
	assert.Equal(t, "amplifier", top.Username)
	assert.Equal(t, 2, top.PostCount)
	assert.Equal(t, 200, top.TotalEngagement)
	assert.Equal(t, 1.0, top.AntiIndiaScore)
	assert.InDelta(t, 200*math.Log1p(1000)/math.Log1p(2), top.ImpactScore, 1e-9)
	assert.Equal(t, domain.RiskHigh, top.RiskLevel)
	assert.True(t, top.IsInfluential)

	assert.Equal(t, "b", got[1].UserID)
	assert.Zero(t, got[1].ImpactScore)
	assert.Equal(t, domain.RiskLow, got[1].RiskLevel)
	assert.False(t, got[1].IsInfluential)

	// no follower record means ln(1+0) = 0
	assert.Equal(t, "c", got[2].UserID)
	assert.Equal(t, "casual", got[2].Username)
	assert.Zero(t, got[2].ImpactScore)
	assert.Equal(t, domain.RiskHigh, got[2].RiskLevel)
	assert.False(t, got[2].IsInfluential)
}

func TestRankInfluenceEmpty(t *testing.T) {
	d := NewDetector(zap.NewNop())
	got := d.RankInfluence(nil, nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestQuantile(t *testing.T) {
	assert.Zero(t, quantile(nil, 0.9))
	assert.Equal(t, 7.0, quantile([]float64{7}, 0.9))
	assert.InDelta(t, 4.6, quantile([]float64{5, 1, 4, 2, 3}, 0.9), 1e-9)
	assert.Equal(t, 1.0, quantile([]float64{3, 1, 2}, 0))
}
