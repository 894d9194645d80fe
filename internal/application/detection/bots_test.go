package detection

import (
	"testing"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDetectBots(t *testing.T) {
	d := NewDetector(zap.NewNop())

	posts := []domain.Post{
		{UserID: "b1", Username: "newsbot12345678", Content: "Buy now #deal", CreatedAt: base.Add(2 * time.Minute)},
		{UserID: "b1", Username: "newsbot12345678", Content: "Buy now #deal", CreatedAt: base},
		{UserID: "b1", Username: "newsbot12345678", Content: "Buy now #deal", CreatedAt: base.Add(time.Minute)},
		{UserID: "h1", Username: "alice", Content: "Morning walk", CreatedAt: base},
		{UserID: "h1", Username: "alice", Content: "Lunch with friends", CreatedAt: base.Add(3 * time.Hour)},
	}

	bots := d.DetectBots(posts)
	require.Len(t, bots, 1)

	bot := bots[0]
	assert.Equal(t, "b1", bot.UserID)
	assert.Equal(t, []string{
		IndicatorSuspiciousUsername,
		IndicatorRepetitiveContent,
		IndicatorHighFrequencyPosting,
	}, bot.Indicators)
	assert.InDelta(t, 0.75, bot.BotScore, 1e-9)
	assert.Equal(t, 3, bot.PostCount)
	assert.Equal(t, 1, bot.HashtagCount)
	assert.Equal(t, domain.RiskHigh, bot.RiskLevel)
}

func TestDetectBotsEmpty(t *testing.T) {
	d := NewDetector(zap.NewNop())

	bots := d.DetectBots(nil)
	assert.NotNil(t, bots)
	assert.Empty(t, bots)
}

func TestProfileIndicators(t *testing.T) {
	tests := []struct {
		name    string
		profile userProfile
		want    []string
	}{
		{
			name:    "digits suffix",
			profile: userProfile{username: "patriot2024"},
			want:    []string{IndicatorSuspiciousUsername},
		},
		{
			name:    "username falls back to clean",
			profile: userProfile{username: "rahul_sharma"},
			want:    []string{},
		},
		{
			name: "slow distinct poster",
			profile: userProfile{
				username: "meera",
				contents: []string{"a", "b"},
				times:    []time.Time{base, base.Add(time.Hour)},
			},
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.indicators())
		})
	}
}
