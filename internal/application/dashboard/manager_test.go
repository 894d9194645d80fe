package dashboard

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hexaciphers/hexaciphers/internal/application/alerts"
	"github.com/hexaciphers/hexaciphers/internal/application/analysis"
	"github.com/hexaciphers/hexaciphers/internal/application/collector"
	"github.com/hexaciphers/hexaciphers/internal/application/detection"
	"github.com/hexaciphers/hexaciphers/internal/config"
	cachememory "github.com/hexaciphers/hexaciphers/pkg/adapters/cache/memory"
	eventsmemory "github.com/hexaciphers/hexaciphers/pkg/adapters/events/memory"
	"github.com/hexaciphers/hexaciphers/pkg/adapters/metrics/noop"
	storagememory "github.com/hexaciphers/hexaciphers/pkg/adapters/storage/memory"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var now = time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	manager *Manager
	store   *storagememory.InMemoryStore
	bus     *eventsmemory.InMemoryEventBus
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	store := storagememory.NewInMemoryStore()
	bus := eventsmemory.NewInMemoryEventBus(logger)
	t.Cleanup(func() { _ = bus.Close() })
	metrics := noop.NewCollector()

	thresholds := config.AlertConfig{
		TrendingPostsPerHour:   50,
		TrendingEngagement:     1000,
		TrendingUniqueUsers:    20,
		CampaignParticipants:   10,
		InfluenceFollowers:     10000,
		InfluenceAntiIndiaPost: 5,
	}

	m := NewManager(Dependencies{
		Store:      store,
		Cache:      cachememory.NewInMemoryCache(),
		EventBus:   bus,
		Metrics:    metrics,
		Classifier: analysis.NewKeywordClassifier(nil),
		Processor:  analysis.NewTextProcessor(nil),
		Detector:   detection.NewDetector(logger),
		Alerts:     alerts.NewEngine(store, bus, metrics, thresholds, logger),
		Collector:  collector.NewCollector(rand.New(rand.NewPCG(1, 2)), func() time.Time { return now }, logger),
	}, NewValidator(), time.Minute, logger)
	m.now = func() time.Time { return now }

	return &testEnv{manager: m, store: store, bus: bus}
}

func intPtr(n int) *int { return &n }

func TestStatsEmpty(t *testing.T) {
	env := newTestEnv(t)

	stats, err := env.manager.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPosts)
	assert.Equal(t, 0, stats.TotalUsers)
	assert.Equal(t, 0, stats.TotalCampaigns)
	assert.Equal(t, domain.SentimentPercentages{Positive: "0.0%", Negative: "0.0%", Neutral: "0.0%"}, stats.SentimentPercentages)
}

func TestStatsCachedUntilWrite(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.manager.Stats(ctx)
	require.NoError(t, err)

	// Bypasses the manager, so the cached summary is still served
	require.NoError(t, env.store.CreatePost(ctx, &domain.Post{Platform: domain.PlatformTwitter, Content: "x"}))
	stats, err := env.manager.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalPosts)

	_, err = env.manager.CreatePost(ctx, &domain.Post{
		Platform:       domain.PlatformReddit,
		Content:        "Jai Hind",
		Sentiment:      domain.SentimentPositive,
		Classification: domain.ClassificationProIndia,
	})
	require.NoError(t, err)

	stats, err = env.manager.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPosts)
	assert.Equal(t, 1, stats.SentimentDistribution.Positive)
	assert.Equal(t, "100.0%", stats.SentimentPercentages.Positive)
}

func TestCreatePostQueuesUnanalyzed(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events atomic.Int32
	require.NoError(t, env.bus.Subscribe(ctx, domain.TopicPosts, func(ctx context.Context, e domain.Event) error {
		events.Add(1)
		return nil
	}))

	_, err := env.manager.CreatePost(ctx, &domain.Post{Platform: domain.PlatformTwitter, Content: "raw"})
	require.NoError(t, err)
	_, err = env.manager.CreatePost(ctx, &domain.Post{
		Platform:       domain.PlatformTwitter,
		Content:        "labelled",
		Sentiment:      domain.SentimentNeutral,
		Classification: domain.ClassificationNeutral,
	})
	require.NoError(t, err)

	env.bus.Wait()
	assert.Equal(t, int32(1), events.Load())

	_, err = env.manager.CreatePost(ctx, &domain.Post{Platform: domain.PlatformTwitter})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = env.manager.CreatePost(ctx, &domain.Post{Platform: domain.PlatformTwitter, Content: "x", Sentiment: "furious"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListPostsEmptyAndInvalid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	posts, err := env.manager.ListPosts(ctx, PostQuery{})
	require.NoError(t, err)
	assert.NotNil(t, posts)
	assert.Empty(t, posts)

	_, err = env.manager.ListPosts(ctx, PostQuery{Sentiment: "angry"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = env.manager.ListPosts(ctx, PostQuery{Limit: "ten"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectTwitter(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var events atomic.Int32
	require.NoError(t, env.bus.Subscribe(ctx, domain.TopicPosts, func(ctx context.Context, e domain.Event) error {
		events.Add(1)
		return nil
	}))

	posts, err := env.manager.CollectTwitter(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, posts, DefaultCollectLimit)
	for _, p := range posts {
		assert.NotZero(t, p.ID)
	}

	stored, err := env.manager.ListPosts(ctx, PostQuery{Platform: "Twitter"})
	require.NoError(t, err)
	assert.Len(t, stored, DefaultCollectLimit)

	users, err := env.manager.ListUsers(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, users)
	assert.LessOrEqual(t, len(users), len(collector.SampleUsers()))

	env.bus.Wait()
	assert.Equal(t, int32(DefaultCollectLimit), events.Load())

	_, err = env.manager.CollectTwitter(ctx, nil, intPtr(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectRedditAndYouTube(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reddit, err := env.manager.CollectReddit(ctx, "", intPtr(3))
	require.NoError(t, err)
	require.Len(t, reddit, 3)
	assert.Contains(t, reddit[0].URL, "/r/india/")

	videos, err := env.manager.CollectYouTube(ctx, "ISRO", intPtr(50))
	require.NoError(t, err)
	assert.Len(t, videos, 10)
}

func TestClassifyAndProcess(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.manager.Classify(ctx, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	res, err := env.manager.Classify(ctx, "Boycott India now #BoycottIndia")
	require.NoError(t, err)
	assert.Equal(t, domain.ClassificationAntiIndia, res.IndiaClassification.Classification)

	_, err = env.manager.ProcessText(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	processed, err := env.manager.ProcessText(ctx, "Proud of #ISRO today @isro")
	require.NoError(t, err)
	assert.Equal(t, []string{"#isro"}, processed.Hashtags)
	assert.Equal(t, []string{"@isro"}, processed.Mentions)
}

func TestAnalyzeURL(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.manager.AnalyzeURL(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = env.manager.AnalyzeURL(ctx, "https://www.reddit.com/r/india/comments/1")
	assert.ErrorIs(t, err, domain.ErrUnsupportedURL)

	res, err := env.manager.AnalyzeURL(ctx, "https://x.com/someone/status/42")
	require.NoError(t, err)
	assert.Equal(t, domain.PlatformTwitter, res.Platform)
	assert.NotEmpty(t, res.Content)
	assert.NotEmpty(t, res.Hashtags)
	assert.GreaterOrEqual(t, res.RiskScore, 0)
	assert.LessOrEqual(t, res.RiskScore, analysis.MaxContentRisk)
	assert.Equal(t, analysis.ContentRiskLevel(res.RiskScore), res.RiskLevel)
	assert.GreaterOrEqual(t, res.BotProbability, 0)
	assert.LessOrEqual(t, res.BotProbability, 35)

	posts, err := env.manager.ListPosts(ctx, PostQuery{})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "https://x.com/someone/status/42", posts[0].URL)
	assert.True(t, posts[0].Analyzed())
}

func seedCampaign(t *testing.T, env *testEnv) {
	t.Helper()
	for i := 0; i < 12; i++ {
		require.NoError(t, env.store.CreatePost(context.Background(), &domain.Post{
			Platform:       domain.PlatformTwitter,
			UserID:         fmt.Sprintf("u%d", i%3),
			Username:       []string{"alice", "bob", "carol"}[i%3],
			Content:        "Boycott India now #BoycottIndia",
			Sentiment:      domain.SentimentNegative,
			Classification: domain.ClassificationAntiIndia,
			Likes:          100,
			CreatedAt:      now.Add(-time.Duration(i+1) * 2 * time.Minute),
		}))
	}
}

func TestDetectCampaigns(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	none, err := env.manager.DetectCampaigns(ctx)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	seedCampaign(t, env)

	campaigns, err := env.manager.DetectCampaigns(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, campaigns)
	assert.Equal(t, "#boycottindia", campaigns[0].Hashtag)
	assert.NotZero(t, campaigns[0].ID)

	active, err := env.manager.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, active, len(campaigns))

	stats, err := env.manager.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(campaigns), stats.TotalCampaigns)
}

func TestRunScanRaisesAlerts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedCampaign(t, env)

	result, err := env.manager.RunScan(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, result.Campaigns)

	types := make(map[domain.AlertType]bool)
	for _, a := range result.Alerts {
		types[a.Type] = true
	}
	assert.True(t, types[domain.AlertTrendingNegative])
	assert.True(t, types[domain.AlertHighRiskCampaign])

	stored, err := env.manager.ListAlerts(ctx, AlertQuery{Status: "active"})
	require.NoError(t, err)
	assert.Len(t, stored, len(result.Alerts))

	_, err = env.manager.ListAlerts(ctx, AlertQuery{Severity: "extreme"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRepeatedScansDoNotDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	seedCampaign(t, env)

	first, err := env.manager.RunScan(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, first.Campaigns)
	require.NotEmpty(t, first.Alerts)

	for i := 0; i < 2; i++ {
		again, err := env.manager.RunScan(ctx)
		require.NoError(t, err)
		assert.Empty(t, again.Alerts)
		require.Len(t, again.Campaigns, len(first.Campaigns))
		for j := range again.Campaigns {
			assert.Equal(t, first.Campaigns[j].ID, again.Campaigns[j].ID)
			assert.Equal(t, first.Campaigns[j].Hashtag, again.Campaigns[j].Hashtag)
		}
	}

	active, err := env.manager.ListCampaigns(ctx)
	require.NoError(t, err)
	assert.Len(t, active, len(first.Campaigns))

	stored, err := env.manager.ListAlerts(ctx, AlertQuery{})
	require.NoError(t, err)
	assert.Len(t, stored, len(first.Alerts))

	stats, err := env.manager.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(first.Campaigns), stats.TotalCampaigns)
}

func TestInfluenceRankings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i, u := range []domain.User{
		{UserID: "u0", Username: "alice", Followers: 50000},
		{UserID: "u1", Username: "bob", Followers: 200},
		{UserID: "u2", Username: "carol", Followers: 10},
	} {
		require.NoError(t, env.store.UpsertUser(ctx, &u), i)
	}
	seedCampaign(t, env)
	require.NoError(t, env.store.CreatePost(ctx, &domain.Post{
		Platform: domain.PlatformReddit, UserID: "u3", Content: "Chandrayaan made us proud",
		Classification: domain.ClassificationProIndia, Likes: 5000, CreatedAt: now,
	}))

	all, err := env.manager.InfluenceRankings(ctx, InfluenceQuery{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "u0", all[0].UserID)
	assert.Equal(t, "alice", all[0].Username)
	assert.True(t, all[0].IsInfluential)
	for _, r := range all[1:] {
		assert.LessOrEqual(t, r.ImpactScore, all[0].ImpactScore)
	}

	high, err := env.manager.InfluenceRankings(ctx, InfluenceQuery{RiskLevel: "high", Limit: "2"})
	require.NoError(t, err)
	require.Len(t, high, 2)
	for _, r := range high {
		assert.Equal(t, domain.RiskHigh, r.RiskLevel)
	}

	low, err := env.manager.InfluenceRankings(ctx, InfluenceQuery{RiskLevel: "low"})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "u3", low[0].UserID)
	assert.Zero(t, low[0].ImpactScore)

	_, err = env.manager.InfluenceRankings(ctx, InfluenceQuery{RiskLevel: "severe"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDetectBots(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, env.store.CreatePost(ctx, &domain.Post{
			Platform:  domain.PlatformTwitter,
			UserID:    "spam",
			Username:  "promo_bot_99999999",
			Content:   "Follow back #India",
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		}))
	}

	bots, err := env.manager.DetectBots(ctx)
	require.NoError(t, err)
	require.Len(t, bots, 1)
	assert.Equal(t, "spam", bots[0].UserID)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	assert.NoError(t, env.manager.Health(context.Background()))
}

func TestSeed(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var queued atomic.Int32
	require.NoError(t, env.bus.Subscribe(ctx, domain.TopicPosts, func(ctx context.Context, event domain.Event) error {
		queued.Add(1)
		return nil
	}))

	posts, err := env.manager.Seed(ctx, 5)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(posts), 5)

	stored, err := env.manager.ListPosts(ctx, PostQuery{Limit: "1000"})
	require.NoError(t, err)
	require.Len(t, stored, len(posts))
	for _, p := range stored {
		assert.True(t, p.Analyzed(), "post %d stored without labels", p.ID)
		assert.NotEmpty(t, p.Language)
	}

	stats, err := env.manager.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(posts), stats.SentimentDistribution.Total())

	env.bus.Wait()
	assert.Zero(t, queued.Load(), "seeded posts need no worker pass")

	_, err = env.manager.Seed(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
