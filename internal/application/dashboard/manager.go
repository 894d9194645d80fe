package dashboard

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hexaciphers/hexaciphers/internal/application/alerts"
	"github.com/hexaciphers/hexaciphers/internal/application/analysis"
	"github.com/hexaciphers/hexaciphers/internal/application/collector"
	"github.com/hexaciphers/hexaciphers/internal/application/detection"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/hexaciphers/hexaciphers/pkg/ports"
	"go.uber.org/zap"
)

const (
	// detectionWindow is how many recent posts detection and scans look at
	detectionWindow = 1000
	urlPreviewRunes = 200
)

// Dependencies wires the Manager to its adapters and analysis components
type Dependencies struct {
	Store      ports.Store
	Cache      ports.Cache
	EventBus   ports.EventBus
	Metrics    ports.MetricsCollector
	Classifier ports.Classifier
	Processor  *analysis.TextProcessor
	Detector   *detection.Detector
	Alerts     *alerts.Engine
	Collector  *collector.Collector
}

// ScanResult is the outcome of one detection and alerting pass
type ScanResult struct {
	Campaigns []domain.Campaign `json:"campaigns"`
	Alerts    []domain.Alert    `json:"alerts"`
}

// Manager implements the dashboard operations behind the HTTP API
type Manager struct {
	store      ports.Store
	cache      ports.Cache
	eventBus   ports.EventBus
	metrics    ports.MetricsCollector
	classifier ports.Classifier
	processor  *analysis.TextProcessor
	detector   *detection.Detector
	alerts     *alerts.Engine
	collector  *collector.Collector
	validator  *Validator
	logger     *zap.Logger

	statsTTL time.Duration
	now      func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewManager creates a new dashboard manager
func NewManager(deps Dependencies, validator *Validator, statsTTL time.Duration, logger *zap.Logger) *Manager {
	seed := uint64(time.Now().UnixNano())
	return &Manager{
		store:      deps.Store,
		cache:      deps.Cache,
		eventBus:   deps.EventBus,
		metrics:    deps.Metrics,
		classifier: deps.Classifier,
		processor:  deps.Processor,
		detector:   deps.Detector,
		alerts:     deps.Alerts,
		collector:  deps.Collector,
		validator:  validator,
		logger:     logger,
		statsTTL:   statsTTL,
		now:        time.Now,
		rng:        rand.New(rand.NewPCG(seed, seed>>1)),
	}
}

// Health checks the backing store
func (m *Manager) Health(ctx context.Context) error {
	if err := m.store.Ping(ctx); err != nil {
		return fmt.Errorf("store unavailable: %w", err)
	}
	return nil
}

// Stats returns the dashboard summary, served from cache while fresh
func (m *Manager) Stats(ctx context.Context) (*domain.Stats, error) {
	var cached domain.Stats
	hit, err := m.cache.Get(ctx, domain.StatsCacheKey, &cached)
	if err != nil {
		m.logger.Warn("stats cache lookup failed", zap.Error(err))
		hit = false
	}
	m.metrics.RecordCacheLookup(hit)
	if hit {
		return &cached, nil
	}

	stats, err := m.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	if err := m.cache.Set(ctx, domain.StatsCacheKey, stats, m.statsTTL); err != nil {
		m.logger.Warn("failed to cache stats", zap.Error(err))
	}
	return stats, nil
}

// ListPosts returns posts matching the query, newest first
func (m *Manager) ListPosts(ctx context.Context, q PostQuery) ([]domain.Post, error) {
	filter, err := m.validator.PostFilter(q)
	if err != nil {
		return nil, err
	}

	posts, err := m.store.ListPosts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// CreatePost stores a submitted post. Posts without analysis labels are
// queued for classification.
func (m *Manager) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := m.validator.Post(post); err != nil {
		return nil, err
	}

	if err := m.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if !post.Analyzed() {
		m.publishIngested(ctx, post)
	}
	m.invalidateStats(ctx)

	m.logger.Info("post created",
		zap.Int64("post_id", post.ID),
		zap.String("platform", string(post.Platform)))

	return post, nil
}

// ListCampaigns returns active campaigns, highest risk first
func (m *Manager) ListCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := m.store.ListActiveCampaigns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// DetectCampaigns runs campaign detection over the most recent posts. Found
// campaigns are upserted by hashtag; previously active ones not found again
// are deactivated.
func (m *Manager) DetectCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	posts, err := m.recentPosts(ctx)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	campaigns := m.detector.DetectCampaigns(posts)
	duration := time.Since(start)

	if err := m.store.SyncCampaigns(ctx, campaigns); err != nil {
		return nil, fmt.Errorf("failed to save campaigns: %w", err)
	}
	m.invalidateStats(ctx)
	m.metrics.RecordCampaignsDetected(len(campaigns), duration)

	for _, c := range campaigns {
		event := domain.Event{
			ID:        uuid.New().String(),
			Type:      domain.EventTypeCampaignDetected,
			Timestamp: m.now().UTC(),
			Data: map[string]interface{}{
				"campaign_id": c.ID,
				"hashtag":     c.Hashtag,
				"risk_score":  c.RiskScore,
				"risk_level":  c.RiskLevel,
			},
		}
		if err := m.eventBus.Publish(ctx, domain.TopicCampaigns, event); err != nil {
			m.logger.Error("failed to publish campaign event",
				zap.String("hashtag", c.Hashtag),
				zap.Error(err))
		}
	}

	m.logger.Info("campaign detection completed",
		zap.Int("posts", len(posts)),
		zap.Int("campaigns", len(campaigns)),
		zap.Duration("duration", duration))

	return campaigns, nil
}

// DetectBots flags likely automated accounts among the most recent posts
func (m *Manager) DetectBots(ctx context.Context) ([]domain.BotUser, error) {
	posts, err := m.recentPosts(ctx)
	if err != nil {
		return nil, err
	}
	return m.detector.DetectBots(posts), nil
}

// ListUsers returns all known users
func (m *Manager) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := m.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// InfluenceRankings ranks the authors of the most recent posts by the impact
// of their anti-India content, highest first
func (m *Manager) InfluenceRankings(ctx context.Context, q InfluenceQuery) ([]domain.UserInfluence, error) {
	filter, err := m.validator.InfluenceFilter(q)
	if err != nil {
		return nil, err
	}

	posts, err := m.recentPosts(ctx)
	if err != nil {
		return nil, err
	}
	users, err := m.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	ranked := m.detector.RankInfluence(posts, users)
	out := make([]domain.UserInfluence, 0, len(ranked))
	for _, r := range ranked {
		if filter.RiskLevel != "" && r.RiskLevel != filter.RiskLevel {
			continue
		}
		out = append(out, r)
		if len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

// ListAlerts returns alerts matching the query, newest first
func (m *Manager) ListAlerts(ctx context.Context, q AlertQuery) ([]domain.Alert, error) {
	filter, err := m.validator.AlertFilter(q)
	if err != nil {
		return nil, err
	}

	list, err := m.store.ListAlerts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return list, nil
}

// Classify labels text with sentiment and India relation
func (m *Manager) Classify(ctx context.Context, text string) (*domain.ClassificationResult, error) {
	if err := m.validator.Text(text); err != nil {
		return nil, err
	}

	result, err := m.classifier.Classify(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}

	m.metrics.RecordClassification(m.classifier.Name(), result.Sentiment.Sentiment, result.IndiaClassification.Classification)
	return result, nil
}

// ProcessText runs the preprocessing pipeline over text
func (m *Manager) ProcessText(ctx context.Context, text string) (*domain.ProcessedText, error) {
	if err := m.validator.Text(text); err != nil {
		return nil, err
	}
	return m.processor.Process(text), nil
}

// AnalyzeURL fetches the post behind a Twitter/X URL, scores it and stores it
func (m *Manager) AnalyzeURL(ctx context.Context, rawURL string) (*domain.URLAnalysis, error) {
	if err := m.validator.URL(rawURL); err != nil {
		return nil, err
	}
	rawURL = strings.TrimSpace(rawURL)

	platform, err := analysis.DetectPlatform(rawURL)
	if err != nil {
		return nil, err
	}

	sample := m.collector.FetchTweet(rawURL)

	result, err := m.classifier.Classify(ctx, sample.Content)
	if err != nil {
		return nil, fmt.Errorf("classification failed: %w", err)
	}
	sentiment := result.Sentiment.Sentiment
	classification := result.IndiaClassification.Classification
	m.metrics.RecordClassification(m.classifier.Name(), sentiment, classification)

	engagement := sample.Engagement.Total()
	risk := analysis.ContentRiskScore(sentiment, classification, engagement)

	m.rngMu.Lock()
	botProbability := analysis.BotProbability(engagement, m.rng)
	m.rngMu.Unlock()

	post := &domain.Post{
		Platform:       platform,
		Content:        sample.Content,
		Language:       m.processor.DetectLanguage(sample.Content),
		Sentiment:      sentiment,
		Classification: classification,
		URL:            rawURL,
		Likes:          sample.Engagement.Likes,
		Shares:         sample.Engagement.Shares,
		Comments:       sample.Engagement.Comments,
	}
	if err := m.store.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to store analyzed post: %w", err)
	}
	m.invalidateStats(ctx)

	m.logger.Info("URL analyzed",
		zap.String("url", rawURL),
		zap.Int("risk_score", risk),
		zap.Int("bot_probability", botProbability))

	return &domain.URLAnalysis{
		Platform:       platform,
		Content:        analysis.Preview(sample.Content, urlPreviewRunes),
		Sentiment:      sentiment,
		Classification: classification,
		RiskScore:      risk,
		RiskLevel:      analysis.ContentRiskLevel(risk),
		BotProbability: botProbability,
		Hashtags:       sample.Hashtags,
		Engagement:     sample.Engagement,
		URL:            rawURL,
	}, nil
}

// CollectTwitter simulates collecting tweets matching keywords
func (m *Manager) CollectTwitter(ctx context.Context, keywords []string, limit *int) ([]domain.Post, error) {
	n, err := m.validator.CollectLimit(limit)
	if err != nil {
		return nil, err
	}
	return m.ingest(ctx, m.collector.CollectTwitter(m.validator.Keywords(keywords), n))
}

// CollectReddit simulates collecting posts from a subreddit
func (m *Manager) CollectReddit(ctx context.Context, subreddit string, limit *int) ([]domain.Post, error) {
	n, err := m.validator.CollectLimit(limit)
	if err != nil {
		return nil, err
	}
	return m.ingest(ctx, m.collector.CollectReddit(m.validator.Subreddit(subreddit), n))
}

// CollectYouTube simulates collecting videos matching query
func (m *Manager) CollectYouTube(ctx context.Context, query string, limit *int) ([]domain.Post, error) {
	n, err := m.validator.CollectLimit(limit)
	if err != nil {
		return nil, err
	}
	return m.ingest(ctx, m.collector.CollectYouTube(m.validator.Query(query), n))
}

// Seed stores a simulated feed spanning the given number of minutes. Posts
// are classified before they are stored, so seeding does not depend on a
// running worker pool.
func (m *Manager) Seed(ctx context.Context, minutes int) ([]domain.Post, error) {
	if minutes < 1 {
		return nil, fmt.Errorf("%w: minutes must be positive", domain.ErrInvalidInput)
	}

	batch := m.collector.SimulateFeed(minutes)
	for i := range batch.Posts {
		if err := m.analyze(ctx, &batch.Posts[i]); err != nil {
			return nil, err
		}
	}
	return m.ingest(ctx, batch)
}

// RunScan detects campaigns and evaluates alerts over the most recent activity
func (m *Manager) RunScan(ctx context.Context) (*ScanResult, error) {
	campaigns, err := m.DetectCampaigns(ctx)
	if err != nil {
		return nil, err
	}

	posts, err := m.recentPosts(ctx)
	if err != nil {
		return nil, err
	}
	users, err := m.store.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	raised, err := m.alerts.Evaluate(ctx, alerts.Snapshot{
		Posts:     posts,
		Users:     users,
		Campaigns: campaigns,
		Now:       m.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("alert evaluation failed: %w", err)
	}

	return &ScanResult{Campaigns: campaigns, Alerts: raised}, nil
}

// ingest stores a collected batch, refreshing its authors first. Posts still
// missing labels are queued for the worker pool.
func (m *Manager) ingest(ctx context.Context, batch collector.Batch) ([]domain.Post, error) {
	for i := range batch.Users {
		if err := m.store.UpsertUser(ctx, &batch.Users[i]); err != nil {
			return nil, fmt.Errorf("failed to store user %s: %w", batch.Users[i].UserID, err)
		}
	}

	counts := make(map[domain.Platform]int)
	for i := range batch.Posts {
		if err := m.store.CreatePost(ctx, &batch.Posts[i]); err != nil {
			return nil, fmt.Errorf("failed to store post: %w", err)
		}
		counts[batch.Posts[i].Platform]++
		if !batch.Posts[i].Analyzed() {
			m.publishIngested(ctx, &batch.Posts[i])
		}
	}

	for platform, n := range counts {
		m.metrics.RecordPostsCollected(platform, n)
	}
	m.invalidateStats(ctx)

	m.logger.Info("collected posts stored",
		zap.String("platform", string(batch.Platform)),
		zap.Int("posts", len(batch.Posts)),
		zap.Int("users", len(batch.Users)))

	return batch.Posts, nil
}

// analyze labels a post in place the way the worker pool does
func (m *Manager) analyze(ctx context.Context, post *domain.Post) error {
	result, err := m.classifier.Classify(ctx, post.Content)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	post.Sentiment = result.Sentiment.Sentiment
	post.Classification = result.IndiaClassification.Classification
	post.Language = m.processor.DetectLanguage(post.Content)
	if translated := m.processor.Translate(post.Content); translated != post.Content {
		post.TranslatedText = translated
	}
	m.metrics.RecordClassification(m.classifier.Name(), post.Sentiment, post.Classification)
	return nil
}

func (m *Manager) recentPosts(ctx context.Context) ([]domain.Post, error) {
	posts, err := m.store.ListPosts(ctx, domain.PostFilter{Limit: detectionWindow})
	if err != nil {
		return nil, fmt.Errorf("failed to load recent posts: %w", err)
	}
	return posts, nil
}

func (m *Manager) publishIngested(ctx context.Context, post *domain.Post) {
	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      domain.EventTypePostIngested,
		Timestamp: m.now().UTC(),
		Data: map[string]interface{}{
			"post_id":  post.ID,
			"platform": string(post.Platform),
		},
	}
	if err := m.eventBus.Publish(ctx, domain.TopicPosts, event); err != nil {
		m.logger.Error("failed to publish post event",
			zap.Int64("post_id", post.ID),
			zap.Error(err))
	}
}

func (m *Manager) invalidateStats(ctx context.Context) {
	if err := m.cache.Delete(ctx, domain.StatsCacheKey); err != nil {
		m.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}
