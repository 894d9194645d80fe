package collector

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"go.uber.org/zap"
)

// Batch is the result of one collection run
type Batch struct {
	Platform domain.Platform
	Posts    []domain.Post
	// Users are the distinct authors of Posts, in first-seen order
	Users []domain.User
}

// Collector simulates social media collection from fixed sample corpora
type Collector struct {
	rng    *rand.Rand
	now    func() time.Time
	logger *zap.Logger
	mu     sync.Mutex
}

// NewCollector creates a collector drawing from rng; now stamps collected posts
func NewCollector(rng *rand.Rand, now func() time.Time, logger *zap.Logger) *Collector {
	return &Collector{
		rng:    rng,
		now:    now,
		logger: logger,
	}
}

// NewSimulatedCollector creates a collector seeded from the clock
func NewSimulatedCollector(logger *zap.Logger) *Collector {
	seed := uint64(time.Now().UnixNano())
	return NewCollector(rand.New(rand.NewPCG(seed, seed>>1)), time.Now, logger)
}

// CollectTwitter returns up to limit simulated tweets
func (c *Collector) CollectTwitter(keywords []string, limit int) Batch {
	c.logger.Info("simulating Twitter collection",
		zap.Strings("keywords", keywords),
		zap.Int("limit", limit))

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	n := capped(limit, len(sampleTweets))
	b := newBatch(domain.PlatformTwitter, n)
	for i := 0; i < n; i++ {
		u := c.pickUser()
		b.add(domain.Post{
			Platform:  domain.PlatformTwitter,
			UserID:    u.UserID,
			Username:  u.Username,
			Content:   sampleTweets[i],
			URL:       fmt.Sprintf("https://twitter.com/%s/status/%d", u.Username, 1000+i+1),
			Likes:     c.rng.IntN(101),
			Shares:    c.rng.IntN(51),
			CreatedAt: now.Add(-time.Duration(1+c.rng.IntN(24)) * time.Hour),
		}, u)
	}
	return b.Batch
}

// CollectReddit returns up to limit simulated posts from a subreddit
func (c *Collector) CollectReddit(subreddit string, limit int) Batch {
	c.logger.Info("simulating Reddit collection",
		zap.String("subreddit", subreddit),
		zap.Int("limit", limit))

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	sub := strings.TrimPrefix(subreddit, "r/")
	n := capped(limit, len(sampleRedditPosts))
	b := newBatch(domain.PlatformReddit, n)
	for i := 0; i < n; i++ {
		u := c.pickUser()
		b.add(domain.Post{
			Platform:  domain.PlatformReddit,
			UserID:    u.UserID,
			Username:  u.Username,
			Content:   sampleRedditPosts[i],
			URL:       fmt.Sprintf("https://www.reddit.com/r/%s/comments/%d", sub, i+1),
			Likes:     c.rng.IntN(201),
			Comments:  c.rng.IntN(51),
			CreatedAt: now.Add(-time.Duration(1+c.rng.IntN(48)) * time.Hour),
		}, u)
	}
	return b.Batch
}

// CollectYouTube returns up to limit simulated videos matching query
func (c *Collector) CollectYouTube(query string, limit int) Batch {
	c.logger.Info("simulating YouTube collection",
		zap.String("query", query),
		zap.Int("limit", limit))

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now().UTC()
	n := capped(limit, len(sampleVideoTitles))
	b := newBatch(domain.PlatformYouTube, n)
	for i := 0; i < n; i++ {
		u := c.pickUser()
		b.add(domain.Post{
			Platform:  domain.PlatformYouTube,
			UserID:    u.UserID,
			Username:  u.Username,
			Content:   "Video content about: " + sampleVideoTitles[i],
			URL:       fmt.Sprintf("https://www.youtube.com/watch?v=sample%02d", i+1),
			Likes:     10 + c.rng.IntN(991),
			CreatedAt: now.Add(-time.Duration(1+c.rng.IntN(30)) * 24 * time.Hour),
		}, u)
	}
	return b.Batch
}

// SimulateFeed returns a minute-by-minute feed of one to three posts per
// minute across all platforms, starting now
func (c *Collector) SimulateFeed(minutes int) Batch {
	c.mu.Lock()
	defer c.mu.Unlock()

	start := c.now().UTC()
	platforms := []domain.Platform{domain.PlatformTwitter, domain.PlatformReddit, domain.PlatformYouTube}
	b := newBatch("", minutes*2)
	for m := 0; m < minutes; m++ {
		perMinute := 1 + c.rng.IntN(3)
		for j := 0; j < perMinute; j++ {
			platform := platforms[c.rng.IntN(len(platforms))]
			u := c.pickUser()

			content := sampleRedditPosts[c.rng.IntN(len(sampleRedditPosts))]
			if platform == domain.PlatformTwitter {
				content = sampleTweets[c.rng.IntN(len(sampleTweets))]
			}

			b.add(domain.Post{
				Platform:  platform,
				UserID:    u.UserID,
				Username:  u.Username,
				Content:   content,
				Likes:     10 + c.rng.IntN(491),
				CreatedAt: start.Add(time.Duration(m) * time.Minute),
			}, u)
		}
	}
	return b.Batch
}

// FetchTweet returns the content behind a tweet URL
func (c *Collector) FetchTweet(url string) TweetSample {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := sampleTweetPages[c.rng.IntN(len(sampleTweetPages))]
	s.Hashtags = append([]string(nil), s.Hashtags...)
	c.logger.Debug("fetched tweet", zap.String("url", url))
	return s
}

func (c *Collector) pickUser() SampleUser {
	return sampleUsers[c.rng.IntN(len(sampleUsers))]
}

func capped(limit, size int) int {
	if limit <= 0 {
		return 0
	}
	if limit > size {
		return size
	}
	return limit
}

type batchBuilder struct {
	Batch
	seen map[string]struct{}
}

func newBatch(platform domain.Platform, capacity int) *batchBuilder {
	return &batchBuilder{
		Batch: Batch{
			Platform: platform,
			Posts:    make([]domain.Post, 0, capacity),
			Users:    make([]domain.User, 0),
		},
		seen: make(map[string]struct{}),
	}
}

func (b *batchBuilder) add(p domain.Post, u SampleUser) {
	b.Posts = append(b.Posts, p)
	if _, ok := b.seen[u.UserID]; ok {
		return
	}
	b.seen[u.UserID] = struct{}{}
	b.Users = append(b.Users, domain.User{
		UserID:    u.UserID,
		Username:  u.Username,
		Followers: u.Followers,
	})
}
