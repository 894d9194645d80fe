package detection

import (
	"math"
	"sort"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"go.uber.org/zap"
)

// influentialQuantile is the impact quantile at or above which a user is influential
const influentialQuantile = 0.9

type influenceAcc struct {
	username   string
	posts      int
	engagement int
	antiPosts  int
}

// RankInfluence scores every author by
// engagement * anti-India share * ln(1+followers) / ln(1+posts)
// and flags the top decile by impact. Results are sorted by impact, highest first.
func (d *Detector) RankInfluence(posts []domain.Post, users []domain.User) []domain.UserInfluence {
	known := make(map[string]domain.User, len(users))
	for _, u := range users {
		known[u.UserID] = u
	}

	accs := make(map[string]*influenceAcc)
	for _, p := range posts {
		if p.UserID == "" {
			continue
		}
		acc, ok := accs[p.UserID]
		if !ok {
			acc = &influenceAcc{username: p.Username}
			accs[p.UserID] = acc
		}
		acc.posts++
		acc.engagement += p.Engagement()
		if p.Classification == domain.ClassificationAntiIndia {
			acc.antiPosts++
		}
	}

	out := make([]domain.UserInfluence, 0, len(accs))
	for id, acc := range accs {
		inf := domain.UserInfluence{
			UserID:          id,
			Username:        acc.username,
			PostCount:       acc.posts,
			TotalEngagement: acc.engagement,
			AntiIndiaScore:  float64(acc.antiPosts) / float64(acc.posts),
		}
		if u, ok := known[id]; ok {
			inf.Followers = u.Followers
			if u.Username != "" {
				inf.Username = u.Username
			}
		}
		if inf.Username == "" {
			inf.Username = id
		}
		inf.ImpactScore = impactScore(inf.TotalEngagement, inf.AntiIndiaScore, inf.Followers, inf.PostCount)
		inf.RiskLevel = domain.RiskLevelFor(inf.AntiIndiaScore)
		out = append(out, inf)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ImpactScore != out[j].ImpactScore {
			return out[i].ImpactScore > out[j].ImpactScore
		}
		return out[i].UserID < out[j].UserID
	})

	impacts := make([]float64, len(out))
	for i := range out {
		impacts[i] = out[i].ImpactScore
	}
	threshold := quantile(impacts, influentialQuantile)

	influential := 0
	for i := range out {
		// zero impact never counts, even when the whole field is zero
		if out[i].ImpactScore > 0 && out[i].ImpactScore >= threshold {
			out[i].IsInfluential = true
			influential++
		}
	}

	d.logger.Debug("influence ranking computed",
		zap.Int("users", len(out)),
		zap.Int("influential", influential),
		zap.Float64("threshold", threshold))

	return out
}

func impactScore(engagement int, antiScore float64, followers, posts int) float64 {
	if posts < 1 {
		return 0
	}
	return float64(engagement) * antiScore * math.Log1p(float64(followers)) / math.Log1p(float64(posts))
}

// quantile interpolates linearly between the closest ranks of values
func quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
