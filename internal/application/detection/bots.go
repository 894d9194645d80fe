package detection

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/hexaciphers/hexaciphers/internal/application/analysis"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"go.uber.org/zap"
)

// Bot indicators
const (
	IndicatorSuspiciousUsername   = "suspicious_username"
	IndicatorRepetitiveContent    = "repetitive_content"
	IndicatorHighFrequencyPosting = "high_frequency_posting"
)

const (
	recentContentWindow  = 5
	distinctContentShare = 0.8
	highFrequencyGap     = 5 * time.Minute
	botHighRiskScore     = 0.7
)

var botUsernamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^.*\d{8,}$`),
	regexp.MustCompile(`^[a-z]+\d{4,}$`),
	regexp.MustCompile(`bot`),
	regexp.MustCompile(`fake`),
}

// userProfile collects a single user's posting behaviour
type userProfile struct {
	userID   string
	username string
	contents []string
	times    []time.Time
	hashtags map[string]struct{}
}

func buildProfiles(posts []domain.Post) map[string]*userProfile {
	profiles := make(map[string]*userProfile)
	for _, p := range posts {
		prof, ok := profiles[p.UserID]
		if !ok {
			name := p.Username
			if name == "" {
				name = p.UserID
			}
			prof = &userProfile{
				userID:   p.UserID,
				username: name,
				hashtags: make(map[string]struct{}),
			}
			profiles[p.UserID] = prof
		}
		prof.contents = append(prof.contents, p.Content)
		prof.times = append(prof.times, p.CreatedAt)
		for _, tag := range analysis.ExtractHashtags(p.Content) {
			prof.hashtags[tag] = struct{}{}
		}
	}
	return profiles
}

// indicators evaluates the bot heuristics over the whole profile
func (u *userProfile) indicators() []string {
	out := make([]string, 0, 3)

	name := strings.ToLower(u.username)
	for _, re := range botUsernamePatterns {
		if re.MatchString(name) {
			out = append(out, IndicatorSuspiciousUsername)
			break
		}
	}

	if len(u.contents) > 1 {
		recent := u.contents
		if len(recent) > recentContentWindow {
			recent = recent[len(recent)-recentContentWindow:]
		}
		distinct := make(map[string]struct{}, len(recent))
		for _, c := range recent {
			distinct[c] = struct{}{}
		}
		if float64(len(distinct)) < float64(len(recent))*distinctContentShare {
			out = append(out, IndicatorRepetitiveContent)
		}
	}

	if len(u.times) > 1 {
		times := append([]time.Time(nil), u.times...)
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		avg := times[len(times)-1].Sub(times[0]) / time.Duration(len(times)-1)
		if avg < highFrequencyGap {
			out = append(out, IndicatorHighFrequencyPosting)
		}
	}

	return out
}

// DetectBots returns users matching at least BotIndicatorThreshold bot
// indicators, highest bot score first
func (d *Detector) DetectBots(posts []domain.Post) []domain.BotUser {
	profiles := buildProfiles(posts)

	bots := make([]domain.BotUser, 0)
	for _, prof := range profiles {
		ind := prof.indicators()
		if len(ind) < BotIndicatorThreshold {
			continue
		}

		score := math.Min(1, float64(len(ind))/float64(len(botUsernamePatterns)))
		level := domain.RiskMedium
		if score > botHighRiskScore {
			level = domain.RiskHigh
		}

		bots = append(bots, domain.BotUser{
			UserID:       prof.userID,
			BotScore:     score,
			Indicators:   ind,
			PostCount:    len(prof.contents),
			HashtagCount: len(prof.hashtags),
			RiskLevel:    level,
		})
	}

	sort.Slice(bots, func(i, j int) bool {
		if bots[i].BotScore != bots[j].BotScore {
			return bots[i].BotScore > bots[j].BotScore
		}
		return bots[i].UserID < bots[j].UserID
	})

	d.logger.Debug("bot detection finished",
		zap.Int("posts", len(posts)),
		zap.Int("bots", len(bots)))
	return bots
}
