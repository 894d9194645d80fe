package detection

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"time"

	"github.com/hexaciphers/hexaciphers/internal/application/analysis"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"go.uber.org/zap"
)

const (
	// MinCampaignVolume is the fewest posts a hashtag needs to be considered
	MinCampaignVolume = 5
	// BotIndicatorThreshold is the number of bot indicators that flags a user
	BotIndicatorThreshold = 3
	// MinNetworkSize is the smallest user component reported as a network
	MinNetworkSize = 3

	maxCampaignUsers   = 10
	networkRiskCutoff  = 0.5
	highDensityCutoff  = 0.7
	coordinatedGap     = 60 * time.Second
	coordinatedShare   = 0.3
	rapidPostingWindow = 2.0
	rapidPostingVolume = 10
	repeatedPerUser    = 3.0
	concentratedShare  = 0.5
)

// Campaign indicators
const (
	IndicatorRapidPosting       = "rapid_posting"
	IndicatorRepeatedPosting    = "repeated_posting"
	IndicatorSuspiciousHashtag  = "suspicious_hashtag"
	IndicatorConcentratedTiming = "concentrated_timing"
	IndicatorHighDensityNetwork = "high_density_network"
	IndicatorCoordinatedTiming  = "coordinated_timing"
)

var suspiciousHashtagPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^#boycott.*india`),
	regexp.MustCompile(`^#anti.*india`),
	regexp.MustCompile(`^#fake.*india`),
	regexp.MustCompile(`^#destroy.*india`),
	regexp.MustCompile(`^#hate.*india`),
}

// Detector finds coordinated hashtag campaigns, user networks and bot accounts
// in a batch of posts
type Detector struct {
	logger *zap.Logger
}

// NewDetector creates a campaign detector
func NewDetector(logger *zap.Logger) *Detector {
	return &Detector{logger: logger}
}

// hashtagActivity aggregates every use of one hashtag
type hashtagActivity struct {
	hashtag    string
	posts      int
	users      []string
	userSet    map[string]struct{}
	timestamps []time.Time
}

// DetectCampaigns returns hashtag and network campaigns sorted by risk, highest first
func (d *Detector) DetectCampaigns(posts []domain.Post) []domain.Campaign {
	d.logger.Info("analyzing posts for campaign detection", zap.Int("posts", len(posts)))

	activity := hashtagActivities(posts)
	profiles := buildProfiles(posts)

	campaigns := make([]domain.Campaign, 0)
	for _, act := range activity {
		c, ok := d.hashtagCampaign(act, profiles)
		if ok {
			campaigns = append(campaigns, c)
		}
	}

	for i, n := range findNetworks(posts) {
		if n.risk <= networkRiskCutoff {
			continue
		}
		campaigns = append(campaigns, domain.Campaign{
			Hashtag:       fmt.Sprintf("network_%d", i),
			Volume:        n.posts,
			UniqueUsers:   len(n.users),
			TimeSpanHours: n.last.Sub(n.first).Hours(),
			RiskScore:     n.risk,
			RiskLevel:     domain.RiskLevelFor(n.risk),
			Indicators:    n.indicators,
			Users:         n.users,
			FirstDetected: n.first,
			LastDetected:  n.last,
			IsActive:      true,
		})
	}

	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].RiskScore > campaigns[j].RiskScore
	})

	d.logger.Info("campaign detection finished", zap.Int("campaigns", len(campaigns)))
	return campaigns
}

func hashtagActivities(posts []domain.Post) []*hashtagActivity {
	byTag := make(map[string]*hashtagActivity)
	order := make([]*hashtagActivity, 0)

	for _, p := range posts {
		for _, tag := range analysis.ExtractHashtags(p.Content) {
			act, ok := byTag[tag]
			if !ok {
				act = &hashtagActivity{hashtag: tag, userSet: make(map[string]struct{})}
				byTag[tag] = act
				order = append(order, act)
			}
			act.posts++
			act.timestamps = append(act.timestamps, p.CreatedAt)
			if _, seen := act.userSet[p.UserID]; !seen {
				act.userSet[p.UserID] = struct{}{}
				act.users = append(act.users, p.UserID)
			}
		}
	}
	return order
}

func (d *Detector) hashtagCampaign(act *hashtagActivity, profiles map[string]*userProfile) (domain.Campaign, bool) {
	if act.posts < MinCampaignVolume || len(act.timestamps) < 2 {
		return domain.Campaign{}, false
	}

	timestamps := append([]time.Time(nil), act.timestamps...)
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i].Before(timestamps[j]) })
	first, last := timestamps[0], timestamps[len(timestamps)-1]
	span := last.Sub(first).Hours()

	indicators := make([]string, 0)
	if span < rapidPostingWindow && act.posts > rapidPostingVolume {
		indicators = append(indicators, IndicatorRapidPosting)
	}
	if float64(act.posts)/float64(len(act.users)) > repeatedPerUser {
		indicators = append(indicators, IndicatorRepeatedPosting)
	}
	if isSuspiciousHashtag(act.hashtag) {
		indicators = append(indicators, IndicatorSuspiciousHashtag)
	}
	if float64(maxHourCount(timestamps)) > float64(act.posts)*concentratedShare {
		indicators = append(indicators, IndicatorConcentratedTiming)
	}

	risk := campaignRisk(act.posts, span, botRatio(act.users, profiles), len(indicators))

	users := act.users
	if len(users) > maxCampaignUsers {
		users = users[:maxCampaignUsers]
	}

	return domain.Campaign{
		Hashtag:       act.hashtag,
		Volume:        act.posts,
		UniqueUsers:   len(act.users),
		TimeSpanHours: span,
		RiskScore:     risk,
		RiskLevel:     domain.RiskLevelFor(risk),
		Indicators:    indicators,
		Users:         append([]string(nil), users...),
		FirstDetected: first,
		LastDetected:  last,
		IsActive:      true,
	}, true
}

func isSuspiciousHashtag(tag string) bool {
	for _, re := range suspiciousHashtagPatterns {
		if re.MatchString(tag) {
			return true
		}
	}
	return false
}

// maxHourCount is the largest number of timestamps sharing an hour of day
func maxHourCount(timestamps []time.Time) int {
	var hours [24]int
	best := 0
	for _, ts := range timestamps {
		h := ts.UTC().Hour()
		hours[h]++
		if hours[h] > best {
			best = hours[h]
		}
	}
	return best
}

func botRatio(users []string, profiles map[string]*userProfile) float64 {
	if len(users) == 0 {
		return 0
	}
	bots := 0
	for _, u := range users {
		if p, ok := profiles[u]; ok && len(p.indicators()) >= BotIndicatorThreshold {
			bots++
		}
	}
	return float64(bots) / float64(len(users))
}

// campaignRisk combines volume, time concentration, bot share and indicator
// count into a score in [0, 1]
func campaignRisk(volume int, spanHours, botShare float64, indicators int) float64 {
	score := math.Min(1, float64(volume)/100) * 0.3

	switch {
	case spanHours < 1:
		score += 0.3
	case spanHours < 6:
		score += 0.2
	}

	score += botShare * 0.3
	score += float64(indicators) * 0.1

	return math.Min(1, score)
}
