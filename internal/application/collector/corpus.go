package collector

import "github.com/hexaciphers/hexaciphers/pkg/domain"

// SampleUser is an account the simulated collectors attribute posts to
type SampleUser struct {
	UserID    string
	Username  string
	Followers int
}

var sampleUsers = []SampleUser{
	{UserID: "user1", Username: "tech_enthusiast", Followers: 1500},
	{UserID: "user2", Username: "india_defender", Followers: 2300},
	{UserID: "user3", Username: "bot_account_123", Followers: 50},
	{UserID: "user4", Username: "news_reporter", Followers: 5000},
	{UserID: "user5", Username: "social_activist", Followers: 800},
}

var sampleTweets = []string{
	"India is making great progress in technology and innovation! #DigitalIndia #TechIndia",
	"Beautiful landscapes in Kashmir today #Kashmir #India #Nature",
	"Propaganda against India must be stopped #FakeNews #AntiIndia",
	"India's democracy is under threat from misinformation campaigns",
	"Boycott Indian products spreading fake news #BoycottIndia",
	"Indian culture and diversity should be celebrated worldwide",
	"Anti-India sentiment rising on social media platforms",
	"India's economic growth is impressive this quarter #IndianEconomy",
	"Coordinated attack on India's image using bots and fake accounts",
	"India's space program achievements are remarkable #ISRO #SpaceIndia",
}

var sampleRedditPosts = []string{
	"Discussion about India's foreign policy and international relations",
	"Indian startup ecosystem is booming with new innovations",
	"Misinformation campaigns targeting India on social media",
	"India's contribution to global peace and stability",
	"Analysis of anti-India propaganda on digital platforms",
	"India's cultural soft power and international influence",
	"Examining coordinated attacks on India's reputation online",
	"India's technological advancements in AI and machine learning",
	"Foreign interference in India's internal affairs through social media",
	"India's democratic values and their global significance",
}

var sampleVideoTitles = []string{
	"India's Amazing Cultural Heritage",
	"Technology Innovation in India",
	"Propaganda Analysis: Anti-India Campaigns",
	"Indian Democracy and Its Challenges",
	"Economic Growth in Modern India",
	"Social Media Manipulation Tactics",
	"India's Role in Global Politics",
	"Combating Misinformation Online",
	"Indian Values and Global Influence",
	"Digital India Success Stories",
}

// TweetSample is the content fetched for a tweet URL
type TweetSample struct {
	Content    string
	Hashtags   []string
	Engagement domain.Engagement
}

var sampleTweetPages = []TweetSample{
	{
		Content:    "India is becoming a global superpower! Amazing progress in technology and space exploration. #ProudIndian #Technology #ISRO",
		Hashtags:   []string{"#ProudIndian", "#Technology", "#ISRO"},
		Engagement: domain.Engagement{Likes: 245, Shares: 12, Comments: 8},
	},
	{
		Content:    "Another propaganda piece about India. The reality is very different from what they show. Wake up people! #Truth #Reality",
		Hashtags:   []string{"#Truth", "#Reality"},
		Engagement: domain.Engagement{Likes: 89, Shares: 23, Comments: 45},
	},
	{
		Content:    "Today I visited the beautiful Red Fort in Delhi. The architecture is absolutely stunning! #Travel #India #Heritage",
		Hashtags:   []string{"#Travel", "#India", "#Heritage"},
		Engagement: domain.Engagement{Likes: 156, Shares: 7, Comments: 12},
	},
}

// SampleUsers returns the simulated account roster
func SampleUsers() []SampleUser {
	out := make([]SampleUser, len(sampleUsers))
	copy(out, sampleUsers)
	return out
}
