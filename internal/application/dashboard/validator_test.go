package dashboard

import (
	"testing"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimit(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "", want: DefaultListLimit},
		{raw: "10", want: 10},
		{raw: " 25 ", want: 25},
		{raw: "5000", want: MaxListLimit},
		{raw: "0", wantErr: true},
		{raw: "-1", wantErr: true},
		{raw: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := v.Limit(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPostFilter(t *testing.T) {
	v := NewValidator()

	f, err := v.PostFilter(PostQuery{Platform: "Twitter", Sentiment: "NEGATIVE", Classification: "Anti-India"})
	require.NoError(t, err)
	assert.Equal(t, domain.PostFilter{
		Platform:       domain.PlatformTwitter,
		Sentiment:      domain.SentimentNegative,
		Classification: domain.ClassificationAntiIndia,
		Limit:          DefaultListLimit,
	}, f)

	_, err = v.PostFilter(PostQuery{Classification: "anti"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAlertFilter(t *testing.T) {
	v := NewValidator()

	f, err := v.AlertFilter(AlertQuery{Status: "Resolved", Severity: "critical", Limit: "3"})
	require.NoError(t, err)
	assert.Equal(t, domain.AlertFilter{Status: domain.AlertStatusResolved, Severity: domain.SeverityCritical, Limit: 3}, f)

	_, err = v.AlertFilter(AlertQuery{Status: "open"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInfluenceFilter(t *testing.T) {
	v := NewValidator()

	f, err := v.InfluenceFilter(InfluenceQuery{})
	require.NoError(t, err)
	assert.Equal(t, domain.InfluenceFilter{Limit: DefaultInfluenceLimit}, f)

	f, err = v.InfluenceFilter(InfluenceQuery{RiskLevel: "HIGH", Limit: "5000"})
	require.NoError(t, err)
	assert.Equal(t, domain.InfluenceFilter{RiskLevel: domain.RiskHigh, Limit: MaxListLimit}, f)

	_, err = v.InfluenceFilter(InfluenceQuery{RiskLevel: "extreme"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = v.InfluenceFilter(InfluenceQuery{Limit: "0"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCollectDefaults(t *testing.T) {
	v := NewValidator()

	assert.Equal(t, []string{"#India"}, v.Keywords(nil))
	assert.Equal(t, []string{"#India"}, v.Keywords([]string{" ", ""}))
	assert.Equal(t, []string{"#ISRO"}, v.Keywords([]string{" #ISRO "}))
	assert.Equal(t, "india", v.Subreddit(""))
	assert.Equal(t, "worldnews", v.Subreddit("worldnews"))
	assert.Equal(t, "India", v.Query("  "))

	n, err := v.CollectLimit(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultCollectLimit, n)

	five := 5
	n, err = v.CollectLimit(&five)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	zero := 0
	_, err = v.CollectLimit(&zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTextAndURL(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Text("hello"))
	assert.ErrorIs(t, v.Text(" \n"), domain.ErrInvalidInput)
	assert.NoError(t, v.URL("https://x.com/a"))
	assert.ErrorIs(t, v.URL(""), domain.ErrInvalidInput)
}
