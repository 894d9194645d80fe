package postgres

import (
	"strings"
	"testing"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPostQuery(t *testing.T) {
	tests := []struct {
		name      string
		filter    domain.PostFilter
		wantWhere string
		wantArgs  []interface{}
	}{
		{
			name:     "no filter",
			filter:   domain.PostFilter{},
			wantArgs: nil,
		},
		{
			name:      "platform and limit",
			filter:    domain.PostFilter{Platform: domain.PlatformReddit, Limit: 50},
			wantWhere: " WHERE platform = $1 ORDER BY created_at DESC, id DESC LIMIT $2",
			wantArgs:  []interface{}{"Reddit", 50},
		},
		{
			name: "all filters",
			filter: domain.PostFilter{
				Platform:       domain.PlatformTwitter,
				Sentiment:      domain.SentimentNegative,
				Classification: domain.ClassificationAntiIndia,
				Limit:          10,
			},
			wantWhere: " WHERE platform = $1 AND sentiment = $2 AND classification = $3 ORDER BY created_at DESC, id DESC LIMIT $4",
			wantArgs:  []interface{}{"Twitter", "negative", "Anti-India", 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := postQuery(tt.filter)
			assert.True(t, strings.HasPrefix(query, "SELECT "+postColumns+" FROM posts"))
			if tt.wantWhere != "" {
				assert.True(t, strings.HasSuffix(query, tt.wantWhere), query)
			} else {
				assert.NotContains(t, query, "WHERE")
				assert.NotContains(t, query, "LIMIT")
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestAlertQuery(t *testing.T) {
	query, args := alertQuery(domain.AlertFilter{Severity: domain.SeverityHigh, Limit: 5})
	assert.True(t, strings.HasSuffix(query, " WHERE severity = $1 ORDER BY created_at DESC LIMIT $2"), query)
	assert.Equal(t, []interface{}{"high", 5}, args)

	query, args = alertQuery(domain.AlertFilter{Status: domain.AlertStatusActive})
	assert.True(t, strings.HasSuffix(query, " WHERE status = $1 ORDER BY created_at DESC"), query)
	assert.Equal(t, []interface{}{"active"}, args)
}

func TestSchemaIsIdempotent(t *testing.T) {
	for _, stmt := range schema {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
}

func TestSchemaConstraints(t *testing.T) {
	all := strings.Join(schema, "\n")
	assert.Contains(t, all, "user_record_id  BIGINT REFERENCES users(id)")
	assert.Contains(t, all, "ADD COLUMN IF NOT EXISTS user_record_id BIGINT REFERENCES users(id)")
	assert.Contains(t, all, "CREATE UNIQUE INDEX IF NOT EXISTS campaigns_hashtag_key ON campaigns (hashtag)")
	assert.Contains(t, all, "ADD COLUMN IF NOT EXISTS subject")

	users := strings.Index(all, "CREATE TABLE IF NOT EXISTS users")
	posts := strings.Index(all, "CREATE TABLE IF NOT EXISTS posts")
	assert.Less(t, users, posts, "users must exist before posts reference it")
}

func TestNullTime(t *testing.T) {
	var zero domain.Post
	assert.Nil(t, nullTime(zero.CreatedAt))
	assert.Equal(t, []string{}, nonNil(nil))
}
