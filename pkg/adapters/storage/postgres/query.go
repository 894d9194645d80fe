package postgres

import (
	"fmt"
	"strings"

	"github.com/hexaciphers/hexaciphers/pkg/domain"
)

const (
	postColumns = `id, platform, user_id, username, content, language, translated_text,
		sentiment, classification, url, likes, shares, comments, created_at`
	alertColumns    = `id, type, title, description, severity, status, subject, metadata, created_at`
	campaignColumns = `id, hashtag, volume, unique_users, time_span_hours, risk_score, risk_level,
		indicators, user_network, first_detected, last_detected, is_active`
)

// whereBuilder accumulates AND-ed conditions with numbered placeholders
type whereBuilder struct {
	conds []string
	args  []interface{}
}

func (w *whereBuilder) eq(column string, value string) {
	if value == "" {
		return
	}
	w.args = append(w.args, value)
	w.conds = append(w.conds, fmt.Sprintf("%s = $%d", column, len(w.args)))
}

func (w *whereBuilder) build(base, order string, limit int) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(base)
	if len(w.conds) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(w.conds, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(order)
	if limit > 0 {
		w.args = append(w.args, limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(w.args))
	}
	return sb.String(), w.args
}

// postQuery builds the listing query for f
func postQuery(f domain.PostFilter) (string, []interface{}) {
	var w whereBuilder
	w.eq("platform", string(f.Platform))
	w.eq("sentiment", string(f.Sentiment))
	w.eq("classification", string(f.Classification))
	return w.build("SELECT "+postColumns+" FROM posts", "created_at DESC, id DESC", f.Limit)
}

// alertQuery builds the listing query for f
func alertQuery(f domain.AlertFilter) (string, []interface{}) {
	var w whereBuilder
	w.eq("status", string(f.Status))
	w.eq("severity", string(f.Severity))
	return w.build("SELECT "+alertColumns+" FROM alerts", "created_at DESC", f.Limit)
}
