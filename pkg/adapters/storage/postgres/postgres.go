package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hexaciphers/hexaciphers/internal/config"
	"github.com/hexaciphers/hexaciphers/pkg/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Store implements ports.Store on PostgreSQL through a pgx connection pool
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewStore connects to PostgreSQL and verifies the connection
func NewStore(ctx context.Context, cfg *config.PostgresConfig, logger *zap.Logger) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres dsn: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	logger.Info("connected to postgres",
		zap.String("host", poolCfg.ConnConfig.Host),
		zap.String("database", poolCfg.ConnConfig.Database),
		zap.Int32("max_conns", poolCfg.MaxConns))

	return &Store{pool: pool, logger: logger}, nil
}

// CreatePost inserts a post linked to its stored author, if any. The database
// assigns ID and, when unset, CreatedAt.
func (s *Store) CreatePost(ctx context.Context, post *domain.Post) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO posts (platform, user_id, user_record_id, username, content, language, translated_text,
			sentiment, classification, url, likes, shares, comments, created_at)
		VALUES ($1, $2, (SELECT id FROM users WHERE user_id = $2), $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, COALESCE($13, NOW()))
		RETURNING id, created_at`,
		string(post.Platform), post.UserID, post.Username, post.Content, post.Language, post.TranslatedText,
		string(post.Sentiment), string(post.Classification), post.URL,
		post.Likes, post.Shares, post.Comments, nullTime(post.CreatedAt),
	).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

// GetPost retrieves a post by ID
func (s *Store) GetPost(ctx context.Context, id int64) (*domain.Post, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+postColumns+" FROM posts WHERE id = $1", id)
	post, err := scanPost(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("post %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", id, err)
	}
	return post, nil
}

// UpdatePostAnalysis writes the analysis labels of an existing post
func (s *Store) UpdatePostAnalysis(ctx context.Context, post *domain.Post) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE posts SET sentiment = $2, classification = $3, language = $4, translated_text = $5
		WHERE id = $1`,
		post.ID, string(post.Sentiment), string(post.Classification), post.Language, post.TranslatedText)
	if err != nil {
		return fmt.Errorf("failed to update post %d: %w", post.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("post %d: %w", post.ID, domain.ErrNotFound)
	}
	return nil
}

// ListPosts returns matching posts, newest first
func (s *Store) ListPosts(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	query, args := postQuery(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

// UpsertUser inserts a user or refreshes username and followers by UserID
func (s *Store) UpsertUser(ctx context.Context, user *domain.User) error {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO users (user_id, username, followers, is_bot, created_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, NOW()))
		ON CONFLICT (user_id) DO UPDATE
			SET username = EXCLUDED.username,
				followers = EXCLUDED.followers,
				is_bot = users.is_bot OR EXCLUDED.is_bot
		RETURNING id, is_bot, created_at`,
		user.UserID, user.Username, user.Followers, user.IsBot, nullTime(user.CreatedAt),
	).Scan(&user.ID, &user.IsBot, &user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.UserID, err)
	}
	return nil
}

// ListUsers returns users in insertion order
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, user_id, username, followers, is_bot, created_at FROM users ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.UserID, &u.Username, &u.Followers, &u.IsBot, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// SyncCampaigns upserts campaigns by hashtag in one transaction and
// deactivates active campaigns missing from the set. first_detected keeps
// its stored value.
func (s *Store) SyncCampaigns(ctx context.Context, campaigns []domain.Campaign) error {
	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		hashtags := make([]string, 0, len(campaigns))
		for i := range campaigns {
			c := &campaigns[i]
			var first *time.Time
			err := tx.QueryRow(ctx, `
				INSERT INTO campaigns (hashtag, volume, unique_users, time_span_hours, risk_score, risk_level,
					indicators, user_network, first_detected, last_detected, is_active)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
				ON CONFLICT (hashtag) DO UPDATE
					SET volume = EXCLUDED.volume,
						unique_users = EXCLUDED.unique_users,
						time_span_hours = EXCLUDED.time_span_hours,
						risk_score = EXCLUDED.risk_score,
						risk_level = EXCLUDED.risk_level,
						indicators = EXCLUDED.indicators,
						user_network = EXCLUDED.user_network,
						first_detected = COALESCE(campaigns.first_detected, EXCLUDED.first_detected),
						last_detected = EXCLUDED.last_detected,
						is_active = EXCLUDED.is_active
				RETURNING id, first_detected`,
				c.Hashtag, c.Volume, c.UniqueUsers, c.TimeSpanHours, c.RiskScore, string(c.RiskLevel),
				nonNil(c.Indicators), nonNil(c.Users), nullTime(c.FirstDetected), nullTime(c.LastDetected), c.IsActive,
			).Scan(&c.ID, &first)
			if err != nil {
				return fmt.Errorf("failed to upsert campaign %s: %w", c.Hashtag, err)
			}
			if first != nil {
				c.FirstDetected = *first
			}
			hashtags = append(hashtags, c.Hashtag)
		}

		tag, err := tx.Exec(ctx,
			"UPDATE campaigns SET is_active = FALSE WHERE is_active AND NOT (hashtag = ANY($1))", hashtags)
		if err != nil {
			return fmt.Errorf("failed to deactivate campaigns: %w", err)
		}
		if n := tag.RowsAffected(); n > 0 {
			s.logger.Info("campaigns deactivated", zap.Int64("count", n))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save campaigns: %w", err)
	}
	return nil
}

// ListActiveCampaigns returns active campaigns by risk score, highest first
func (s *Store) ListActiveCampaigns(ctx context.Context) ([]domain.Campaign, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+campaignColumns+" FROM campaigns WHERE is_active ORDER BY risk_score DESC, id")
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	defer rows.Close()

	campaigns := make([]domain.Campaign, 0)
	for rows.Next() {
		var (
			c           domain.Campaign
			level       string
			first, last *time.Time
		)
		if err := rows.Scan(&c.ID, &c.Hashtag, &c.Volume, &c.UniqueUsers, &c.TimeSpanHours, &c.RiskScore, &level,
			&c.Indicators, &c.Users, &first, &last, &c.IsActive); err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		c.RiskLevel = domain.RiskLevel(level)
		if first != nil {
			c.FirstDetected = *first
		}
		if last != nil {
			c.LastDetected = *last
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}
	return campaigns, nil
}

// SaveAlert inserts an alert
func (s *Store) SaveAlert(ctx context.Context, alert *domain.Alert) error {
	metadata := alert.Metadata
	if metadata == nil {
		metadata = map[string]interface{}{}
	}

	err := s.pool.QueryRow(ctx, `
		INSERT INTO alerts (id, type, title, description, severity, status, subject, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()))
		RETURNING created_at`,
		alert.ID, string(alert.Type), alert.Title, alert.Description,
		string(alert.Severity), string(alert.Status), alert.Subject, metadata, nullTime(alert.CreatedAt),
	).Scan(&alert.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert alert %s: %w", alert.ID, err)
	}
	return nil
}

// HasActiveAlert reports whether an active alert of the type exists for subject
func (s *Store) HasActiveAlert(ctx context.Context, alertType domain.AlertType, subject string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM alerts WHERE type = $1 AND subject = $2 AND status = 'active')`,
		string(alertType), subject,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to look up active %s alert: %w", alertType, err)
	}
	return exists, nil
}

// ListAlerts returns matching alerts, newest first
func (s *Store) ListAlerts(ctx context.Context, filter domain.AlertFilter) ([]domain.Alert, error) {
	query, args := alertQuery(filter)
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	list := make([]domain.Alert, 0)
	for rows.Next() {
		var (
			a                           domain.Alert
			alertType, severity, status string
		)
		if err := rows.Scan(&a.ID, &alertType, &a.Title, &a.Description, &severity, &status,
			&a.Subject, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}
		a.Type = domain.AlertType(alertType)
		a.Severity = domain.Severity(severity)
		a.Status = domain.AlertStatus(status)
		list = append(list, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return list, nil
}

// Stats runs the dashboard counters concurrently
func (s *Store) Stats(ctx context.Context) (*domain.Stats, error) {
	stats := &domain.Stats{}
	g, ctx := errgroup.WithContext(ctx)

	count := func(query string, dest *int) func() error {
		return func() error {
			return s.pool.QueryRow(ctx, query).Scan(dest)
		}
	}
	g.Go(count("SELECT COUNT(*) FROM posts", &stats.TotalPosts))
	g.Go(count("SELECT COUNT(*) FROM users", &stats.TotalUsers))
	g.Go(count("SELECT COUNT(*) FROM campaigns WHERE is_active", &stats.TotalCampaigns))

	g.Go(func() error {
		return s.pool.QueryRow(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE sentiment = 'positive'),
				COUNT(*) FILTER (WHERE sentiment = 'negative'),
				COUNT(*) FILTER (WHERE sentiment = 'neutral')
			FROM posts`,
		).Scan(&stats.SentimentDistribution.Positive,
			&stats.SentimentDistribution.Negative,
			&stats.SentimentDistribution.Neutral)
	})
	g.Go(func() error {
		return s.pool.QueryRow(ctx, `
			SELECT
				COUNT(*) FILTER (WHERE classification = 'Pro-India'),
				COUNT(*) FILTER (WHERE classification = 'Anti-India'),
				COUNT(*) FILTER (WHERE classification = 'Neutral')
			FROM posts`,
		).Scan(&stats.ClassificationDistribution.ProIndia,
			&stats.ClassificationDistribution.AntiIndia,
			&stats.ClassificationDistribution.Neutral)
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}
	stats.SentimentPercentages = stats.SentimentDistribution.Percentages()
	return stats, nil
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close closes the connection pool
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var (
		p                                   domain.Post
		platform, sentiment, classification string
	)
	err := row.Scan(&p.ID, &platform, &p.UserID, &p.Username, &p.Content, &p.Language, &p.TranslatedText,
		&sentiment, &classification, &p.URL, &p.Likes, &p.Shares, &p.Comments, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	p.Platform = domain.Platform(platform)
	p.Sentiment = domain.Sentiment(sentiment)
	p.Classification = domain.Classification(classification)
	return &p, nil
}

// nullTime maps the zero time to SQL NULL
func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
