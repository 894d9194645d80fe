package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all configuration for the HexaCiphers API
type Config struct {
	// Server configuration
	HTTPPort int    `env:"HEXA_HTTP_PORT" envDefault:"5000"`
	GRPCPort int    `env:"HEXA_GRPC_PORT" envDefault:"9090"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage backend: postgres or memory
	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"postgres"`

	// PostgreSQL configuration
	Postgres PostgresConfig

	// Redis configuration
	Redis RedisConfig

	// Classifier configuration
	LLM LLMConfig

	// Path to a YAML keyword lexicon; built-in lists are used when empty
	KeywordsFile string `env:"KEYWORDS_FILE"`

	// Stats cache TTL
	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"30s"`

	// Worker configuration
	Workers WorkerConfig

	// Alert thresholds
	Alerts AlertConfig

	// Timeouts
	Timeouts TimeoutConfig
}

// PostgresConfig holds database connection configuration
type PostgresConfig struct {
	// DatabaseURL wins over the individual components when set
	DatabaseURL string `env:"DATABASE_URL"`
	Host        string `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	Database    string `env:"POSTGRES_DB" envDefault:"hexaciphers_db"`
	User        string `env:"POSTGRES_USER" envDefault:"username"`
	Password    string `env:"POSTGRES_PASSWORD" envDefault:"password"`
	SSLMode     string `env:"POSTGRES_SSLMODE" envDefault:"disable"`

	// Connection pool settings
	MaxConns          int32         `env:"POSTGRES_MAX_CONNS" envDefault:"10"`
	MaxConnIdleTime   time.Duration `env:"POSTGRES_MAX_CONN_IDLE_TIME" envDefault:"300s"`
	HealthCheckPeriod time.Duration `env:"POSTGRES_HEALTH_CHECK_PERIOD" envDefault:"30s"`
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	// Empty address disables Redis; in-memory cache and event bus are used instead
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASS"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`

	// Connection pool settings
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// LLMConfig holds classifier backend configuration
type LLMConfig struct {
	Provider       string        `env:"LLM_PROVIDER" envDefault:"keyword"`
	APIKey         string        `env:"LLM_API_KEY"`
	Model          string        `env:"LLM_MODEL" envDefault:"claude-3-5-haiku-latest"`
	MaxTokens      int64         `env:"LLM_MAX_TOKENS" envDefault:"16"`
	RequestTimeout time.Duration `env:"LLM_REQUEST_TIMEOUT" envDefault:"20s"`
}

// WorkerConfig holds worker pool configuration
type WorkerConfig struct {
	PoolSize            int           `env:"WORKER_POOL_SIZE" envDefault:"4"`
	QueueSize           int           `env:"WORKER_QUEUE_SIZE" envDefault:"256"`
	HealthCheckInterval time.Duration `env:"WORKER_HEALTH_CHECK_INTERVAL" envDefault:"30s"`
	ScanInterval        time.Duration `env:"SCAN_INTERVAL" envDefault:"300s"`
}

// AlertConfig holds alert engine thresholds
type AlertConfig struct {
	TrendingPostsPerHour   int `env:"ALERT_TRENDING_POSTS_PER_HOUR" envDefault:"50"`
	TrendingEngagement     int `env:"ALERT_TRENDING_ENGAGEMENT" envDefault:"1000"`
	TrendingUniqueUsers    int `env:"ALERT_TRENDING_UNIQUE_USERS" envDefault:"20"`
	CampaignParticipants   int `env:"ALERT_CAMPAIGN_PARTICIPANTS" envDefault:"10"`
	InfluenceFollowers     int `env:"ALERT_INFLUENCE_FOLLOWERS" envDefault:"10000"`
	InfluenceAntiIndiaPost int `env:"ALERT_INFLUENCE_ANTI_INDIA_POSTS" envDefault:"5"`
}

// TimeoutConfig holds various timeout configurations
type TimeoutConfig struct {
	RequestTimeout  time.Duration `env:"TIMEOUT_REQUEST" envDefault:"15s"`
	ShutdownTimeout time.Duration `env:"TIMEOUT_SHUTDOWN" envDefault:"30s"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPCPort)
	}
	if c.HTTPPort == c.GRPCPort {
		return fmt.Errorf("HTTP and gRPC ports must differ: %d", c.HTTPPort)
	}

	switch c.StorageBackend {
	case "postgres":
		if c.Postgres.DatabaseURL == "" && c.Postgres.Host == "" {
			return fmt.Errorf("postgres host or DATABASE_URL is required")
		}
		if c.Postgres.MaxConns < 1 {
			return fmt.Errorf("postgres max conns must be at least 1")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported storage backend: %s (must be postgres or memory)", c.StorageBackend)
	}

	switch c.LLM.Provider {
	case "keyword":
	case "anthropic":
		if c.LLM.APIKey == "" {
			return fmt.Errorf("LLM API key is required for provider %q", c.LLM.Provider)
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s (must be keyword or anthropic)", c.LLM.Provider)
	}

	if c.Workers.PoolSize < 1 {
		return fmt.Errorf("worker pool size must be at least 1")
	}
	if c.Workers.QueueSize < 1 {
		return fmt.Errorf("worker queue size must be at least 1")
	}
	if c.Workers.ScanInterval <= 0 {
		return fmt.Errorf("scan interval must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// GetGRPCAddr returns the gRPC server address
func (c *Config) GetGRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// DSN returns the PostgreSQL connection string
func (p *PostgresConfig) DSN() string {
	if p.DatabaseURL != "" {
		return p.DatabaseURL
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   fmt.Sprintf("%s:%d", p.Host, p.Port),
		Path:   "/" + p.Database,
	}
	if p.SSLMode != "" {
		u.RawQuery = "sslmode=" + url.QueryEscape(p.SSLMode)
	}
	return u.String()
}

// RedisEnabled reports whether a Redis address was configured
func (r *RedisConfig) RedisEnabled() bool {
	return r.Addr != ""
}
