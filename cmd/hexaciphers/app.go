package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hexaciphers/hexaciphers/internal/application/alerts"
	"github.com/hexaciphers/hexaciphers/internal/application/analysis"
	"github.com/hexaciphers/hexaciphers/internal/application/collector"
	"github.com/hexaciphers/hexaciphers/internal/application/dashboard"
	"github.com/hexaciphers/hexaciphers/internal/application/detection"
	"github.com/hexaciphers/hexaciphers/internal/config"
	cachememory "github.com/hexaciphers/hexaciphers/pkg/adapters/cache/memory"
	cacheredis "github.com/hexaciphers/hexaciphers/pkg/adapters/cache/redis"
	eventsmemory "github.com/hexaciphers/hexaciphers/pkg/adapters/events/memory"
	eventsredis "github.com/hexaciphers/hexaciphers/pkg/adapters/events/redis"
	"github.com/hexaciphers/hexaciphers/pkg/adapters/llm"
	storagememory "github.com/hexaciphers/hexaciphers/pkg/adapters/storage/memory"
	"github.com/hexaciphers/hexaciphers/pkg/adapters/storage/postgres"
	"github.com/hexaciphers/hexaciphers/pkg/ports"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const workerConsumerGroup = "hexaciphers-workers"

// app holds the adapters and application components shared by all commands
type app struct {
	cfg    *config.Config
	logger *zap.Logger

	store    ports.Store
	postgres *postgres.Store
	redis    *goredis.Client
	cache    ports.Cache
	eventBus ports.EventBus
	// alertBus feeds the WebSocket stream. With Redis it is a separate
	// consumer group so every process sees every alert.
	alertBus ports.EventBus

	metrics    ports.MetricsCollector
	lexicon    *analysis.Lexicon
	processor  *analysis.TextProcessor
	classifier ports.Classifier
	manager    *dashboard.Manager
}

// newApp connects the configured backends and builds the dashboard manager
func newApp(ctx context.Context, cfg *config.Config, metrics ports.MetricsCollector, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger, metrics: metrics}

	if err := a.initStore(ctx); err != nil {
		return nil, err
	}
	if err := a.initRedis(ctx); err != nil {
		a.close()
		return nil, err
	}
	if err := a.initAnalysis(); err != nil {
		a.close()
		return nil, err
	}

	detector := detection.NewDetector(logger)
	alertEngine := alerts.NewEngine(a.store, a.eventBus, metrics, cfg.Alerts, logger)

	a.manager = dashboard.NewManager(dashboard.Dependencies{
		Store:      a.store,
		Cache:      a.cache,
		EventBus:   a.eventBus,
		Metrics:    metrics,
		Classifier: a.classifier,
		Processor:  a.processor,
		Detector:   detector,
		Alerts:     alertEngine,
		Collector:  collector.NewSimulatedCollector(logger),
	}, dashboard.NewValidator(), cfg.StatsCacheTTL, logger)

	return a, nil
}

func (a *app) initStore(ctx context.Context) error {
	switch a.cfg.StorageBackend {
	case "memory":
		a.store = storagememory.NewInMemoryStore()
		a.logger.Warn("using in-memory storage; data is lost on restart")
		return nil
	default:
		store, err := postgres.NewStore(ctx, &a.cfg.Postgres, a.logger)
		if err != nil {
			return err
		}
		a.postgres = store
		a.store = store
		return nil
	}
}

func (a *app) initRedis(ctx context.Context) error {
	if !a.cfg.Redis.RedisEnabled() {
		bus := eventsmemory.NewInMemoryEventBus(a.logger)
		a.cache = cachememory.NewInMemoryCache()
		a.eventBus = bus
		a.alertBus = bus
		a.logger.Info("REDIS_ADDR not set, using in-memory cache and event bus")
		return nil
	}

	a.redis = goredis.NewClient(&goredis.Options{
		Addr:         a.cfg.Redis.Addr,
		Password:     a.cfg.Redis.Password,
		DB:           a.cfg.Redis.DB,
		PoolSize:     a.cfg.Redis.PoolSize,
		MinIdleConns: a.cfg.Redis.MinIdleConns,
		MaxRetries:   a.cfg.Redis.MaxRetries,
		DialTimeout:  a.cfg.Redis.DialTimeout,
		ReadTimeout:  a.cfg.Redis.ReadTimeout,
		WriteTimeout: a.cfg.Redis.WriteTimeout,
	})

	if err := a.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.logger.Info("connected to Redis", zap.String("addr", a.cfg.Redis.Addr))

	host, _ := os.Hostname()
	consumer := fmt.Sprintf("hexaciphers-%s-%d", host, os.Getpid())

	a.cache = cacheredis.NewCache(a.redis, a.logger)
	a.eventBus = eventsredis.NewStreamsEventBus(a.redis, workerConsumerGroup, consumer, a.logger)
	a.alertBus = eventsredis.NewStreamsEventBus(a.redis, "hexaciphers-ws-"+consumer, consumer, a.logger)
	return nil
}

func (a *app) initAnalysis() error {
	a.lexicon = analysis.DefaultLexicon()
	if a.cfg.KeywordsFile != "" {
		lex, err := analysis.LoadLexicon(a.cfg.KeywordsFile)
		if err != nil {
			return err
		}
		a.lexicon = lex
		a.logger.Info("keyword lexicon loaded", zap.String("path", a.cfg.KeywordsFile))
	}

	a.processor = analysis.NewTextProcessor(a.lexicon)

	classifier, err := llm.NewClassifier(&llm.Config{
		Provider:  a.cfg.LLM.Provider,
		APIKey:    a.cfg.LLM.APIKey,
		Model:     a.cfg.LLM.Model,
		MaxTokens: a.cfg.LLM.MaxTokens,
		Timeout:   a.cfg.LLM.RequestTimeout,
		Logger:    a.logger,
	}, analysis.NewKeywordClassifier(a.lexicon), a.metrics)
	if err != nil {
		return fmt.Errorf("failed to create classifier: %w", err)
	}
	a.classifier = classifier
	a.logger.Info("classifier ready", zap.String("classifier", classifier.Name()))
	return nil
}

// migrate applies the schema when PostgreSQL is the backend
func (a *app) migrate(ctx context.Context) error {
	if a.postgres == nil {
		a.logger.Info("storage backend has no schema to apply", zap.String("backend", a.cfg.StorageBackend))
		return nil
	}
	return a.postgres.Migrate(ctx)
}

// close releases every backend; it is safe on a partially built app
func (a *app) close() {
	if a.alertBus != nil && a.alertBus != a.eventBus {
		if err := a.alertBus.Close(); err != nil {
			a.logger.Error("alert bus close error", zap.Error(err))
		}
	}
	if a.eventBus != nil {
		if err := a.eventBus.Close(); err != nil {
			a.logger.Error("event bus close error", zap.Error(err))
		}
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Redis close error", zap.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("store close error", zap.Error(err))
		}
	}
}
