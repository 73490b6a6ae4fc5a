// cmd/task-query/app.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"task-query-workers/internal/common/cache"
	"task-query-workers/internal/common/config"
	"task-query-workers/internal/common/database"
	apperrors "task-query-workers/internal/common/errors"
	"task-query-workers/internal/common/logger"
	"task-query-workers/internal/common/observability"
	"task-query-workers/internal/directory"
	"task-query-workers/internal/nlq"
	"task-query-workers/internal/processor"
)

// app holds the wired pipeline and the connections behind it.
type app struct {
	cfg    *config.Config
	zapLog *zap.Logger
	log    logger.Logger
	obs    *observability.Observability

	pg    *database.PostgresClient
	es    *database.ElasticsearchClient
	redis *database.RedisClient

	entities  *nlq.EntityCache
	processor *processor.Processor
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func newApp(ctx context.Context, cfg *config.Config, zapLog *zap.Logger) (*app, error) {
	a := &app{
		cfg:    cfg,
		zapLog: zapLog,
		log:    logger.NewZapAdapter(zapLog),
	}
	a.obs = observability.New(cfg.App.Name, a.log)

	var db *sql.DB
	var es *elasticsearch.Client

	switch cfg.Directory.Backend {
	case config.BackendPostgres:
		err := retryWithBackoff(func() error {
			pg, err := database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			if err := pg.Ping(ctx); err != nil {
				_ = pg.Close()
				return err
			}
			a.pg = pg
			return nil
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			return nil, apperrors.NewDirectoryUnavailableError(cfg.Directory.Backend, err)
		}
		db = a.pg.DB
		zapLog.Info("PostgreSQL connected successfully")

	case config.BackendElasticsearch:
		err := retryWithBackoff(func() error {
			client, err := database.NewElasticsearch(cfg.Database.Elasticsearch, nil)
			if err != nil {
				return err
			}
			if err := client.Ping(ctx); err != nil {
				return err
			}
			a.es = client
			return nil
		}, 10, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			return nil, apperrors.NewDirectoryUnavailableError(cfg.Directory.Backend, err)
		}
		es = a.es.Client
		zapLog.Info("Elasticsearch connected successfully")
	}

	dir, err := directory.New(cfg, db, es)
	if err != nil {
		a.Close()
		return nil, err
	}

	// Redis only backs the entity cache; run uncached when it is down.
	var store cache.Store
	redisClient := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error { return redisClient.Ping(ctx) }, 3, time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Warn("Redis unavailable, entity cache disabled", zap.Error(err))
		_ = redisClient.Close()
	} else {
		a.redis = redisClient
		store = cache.NewRedisStore(redisClient)
		zapLog.Info("Redis connected successfully")
	}

	q := cfg.Query
	a.entities = nlq.NewEntityCache(dir, store, q.EntityCacheTTLDuration(), a.log)
	matcher := nlq.NewFuzzyMatcher(q.FuzzyThreshold, q.SuggestionThreshold)
	parser := nlq.NewParser(nlq.NewDiscovery(a.entities, matcher, a.log), a.log, a.obs)
	a.processor = processor.New(parser, dir, a.entities, processor.OptionsFromConfig(q), a.log, a.obs)

	return a, nil
}

// ready reports whether the directory backend answers.
func (a *app) ready(ctx context.Context) error {
	if a.pg != nil {
		if err := a.pg.Ping(ctx); err != nil {
			return err
		}
	}
	if a.es != nil {
		if err := a.es.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) Close() {
	a.obs.Shutdown(context.Background())
	if a.pg != nil {
		_ = a.pg.Close()
	}
	if a.redis != nil {
		_ = a.redis.Close()
	}
}
