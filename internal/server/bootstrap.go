package server

import (
	"context"
	"fmt"
	"time"

	"github.com/anonforum/forum/internal/comment/repository"
	"github.com/anonforum/forum/internal/config"
	"github.com/anonforum/forum/internal/database"
	"github.com/anonforum/forum/pkg/logger"
	"github.com/anonforum/forum/pkg/ratelimit"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const maxConnectAttempts = 5

// retry calls fn with exponential backoff to tolerate startup races with
// the database container.
func retry(ctx context.Context, what string, fn func() error) error {
	backoff := time.Second
	var err error
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		logger.Warnf("attempt %d/%d: failed to connect to %s: %v", attempt, maxConnectAttempts, what, err)
		if attempt == maxConnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return fmt.Errorf("could not connect to %s after %d attempts: %w", what, maxConnectAttempts, err)
}

// OpenStore opens the comment store selected by DB_DRIVER. SQL schemas are
// migrated on open.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Store, error) {
	switch cfg.Database.Driver {
	case "memory":
		logger.Warn("using in-memory comment store; comments are lost on restart")
		return repository.NewMemoryRepo(), nil

	case "mongo":
		var client *mongo.Client
		err := retry(ctx, "MongoDB", func() (err error) {
			client, err = database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
			return err
		})
		if err != nil {
			return nil, err
		}
		repo, err := repository.NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &mongoStore{MongoRepo: repo, client: client}, nil

	default:
		driver := database.DriverSQLite
		if cfg.Database.Driver == "postgres" {
			driver = database.DriverPostgres
		}
		db, err := openSQL(ctx, driver, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		return repository.NewSQLRepo(db), nil
	}
}

// mongoStore ties the client lifetime to the store.
type mongoStore struct {
	*repository.MongoRepo
	client *mongo.Client
}

func (m *mongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}

// NewLimiter returns the rate limiter for cfg, or nil when rate limiting is
// disabled. The redis client is returned so callers can probe and close it.
func NewLimiter(ctx context.Context, cfg *config.Config) (*ratelimit.Limiter, *redis.Client, error) {
	if !cfg.RateLimit.Enabled {
		logger.Warn("rate limiting disabled")
		return nil, nil, nil
	}
	if !cfg.RateLimit.UseRedis {
		return ratelimit.NewLimiter(ratelimit.NewMemoryStore()), nil, nil
	}

	var client *redis.Client
	err := retry(ctx, "Redis", func() (err error) {
		client, err = database.ConnectRedis(ctx, cfg.Redis.Addr(), cfg.Redis.Password, 5*time.Second)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Infof("rate limit counters shared through redis at %s", cfg.Redis.Addr())
	return ratelimit.NewLimiter(ratelimit.NewRedisStore(client)), client, nil
}

func openSQL(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	var db *sqlx.DB
	err := retry(ctx, driver, func() (err error) {
		db, err = database.OpenSQL(ctx, driver, dsn)
		return err
	})
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
