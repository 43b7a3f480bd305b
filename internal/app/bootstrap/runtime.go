// Package bootstrap wires the console's external runtimes from config:
// the Redis draft store, the Postgres audit pool, and the HIS client.
// Optional pieces degrade to nil so the API can start without them.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/careops/hospital-console/internal/config"
	"github.com/careops/hospital-console/internal/his"
	"github.com/careops/hospital-console/pkg/logging"
)

// BuildRedisClient returns a configured Redis client or nil when disabled.
// When verify is true, a ping is issued and failures return nil.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	redisOptions := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		redisOptions.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(redisOptions)
	if !verify {
		return client
	}
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available", "error", err)
		return nil
	}
	return client
}

// BuildAuditPool returns the Postgres pool backing the booking event trail,
// or nil when no database is configured. Auditing is optional; the booking
// workflow runs without it.
func BuildAuditPool(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *pgxpool.Pool {
	if cfg == nil || strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Warn("audit database unavailable", "error", err)
		return nil
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Warn("audit database not reachable", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// BuildHISClient returns the hospital system client. The HIS is the backend
// of record; without it the console cannot run.
func BuildHISClient(cfg *appconfig.Config, logger *logging.Logger) (*his.Client, error) {
	return his.New(his.Config{
		BaseURL: cfg.HISBaseURL,
		APIKey:  cfg.HISAPIKey,
		Timeout: cfg.HISTimeout,
	}, logger)
}
