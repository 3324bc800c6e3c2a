// Package database owns the query-time connection pool: building a
// pgxpool from a validated configuration and translating driver errors
// into the connector's unified error type.
//
// Elaboration deliberately does not use this package; it opens its own
// short-lived administrative connection.
package database

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soorajshankar/ndc-postgres/internal/configuration"
	"github.com/soorajshankar/ndc-postgres/internal/errs"
)

// NewPool builds a connection pool against the configuration's first
// endpoint, sized by its PoolSettings. It pings before returning so a
// dead endpoint fails fast at startup rather than on the first query.
func NewPool(ctx context.Context, cfg configuration.Configuration) (*pgxpool.Pool, error) {
	config := cfg.Config()

	poolCfg, err := pgxpool.ParseConfig(config.ConnectionURIs.First())
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindConnectionFailed, "invalid connection uri", err)
	}

	settings := config.PoolSettings
	poolCfg.MaxConns = int32(settings.MaxConnections)
	poolCfg.ConnConfig.ConnectTimeout = time.Duration(settings.PoolTimeout) * time.Second
	if settings.IdleTimeout != nil {
		poolCfg.MaxConnIdleTime = time.Duration(*settings.IdleTimeout) * time.Second
	}
	if settings.ConnectionLifetime != nil {
		poolCfg.MaxConnLifetime = time.Duration(*settings.ConnectionLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, mapError(err, "failed to create connection pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, mapError(err, "ping failed")
	}

	return pool, nil
}
