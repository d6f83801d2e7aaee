package db

import (
	"context"
	"errors"
	"fmt"

	"feepay/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

var errNoAddr = errors.New("db: address is empty")

// PoolConfig parses the connection string and applies the pool limits from
// cfg. Limits set in cfg win over pool_* parameters in the URL.
func PoolConfig(cfg config.DB) (*pgxpool.Config, error) {
	if cfg.Addr == "" {
		return nil, errNoAddr
	}

	pc, err := pgxpool.ParseConfig(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("db: parse address: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		pc.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MinConns > pc.MaxConns {
		return nil, fmt.Errorf("db: min conns %d above max conns %d", cfg.MinConns, pc.MaxConns)
	}
	pc.MinConns = cfg.MinConns
	if cfg.MaxIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.ConnectTimeout > 0 {
		pc.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	return pc, nil
}

// Open builds the payments pool and pings it. ConnectTimeout bounds the
// whole startup, ping included.
func Open(ctx context.Context, cfg config.DB) (*pgxpool.Pool, error) {
	pc, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("db: open pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db: ping: %w", err)
	}

	return pool, nil
}
