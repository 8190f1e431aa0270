// Package database contains the logic for establishing
// connections to the PostgreSQL database.
//
// It specifically handles database pooling (maintaining
// active connections for efficiency) and integrating
// the logger/tracer with the database driver (PGX).
//
// It handles:
//   - creating a pgx connection pool (pgxpool) sized from config
//   - wiring query tracing/logging (pgx tracelog, slow query warnings)
//   - optional New Relic instrumentation (nrpgx5)
//   - schema migrations embedded into the binary (tern)
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/gameday/internal/config"
	loggerConfig "github.com/deppfellow/gameday/internal/logger"
	pgxzero "github.com/jackc/pgx-zerolog"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/newrelic/go-agent/v3/integrations/nrpgx5"
	"github.com/rs/zerolog"
)

// Database wraps the pgx connection pool and a logger.
//
// Pool is the shared connection pool. It is created once at startup and
// handed to the repositories; Close releases it on shutdown.
type Database struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

// DatabasePingTimeout defines the number of seconds to wait for a ping
// before considering the database "unreachable".
const DatabasePingTimeout = 10

// New creates a PostgreSQL connection pool with instrumentation.
//
// Behavior:
//   - Parse the DSN built by config into a pgxpool config
//   - Apply pool sizing (max/min conns, lifetimes)
//   - Attach New Relic tracer if available and the slow query tracer
//   - In local env: attach SQL tracelogger as well
//   - Create pool, ping it, and return Database
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Database, error) {
	pgxPoolConfig, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pgx pool config: %w", err)
	}

	applyPoolSettings(pgxPoolConfig, cfg.Database)

	var nrTracer, localTracer pgx.QueryTracer
	if loggerService.GetApplication() != nil {
		nrTracer = nrpgx5.NewTracer()
	}

	// SQL statement logging is very noisy, which is why it's only in local.
	if cfg.IsLocal() {
		globalLevel := logger.GetLevel()
		localTracer = &tracelog.TraceLog{
			Logger:   pgxzero.NewLogger(loggerConfig.NewPgxLogger(globalLevel)),
			LogLevel: loggerConfig.GetPgxTraceLogLevel(globalLevel),
		}
	}

	var slowTracer pgx.QueryTracer
	if cfg.Observability != nil {
		if t := newSlowQueryTracer(logger, cfg.Observability.Logging.SlowQueryThreshold); t != nil {
			slowTracer = t
		}
	}

	pgxPoolConfig.ConnConfig.Tracer = chainTracers(nrTracer, slowTracer, localTracer)

	pool, err := pgxpool.NewWithConfig(ctx, pgxPoolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	database := &Database{
		Pool: pool,
		log:  logger,
	}

	// Ping the DB with a timeout, so startup fails fast if DB is down.
	pingCtx, cancel := context.WithTimeout(ctx, DatabasePingTimeout*time.Second)
	defer cancel()
	if err = pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().
		Int32("max_conns", pgxPoolConfig.MaxConns).
		Msg("connected to the database")

	return database, nil
}

// applyPoolSettings maps the database config onto pgxpool.
// Lifetimes are expressed in seconds; zero values keep pgx defaults.
func applyPoolSettings(pc *pgxpool.Config, db config.DatabaseConfig) {
	if db.MaxOpenConns > 0 {
		pc.MaxConns = int32(db.MaxOpenConns)
	}
	if db.MaxIdleConns > 0 {
		minConns := int32(db.MaxIdleConns)
		if minConns > pc.MaxConns {
			minConns = pc.MaxConns
		}
		pc.MinConns = minConns
	}
	if db.ConnMaxLifetime > 0 {
		pc.MaxConnLifetime = time.Duration(db.ConnMaxLifetime) * time.Second
	}
	if db.ConnMaxIdleTime > 0 {
		pc.MaxConnIdleTime = time.Duration(db.ConnMaxIdleTime) * time.Second
	}
}

// Ping checks the pool can reach the database.
func (db *Database) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the database connection pool.
//
// Returns nil currently because pgxpool.Close doesn't return error.
func (db *Database) Close() error {
	db.log.Info().Msg("closing database connection pool")
	db.Pool.Close()
	return nil
}
