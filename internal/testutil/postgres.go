// Package testutil holds helpers shared by package tests: a disposable
// PostgreSQL instance for repository tests and in-memory repositories
// for service and handler tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/deppfellow/gameday/internal/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// NewPostgres starts a migrated PostgreSQL container and returns a pool on it.
//
// The test is skipped with -short or when no container runtime is available.
// Container and pool are released through t.Cleanup.
func NewPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase("gameday"),
		postgres.WithUsername("gameday"),
		postgres.WithPassword("gameday"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err, "starting postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	logger := zerolog.Nop()
	require.NoError(t, database.Migrate(ctx, &logger, dsn), "migrating test database")

	pool, err := pgxpool.New(context.Background(), dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

// Truncate empties the domain tables between subtests.
func Truncate(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), `TRUNCATE games, teams RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}
