// Package tests contains integration tests that run the API against a real
// Postgres instance with the pgvector extension, started via testcontainers.
// They are skipped unless INTEGRATION_TESTS=1 is set.
package tests

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mosaiq/gallery/pkg/database"
)

const embeddingDims = 1536

// startPostgres launches a pgvector-enabled Postgres container, applies the
// schema migration, and returns a connected pool. Cleanup is registered on t.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "pgvector/pgvector:pg16",
		tcpostgres.WithDatabase("gallery_test"),
		tcpostgres.WithUsername("gallery"),
		tcpostgres.WithPassword("gallery"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	connString, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := database.NewPostgresPool(ctx, connString, database.WithVectorTypes())
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(pool.Close)

	applyMigrations(t, pool)

	return pool
}

// applyMigrations runs the schema files against the test database.
func applyMigrations(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	files, err := filepath.Glob(filepath.Join("..", "migrations", "*.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files, "no migration files found")

	for _, file := range files {
		sql, err := os.ReadFile(file)
		require.NoError(t, err)

		_, err = pool.Exec(context.Background(), string(sql))
		require.NoError(t, err, "migration %s failed", file)
	}
}

// unitVector returns an embedding with a single non-zero axis, so cosine
// similarity between fixtures is exactly 0 or can be blended predictably.
func unitVector(axis int) []float32 {
	v := make([]float32, embeddingDims)
	v[axis] = 1

	return v
}

// blend mixes two unit axes and normalizes, giving a vector whose similarity
// to unitVector(a) is wa/sqrt(wa²+wb²).
func blend(a int, wa float32, b int, wb float32) []float32 {
	v := make([]float32, embeddingDims)
	norm := float32(1)
	if n := wa*wa + wb*wb; n > 0 {
		norm = float32(math.Sqrt(float64(n)))
	}

	v[a] = wa / norm
	v[b] = wb / norm

	return v
}
