package postgresql

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func migrationsDir() string {
	_, currentFile, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(currentFile), "..", "..", "..", "migrations")
}

func TestStorage_MigrateAndConnect(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("hrblog"),
		postgres.WithUsername("hrblog"),
		postgres.WithPassword("hrblog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, Migrate(dsn, migrationsDir()))
	// second run has nothing to apply
	require.NoError(t, Migrate(dsn, migrationsDir()))

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	defer storage.Stop()

	assert.NoError(t, storage.HealthCheck(ctx))

	var tables int
	err = storage.Pool().QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name IN ('blog_posts', 'users')`,
	).Scan(&tables)
	require.NoError(t, err)
	assert.Equal(t, 2, tables)
}

func TestMigrate_BadSource(t *testing.T) {
	err := Migrate("postgres://nobody@localhost:1/none?sslmode=disable", filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
