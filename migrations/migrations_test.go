package migrations_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/spacegothic/internal/testutil"
	"github.com/cory-johannsen/spacegothic/migrations"
)

func TestEmbeddedMigrationsParse(t *testing.T) {
	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)
}

func TestMigrationsUpAndDown(t *testing.T) {
	pc := testutil.NewPostgresContainer(t)
	ctx := context.Background()

	src, err := iofs.New(migrations.FS, ".")
	require.NoError(t, err)
	m, err := migrate.NewWithSourceInstance("iofs", src, pc.DSN())
	require.NoError(t, err)
	defer m.Close()

	require.NoError(t, m.Up())
	assert.True(t, errors.Is(m.Up(), migrate.ErrNoChange))

	version, dirty, err := pc.Pool.SchemaVersion(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	assert.False(t, dirty)

	var exists bool
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT to_regclass('public.character_sheets') IS NOT NULL`).Scan(&exists))
	assert.True(t, exists)

	require.NoError(t, m.Down())
	require.NoError(t, pc.RawPool.QueryRow(ctx,
		`SELECT to_regclass('public.character_sheets') IS NOT NULL`).Scan(&exists))
	assert.False(t, exists)
}
