package sqlstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/skylandly/internal/storage"
	"github.com/mcoot/skylandly/internal/storage/storagetest"
)

func openTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := Open(context.Background(), Config{
		Type: "sqlite",
		Path: filepath.Join(t.TempDir(), "skylandly.db"),
	})
	require.NoError(t, err)
	return s
}

func TestSQLiteStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		NewStorage: func() storage.Storage { return openTestStorage(t) },
	})
}

func TestOpen_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "skylandly.db")
	ctx := context.Background()

	first, err := Open(ctx, Config{Type: "sqlite", Path: path})
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(ctx, Config{Type: "sqlite", Path: path})
	require.NoError(t, err)
	defer second.Close()

	var count int
	require.NoError(t, second.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestOpen_RequiresLocation(t *testing.T) {
	_, err := Open(context.Background(), Config{Type: "sqlite"})
	assert.Error(t, err)
}

func TestOpen_UnsupportedType(t *testing.T) {
	_, err := Open(context.Background(), Config{Type: "oracle", URL: "x"})
	assert.Error(t, err)
}
