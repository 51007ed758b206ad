// Package dbtest opens throwaway sqlite databases for tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/gratefultolord/mc_forms_bot/internal/config"
	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

// New returns a migrated in-memory database private to the test.
func New(t testing.TB) *db.DB {
	t.Helper()

	database, err := db.New(&config.DBConfig{
		Driver: "sqlite3",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)

	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, db.RunMigrations(context.Background(), database.Conn))

	return database
}
