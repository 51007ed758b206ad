package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/gratefultolord/mc_forms_bot/internal/config"
)

// newTestConn mirrors dbtest.New; dbtest imports this package so in-package
// tests cannot use it.
func newTestConn(t *testing.T) *sqlx.DB {
	t.Helper()

	database, err := New(&config.DBConfig{
		Driver: "sqlite3",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })

	require.NoError(t, RunMigrations(context.Background(), database.Conn))

	return database.Conn
}
