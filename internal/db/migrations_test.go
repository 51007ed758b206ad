package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gratefultolord/mc_forms_bot/internal/db"
	"github.com/gratefultolord/mc_forms_bot/internal/db/dbtest"
)

func TestRunMigrationsIsRepeatable(t *testing.T) {
	database := dbtest.New(t)
	ctx := context.Background()

	require.NoError(t, db.RunMigrations(ctx, database.Conn))

	var versions []int
	require.NoError(t, database.Conn.Select(&versions, `SELECT version FROM schema_migrations ORDER BY version`))
	assert.Equal(t, []int{1}, versions)

	var tables []string
	require.NoError(t, database.Conn.Select(&tables, `
	    SELECT name FROM sqlite_master
		WHERE type = 'table' AND name IN ('forms', 'banned_users')
		ORDER BY name
	`))
	assert.Equal(t, []string{"banned_users", "forms"}, tables)
}
