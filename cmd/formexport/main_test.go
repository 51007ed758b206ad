package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gratefultolord/mc_forms_bot/internal/config"
	"github.com/gratefultolord/mc_forms_bot/internal/db"
)

func execute(t *testing.T, args ...string) string {
	t.Helper()

	var buf bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	return buf.String()
}

func TestExport(t *testing.T) {
	dir := t.TempDir()
	dsn := "file:" + filepath.Join(dir, "forms.db") + "?_foreign_keys=on"

	t.Setenv("DB_DRIVER", "sqlite3")
	t.Setenv("DB_DSN", dsn)

	out := execute(t, "--dir", dir)
	assert.Contains(t, out, "Нет данных для экспорта.")
	assert.NoFileExists(t, filepath.Join(dir, "forms_export.csv"))

	database, err := db.New(&config.DBConfig{Driver: "sqlite3", DSN: dsn})
	require.NoError(t, err)

	_, err = db.NewFormRepository(database.Conn).Create(context.Background(), 10, db.FormFields{Name: "Ann", MCNick: "Annie"})
	require.NoError(t, err)
	require.NoError(t, database.Close())

	out = execute(t, "--dir", dir, "--out", "all.csv")
	assert.Contains(t, out, "all.csv")

	data, err := os.ReadFile(filepath.Join(dir, "all.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Annie")
}
