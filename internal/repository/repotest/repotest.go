// Package repotest opens a throwaway SQLite database with the engine schema
// for tests that need real SQL behind the repository.
package repotest

import (
	"context"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"ambassador_engine/internal/repository"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// New returns a repository over a fresh database file in t.TempDir().
// A single connection keeps SQLite writers serialised.
func New(t *testing.T) (*repository.Repository, *sqlx.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "engine.db")
	db, err := sqlx.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range strings.Split(schema, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		_, err := db.ExecContext(context.Background(), stmt)
		require.NoError(t, err, "schema statement: %s", stmt)
	}

	return repository.NewWithDB(db, squirrel.Question), db
}

// Exec runs a fixture statement and fails the test on error.
func Exec(t *testing.T, db *sqlx.DB, query string, args ...any) {
	t.Helper()
	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err, fmt.Sprintf("fixture: %s", query))
}
