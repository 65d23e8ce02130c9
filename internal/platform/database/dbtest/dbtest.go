// Package dbtest opens the Postgres database used by repository tests.
package dbtest

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/georgemunganga/printa-shop/internal/platform/database"
)

// Connect returns a handle on TEST_DATABASE_URL and skips the test when the
// variable is unset or the database is unreachable.
func Connect(t testing.TB) *sqlx.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	db, err := database.Connect(ctx, database.Config{URL: url, MaxOpenConns: 10, MaxIdleConns: 2, ConnMaxLifetime: time.Minute})
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
