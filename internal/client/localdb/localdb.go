// Package localdb opens the client's durable local database: a single
// sqlite file that holds the cached session token and, in local cart mode,
// the persisted cart contents. The schema is managed with goose migrations
// embedded into the binary.
package localdb

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/dmitrijs2005/gophstore/internal/client/localdb/migrations"
)

// Open opens (creating if necessary) the local database at dsn and applies
// pending migrations. An error here is a fatal startup condition: without
// durable local state neither the credential cache nor local cart mode can
// operate.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local db: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate local db: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
