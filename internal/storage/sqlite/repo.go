// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql and the pure-Go modernc.org/sqlite driver. All writes of an
// export happen inside one transaction.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"atopetl/internal/storage"
	sqliteddl "atopetl/internal/storage/sqlite/ddl"

	_ "modernc.org/sqlite"
)

var dialect = storage.SQLDialect{Name: "sqlite", Dialect: sqliteddl.Dialect, Mark: sqliteddl.Mark}

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// Open opens a SQLite database. DSN is passed directly to database/sql; for
// example:
//
//	"atop.db"
//	"file:atop.db?_pragma=journal_mode(WAL)"
func Open(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("sqlite: DSN must not be empty")
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open: %w", err)
	}
	return db, nil
}

// NewRepository opens the database and pings it to fail fast on bad DSNs.
func NewRepository(ctx context.Context, dsn string) (*Repository, error) {
	db, err := Open(dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: ping: %w", err)
	}
	return &Repository{db: db}, nil
}

// Begin implements storage.Repository.
func (r *Repository) Begin(ctx context.Context) (storage.Tx, error) {
	return storage.BeginSQL(ctx, r.db, dialect)
}

// Close implements storage.Repository.
func (r *Repository) Close() { r.db.Close() }

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

func init() {
	storage.Register("sqlite", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		return newRepository(ctx, cfg.DSN)
	})
}
