// Package mssql implements a Microsoft SQL Server repository on database/sql
// with the go-mssqldb driver. All writes of an export share one transaction.
package mssql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"atopetl/internal/storage"
	msddl "atopetl/internal/storage/mssql/ddl"
)

var dialect = storage.SQLDialect{Name: "mssql", Dialect: msddl.Dialect, Mark: msddl.Mark}

// Repository is an MSSQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	// Validate DSN early to fail fast on obvious mistakes.
	if _, err := msdsn.Parse(dsn); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	close := func() { _ = db.Close() }
	return &Repository{db: db}, close, nil
}

// Begin implements storage.Repository.Begin.
func (r *Repository) Begin(ctx context.Context) (storage.Tx, error) {
	return storage.BeginSQL(ctx, r.db, dialect)
}
