// Package mysql implements a MySQL repository on database/sql with
// go-sql-driver/mysql.
//
// MySQL commits implicitly on CREATE TABLE, so a failed export can leave
// created tables behind even though their rows are rolled back.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"atopetl/internal/storage"
	myddl "atopetl/internal/storage/mysql/ddl"
)

var dialect = storage.SQLDialect{Name: "mysql", Dialect: myddl.Dialect, Mark: myddl.Mark}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db *sql.DB
}

// NewRepository parses dsn, opens the pool and pings it.
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db}, func() { _ = db.Close() }, nil
}

// Begin implements storage.Repository.Begin.
func (r *Repository) Begin(ctx context.Context) (storage.Tx, error) {
	return storage.BeginSQL(ctx, r.db, dialect)
}
