// Package postgres implements a Postgres repository using pgx v5. Each export
// runs in one transaction; every table gets a named prepared INSERT on the
// transaction's connection.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	gddl "atopetl/internal/ddl"
	"atopetl/internal/storage"
	pgddl "atopetl/internal/storage/postgres/ddl"
)

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, dsn string) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", pgError(err))
	}
	return &Repository{pool: pool}, pool.Close, nil
}

// Begin implements storage.Repository.Begin.
func (r *Repository) Begin(ctx context.Context) (storage.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("postgres: begin tx: %w", pgError(err))
	}
	return &Tx{tx: tx, stmts: map[string]string{}}, nil
}

// Tx is a pgx transaction with one prepared INSERT per created table.
type Tx struct {
	tx    pgx.Tx
	stmts map[string]string // table -> prepared statement name
}

// CreateTable implements storage.Tx.CreateTable.
func (t *Tx) CreateTable(ctx context.Context, def gddl.TableDef) error {
	if _, ok := t.stmts[def.FQN]; ok {
		return fmt.Errorf("postgres: table %s already created", def.FQN)
	}
	create, err := pgddl.BuildCreateTableSQL(def)
	if err != nil {
		return err
	}
	if _, err := t.tx.Exec(ctx, create); err != nil {
		return fmt.Errorf("postgres: create table %s: %w", def.FQN, pgError(err))
	}

	name := statementName(def.FQN)
	insert := gddl.InsertSQL(def.FQN, def.ColumnNames(), pgddl.Dialect, pgddl.Mark)
	if _, err := t.tx.Prepare(ctx, name, insert); err != nil {
		return fmt.Errorf("postgres: prepare insert %s: %w", def.FQN, pgError(err))
	}
	t.stmts[def.FQN] = name
	return nil
}

// Insert implements storage.Tx.Insert.
func (t *Tx) Insert(ctx context.Context, table string, row []any) error {
	name, ok := t.stmts[table]
	if !ok {
		return fmt.Errorf("postgres: insert into %s: table not created in this transaction", table)
	}
	if _, err := t.tx.Exec(ctx, name, row...); err != nil {
		return fmt.Errorf("postgres: insert into %s: %w", table, pgError(err))
	}
	return nil
}

// Commit deallocates the prepared statements and commits.
func (t *Tx) Commit(ctx context.Context) error {
	if err := t.deallocate(ctx); err != nil {
		_ = t.tx.Rollback(ctx)
		return fmt.Errorf("postgres: deallocate: %w", pgError(err))
	}
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres: commit: %w", pgError(err))
	}
	return nil
}

// Rollback rolls back. Rolling back a closed transaction is not an error.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("postgres: rollback: %w", pgError(err))
	}
	// The connection goes back to the pool; drop its statements too.
	_ = t.deallocate(ctx)
	return nil
}

func (t *Tx) deallocate(ctx context.Context) error {
	var errs []error
	for table, name := range t.stmts {
		if err := t.tx.Conn().Deallocate(ctx, name); err != nil {
			errs = append(errs, err)
		}
		delete(t.stmts, table)
	}
	return errors.Join(errs...)
}

func statementName(table string) string { return "atopetl_insert_" + table }

// pgError surfaces the server detail and SQLSTATE when err is a PgError.
func pgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("%w: %s (%s)", err, pgErr.Detail, pgErr.SQLState())
	}
	return err
}
