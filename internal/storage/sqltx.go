package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"atopetl/internal/ddl"
)

// SQLDialect describes how a database/sql backend renders DDL and binds
// parameters.
type SQLDialect struct {
	// Name prefixes error messages, e.g. "sqlite".
	Name string
	ddl.Dialect
	// Mark renders the 1-based i-th bind marker (?, $1, @p1).
	Mark func(i int) string
}

// SQLTx implements Tx on top of a database/sql transaction. It keeps one
// prepared INSERT statement per table for the life of the transaction.
type SQLTx struct {
	tx      *sql.Tx
	dialect SQLDialect
	stmts   map[string]*sql.Stmt
}

// BeginSQL starts a transaction on db.
func BeginSQL(ctx context.Context, db *sql.DB, d SQLDialect) (*SQLTx, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: begin tx: %w", d.Name, err)
	}
	return &SQLTx{tx: tx, dialect: d, stmts: map[string]*sql.Stmt{}}, nil
}

// CreateTable executes the CREATE TABLE statement for def and prepares its
// INSERT statement.
func (t *SQLTx) CreateTable(ctx context.Context, def ddl.TableDef) error {
	if _, ok := t.stmts[def.FQN]; ok {
		return fmt.Errorf("%s: table %s already created", t.dialect.Name, def.FQN)
	}
	create, err := ddl.Render(def, t.dialect.Dialect)
	if err != nil {
		return err
	}
	if _, err := t.tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("%s: create table %s: %w", t.dialect.Name, def.FQN, err)
	}

	insert := ddl.InsertSQL(def.FQN, def.ColumnNames(), t.dialect.Dialect, t.dialect.Mark)
	stmt, err := t.tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("%s: prepare insert %s: %w", t.dialect.Name, def.FQN, err)
	}
	t.stmts[def.FQN] = stmt
	return nil
}

// Insert executes the cached INSERT statement for table.
func (t *SQLTx) Insert(ctx context.Context, table string, row []any) error {
	stmt, ok := t.stmts[table]
	if !ok {
		return fmt.Errorf("%s: insert into %s: table not created in this transaction", t.dialect.Name, table)
	}
	if _, err := stmt.ExecContext(ctx, row...); err != nil {
		return fmt.Errorf("%s: insert into %s: %w", t.dialect.Name, table, err)
	}
	return nil
}

// Commit closes the prepared statements and commits.
func (t *SQLTx) Commit(_ context.Context) error {
	if err := t.closeStmts(); err != nil {
		_ = t.tx.Rollback()
		return fmt.Errorf("%s: close statements: %w", t.dialect.Name, err)
	}
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", t.dialect.Name, err)
	}
	return nil
}

// Rollback closes the prepared statements and rolls back. Rolling back an
// already finished transaction is not an error.
func (t *SQLTx) Rollback(_ context.Context) error {
	_ = t.closeStmts()
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%s: rollback: %w", t.dialect.Name, err)
	}
	return nil
}

func (t *SQLTx) closeStmts() error {
	var errs []error
	for name, stmt := range t.stmts {
		if err := stmt.Close(); err != nil {
			errs = append(errs, err)
		}
		delete(t.stmts, name)
	}
	return errors.Join(errs...)
}
