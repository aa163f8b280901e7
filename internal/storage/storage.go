// Package storage contains the storage-agnostic contracts used by the table
// writer and a small factory that concrete backends register with.
//
// Backends (sqlite, postgres, mssql, mysql) live in subpackages and register
// themselves in init; importing internal/storage/all enables every built-in
// backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"atopetl/internal/ddl"
)

// Config selects and configures a backend.
type Config struct {
	// Kind is the registered backend name, e.g. "sqlite".
	Kind string
	// DSN is passed to the backend driver.
	DSN string
}

// Repository is an open connection to a relational store.
type Repository interface {
	// Begin starts the single write transaction of an export.
	Begin(ctx context.Context) (Tx, error)
	// Close releases the connection.
	Close()
}

// Tx is one write transaction. CreateTable prepares and caches the INSERT
// statement for the new table; Insert must only be called for tables created
// in the same transaction. Nothing is durable before Commit.
type Tx interface {
	CreateTable(ctx context.Context, def ddl.TableDef) error
	Insert(ctx context.Context, table string, row []any) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers (or replaces) the factory for kind. It is typically
// called from backend packages' init functions.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// ListKinds lists the registered backend names in sorted order.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New opens a Repository using the factory registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}
