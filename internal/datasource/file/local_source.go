// Package file implements the local filesystem inputs of an export: atop log
// discovery, plain list files of log paths, and schema files.
package file

import (
	"context"
	"fmt"
	"io"
	"os"

	"atopetl/internal/datasource"
)

// Local is a filesystem data source that opens one file from the local disk.
type Local struct{ path string }

var _ datasource.Source = (*Local)(nil)

// NewLocal returns a Local data source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. A context that is already done
// short-circuits without touching the filesystem; filesystem errors are
// wrapped with the path and stay inspectable with errors.Is.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// ReadText reads src to the end, e.g. a schema file.
func ReadText(ctx context.Context, src datasource.Source) (string, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("read: %w", err)
	}
	return string(b), nil
}
