// Package datasource abstracts where auxiliary inputs (schema text, log
// lists) are read from.
package datasource

import (
	"context"
	"io"
)

// Source opens a readable input.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
