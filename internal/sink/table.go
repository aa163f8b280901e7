// Package sink exports a record stream into a relational store.
//
// TableWriter creates one table per record type the first time the type is
// seen and inserts every record through a prepared statement. The whole export
// runs in a single transaction that is committed once the stream is drained;
// any failure rolls everything back.
package sink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"atopetl/internal/ddl"
	"atopetl/internal/metrics"
	"atopetl/internal/record"
	"atopetl/internal/schema"
	"atopetl/internal/storage"
)

// Stats summarizes a finished export.
type Stats struct {
	Records int64
	Tables  int
	ByTag   map[string]int64
}

// TableWriter writes records into one table per tag.
type TableWriter struct {
	Repo storage.Repository

	// Schema names the columns and enforces the value count of every record.
	// A nil Schema names type-specific columns val1..valN.
	Schema *schema.Registry

	// Progress is called when records from a new log file start arriving.
	Progress record.ProgressFunc

	// Job labels metrics; defaults to "atop".
	Job string
}

// Write drains src into the repository. Nothing is durable unless Write
// returns a nil error.
func (w *TableWriter) Write(ctx context.Context, src record.Source) (st Stats, err error) {
	job := w.Job
	if job == "" {
		job = "atop"
	}
	start := time.Now()
	defer func() { metrics.RecordStep(job, "export", err, time.Since(start)) }()

	tx, err := w.Repo.Begin(ctx)
	if err != nil {
		return st, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				log.Printf("table: rollback failed: %v", rbErr)
			}
		}
	}()

	st.ByTag = map[string]int64{}
	widths := map[string]int{}
	tracker := record.NewFileTracker(w.Progress)

	for {
		if err = ctx.Err(); err != nil {
			return st, err
		}
		var rec record.Record
		rec, err = src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return st, err
		}
		if tracker.Observe(rec.LogFile()) {
			log.Printf("table: file=%s inserted=%d tables=%d elapsed=%s",
				rec.LogFile(), st.Records, st.Tables, time.Since(start).Truncate(time.Millisecond))
		}

		tag := rec.Tag()
		if w.Schema != nil {
			if err = w.Schema.Validate(tag, len(rec)); err != nil {
				return st, err
			}
		}

		width, ok := widths[tag]
		if !ok {
			if err = w.create(ctx, tx, rec); err != nil {
				return st, err
			}
			widths[tag] = len(rec)
			st.Tables++
		} else if width != len(rec) {
			err = &schema.MismatchError{Tag: tag, Got: len(rec), Want: width}
			return st, err
		}

		if err = tx.Insert(ctx, tag, rec); err != nil {
			return st, err
		}
		st.Records++
		st.ByTag[tag]++
	}

	if err = tx.Commit(ctx); err != nil {
		return st, err
	}
	metrics.RecordRow(job, "inserted", st.Records)
	log.Printf("table: committed tables=%d total_inserted=%d elapsed=%s",
		st.Tables, st.Records, time.Since(start).Truncate(time.Millisecond))
	return st, nil
}

func (w *TableWriter) create(ctx context.Context, tx storage.Tx, rec record.Record) error {
	tag := rec.Tag()
	cols, err := w.Schema.Columns(tag, len(rec))
	if err != nil {
		return err
	}
	def, err := ddl.FromValues(tag, cols, rec)
	if err != nil {
		return fmt.Errorf("table %s: %w", tag, err)
	}
	return tx.CreateTable(ctx, def)
}
