package frame

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"atopetl/internal/metrics"
	"atopetl/internal/record"
	"atopetl/internal/schema"
)

// DefaultChunkSize is the number of records consumed per chunk.
const DefaultChunkSize = 10000

// Stats summarizes a build.
type Stats struct {
	Records int64
	Chunks  int
}

// Builder turns a record stream into frames.
type Builder struct {
	// Schema names the columns and enforces the value count of every record.
	// With a nil Schema type-specific columns are named val1..valN, N being
	// the widest record of the tag; shorter rows are padded with nil.
	Schema *schema.Registry

	// ChunkSize defaults to DefaultChunkSize.
	ChunkSize int

	// Progress fires at most once per chunk, when the first record of the
	// chunk comes from a different log file than the previous chunk's first.
	Progress record.ProgressFunc

	// Job labels metrics; defaults to "atop".
	Job string
}

// tagParts collects the partial frames of one tag in arrival order.
type tagParts struct {
	parts [][][]any
	width int
}

// Build drains src and returns one frame per tag.
func (b *Builder) Build(ctx context.Context, src record.Source) (frames map[string]*Frame, st Stats, err error) {
	size := b.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}
	job := b.Job
	if job == "" {
		job = "atop"
	}
	start := time.Now()
	defer func() { metrics.RecordStep(job, "export", err, time.Since(start)) }()

	tracker := record.NewFileTracker(b.Progress)
	byTag := map[string]*tagParts{}
	var order []string

	chunk := make([]record.Record, 0, size)
	for done := false; !done; {
		if err = ctx.Err(); err != nil {
			return nil, st, err
		}
		chunk = chunk[:0]
		for len(chunk) < size {
			rec, nerr := src.Next()
			if errors.Is(nerr, io.EOF) {
				done = true
				break
			}
			if nerr != nil {
				return nil, st, nerr
			}
			chunk = append(chunk, rec)
		}
		if len(chunk) == 0 {
			break
		}

		tracker.Observe(chunk[0].LogFile())
		partials, tags, err := b.split(chunk)
		if err != nil {
			return nil, st, err
		}
		for _, tag := range tags {
			tp, ok := byTag[tag]
			if !ok {
				tp = &tagParts{}
				byTag[tag] = tp
				order = append(order, tag)
			}
			for _, row := range partials[tag] {
				if len(row) > tp.width {
					tp.width = len(row)
				}
			}
			tp.parts = append(tp.parts, partials[tag])
		}

		st.Records += int64(len(chunk))
		st.Chunks++
		metrics.RecordChunks(job, 1)
		log.Printf("frame: chunk #%d records=%d total=%d tags=%d", st.Chunks, len(chunk), st.Records, len(byTag))
	}

	frames = make(map[string]*Frame, len(byTag))
	for _, tag := range order {
		f, err := b.concat(tag, byTag[tag])
		if err != nil {
			return nil, st, err
		}
		frames[tag] = f
	}
	metrics.RecordRow(job, "framed", st.Records)
	return frames, st, nil
}

// split groups one chunk by tag, validating every record against the schema.
// tags lists the tags in first-seen order.
func (b *Builder) split(chunk []record.Record) (map[string][][]any, []string, error) {
	partials := map[string][][]any{}
	var tags []string
	for _, rec := range chunk {
		tag := rec.Tag()
		if b.Schema != nil {
			if err := b.Schema.Validate(tag, len(rec)); err != nil {
				return nil, nil, err
			}
		}
		if _, ok := partials[tag]; !ok {
			tags = append(tags, tag)
		}
		partials[tag] = append(partials[tag], []any(rec))
	}
	return partials, tags, nil
}

func (b *Builder) concat(tag string, tp *tagParts) (*Frame, error) {
	cols, err := b.Schema.Columns(tag, tp.width)
	if err != nil {
		return nil, err
	}

	n := 0
	for _, p := range tp.parts {
		n += len(p)
	}
	rows := make([][]any, 0, n)
	for _, p := range tp.parts {
		for _, row := range p {
			if len(row) < len(cols) {
				padded := make([]any, len(cols))
				copy(padded, row)
				row = padded
			}
			rows = append(rows, row)
		}
	}
	return &Frame{Tag: tag, Columns: cols, Rows: rows}, nil
}
