package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"atopetl/internal/atop"
	"atopetl/internal/config"
	"atopetl/internal/datasource/file"
	"atopetl/internal/frame"
	"atopetl/internal/metrics"
	"atopetl/internal/record"
	"atopetl/internal/schema"
	"atopetl/internal/sink"
	"atopetl/internal/storage"
)

// newReplayer is a test hook; tests swap in canned replay output.
var newReplayer = func(binary string) atop.Replayer {
	return atop.ExecReplayer{Binary: binary}
}

// resolveFiles returns the ordered log files to replay: explicit files, then
// a list file, then discovery under the log root.
func resolveFiles(s config.Source) ([]string, error) {
	var (
		files []string
		err   error
	)
	switch {
	case len(s.Files) > 0:
		files = s.Files
	case s.List != "":
		files, err = file.ReadList(s.List)
	default:
		files, err = file.ListLogs(s.Root, s.Pattern)
	}
	if err != nil {
		return nil, err
	}
	files = file.Last(files, s.Last)
	if len(files) == 0 {
		return nil, errors.New("no atop log files selected")
	}
	return files, nil
}

// loadSchema returns the registry selected by s; nil for schema-less runs.
func loadSchema(ctx context.Context, s config.Schema) (*schema.Registry, error) {
	switch s.Mode {
	case config.SchemaNone:
		return nil, nil
	case config.SchemaFile:
		text, err := file.ReadText(ctx, file.NewLocal(s.Path))
		if err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		return schema.Parse(text)
	default:
		return schema.Default()
	}
}

func openStream(ctx context.Context, p config.Pipeline) (*atop.Stream, error) {
	files, err := resolveFiles(p.Source)
	if err != nil {
		return nil, err
	}
	return atop.Open(ctx, files, atop.Options{
		Types:      p.Source.RecordTypes,
		InferTypes: p.Source.Infer(),
		Replayer:   newReplayer(p.Source.Binary),
	}), nil
}

// run replays the selected logs into the configured sink.
func run(ctx context.Context, p config.Pipeline, out io.Writer) (err error) {
	reg, err := loadSchema(ctx, p.Schema)
	if err != nil {
		return err
	}
	stream, err := openStream(ctx, p)
	if err != nil {
		return err
	}
	defer stream.Close()

	start := time.Now()
	defer func() {
		st := stream.Stats()
		metrics.RecordStep(p.Job, "parse", err, time.Since(start))
		metrics.RecordFiles(p.Job, int64(st.Files))
		metrics.RecordRow(p.Job, "parsed", st.Records)
	}()

	progress := func(i int, path string) {
		log.Printf("replay: file #%d %s", i+1, path)
	}

	switch p.Sink.Kind {
	case config.SinkFrame:
		b := &frame.Builder{Schema: reg, ChunkSize: p.Sink.ChunkSize, Progress: progress, Job: p.Job}
		frames, st, err := b.Build(ctx, stream)
		if err != nil {
			return err
		}
		log.Printf("frame: built tags=%d records=%d chunks=%d", len(frames), st.Records, st.Chunks)
		return writeFrames(p.Sink.OutDir, frames, out)

	default:
		repo, err := storage.New(ctx, storage.Config{Kind: p.Sink.Storage.Kind, DSN: p.Sink.Storage.DSN})
		if err != nil {
			return err
		}
		defer repo.Close()

		w := &sink.TableWriter{Repo: repo, Schema: reg, Progress: progress, Job: p.Job}
		st, err := w.Write(ctx, stream)
		if err != nil {
			return err
		}
		for _, tag := range sortedKeys(st.ByTag) {
			fmt.Fprintf(out, "%s\t%d\n", tag, st.ByTag[tag])
		}
		return nil
	}
}

// writeFrames writes one CSV per tag into dir and prints a digest line per
// tag to out.
func writeFrames(dir string, frames map[string]*frame.Frame, out io.Writer) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	for _, tag := range sortedKeys(frames) {
		f := frames[tag]
		path := filepath.Join(dir, tag+".csv")
		if err := writeFrameFile(path, f); err != nil {
			return err
		}
		fmt.Fprintf(out, "%s\t%d\t%016x\t%s\n", tag, f.Len(), f.Fingerprint(), path)
	}
	return nil
}

func writeFrameFile(path string, f *frame.Frame) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("frame: %w", err)
	}
	if err := frame.WriteCSV(fh, f); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// dump prints the first n records, one per line.
func dump(ctx context.Context, p config.Pipeline, out io.Writer, n int) error {
	stream, err := openStream(ctx, p)
	if err != nil {
		return err
	}
	defer stream.Close()

	src := record.Limit(stream, n)
	for {
		rec, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rec)
	}
}

// describe prints the schema entry of tag.
func describe(out io.Writer, reg *schema.Registry, tag string) error {
	if reg == nil {
		return errors.New("describe: no schema in use")
	}
	t, ok := reg.Lookup(tag)
	if !ok {
		return fmt.Errorf("describe: unknown record type %q (known: %v)", tag, reg.Tags())
	}
	fmt.Fprintf(out, "%s - %s\n", t.Tag, t.Description)
	for i, name := range record.GenericFields {
		fmt.Fprintf(out, "  %2d %s\n", i+1, name)
	}
	for i, f := range t.Fields {
		fmt.Fprintf(out, "  %2d %s - %s\n", record.NumGeneric+i+1, f.Name, f.Description)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
