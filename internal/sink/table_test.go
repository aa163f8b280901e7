package sink

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"atopetl/internal/record"
	"atopetl/internal/schema"
	"atopetl/internal/storage/sqlite"
)

const testSchema = `CPU - cpu totals
ticks - clock ticks per second
idle - idle ticks

MEM - memory
pagesize - page size`

func testRegistry(t *testing.T) *schema.Registry {
	t.Helper()
	reg, err := schema.Parse(testSchema)
	if err != nil {
		t.Fatalf("schema.Parse: %v", err)
	}
	return reg
}

func openRepo(t *testing.T) (*sqlite.Repository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "atop.db")
	repo, err := sqlite.NewRepository(context.Background(), path)
	if err != nil {
		t.Fatalf("sqlite.NewRepository: %v", err)
	}
	t.Cleanup(repo.Close)
	return repo, path
}

func readTable(t *testing.T, path, table string) ([]string, [][]any) {
	t.Helper()
	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT * FROM "` + table + `" ORDER BY rowid`)
	if err != nil {
		t.Fatalf("select %s: %v", table, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		t.Fatalf("columns: %v", err)
	}
	var out [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			t.Fatalf("scan: %v", err)
		}
		out = append(out, vals)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows: %v", err)
	}
	return cols, out
}

func tableExists(t *testing.T, path, table string) bool {
	t.Helper()
	db, err := sqlite.Open(path)
	if err != nil {
		t.Fatalf("sqlite.Open: %v", err)
	}
	defer db.Close()
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&n); err != nil {
		t.Fatalf("sqlite_master: %v", err)
	}
	return n > 0
}

func cpu(sample int64, file string, ticks, idle float64) record.Record {
	return record.Record{"CPU", int64(1700000000 + sample*600), int64(600), sample, int64(0), file, ticks, idle}
}

func mem(sample int64, file string, pagesize float64) record.Record {
	return record.Record{"MEM", int64(1700000000 + sample*600), int64(600), sample, int64(0), file, pagesize}
}

// TestTableWriterRoundTrip writes records and reads them back unchanged.
func TestTableWriterRoundTrip(t *testing.T) {
	t.Parallel()

	repo, path := openRepo(t)
	recs := []record.Record{
		cpu(0, "/var/log/atop/atop_20240101", 100, 7.5),
		mem(0, "/var/log/atop/atop_20240101", 4096),
		cpu(1, "/var/log/atop/atop_20240101", 100, 8),
	}

	w := &TableWriter{Repo: repo, Schema: testRegistry(t)}
	st, err := w.Write(context.Background(), record.FromSlice(recs))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if st.Records != 3 || st.Tables != 2 || st.ByTag["CPU"] != 2 || st.ByTag["MEM"] != 1 {
		t.Fatalf("stats = %+v", st)
	}

	cols, rows := readTable(t, path, "CPU")
	wantCols := []string{"type", "epoch", "sample_interval", "sample_n", "boot_n", "log_file", "ticks", "idle"}
	if !reflect.DeepEqual(cols, wantCols) {
		t.Fatalf("CPU columns = %v, want %v", cols, wantCols)
	}
	wantRows := [][]any{[]any(recs[0]), []any(recs[2])}
	if !reflect.DeepEqual(rows, wantRows) {
		t.Fatalf("CPU rows =\n%v\nwant\n%v", rows, wantRows)
	}

	_, rows = readTable(t, path, "MEM")
	if !reflect.DeepEqual(rows, [][]any{[]any(recs[1])}) {
		t.Fatalf("MEM rows = %v", rows)
	}
}

func TestTableWriterSchemaless(t *testing.T) {
	t.Parallel()

	repo, path := openRepo(t)
	recs := []record.Record{
		{"DSK", "1700000000", "600", int64(0), int64(0), "f", "sda", "12"},
	}
	w := &TableWriter{Repo: repo}
	if _, err := w.Write(context.Background(), record.FromSlice(recs)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	cols, rows := readTable(t, path, "DSK")
	wantCols := []string{"type", "epoch", "sample_interval", "sample_n", "boot_n", "log_file", "val1", "val2"}
	if !reflect.DeepEqual(cols, wantCols) {
		t.Fatalf("columns = %v, want %v", cols, wantCols)
	}
	if !reflect.DeepEqual(rows, [][]any{[]any(recs[0])}) {
		t.Fatalf("rows = %v", rows)
	}
}

// TestTableWriterMismatchRollsBack checks that a record disagreeing with the
// schema aborts the export and leaves nothing behind.
func TestTableWriterMismatchRollsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bad  record.Record
		want schema.MismatchError
	}{
		{
			name: "too few values",
			bad:  record.Record{"CPU", int64(1), int64(600), int64(1), int64(0), "f", 100.0},
			want: schema.MismatchError{Tag: "CPU", Got: 7, Want: 8},
		},
		{
			name: "unknown tag",
			bad:  record.Record{"XYZ", int64(1), int64(600), int64(1), int64(0), "f", 1.0},
			want: schema.MismatchError{Tag: "XYZ", Got: 7, Want: -1},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo, path := openRepo(t)
			recs := []record.Record{cpu(0, "f", 100, 1), tt.bad}
			w := &TableWriter{Repo: repo, Schema: testRegistry(t)}
			st, err := w.Write(context.Background(), record.FromSlice(recs))

			var mm *schema.MismatchError
			if !errors.As(err, &mm) {
				t.Fatalf("Write error = %v, want *schema.MismatchError", err)
			}
			if *mm != tt.want {
				t.Fatalf("mismatch = %+v, want %+v", *mm, tt.want)
			}
			if st.Records != 1 {
				t.Fatalf("records before failure = %d, want 1", st.Records)
			}
			if tableExists(t, path, "CPU") {
				t.Fatal("table CPU exists after failed export")
			}
		})
	}
}

func TestTableWriterSchemalessWidthChange(t *testing.T) {
	t.Parallel()

	repo, _ := openRepo(t)
	recs := []record.Record{
		{"DSK", "1", "600", int64(0), int64(0), "f", "sda"},
		{"DSK", "2", "600", int64(1), int64(0), "f", "sda", "extra"},
	}
	w := &TableWriter{Repo: repo}
	_, err := w.Write(context.Background(), record.FromSlice(recs))
	var mm *schema.MismatchError
	if !errors.As(err, &mm) || mm.Got != 8 || mm.Want != 7 {
		t.Fatalf("Write error = %v, want width mismatch 8 vs 7", err)
	}
}

type failingSource struct {
	recs []record.Record
	err  error
}

func (f *failingSource) Next() (record.Record, error) {
	if len(f.recs) == 0 {
		return nil, f.err
	}
	r := f.recs[0]
	f.recs = f.recs[1:]
	return r, nil
}

func TestTableWriterSourceErrorRollsBack(t *testing.T) {
	t.Parallel()

	repo, path := openRepo(t)
	boom := errors.New("replay died")
	w := &TableWriter{Repo: repo, Schema: testRegistry(t)}
	_, err := w.Write(context.Background(), &failingSource{recs: []record.Record{mem(0, "f", 4096)}, err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("Write error = %v, want %v", err, boom)
	}
	if tableExists(t, path, "MEM") {
		t.Fatal("table MEM exists after failed export")
	}
}

func TestTableWriterProgress(t *testing.T) {
	t.Parallel()

	repo, _ := openRepo(t)
	recs := []record.Record{
		cpu(0, "a", 1, 1), mem(0, "a", 1),
		cpu(1, "b", 1, 1),
		cpu(2, "c", 1, 1), mem(2, "c", 1),
	}
	type call struct {
		index int
		path  string
	}
	var calls []call
	w := &TableWriter{Repo: repo, Schema: testRegistry(t), Progress: func(i int, p string) {
		calls = append(calls, call{i, p})
	}}
	if _, err := w.Write(context.Background(), record.FromSlice(recs)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	want := []call{{0, "a"}, {1, "b"}, {2, "c"}}
	if !reflect.DeepEqual(calls, want) {
		t.Fatalf("progress = %v, want %v", calls, want)
	}
}

func TestTableWriterEmptySource(t *testing.T) {
	t.Parallel()

	repo, _ := openRepo(t)
	w := &TableWriter{Repo: repo}
	st, err := w.Write(context.Background(), record.FromSlice(nil))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if st.Records != 0 || st.Tables != 0 {
		t.Fatalf("stats = %+v", st)
	}
}
