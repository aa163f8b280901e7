package frame

import (
	"bytes"
	"testing"
)

func TestFingerprint(t *testing.T) {
	t.Parallel()

	base := func() *Frame {
		return &Frame{
			Tag:     "CPU",
			Columns: []string{"type", "val1"},
			Rows:    [][]any{{"CPU", 1.0}, {"CPU", nil}},
		}
	}

	a, b := base(), base()
	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("equal frames hash differently")
	}

	changed := []struct {
		name string
		edit func(f *Frame)
	}{
		{"tag", func(f *Frame) { f.Tag = "MEM" }},
		{"column", func(f *Frame) { f.Columns[1] = "val2" }},
		{"value", func(f *Frame) { f.Rows[0][1] = 2.0 }},
		{"kind", func(f *Frame) { f.Rows[0][1] = "1" }},
		{"nil", func(f *Frame) { f.Rows[1][1] = "" }},
		{"rows", func(f *Frame) { f.Rows = f.Rows[:1] }},
	}
	for _, tt := range changed {
		f := base()
		tt.edit(f)
		if f.Fingerprint() == a.Fingerprint() {
			t.Errorf("%s change did not alter fingerprint", tt.name)
		}
	}
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()

	f := &Frame{
		Tag:     "PRG",
		Columns: []string{"type", "epoch", "cmd", "val"},
		Rows: [][]any{
			{"PRG", int64(1700000000), "sleep 10, then exit", 0.5},
			{"PRG", int64(1700000600), "bash", nil},
		},
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, f); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	want := "type,epoch,cmd,val\n" +
		"PRG,1700000000,\"sleep 10, then exit\",0.5\n" +
		"PRG,1700000600,bash,\n"
	if got := buf.String(); got != want {
		t.Fatalf("WriteCSV =\n%q\nwant\n%q", got, want)
	}
}
