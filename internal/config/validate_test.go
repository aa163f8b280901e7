package config

import (
	"strings"
	"testing"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(t *testing.T, issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	t.Helper()
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func validPipeline() Pipeline {
	var p Pipeline
	p.Normalize()
	return p
}

/*
TestValidatePipeline_ValidDefaults verifies that a normalized empty pipeline
produces no issues (errors or warnings).
*/
func TestValidatePipeline_ValidDefaults(t *testing.T) {
	t.Parallel()

	if issues := ValidatePipeline(validPipeline()); len(issues) != 0 {
		t.Fatalf("expected no issues; got %+v", issues)
	}
}

func TestValidatePipeline_MissingJob(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	p.Job = " "
	issues := ValidatePipeline(p)
	if !hasIssue(t, issues, SeverityError, "job", "job must not be empty") {
		t.Fatalf("expected SeverityError for job; got issues: %+v", issues)
	}
	if !HasErrors(issues) {
		t.Fatal("HasErrors = false")
	}
}

func TestValidatePipeline_Cases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(p *Pipeline)
		sev     IssueSeverity
		path    string
		msgPart string
	}{
		{"empty binary", func(p *Pipeline) { p.Source.Binary = "" }, SeverityError, "source.binary", "must not be empty"},
		{"negative last", func(p *Pipeline) { p.Source.Last = -2 }, SeverityError, "source.last", "negative"},
		{"files and list", func(p *Pipeline) {
			p.Source.Files = []string{"a"}
			p.Source.List = "logs.txt"
		}, SeverityWarning, "source.list", "ignored"},
		{"empty file", func(p *Pipeline) { p.Source.Files = []string{"a", ""} }, SeverityError, "source.files[1]", "must not be empty"},
		{"joined record types", func(p *Pipeline) { p.Source.RecordTypes = []string{"CPU,MEM"} }, SeverityError, "source.record_types[0]", "one tag per entry"},
		{"unknown schema mode", func(p *Pipeline) { p.Schema.Mode = "auto" }, SeverityError, "schema.mode", "unknown schema mode"},
		{"file mode without path", func(p *Pipeline) { p.Schema.Mode = SchemaFile }, SeverityError, "schema.path", "requires a non-empty path"},
		{"path ignored", func(p *Pipeline) { p.Schema.Path = "x" }, SeverityWarning, "schema.path", "ignored"},
		{"unknown sink", func(p *Pipeline) { p.Sink.Kind = "parquet" }, SeverityError, "sink.kind", "unknown sink kind"},
		{"bad chunk size", func(p *Pipeline) {
			p.Sink.Kind = SinkFrame
			p.Sink.ChunkSize = -1
		}, SeverityError, "sink.chunk_size", "must be positive"},
		{"empty out dir", func(p *Pipeline) {
			p.Sink.Kind = SinkFrame
			p.Sink.OutDir = ""
		}, SeverityError, "sink.out_dir", "must not be empty"},
		{"empty storage kind", func(p *Pipeline) { p.Sink.Storage.Kind = "" }, SeverityError, "sink.storage.kind", "must not be empty"},
		{"unknown storage kind", func(p *Pipeline) { p.Sink.Storage.Kind = "oracle" }, SeverityWarning, "sink.storage.kind", "unknown storage kind"},
		{"empty dsn", func(p *Pipeline) { p.Sink.Storage.DSN = "" }, SeverityError, "sink.storage.dsn", "must not be empty"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := validPipeline()
			tt.mutate(&p)
			issues := ValidatePipeline(p)
			if !hasIssue(t, issues, tt.sev, tt.path, tt.msgPart) {
				t.Fatalf("expected %s at %s containing %q; got %+v", tt.sev, tt.path, tt.msgPart, issues)
			}
		})
	}
}

// TestValidatePipeline_FrameIgnoresStorage checks storage is not linted when
// the frame sink is selected.
func TestValidatePipeline_FrameIgnoresStorage(t *testing.T) {
	t.Parallel()

	p := validPipeline()
	p.Sink.Kind = SinkFrame
	p.Sink.Storage = Storage{}
	if issues := ValidatePipeline(p); len(issues) != 0 {
		t.Fatalf("expected no issues; got %+v", issues)
	}
}

func TestIssueError(t *testing.T) {
	t.Parallel()

	iss := Issue{Severity: SeverityError, Path: "job", Message: "empty"}
	if got, want := iss.Error(), "error at job: empty"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
