package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be surfaced
	// to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "sink.storage.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error in contexts that expect error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether issues contains at least one error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of a normalized Pipeline. It
// does not mutate p; callers decide whether warnings are fatal.
//
//	p.Normalize()
//	for _, iss := range config.ValidatePipeline(p) {
//	    fmt.Printf("%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
//	}
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateSchema(p.Schema)...)
	issues = append(issues, validateSink(p.Sink)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Binary) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.binary",
			Message:  "source.binary must not be empty",
		})
	}
	if s.Last < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.last",
			Message:  "source.last must not be negative",
		})
	}
	if len(s.Files) > 0 && s.List != "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.list",
			Message:  "source.files is set; source.list is ignored",
		})
	}
	for i, f := range s.Files {
		if strings.TrimSpace(f) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("source.files[%d]", i),
				Message:  "file path must not be empty",
			})
		}
	}
	for i, rt := range s.RecordTypes {
		if rt == "" || strings.ContainsAny(rt, ", \t") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("source.record_types[%d]", i),
				Message:  fmt.Sprintf("invalid record type %q; use one tag per entry", rt),
			})
		}
	}

	return issues
}

func validateSchema(s Schema) []Issue {
	var issues []Issue

	switch s.Mode {
	case SchemaDefault, SchemaNone:
		if s.Path != "" {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "schema.path",
				Message:  fmt.Sprintf("schema.path is ignored for mode %q", s.Mode),
			})
		}
	case SchemaFile:
		if strings.TrimSpace(s.Path) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "schema.path",
				Message:  "schema mode \"file\" requires a non-empty path",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "schema.mode",
			Message:  fmt.Sprintf("unknown schema mode %q; want default, none or file", s.Mode),
		})
	}

	return issues
}

func validateSink(s Sink) []Issue {
	var issues []Issue

	switch s.Kind {
	case SinkTable:
		issues = append(issues, validateStorage(s.Storage)...)
	case SinkFrame:
		if s.ChunkSize <= 0 {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.chunk_size",
				Message:  fmt.Sprintf("chunk_size=%d; must be positive", s.ChunkSize),
			})
		}
		if strings.TrimSpace(s.OutDir) == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "sink.out_dir",
				Message:  "sink.out_dir must not be empty",
			})
		}
	default:
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.kind",
			Message:  fmt.Sprintf("unknown sink kind %q; want table or frame", s.Kind),
		})
	}

	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.storage.kind",
			Message:  "sink.storage.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"postgres": {},
		"mysql":    {},
		"mssql":    {},
		"sqlite":   {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sink.storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; ensure a matching backend is registered", s.Kind),
		})
	}
	if strings.TrimSpace(s.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.storage.dsn",
			Message:  "sink.storage.dsn must not be empty",
		})
	}

	return issues
}
