// Package config defines the JSON-serializable configuration model for an
// atop export. A pipeline file names which logs to replay, how records are
// shaped and where they go:
//
//	{
//	  "job":    "atop",
//	  "source": { "root": "/var/log/atop", "pattern": "atop_[0-9]*", "last": 2 },
//	  "schema": { "mode": "default" },
//	  "sink":   { "kind": "table", "storage": { "kind": "sqlite", "dsn": "atop.db" } }
//	}
//
// Decoding is done with encoding/json; environment overrides (env.go) are
// applied on top, and ValidatePipeline lints the result.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Schema modes.
const (
	SchemaDefault = "default" // embedded atop schema
	SchemaNone    = "none"    // schema-less, columns val1..valN
	SchemaFile    = "file"    // schema text read from Schema.Path
)

// Sink kinds.
const (
	SinkTable = "table"
	SinkFrame = "frame"
)

// Defaults applied by Normalize.
const (
	DefaultJob         = "atop"
	DefaultBinary      = "atop"
	DefaultChunkSize   = 10000
	DefaultOutDir      = "frames"
	DefaultStorageKind = "sqlite"
	DefaultDSN         = "atop.db"
)

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job labels metrics and log lines.
	Job    string `json:"job"`
	Source Source `json:"source"`
	Schema Schema `json:"schema"`
	Sink   Sink   `json:"sink"`
}

// Source selects the atop logs to replay and how to replay them.
//
// Files, when set, is used as-is and in order. Otherwise List names a file of
// paths (one per line). Otherwise logs are discovered under Root with Pattern,
// sorted lexically, and trimmed to the Last N.
type Source struct {
	Root    string   `json:"root"`
	Pattern string   `json:"pattern"`
	Last    int      `json:"last"`
	Files   []string `json:"files"`
	List    string   `json:"list"`

	// Binary is the atop executable; defaults to "atop" on PATH.
	Binary string `json:"binary"`

	// RecordTypes is passed to -P; defaults to ["ALL"].
	RecordTypes []string `json:"record_types"`

	// InferTypes converts numeric fields to float64 and the generic epoch and
	// interval fields to integers. A missing value means true.
	InferTypes *bool `json:"infer_types"`
}

// Infer reports whether type inference is enabled.
func (s Source) Infer() bool { return s.InferTypes == nil || *s.InferTypes }

// Schema selects the record schema.
type Schema struct {
	Mode string `json:"mode"`
	Path string `json:"path"`
}

// Sink selects the export target.
type Sink struct {
	Kind string `json:"kind"`

	// ChunkSize is the frame builder chunk size.
	ChunkSize int `json:"chunk_size"`

	// OutDir receives one CSV per record type for the frame sink.
	OutDir string `json:"out_dir"`

	Storage Storage `json:"storage"`
}

// Storage configures the table sink's backend.
type Storage struct {
	Kind string `json:"kind"`
	DSN  string `json:"dsn"`
}

// Decode reads a pipeline from r. Unknown fields are rejected so typos in
// pipeline files do not go unnoticed.
func Decode(r io.Reader) (Pipeline, error) {
	var p Pipeline
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode pipeline: %w", err)
	}
	return p, nil
}

// Load decodes the pipeline file at path.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open pipeline: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Normalize fills unset fields with their defaults.
func (p *Pipeline) Normalize() {
	if p.Job == "" {
		p.Job = DefaultJob
	}
	if p.Source.Binary == "" {
		p.Source.Binary = DefaultBinary
	}
	if len(p.Source.RecordTypes) == 0 {
		p.Source.RecordTypes = []string{"ALL"}
	}
	if p.Schema.Mode == "" {
		p.Schema.Mode = SchemaDefault
	}
	if p.Sink.Kind == "" {
		p.Sink.Kind = SinkTable
	}
	if p.Sink.ChunkSize == 0 {
		p.Sink.ChunkSize = DefaultChunkSize
	}
	if p.Sink.OutDir == "" {
		p.Sink.OutDir = DefaultOutDir
	}
	if p.Sink.Storage.Kind == "" {
		p.Sink.Storage.Kind = DefaultStorageKind
	}
	if p.Sink.Storage.DSN == "" && p.Sink.Storage.Kind == DefaultStorageKind {
		p.Sink.Storage.DSN = DefaultDSN
	}
}
