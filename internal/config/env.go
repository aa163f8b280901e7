package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds environment overrides. Set values win over the pipeline file.
type Env struct {
	LogRoot     string `env:"ATOPETL_LOG_ROOT"`
	Binary      string `env:"ATOPETL_ATOP_BINARY"`
	SchemaPath  string `env:"ATOPETL_SCHEMA_PATH"`
	StorageKind string `env:"ATOPETL_STORAGE_KIND"`
	DSN         string `env:"ATOPETL_DSN"`
	OutDir      string `env:"ATOPETL_OUT_DIR"`

	PushgatewayURL string   `env:"ATOPETL_PUSHGATEWAY_URL"`
	DatadogAddr    string   `env:"ATOPETL_DATADOG_ADDR"`
	DatadogTags    []string `env:"ATOPETL_DATADOG_TAGS" envSeparator:","`
}

// LoadEnv reads Env from the process environment.
func LoadEnv() (Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply overlays the set values of e onto p. A schema path also switches the
// schema mode to "file".
func (e Env) Apply(p *Pipeline) {
	if e.LogRoot != "" {
		p.Source.Root = e.LogRoot
	}
	if e.Binary != "" {
		p.Source.Binary = e.Binary
	}
	if e.SchemaPath != "" {
		p.Schema.Mode = SchemaFile
		p.Schema.Path = e.SchemaPath
	}
	if e.StorageKind != "" {
		p.Sink.Storage.Kind = e.StorageKind
	}
	if e.DSN != "" {
		p.Sink.Storage.DSN = e.DSN
	}
	if e.OutDir != "" {
		p.Sink.OutDir = e.OutDir
	}
}
