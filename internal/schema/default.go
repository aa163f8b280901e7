package schema

import (
	_ "embed"
	"sync"
)

//go:embed atop.schema
var atopSchema string

var (
	defaultOnce sync.Once
	defaultReg  *Registry
	defaultErr  error
)

// Text returns the predefined atop schema text.
func Text() string { return atopSchema }

// Default returns the registry parsed from the predefined atop schema. It is
// parsed once and shared; callers must not modify it.
func Default() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultReg, defaultErr = Parse(atopSchema)
	})
	return defaultReg, defaultErr
}
