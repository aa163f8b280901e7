package atop

import (
	"fmt"
	"strings"
)

// RecordParseError reports a data line that failed tokenization, its
// type-specific pattern or type coercion. It is fatal for the whole run:
// skipping the line would desynchronize the sample and boot counters of
// every record that follows.
type RecordParseError struct {
	Path   string // log file being replayed
	LineNo int    // 1-based line number in the replay output
	Line   string // raw line
	Err    error
}

func (e *RecordParseError) Error() string {
	return fmt.Sprintf("atop: %s:%d: parse %q: %v", e.Path, e.LineNo, e.Line, e.Err)
}

func (e *RecordParseError) Unwrap() error { return e.Err }

// ReplayError reports a replay process that could not be started or that
// exited unsuccessfully after its output was drained.
type ReplayError struct {
	Path   string
	Err    error
	Stderr string
}

func (e *ReplayError) Error() string {
	msg := fmt.Sprintf("atop: replay %s: %v", e.Path, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ReplayError) Unwrap() error { return e.Err }
