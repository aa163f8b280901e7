package schema

import "fmt"

// MalformedSchemaError reports a schema block whose header line is not of the
// form "TAG - description".
type MalformedSchemaError struct {
	Block int    // 1-based block number
	Line  string // offending header line
}

func (e *MalformedSchemaError) Error() string {
	return fmt.Sprintf("schema: block %d: header %q lacks %q separator", e.Block, e.Line, separator)
}

// MismatchError reports a record whose value count disagrees with the schema
// entry for its tag. Want is -1 when the tag has no schema entry at all.
type MismatchError struct {
	Tag  string
	Got  int
	Want int
}

func (e *MismatchError) Error() string {
	if e.Want < 0 {
		return fmt.Sprintf("schema: no entry for record type %q", e.Tag)
	}
	return fmt.Sprintf("schema: record type %q has %d values, schema expects %d", e.Tag, e.Got, e.Want)
}
