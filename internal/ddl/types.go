// Package ddl defines a small, backend-agnostic model for the tables the
// table writer creates, and a shared renderer for CREATE TABLE statements.
//
// Column types are carried as logical kinds (integer, real, text) derived from
// record values; backend packages (internal/storage/<kind>/ddl) map them onto
// their dialect and supply identifier quoting.
package ddl

import "fmt"

// Logical column kinds.
const (
	Integer = "integer"
	Real    = "real"
	Text    = "text"
)

// ColumnDef describes a single column in a table definition.
//
// Fields:
//   - Name: logical column name (unquoted; quoting happens at render time)
//   - SQLType: logical kind (Integer, Real, Text) or a dialect type
//   - Nullable: whether NULL is allowed
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the table name and an ordered list of columns.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// ColumnNames returns the column names in order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// KindOf returns the logical column kind for a record value.
func KindOf(v any) (string, error) {
	switch v.(type) {
	case int, int32, int64:
		return Integer, nil
	case float32, float64:
		return Real, nil
	case string:
		return Text, nil
	default:
		return "", fmt.Errorf("ddl: unsupported value type %T", v)
	}
}

// FromValues builds a TableDef named table whose column kinds follow the
// runtime kinds of vals. Columns carry no constraints.
func FromValues(table string, names []string, vals []any) (TableDef, error) {
	if len(names) != len(vals) {
		return TableDef{}, fmt.Errorf("ddl: %d column names for %d values", len(names), len(vals))
	}
	cols := make([]ColumnDef, len(vals))
	for i, v := range vals {
		kind, err := KindOf(v)
		if err != nil {
			return TableDef{}, fmt.Errorf("column %s: %w", names[i], err)
		}
		cols[i] = ColumnDef{Name: names[i], SQLType: kind, Nullable: true}
	}
	return TableDef{FQN: table, Columns: cols}, nil
}
