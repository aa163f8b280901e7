package ddl

import (
	"fmt"
	"strings"
)

// Dialect supplies the backend-specific parts of a CREATE TABLE statement.
type Dialect struct {
	// Quote quotes a single identifier.
	Quote func(string) string
	// MapType maps a logical kind to a column type.
	MapType func(string) string
}

// Render returns a CREATE TABLE statement for t in the given dialect:
//
//	CREATE TABLE <table> (
//	  <col1> <TYPE> [NOT NULL],
//	  <col2> <TYPE>
//	)
//
// The statement deliberately omits IF NOT EXISTS: writing into a table left
// over from an earlier run is an error.
func Render(t TableDef, d Dialect) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", name)
		}

		var sb strings.Builder
		sb.WriteString(d.Quote(name))
		sb.WriteByte(' ')
		sb.WriteString(d.MapType(typ))
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", QuoteFQN(fqn, d.Quote), strings.Join(cols, ",\n  ")), nil
}

// QuoteFQN quotes every dotted segment of fqn, skipping empty segments.
func QuoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, quote(p))
	}
	return strings.Join(out, ".")
}

// Placeholders returns n bind markers joined by ", "; mark renders the
// 1-based i-th marker.
func Placeholders(n int, mark func(i int) string) string {
	ps := make([]string, n)
	for i := range ps {
		ps[i] = mark(i + 1)
	}
	return strings.Join(ps, ", ")
}

// InsertSQL renders INSERT INTO <table> (<cols>) VALUES (<marks>).
func InsertSQL(table string, columns []string, d Dialect, mark func(i int) string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = d.Quote(c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		QuoteFQN(table, d.Quote), strings.Join(quoted, ", "), Placeholders(len(columns), mark))
}
