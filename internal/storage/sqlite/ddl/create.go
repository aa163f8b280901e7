package ddl

import (
	"strings"

	gddl "atopetl/internal/ddl"
)

// Dialect renders SQLite DDL with double-quoted identifiers.
var Dialect = gddl.Dialect{Quote: quoteIdent, MapType: MapType}

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// Mark renders a positional bind marker.
func Mark(int) string { return "?" }

func quoteIdent(id string) string {
	return `"` + strings.ReplaceAll(id, `"`, `""`) + `"`
}
