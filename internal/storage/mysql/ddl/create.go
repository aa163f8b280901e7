// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "atopetl/internal/ddl"
)

// Dialect renders MySQL DDL with backtick-quoted identifiers.
var Dialect = gddl.Dialect{Quote: myIdent, MapType: MapType}

// MapType maps a logical kind into a MySQL column type.
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "float", "double", "real":
		return "DOUBLE"
	default:
		return "TEXT"
	}
}

// BuildCreateTableSQL returns a MySQL CREATE TABLE statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// Mark renders the positional ? marker.
func Mark(int) string { return "?" }

func myIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
