package ddl

import (
	"strconv"
	"strings"

	gddl "atopetl/internal/ddl"
)

// Dialect renders SQL Server DDL with bracketed identifiers.
var Dialect = gddl.Dialect{Quote: msIdent, MapType: MapType}

// BuildCreateTableSQL returns a SQL Server CREATE TABLE statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// Mark renders the @pN named parameter go-mssqldb binds positionally.
func Mark(i int) string { return "@p" + strconv.Itoa(i) }

// msIdent quotes a single identifier with [brackets], escaping ].
func msIdent(id string) string { return "[" + strings.ReplaceAll(id, "]", "]]") + "]" }
