package ddl

import (
	"strconv"
	"strings"

	gddl "atopetl/internal/ddl"
)

// Dialect renders Postgres DDL.
var Dialect = gddl.Dialect{Quote: pgIdent, MapType: MapType}

// BuildCreateTableSQL returns a Postgres CREATE TABLE statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.Render(t, Dialect)
}

// Mark renders the $n positional parameter.
func Mark(i int) string { return "$" + strconv.Itoa(i) }

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
