// Package ddl contains SQLite-specific helpers for generating DDL.
//
// It maps the logical kinds of record values into SQLite column types. SQLite
// uses type affinity, so the mapping stays with the canonical affinities.
package ddl

import "strings"

// MapType maps a logical type string into a SQLite column type:
//   - integer-ish types -> INTEGER
//   - floating point    -> REAL
//   - others            -> TEXT
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "INTEGER"
	case "float", "double", "real":
		return "REAL"
	default:
		return "TEXT"
	}
}
