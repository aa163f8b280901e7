// Package ddl contains MSSQL-specific helpers for generating DDL.
//
// It maps the logical kinds of record values into SQL Server types. Text
// columns use NVARCHAR(MAX) since atop command lines have no useful bound.
package ddl

import "strings"

// MapType maps a logical type string into a SQL Server column type.
// Unknown or empty kinds fall back to NVARCHAR(MAX).
func MapType(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "int", "integer", "bigint":
		return "BIGINT"
	case "float", "double", "real":
		return "FLOAT"
	default:
		return "NVARCHAR(MAX)"
	}
}
