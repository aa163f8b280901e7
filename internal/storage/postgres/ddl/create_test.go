package ddl

import (
	"testing"

	gddl "atopetl/internal/ddl"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind string
		want string
	}{
		{"integer", "BIGINT"},
		{" INT ", "BIGINT"},
		{"real", "DOUBLE PRECISION"},
		{"double", "DOUBLE PRECISION"},
		{"text", "TEXT"},
		{"timestamp", "TEXT"},
	}
	for _, tt := range tests {
		if got := MapType(tt.kind); got != tt.want {
			t.Errorf("MapType(%q) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

// TestBuildCreateTableSQL covers schema-qualified names and quote escaping.
func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	got, err := BuildCreateTableSQL(gddl.TableDef{
		FQN: "atop.PRG",
		Columns: []gddl.ColumnDef{
			{Name: "sample_n", SQLType: gddl.Integer, Nullable: true},
			{Name: `odd"col`, SQLType: gddl.Text, Nullable: true},
			{Name: "nice", SQLType: gddl.Real},
		},
	})
	if err != nil {
		t.Fatalf("BuildCreateTableSQL() error = %v", err)
	}
	want := "CREATE TABLE \"atop\".\"PRG\" (\n  \"sample_n\" BIGINT,\n  \"odd\"\"col\" TEXT,\n  \"nice\" DOUBLE PRECISION NOT NULL\n)"
	if got != want {
		t.Fatalf("BuildCreateTableSQL() =\n%s\nwant\n%s", got, want)
	}
}

func TestMark(t *testing.T) {
	t.Parallel()

	if got := gddl.Placeholders(3, Mark); got != "$1, $2, $3" {
		t.Fatalf("Placeholders = %q", got)
	}
}
