package repos

import (
	"strings"
	"testing"
)

func TestSchemaStatementsIgnoreCommentSemicolons(t *testing.T) {
	schema := `
CREATE TABLE a(
  x TEXT, -- one; two; three
  y TEXT
);
-- trailing note; with a semicolon
CREATE INDEX IF NOT EXISTS idx_a_x ON a(x);
`
	got := schemaStatements(schema)
	if len(got) != 2 {
		t.Fatalf("expected 2 statements, got %d: %q", len(got), got)
	}
	if !strings.HasPrefix(got[0], "CREATE TABLE a(") || !strings.HasSuffix(got[0], ")") || !strings.Contains(got[0], "y TEXT") {
		t.Fatalf("table statement cut short: %q", got[0])
	}
	for _, schema := range []string{sqliteSchema, postgresSchema} {
		for _, stmt := range schemaStatements(schema) {
			if strings.Contains(stmt, "--") {
				t.Fatalf("comment left in statement: %q", stmt)
			}
		}
	}
}
