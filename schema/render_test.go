package schema

import (
	"strings"
	"testing"
)

func TestTableStatements(t *testing.T) {
	tbl := &Table{name: "users"}
	tbl.Increments("id").Primary()
	tbl.String("email", 255).NotNullable().Unique()
	tbl.Timestamp("created_at").Nullable()

	stmts := tbl.statements()
	if len(stmts) != 1 {
		t.Fatalf("statements len = %d, want 1 (%v)", len(stmts), stmts)
	}
	ddl := stmts[0]

	if !strings.HasPrefix(ddl, "CREATE TABLE users (") {
		t.Fatalf("unexpected CREATE TABLE prefix:\n%s", ddl)
	}
	if !strings.Contains(ddl, "id serial PRIMARY KEY") {
		t.Errorf("missing serial primary key clause:\n%s", ddl)
	}
	if !strings.Contains(ddl, "email varchar(255) NOT NULL UNIQUE") {
		t.Errorf("missing email clause:\n%s", ddl)
	}
	if !strings.Contains(ddl, "created_at timestamptz") {
		t.Errorf("missing created_at clause:\n%s", ddl)
	}
	if strings.Contains(ddl, "created_at timestamptz NOT NULL") {
		t.Errorf("nullable column must not carry NOT NULL:\n%s", ddl)
	}
}

func TestTableStatements_SecondaryIndexes(t *testing.T) {
	tbl := &Table{name: "posts"}
	tbl.Integer("author_id").NotNullable().Index()
	tbl.Index("author_id", "created_at")

	stmts := tbl.statements()
	if len(stmts) != 3 {
		t.Fatalf("statements len = %d, want 3 (%v)", len(stmts), stmts)
	}
	if stmts[1] != "CREATE INDEX posts_author_id_index ON posts (author_id)" {
		t.Errorf("single index = %q", stmts[1])
	}
	if stmts[2] != "CREATE INDEX posts_author_id_created_at_index ON posts (author_id, created_at)" {
		t.Errorf("composite index = %q", stmts[2])
	}
}

func TestTableStatements_CompositeConstraints(t *testing.T) {
	tbl := &Table{name: "memberships"}
	tbl.Integer("user_id").NotNullable()
	tbl.Integer("group_id").NotNullable()
	tbl.Primary("user_id", "group_id")
	tbl.Unique("group_id", "user_id")

	ddl := tbl.statements()[0]
	if !strings.Contains(ddl, "PRIMARY KEY (user_id, group_id)") {
		t.Errorf("missing composite primary key:\n%s", ddl)
	}
	if !strings.Contains(ddl, "UNIQUE (group_id, user_id)") {
		t.Errorf("missing composite unique:\n%s", ddl)
	}
}

func TestTableStatements_ReservedWords(t *testing.T) {
	tbl := &Table{name: "user"}
	tbl.Integer("order").NotNullable()

	ddl := tbl.statements()[0]
	if !strings.Contains(ddl, `CREATE TABLE "user"`) {
		t.Errorf("table name should be quoted:\n%s", ddl)
	}
	if !strings.Contains(ddl, `"order" integer`) {
		t.Errorf("column name should be quoted:\n%s", ddl)
	}
}

func TestTableStatements_Defaults(t *testing.T) {
	tbl := &Table{name: "settings"}
	tbl.String("status").NotNullable().Default("active")
	tbl.Decimal("rate", 8).NotNullable().Default(0.05)
	tbl.Boolean("enabled").NotNullable().Default(true)
	tbl.Integer("attempts").NotNullable().Default(3)

	ddl := tbl.statements()[0]
	for _, want := range []string{
		"status varchar(255) NOT NULL DEFAULT 'active'",
		"rate numeric(8) NOT NULL DEFAULT 0.05",
		"enabled boolean NOT NULL DEFAULT TRUE",
		"attempts integer NOT NULL DEFAULT 3",
	} {
		if !strings.Contains(ddl, want) {
			t.Errorf("missing %q in:\n%s", want, ddl)
		}
	}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"active", "'active'"},
		{"it's", "'it''s'"},
		{true, "TRUE"},
		{false, "FALSE"},
		{42, "42"},
		{int64(7), "7"},
		{0.05, "0.05"},
		{nil, "NULL"},
	}

	for _, tt := range tests {
		if got := Literal(tt.in); got != tt.want {
			t.Errorf("Literal(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTypeSQL(t *testing.T) {
	tests := []struct {
		kind      string
		length    int
		precision int
		want      string
	}{
		{"integer", 0, 0, "integer"},
		{"string", 150, 0, "varchar(150)"},
		{"string", 0, 0, "varchar(255)"},
		{"text", 0, 0, "text"},
		{"boolean", 0, 0, "boolean"},
		{"float", 0, 0, "real"},
		{"decimal", 0, 10, "numeric(10)"},
		{"decimal", 0, 0, "numeric"},
		{"jsonb", 0, 0, "jsonb"},
		{"timestamp", 0, 0, "timestamptz"},
	}

	for _, tt := range tests {
		got, err := TypeSQL(tt.kind, tt.length, tt.precision)
		if err != nil {
			t.Fatalf("TypeSQL(%q) error: %v", tt.kind, err)
		}
		if got != tt.want {
			t.Errorf("TypeSQL(%q, %d, %d) = %q, want %q", tt.kind, tt.length, tt.precision, got, tt.want)
		}
	}

	if _, err := TypeSQL("geometry", 0, 0); err == nil {
		t.Fatal("expected error for unsupported kind")
	}
}

func TestDefaultLiteral(t *testing.T) {
	tests := []struct {
		kind    string
		value   string
		want    string
		wantErr bool
	}{
		{"string", "active", "'active'", false},
		{"integer", "42", "42", false},
		{"decimal", "0.05", "0.05", false},
		{"integer", "not_a_number", "", true},
		{"boolean", "true", "TRUE", false},
		{"boolean", "FALSE", "FALSE", false},
		{"boolean", "yes", "", true},
	}

	for _, tt := range tests {
		got, err := DefaultLiteral(tt.kind, tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("DefaultLiteral(%q, %q): expected error", tt.kind, tt.value)
			}
			continue
		}
		if err != nil {
			t.Fatalf("DefaultLiteral(%q, %q) error: %v", tt.kind, tt.value, err)
		}
		if got != tt.want {
			t.Errorf("DefaultLiteral(%q, %q) = %q, want %q", tt.kind, tt.value, got, tt.want)
		}
	}
}

func TestAlterSQL(t *testing.T) {
	table := Qualify("public", "users")

	if got := AddColumnSQL(table, "age", "integer", true, "0"); got != "ALTER TABLE public.users ADD COLUMN age integer DEFAULT 0 NOT NULL" {
		t.Errorf("AddColumnSQL = %q", got)
	}
	if got := AddColumnSQL(table, "note", "text", false, ""); got != "ALTER TABLE public.users ADD COLUMN note text" {
		t.Errorf("AddColumnSQL = %q", got)
	}
	if got := AlterColumnTypeSQL(table, "email", "varchar(320)"); got != "ALTER TABLE public.users ALTER COLUMN email TYPE varchar(320)" {
		t.Errorf("AlterColumnTypeSQL = %q", got)
	}
	if got := SetDefaultSQL(table, "status", "'active'"); got != "ALTER TABLE public.users ALTER COLUMN status SET DEFAULT 'active'" {
		t.Errorf("SetDefaultSQL = %q", got)
	}
	if got := DropDefaultSQL(table, "status"); got != "ALTER TABLE public.users ALTER COLUMN status DROP DEFAULT" {
		t.Errorf("DropDefaultSQL = %q", got)
	}
	if got := SetNotNullSQL(table, "email"); got != "ALTER TABLE public.users ALTER COLUMN email SET NOT NULL" {
		t.Errorf("SetNotNullSQL = %q", got)
	}
	if got := DropNotNullSQL(table, "email"); got != "ALTER TABLE public.users ALTER COLUMN email DROP NOT NULL" {
		t.Errorf("DropNotNullSQL = %q", got)
	}
}
