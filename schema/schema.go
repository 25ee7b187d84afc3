// Package schema is the runtime for pgwright-generated migrations. It
// exposes a small fluent table builder in the style of a migration DSL:
// generated files declare columns and indexes against a Table and the
// package renders and executes the matching DDL.
package schema

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer is the minimal execution surface schema operations need.
// *pgxpool.Pool, *pgx.Conn and pgx.Tx all satisfy it.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Table collects column and index declarations for one CREATE TABLE.
type Table struct {
	name    string
	columns []*Column
	primary []string
	uniques [][]string
	indexes [][]string
}

// Column is a single column declaration with chainable modifiers.
type Column struct {
	name    string
	typeSQL string
	primary bool
	unique  bool
	indexed bool
	notNull bool
	def     string
}

// Create builds a table declaration, renders it, and executes the
// resulting statements in order.
func Create(ctx context.Context, db Execer, name string, build func(*Table)) error {
	t := &Table{name: name}
	if build != nil {
		build(t)
	}
	for _, stmt := range t.statements() {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create table %s: %w\nSQL: %s", name, err, stmt)
		}
	}
	return nil
}

// DropIfExists drops the named table when present.
func DropIfExists(ctx context.Context, db Execer, name string) error {
	stmt := "DROP TABLE IF EXISTS " + Ident(name)
	if _, err := db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("drop table %s: %w", name, err)
	}
	return nil
}

// CreateExtensionIfNotExists installs an extension when it is missing.
func CreateExtensionIfNotExists(ctx context.Context, db Execer, name string) error {
	stmt := "CREATE EXTENSION IF NOT EXISTS " + Ident(name)
	if _, err := db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create extension %s: %w", name, err)
	}
	return nil
}

func (t *Table) add(name, typeSQL string) *Column {
	c := &Column{name: name, typeSQL: typeSQL}
	t.columns = append(t.columns, c)
	return c
}

// Increments declares an auto-incrementing integer column. It renders as
// serial rather than an identity column so that a database built from
// generated migrations introspects back to Increments: serial leaves a
// nextval() default in the catalog, identity columns do not.
func (t *Table) Increments(name string) *Column {
	return t.add(name, "serial")
}

// Integer declares a plain integer column.
func (t *Table) Integer(name string) *Column {
	return t.add(name, "integer")
}

// String declares a varchar column. The optional length defaults to 255.
func (t *Table) String(name string, length ...int) *Column {
	n := 255
	if len(length) > 0 {
		n = length[0]
	}
	return t.add(name, fmt.Sprintf("varchar(%d)", n))
}

// Text declares an unbounded text column.
func (t *Table) Text(name string) *Column {
	return t.add(name, "text")
}

// Boolean declares a boolean column.
func (t *Table) Boolean(name string) *Column {
	return t.add(name, "boolean")
}

// Float declares a single-precision floating point column.
func (t *Table) Float(name string) *Column {
	return t.add(name, "real")
}

// Decimal declares a numeric column, optionally with a precision.
func (t *Table) Decimal(name string, precision ...int) *Column {
	if len(precision) > 0 {
		return t.add(name, fmt.Sprintf("numeric(%d)", precision[0]))
	}
	return t.add(name, "numeric")
}

// Jsonb declares a jsonb column.
func (t *Table) Jsonb(name string) *Column {
	return t.add(name, "jsonb")
}

// Timestamp declares a timezone-aware timestamp column.
func (t *Table) Timestamp(name string) *Column {
	return t.add(name, "timestamptz")
}

// SpecificType declares a column with a verbatim SQL type, e.g. an enum
// or extension type such as citext.
func (t *Table) SpecificType(name, sqlType string) *Column {
	return t.add(name, sqlType)
}

// Primary declares a composite primary key over the given columns.
func (t *Table) Primary(columns ...string) {
	t.primary = columns
}

// Unique declares a composite unique constraint over the given columns.
func (t *Table) Unique(columns ...string) {
	t.uniques = append(t.uniques, columns)
}

// Index declares a composite secondary index over the given columns.
func (t *Table) Index(columns ...string) {
	t.indexes = append(t.indexes, columns)
}

// Primary marks the column as the table's primary key.
func (c *Column) Primary() *Column {
	c.primary = true
	return c
}

// Unique adds an inline unique constraint to the column.
func (c *Column) Unique() *Column {
	c.unique = true
	return c
}

// Index requests a secondary index on the column.
func (c *Column) Index() *Column {
	c.indexed = true
	return c
}

// Nullable marks the column nullable. Columns are nullable unless
// NotNullable is called, so this mainly documents intent in generated code.
func (c *Column) Nullable() *Column {
	c.notNull = false
	return c
}

// NotNullable adds a NOT NULL constraint.
func (c *Column) NotNullable() *Column {
	c.notNull = true
	return c
}

// Default sets the column default. Strings become quoted SQL literals;
// bools and numbers are rendered bare.
func (c *Column) Default(v any) *Column {
	c.def = Literal(v)
	return c
}
