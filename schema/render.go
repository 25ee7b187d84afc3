package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// statements renders the table declaration as an ordered list of DDL
// statements: one CREATE TABLE followed by any secondary CREATE INDEX.
func (t *Table) statements() []string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", Ident(t.name))

	var lines []string
	for _, col := range t.columns {
		lines = append(lines, "  "+col.definition())
	}
	if len(t.primary) > 0 {
		lines = append(lines, "  PRIMARY KEY ("+columnList(t.primary)+")")
	}
	for _, cols := range t.uniques {
		lines = append(lines, "  UNIQUE ("+columnList(cols)+")")
	}
	b.WriteString(strings.Join(lines, ",\n"))
	b.WriteString("\n)")

	stmts := []string{b.String()}
	for _, col := range t.columns {
		if col.indexed {
			stmts = append(stmts, t.indexStatement([]string{col.name}))
		}
	}
	for _, cols := range t.indexes {
		stmts = append(stmts, t.indexStatement(cols))
	}
	return stmts
}

// definition renders one column line inside CREATE TABLE.
func (c *Column) definition() string {
	var b strings.Builder
	b.WriteString(Ident(c.name))
	b.WriteByte(' ')
	b.WriteString(c.typeSQL)
	if c.primary {
		b.WriteString(" PRIMARY KEY")
	}
	if c.notNull && !c.primary {
		b.WriteString(" NOT NULL")
	}
	if c.def != "" {
		b.WriteString(" DEFAULT " + c.def)
	}
	if c.unique {
		b.WriteString(" UNIQUE")
	}
	return b.String()
}

func (t *Table) indexStatement(cols []string) string {
	name := t.name + "_" + strings.Join(cols, "_") + "_index"
	return fmt.Sprintf("CREATE INDEX %s ON %s (%s)", Ident(name), Ident(t.name), columnList(cols))
}

// columnList joins column names with proper quoting.
func columnList(cols []string) string {
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = Ident(c)
	}
	return strings.Join(quoted, ", ")
}

// Literal renders a Go value as a SQL literal. Strings are quoted with
// single quotes escaped; numbers and booleans render bare; nil renders
// as NULL.
func Literal(v any) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(x, "'", "''") + "'"
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return "'" + strings.ReplaceAll(fmt.Sprint(x), "'", "''") + "'"
	}
}

// TypeSQL maps a declarative column kind to its SQL type. Length applies
// to string columns, precision to decimal columns.
func TypeSQL(kind string, length, precision int) (string, error) {
	switch kind {
	case "integer":
		return "integer", nil
	case "string":
		if length <= 0 {
			length = 255
		}
		return fmt.Sprintf("varchar(%d)", length), nil
	case "text":
		return "text", nil
	case "boolean":
		return "boolean", nil
	case "float":
		return "real", nil
	case "decimal":
		if precision > 0 {
			return fmt.Sprintf("numeric(%d)", precision), nil
		}
		return "numeric", nil
	case "jsonb":
		return "jsonb", nil
	case "timestamp":
		return "timestamptz", nil
	default:
		return "", fmt.Errorf("unsupported column kind %q", kind)
	}
}

// DefaultLiteral renders a textual default value as a SQL literal for the
// given column kind. Numeric and boolean kinds are validated; everything
// else becomes a quoted string literal.
func DefaultLiteral(kind, value string) (string, error) {
	switch kind {
	case "integer", "float", "decimal":
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return "", fmt.Errorf("invalid %s default %q", kind, value)
		}
		return value, nil
	case "boolean":
		switch strings.ToLower(value) {
		case "true":
			return "TRUE", nil
		case "false":
			return "FALSE", nil
		default:
			return "", fmt.Errorf("invalid boolean default %q", value)
		}
	default:
		return Literal(value), nil
	}
}

// AddColumnSQL renders ALTER TABLE ... ADD COLUMN. The table reference
// must already be rendered (see Qualify); defaultLiteral may be empty.
func AddColumnSQL(table, column, typeSQL string, notNull bool, defaultLiteral string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ALTER TABLE %s ADD COLUMN %s %s", table, Ident(column), typeSQL)
	if defaultLiteral != "" {
		b.WriteString(" DEFAULT " + defaultLiteral)
	}
	if notNull {
		b.WriteString(" NOT NULL")
	}
	return b.String()
}

// AlterColumnTypeSQL renders ALTER TABLE ... ALTER COLUMN ... TYPE.
func AlterColumnTypeSQL(table, column, typeSQL string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s TYPE %s", table, Ident(column), typeSQL)
}

// SetDefaultSQL renders ALTER TABLE ... SET DEFAULT.
func SetDefaultSQL(table, column, defaultLiteral string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", table, Ident(column), defaultLiteral)
}

// DropDefaultSQL renders ALTER TABLE ... DROP DEFAULT.
func DropDefaultSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", table, Ident(column))
}

// SetNotNullSQL renders ALTER TABLE ... SET NOT NULL.
func SetNotNullSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", table, Ident(column))
}

// DropNotNullSQL renders ALTER TABLE ... DROP NOT NULL.
func DropNotNullSQL(table, column string) string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", table, Ident(column))
}
