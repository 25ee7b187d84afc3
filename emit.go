package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// columnClause is one builder call chain in a generated migration:
// constructor, its arguments, then modifiers in emission order.
type columnClause struct {
	Constructor string
	Args        []string // rendered Go expressions
	Modifiers   []modifier
}

type modifier struct {
	Name string
	Args []string
}

// tableClause is a table-level composite clause: Primary, Unique or Index
// over several columns.
type tableClause struct {
	Kind    string
	Columns []string
}

// tableDefinition is the structured form of one table's migration. The
// emitter decides ordering and precedence; the renderer decides text.
type tableDefinition struct {
	TableName    string
	GoName       string
	NeedsCitext  bool
	Columns      []columnClause
	TableClauses []tableClause
}

// buildTableDefinition composes type resolution, default normalization,
// and classified indexes into the structured definition of one table.
// Column clauses follow catalog ordinal order; modifier order within a
// clause is primary, nullability, default, then the index marker.
func buildTableDefinition(log zerolog.Logger, table TableDescriptor, columns map[string]*ColumnDescriptor, tableIndexes []IndexDescriptor) (tableDefinition, error) {
	def := tableDefinition{
		TableName: table.Name,
		GoName:    exportedName(table.Name),
	}

	ordered := make([]*ColumnDescriptor, 0, len(columns))
	for _, col := range columns {
		ordered = append(ordered, col)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].OrdinalPos < ordered[j].OrdinalPos })

	for _, col := range ordered {
		clause, needsCitext, err := buildColumnClause(log, table.Name, col)
		if err != nil {
			return tableDefinition{}, fmt.Errorf("table %s: %w", table.Name, err)
		}
		def.NeedsCitext = def.NeedsCitext || needsCitext
		def.Columns = append(def.Columns, clause)
	}

	for _, idx := range tableIndexes {
		switch {
		case idx.IsPrimary:
			def.TableClauses = append(def.TableClauses, tableClause{Kind: "Primary", Columns: stripQuotes(idx.Columns)})
		case idx.Unique:
			def.TableClauses = append(def.TableClauses, tableClause{Kind: "Unique", Columns: stripQuotes(idx.Columns)})
		case !idx.IsFunctional && !idx.IsPartial:
			def.TableClauses = append(def.TableClauses, tableClause{Kind: "Index", Columns: stripQuotes(idx.Columns)})
		default:
			log.Warn().
				Str("table", table.Name).
				Str("index", idx.Name).
				Msg("unknown index type, skipping it")
		}
	}
	return def, nil
}

func buildColumnClause(log zerolog.Logger, table string, col *ColumnDescriptor) (columnClause, bool, error) {
	res, err := resolveType(col)
	if err != nil {
		return columnClause{}, false, err
	}

	clause := columnClause{
		Constructor: constructorFor(res.SemanticType),
		Args:        []string{strconv.Quote(col.Name)},
	}
	needsCitext := false
	switch res.SemanticType {
	case typeString, typeDecimal:
		clause.Args = append(clause.Args, res.Args...)
	case typeSpecific:
		clause.Args = append(clause.Args, strconv.Quote(res.Args[0]))
		needsCitext = res.Args[0] == "citext"
	}

	// A primary column carries only the primary marker: the key implies
	// NOT NULL and uniqueness, and the sequence implies the default.
	if col.AttachedIndex != nil && col.AttachedIndex.IsPrimary {
		clause.Modifiers = append(clause.Modifiers, modifier{Name: "Primary"})
		return clause, needsCitext, nil
	}

	if col.Nullable {
		clause.Modifiers = append(clause.Modifiers, modifier{Name: "Nullable"})
	} else {
		clause.Modifiers = append(clause.Modifiers, modifier{Name: "NotNullable"})
	}

	d := normalizeDefault(log, table, col, res.SemanticType)
	if arg := defaultArg(d); arg != "" {
		clause.Modifiers = append(clause.Modifiers, modifier{Name: "Default", Args: []string{arg}})
	}

	if idx := col.AttachedIndex; idx != nil {
		if idx.Unique {
			clause.Modifiers = append(clause.Modifiers, modifier{Name: "Unique"})
		} else {
			clause.Modifiers = append(clause.Modifiers, modifier{Name: "Index"})
		}
	}
	return clause, needsCitext, nil
}

// defaultArg renders a normalized default as the Go expression passed to
// the Default modifier; empty means no modifier at all.
func defaultArg(d DefaultValue) string {
	switch d.Kind {
	case defaultString:
		return strconv.Quote(d.Str)
	case defaultNumber:
		return strconv.FormatFloat(d.Num, 'f', -1, 64)
	case defaultBool:
		return strconv.FormatBool(d.Bool)
	}
	return ""
}

func constructorFor(semanticType string) string {
	switch semanticType {
	case typeIncrements:
		return "Increments"
	case typeInteger:
		return "Integer"
	case typeString:
		return "String"
	case typeText:
		return "Text"
	case typeBoolean:
		return "Boolean"
	case typeFloat:
		return "Float"
	case typeDecimal:
		return "Decimal"
	case typeJsonb:
		return "Jsonb"
	case typeTimestamp:
		return "Timestamp"
	case typeSpecific:
		return "SpecificType"
	}
	return ""
}

func stripQuotes(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ReplaceAll(c, `"`, "")
	}
	return out
}
