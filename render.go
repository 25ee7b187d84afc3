package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const generatedHeader = "// Code generated by pgwright. DO NOT EDIT.\n\n"

// schemaImportPath is the builder package every generated file runs
// against.
const schemaImportPath = "github.com/pgwright/pgwright/schema"

// renderTableFile serializes one table definition into a Go source file
// holding its forward and reverse migration functions.
func renderTableFile(def tableDefinition) string {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("package tables\n\n")
	fmt.Fprintf(&b, "import (\n\t\"context\"\n\n\t%q\n)\n\n", schemaImportPath)

	fmt.Fprintf(&b, "// Create%s creates the %s table.\n", def.GoName, def.TableName)
	fmt.Fprintf(&b, "func Create%s(ctx context.Context, db schema.Execer) error {\n", def.GoName)
	if def.NeedsCitext {
		b.WriteString("\tif err := schema.CreateExtensionIfNotExists(ctx, db, \"citext\"); err != nil {\n")
		b.WriteString("\t\treturn err\n\t}\n")
	}
	fmt.Fprintf(&b, "\treturn schema.Create(ctx, db, %q, func(t *schema.Table) {\n", def.TableName)
	for _, col := range def.Columns {
		b.WriteString("\t\t" + renderColumnClause(col) + "\n")
	}
	for _, tc := range def.TableClauses {
		b.WriteString("\t\t" + renderTableClause(tc) + "\n")
	}
	b.WriteString("\t})\n}\n\n")

	fmt.Fprintf(&b, "// Drop%s drops the %s table.\n", def.GoName, def.TableName)
	fmt.Fprintf(&b, "func Drop%s(ctx context.Context, db schema.Execer) error {\n", def.GoName)
	fmt.Fprintf(&b, "\treturn schema.DropIfExists(ctx, db, %q)\n}\n", def.TableName)
	return b.String()
}

func renderColumnClause(c columnClause) string {
	var b strings.Builder
	fmt.Fprintf(&b, "t.%s(%s)", c.Constructor, strings.Join(c.Args, ", "))
	for _, m := range c.Modifiers {
		fmt.Fprintf(&b, ".%s(%s)", m.Name, strings.Join(m.Args, ", "))
	}
	return b.String()
}

func renderTableClause(tc tableClause) string {
	args := make([]string, len(tc.Columns))
	for i, c := range tc.Columns {
		args[i] = strconv.Quote(c)
	}
	return fmt.Sprintf("t.%s(%s)", tc.Kind, strings.Join(args, ", "))
}

// renderIndexFile serializes the aggregating migrations file: Up creates
// every table and Down drops every table, each dispatching all per-table
// operations through one errgroup.
func renderIndexFile(defs []tableDefinition, importBase string) string {
	var b strings.Builder
	b.WriteString(generatedHeader)
	b.WriteString("package migrations\n\n")

	if len(defs) == 0 {
		fmt.Fprintf(&b, "import (\n\t\"context\"\n\n\t%q\n)\n\n", schemaImportPath)
		b.WriteString("// Up creates every table in this set.\n")
		b.WriteString("func Up(ctx context.Context, db schema.Execer) error {\n\treturn nil\n}\n\n")
		b.WriteString("// Down drops every table in this set.\n")
		b.WriteString("func Down(ctx context.Context, db schema.Execer) error {\n\treturn nil\n}\n")
		return b.String()
	}

	imports := []string{
		schemaImportPath,
		"golang.org/x/sync/errgroup",
		importBase + "/tables",
	}
	sort.Strings(imports)
	b.WriteString("import (\n\t\"context\"\n\n")
	for _, p := range imports {
		fmt.Fprintf(&b, "\t%q\n", p)
	}
	b.WriteString(")\n\n")

	b.WriteString("// Up creates every table in this set concurrently.\n")
	b.WriteString("func Up(ctx context.Context, db schema.Execer) error {\n")
	b.WriteString("\tg, ctx := errgroup.WithContext(ctx)\n")
	for _, def := range defs {
		fmt.Fprintf(&b, "\tg.Go(func() error { return tables.Create%s(ctx, db) })\n", def.GoName)
	}
	b.WriteString("\treturn g.Wait()\n}\n\n")

	b.WriteString("// Down drops every table in this set concurrently.\n")
	b.WriteString("func Down(ctx context.Context, db schema.Execer) error {\n")
	b.WriteString("\tg, ctx := errgroup.WithContext(ctx)\n")
	for _, def := range defs {
		fmt.Fprintf(&b, "\tg.Go(func() error { return tables.Drop%s(ctx, db) })\n", def.GoName)
	}
	b.WriteString("\treturn g.Wait()\n}\n")
	return b.String()
}
