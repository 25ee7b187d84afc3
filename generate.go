package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// runGenerate introspects the target schema and regenerates the migration
// source tree: one file per table under <dir>/tables plus an aggregating
// <dir>/index.go. All tables are processed concurrently, and rendered
// content is held in memory until every table has succeeded, so a failed
// run leaves the output directory untouched.
func runGenerate(ctx context.Context, log zerolog.Logger, db querier, cfg *Config) error {
	reader := newCatalogReader(db, cfg.Database.Schema, cfg.Generate.Exclude)

	tables, err := reader.listTables(ctx)
	if err != nil {
		return fmt.Errorf("list tables: %w", err)
	}
	log.Info().Str("schema", cfg.Database.Schema).Int("tables", len(tables)).Msg("introspecting schema")

	objs, err := reader.listOtherObjects(ctx)
	if err != nil {
		return fmt.Errorf("list schema objects: %w", err)
	}
	for _, w := range objs.warnings() {
		log.Warn().Msg(w)
	}

	importBase := cfg.Generate.ImportBase
	if importBase == "" {
		importBase, err = deriveImportBase(cfg)
		if err != nil {
			return err
		}
	}

	defs := make([]tableDefinition, len(tables))
	g, gctx := errgroup.WithContext(ctx)
	for i, table := range tables {
		i, table := i, table
		g.Go(func() error {
			columns, err := reader.listColumns(gctx, table.Name)
			if err != nil {
				return fmt.Errorf("introspect columns for %s: %w", table.Name, err)
			}
			indexes, err := reader.listIndexes(gctx, table.Name)
			if err != nil {
				return fmt.Errorf("introspect indexes for %s: %w", table.Name, err)
			}
			tableLevel := classifyIndexes(log, table.Name, columns, indexes)
			def, err := buildTableDefinition(log, table, columns, tableLevel)
			if err != nil {
				return err
			}
			defs[i] = def
			log.Info().Str("table", table.Name).Int("columns", len(columns)).Int("indexes", len(indexes)).Msg("table definition built")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tablesDir := filepath.Join(cfg.Generate.Dir, "tables")
	if err := os.MkdirAll(tablesDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", tablesDir, err)
	}
	for _, def := range defs {
		path := filepath.Join(tablesDir, "create_"+fileSafeName(def.TableName)+".go")
		if err := os.WriteFile(path, []byte(renderTableFile(def)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	indexPath := filepath.Join(cfg.Generate.Dir, "index.go")
	if err := os.WriteFile(indexPath, []byte(renderIndexFile(defs, importBase)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", indexPath, err)
	}

	log.Info().Int("tables", len(defs)).Str("dir", cfg.Generate.Dir).Msg("migrations generated")
	return nil
}

// deriveImportBase computes the generated package's import path from the
// module line of the project's go.mod joined with the output directory,
// for projects that do not set generate.import_base.
func deriveImportBase(cfg *Config) (string, error) {
	goModPath := filepath.Join(cfg.configDir, "go.mod")
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return "", fmt.Errorf("generate.import_base is not set and %s is unreadable: %w", goModPath, err)
	}
	module := modulePath(data)
	if module == "" {
		return "", fmt.Errorf("generate.import_base is not set and %s has no module line", goModPath)
	}
	rel, err := filepath.Rel(cfg.configDir, cfg.Generate.Dir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("generate.import_base is not set and %s is outside the module", cfg.Generate.Dir)
	}
	return module + "/" + filepath.ToSlash(rel), nil
}

// modulePath extracts the module path from go.mod contents.
func modulePath(gomod []byte) string {
	for _, line := range strings.Split(string(gomod), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "module" {
			return strings.Trim(fields[1], `"`)
		}
	}
	return ""
}

// exportedName derives the Go identifier for a table: snake_case becomes
// CamelCase, characters that cannot appear in an identifier are dropped.
func exportedName(table string) string {
	var b strings.Builder
	upper := true
	for _, r := range table {
		switch {
		case r == '_' || r == '-' || r == ' ':
			upper = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if upper {
				b.WriteRune(unicode.ToUpper(r))
				upper = false
			} else {
				b.WriteRune(r)
			}
		default:
			upper = true
		}
	}
	name := b.String()
	if name == "" {
		return "Table"
	}
	if r, _ := utf8.DecodeRuneInString(name); !unicode.IsLetter(r) {
		name = "Table" + name
	}
	return name
}

// fileSafeName lowercases a table name and squashes anything outside
// [a-z0-9_] so it is usable in a file name.
func fileSafeName(table string) string {
	var b strings.Builder
	for _, r := range table {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
