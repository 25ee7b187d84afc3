package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/pgwright/pgwright/schema"
)

// runSeeds executes every seed file in the directory in lexical filename
// order. .sql files run statement by statement; .yaml files declare rows
// to insert per table. The first failing statement aborts the run.
func runSeeds(ctx context.Context, log zerolog.Logger, db schema.Execer, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read seed dir: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)
		switch strings.ToLower(filepath.Ext(name)) {
		case ".sql":
			if err := runSQLSeed(ctx, log, db, path, name); err != nil {
				return err
			}
		case ".yaml", ".yml":
			if err := runYAMLSeed(ctx, log, db, path, name); err != nil {
				return err
			}
		default:
			log.Debug().Str("file", name).Msg("skipping non-seed file")
		}
	}
	return nil
}

func runSQLSeed(ctx context.Context, log zerolog.Logger, db schema.Execer, path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}

	stmts := splitStatements(string(data))
	log.Info().Str("file", name).Int("statements", len(stmts)).Msg("running sql seed")
	for i, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("seed %s: statement %d: %w\nSQL: %s", name, i+1, err, stmt)
		}
	}
	return nil
}

func runYAMLSeed(ctx context.Context, log zerolog.Logger, db schema.Execer, path, name string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}

	var fixtures map[string][]map[string]any
	if err := yaml.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("seed %s: %w", name, err)
	}

	tables := make([]string, 0, len(fixtures))
	for t := range fixtures {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	for _, table := range tables {
		rows := fixtures[table]
		for i, row := range rows {
			stmt, args := insertStatement(table, row)
			if _, err := db.Exec(ctx, stmt, args...); err != nil {
				return fmt.Errorf("seed %s: %s row %d: %w", name, table, i+1, err)
			}
		}
		log.Info().Str("file", name).Str("table", table).Int("rows", len(rows)).Msg("seeded table")
	}
	return nil
}

// insertStatement builds a parameterized single-row INSERT with columns
// in sorted order so generated statements are deterministic.
func insertStatement(table string, row map[string]any) (string, []any) {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	if len(cols) == 0 {
		return "INSERT INTO " + schema.Ident(table) + " DEFAULT VALUES", nil
	}

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		quoted[i] = schema.Ident(c)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = row[c]
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		schema.Ident(table), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	return stmt, args
}

// splitStatements splits SQL text on semicolons, keeping single-quoted
// strings and dollar-quoted bodies intact and dropping -- line comments.
func splitStatements(sql string) []string {
	var stmts []string
	var current strings.Builder
	inQuote := false
	dollarTag := ""

	for i := 0; i < len(sql); i++ {
		c := sql[i]
		switch {
		case dollarTag != "":
			current.WriteByte(c)
			if c == '$' && strings.HasSuffix(current.String(), dollarTag) {
				dollarTag = ""
			}
		case inQuote:
			current.WriteByte(c)
			if c == '\'' {
				// Handle escaped quotes ('')
				if i+1 < len(sql) && sql[i+1] == '\'' {
					current.WriteByte(sql[i+1])
					i++
				} else {
					inQuote = false
				}
			}
		case c == '\'':
			inQuote = true
			current.WriteByte(c)
		case c == '$':
			if tag, ok := dollarQuoteTag(sql[i:]); ok {
				dollarTag = tag
				current.WriteString(tag)
				i += len(tag) - 1
			} else {
				current.WriteByte(c)
			}
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
		case c == ';':
			if s := strings.TrimSpace(current.String()); s != "" {
				stmts = append(stmts, s)
			}
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	// Trailing statement without semicolon
	if s := strings.TrimSpace(current.String()); s != "" {
		stmts = append(stmts, s)
	}

	return stmts
}

// dollarQuoteTag reads a $tag$ opener at the start of s.
func dollarQuoteTag(s string) (string, bool) {
	if len(s) < 2 || s[0] != '$' {
		return "", false
	}
	for i := 1; i < len(s); i++ {
		c := s[i]
		if c == '$' {
			return s[:i+1], true
		}
		if c != '_' && !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') && !(c >= '0' && c <= '9') {
			return "", false
		}
	}
	return "", false
}
