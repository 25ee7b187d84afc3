package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pgwright/pgwright/schema"
)

// applyAlters runs the configured column batch against the live schema:
// adds first, then updates, one statement at a time. These are online
// changes, so there is no wrapping transaction; the first failure aborts
// and everything already applied stays applied.
func applyAlters(ctx context.Context, log zerolog.Logger, db schema.Execer, schemaName string, alter AlterConfig) error {
	for _, add := range alter.Add {
		stmts, err := addColumnStatements(schemaName, add)
		if err != nil {
			return err
		}
		if err := execAll(ctx, db, stmts); err != nil {
			return err
		}
		log.Info().Str("table", add.Table).Str("column", add.Name).Msg("column added")
	}
	for _, upd := range alter.Update {
		stmts, err := updateColumnStatements(schemaName, upd)
		if err != nil {
			return err
		}
		if err := execAll(ctx, db, stmts); err != nil {
			return err
		}
		log.Info().Str("table", upd.Table).Str("column", upd.Name).Msg("column updated")
	}
	return nil
}

func execAll(ctx context.Context, db schema.Execer, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

// addColumnStatements renders the DDL for one [[alter.add]] entry.
func addColumnStatements(schemaName string, add AlterColumn) ([]string, error) {
	if add.Table == "" || add.Name == "" {
		return nil, fmt.Errorf("alter.add needs table and name")
	}
	if add.Type == "" {
		return nil, fmt.Errorf("alter.add %s.%s: type is required", add.Table, add.Name)
	}
	typeSQL, err := schema.TypeSQL(add.Type, add.Length, add.Precision)
	if err != nil {
		return nil, fmt.Errorf("alter.add %s.%s: %w", add.Table, add.Name, err)
	}

	notNull := add.Nullable != nil && !*add.Nullable
	defaultLit := ""
	if add.Default != nil {
		defaultLit, err = schema.DefaultLiteral(add.Type, *add.Default)
		if err != nil {
			return nil, fmt.Errorf("alter.add %s.%s: %w", add.Table, add.Name, err)
		}
	}

	table := schema.Qualify(schemaName, add.Table)
	return []string{schema.AddColumnSQL(table, add.Name, typeSQL, notNull, defaultLit)}, nil
}

// updateColumnStatements renders one ALTER TABLE per changed aspect of an
// [[alter.update]] entry.
func updateColumnStatements(schemaName string, upd AlterColumn) ([]string, error) {
	if upd.Table == "" || upd.Name == "" {
		return nil, fmt.Errorf("alter.update needs table and name")
	}
	table := schema.Qualify(schemaName, upd.Table)
	var stmts []string

	if upd.Type != "" {
		typeSQL, err := schema.TypeSQL(upd.Type, upd.Length, upd.Precision)
		if err != nil {
			return nil, fmt.Errorf("alter.update %s.%s: %w", upd.Table, upd.Name, err)
		}
		stmts = append(stmts, schema.AlterColumnTypeSQL(table, upd.Name, typeSQL))
	}
	if upd.Default != nil {
		if *upd.Default == "" {
			stmts = append(stmts, schema.DropDefaultSQL(table, upd.Name))
		} else {
			kind := upd.Type
			if kind == "" {
				kind = "string"
			}
			lit, err := schema.DefaultLiteral(kind, *upd.Default)
			if err != nil {
				return nil, fmt.Errorf("alter.update %s.%s: %w", upd.Table, upd.Name, err)
			}
			stmts = append(stmts, schema.SetDefaultSQL(table, upd.Name, lit))
		}
	}
	if upd.Nullable != nil {
		if *upd.Nullable {
			stmts = append(stmts, schema.DropNotNullSQL(table, upd.Name))
		} else {
			stmts = append(stmts, schema.SetNotNullSQL(table, upd.Name))
		}
	}

	if len(stmts) == 0 {
		return nil, fmt.Errorf("alter.update %s.%s: nothing to change", upd.Table, upd.Name)
	}
	return stmts, nil
}
