package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/pgwright/pgwright/schema"
)

// adminExecutor is the execution surface lifecycle operations need.
type adminExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// maintenanceConfig rewrites the configured DSN to target the postgres
// maintenance database and returns the database the DSN originally named.
// Lifecycle DDL cannot run against the database it operates on.
func maintenanceConfig(dsn string) (*pgx.ConnConfig, string, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, "", fmt.Errorf("parse dsn: %w", err)
	}
	target := cfg.Database
	if target == "" {
		return nil, "", fmt.Errorf("dsn names no database")
	}
	cfg.Database = "postgres"
	return cfg, target, nil
}

// adminConnect opens the maintenance connection for lifecycle operations.
func adminConnect(ctx context.Context, dsn string) (*pgx.Conn, string, error) {
	cfg, target, err := maintenanceConfig(dsn)
	if err != nil {
		return nil, "", err
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, "", fmt.Errorf("connect maintenance database: %w", err)
	}
	return conn, target, nil
}

func createDatabase(ctx context.Context, log zerolog.Logger, db adminExecutor, name string) error {
	if err := checkDatabaseName(name); err != nil {
		return err
	}
	if _, err := db.Exec(ctx, "CREATE DATABASE "+schema.Ident(name)); err != nil {
		return fmt.Errorf("create database %s: %w", name, err)
	}
	log.Info().Str("database", name).Msg("database created")
	return nil
}

func dropDatabase(ctx context.Context, log zerolog.Logger, db adminExecutor, name string) error {
	if err := checkDatabaseName(name); err != nil {
		return err
	}
	if err := terminateBackends(ctx, db, name); err != nil {
		return err
	}
	if _, err := db.Exec(ctx, "DROP DATABASE IF EXISTS "+schema.Ident(name)); err != nil {
		return fmt.Errorf("drop database %s: %w", name, err)
	}
	log.Info().Str("database", name).Msg("database dropped")
	return nil
}

func recreateDatabase(ctx context.Context, log zerolog.Logger, db adminExecutor, name string) error {
	if err := dropDatabase(ctx, log, db, name); err != nil {
		return err
	}
	return createDatabase(ctx, log, db, name)
}

func copyDatabase(ctx context.Context, log zerolog.Logger, db adminExecutor, src, dst string) error {
	if err := checkDatabaseName(src); err != nil {
		return err
	}
	if err := checkDatabaseName(dst); err != nil {
		return err
	}
	if err := terminateBackends(ctx, db, src); err != nil {
		return err
	}
	stmt := fmt.Sprintf("CREATE DATABASE %s TEMPLATE %s", schema.Ident(dst), schema.Ident(src))
	if _, err := db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("copy database %s to %s: %w", src, dst, err)
	}
	log.Info().Str("from", src).Str("to", dst).Msg("database copied")
	return nil
}

// terminateBackends kicks other sessions off the database so DROP and
// TEMPLATE operations do not block on their locks.
func terminateBackends(ctx context.Context, db adminExecutor, name string) error {
	if _, err := db.Exec(ctx,
		"SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1 AND pid <> pg_backend_pid()",
		name,
	); err != nil {
		return fmt.Errorf("terminate backends on %s: %w", name, err)
	}
	return nil
}

// checkDatabaseName rejects names that cannot safely appear in
// database-level DDL, which takes no parameter placeholders.
func checkDatabaseName(name string) error {
	if name == "" {
		return fmt.Errorf("database name is empty")
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return fmt.Errorf("database name %q contains unsupported character %q", name, r)
		}
	}
	return nil
}
