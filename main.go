package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pgwright",
	Short: "PostgreSQL development database companion",
	Long: `pgwright manages development databases: it regenerates declarative
migration sources from a live schema, creates, drops and copies databases,
seeds data, and applies batch column changes.`,
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Regenerate migration sources from the live schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		ctx := context.Background()

		pool, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		return runGenerate(ctx, log, pool, cfg)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run seed files against the configured database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		ctx := context.Background()

		pool, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		return runSeeds(ctx, log, pool, cfg.Seed.Dir)
	},
}

var alterCmd = &cobra.Command{
	Use:   "alter",
	Short: "Apply the configured column additions and changes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		ctx := context.Background()

		pool, err := connect(ctx, cfg)
		if err != nil {
			return err
		}
		defer pool.Close()

		return applyAlters(ctx, log, pool, cfg.Database.Schema, cfg.Alter)
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Database lifecycle operations",
}

var dbCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the database named in the DSN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(func(ctx context.Context, log zerolog.Logger, db adminExecutor, target string) error {
			return createDatabase(ctx, log, db, target)
		})
	},
}

var dbDropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop the database named in the DSN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(func(ctx context.Context, log zerolog.Logger, db adminExecutor, target string) error {
			return dropDatabase(ctx, log, db, target)
		})
	},
}

var dbRecreateCmd = &cobra.Command{
	Use:   "recreate",
	Short: "Drop and recreate the database named in the DSN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(func(ctx context.Context, log zerolog.Logger, db adminExecutor, target string) error {
			return recreateDatabase(ctx, log, db, target)
		})
	},
}

var dbCopyCmd = &cobra.Command{
	Use:   "copy <destination>",
	Short: "Copy the database named in the DSN to a new database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAdmin(func(ctx context.Context, log zerolog.Logger, db adminExecutor, target string) error {
			return copyDatabase(ctx, log, db, target, args[0])
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the pgwright version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionString())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "pgwright.toml", "path to TOML config file")
	dbCmd.AddCommand(dbCreateCmd, dbDropCmd, dbRecreateCmd, dbCopyCmd)
	rootCmd.AddCommand(generateCmd, seedCmd, alterCmd, dbCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the logger every subcommand shares.
func setup() (*Config, zerolog.Logger, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	log, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	return cfg, log, nil
}

// connect opens the application pool against the configured DSN.
func connect(ctx context.Context, cfg *Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// withAdmin runs fn against the maintenance connection; target is the
// database named in the configured DSN.
func withAdmin(fn func(ctx context.Context, log zerolog.Logger, db adminExecutor, target string) error) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	ctx := context.Background()

	conn, target, err := adminConnect(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer conn.Close(ctx)

	return fn(ctx, log, conn, target)
}
