package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jrey8343/shipwright/cmd/cmdenv"
	"github.com/jrey8343/shipwright/dbschema"
	"github.com/jrey8343/shipwright/migration/migrator"
)

// Migration flags
const (
	toFlag = "to"
)

// newMigrateFlags returns the migration flags. Flags bind to viper on first
// read, so every command gets its own map.
func newMigrateFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		toFlag: &cobraflags.StringFlag{
			Name:  toFlag,
			Value: "",
			Usage: "Migrate up or down to this version instead of applying every pending migration",
		},
	}
}

// Status flags
const (
	outputFlag = "output"
)

func newStatusFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		outputFlag: &cobraflags.StringFlag{
			Name:  outputFlag,
			Value: "text",
			Usage: "Output format (text, json, yaml)",
		},
	}
}

func NewDBCommand() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the project database",
		Long: `Manage the project database.

The database URL is read from the database.url setting of the selected
environment, or from APP_DATABASE__URL.

Examples:
  shipwright db create
  shipwright db migrate --env test
  shipwright db rollback
  shipwright db reset`,
	}

	dbCmd.AddCommand(
		&cobra.Command{Use: "create", Short: "Create the database", Args: cobra.NoArgs, RunE: createCommand},
		&cobra.Command{Use: "drop", Short: "Drop the database", Args: cobra.NoArgs, RunE: dropCommand},
		newMigrateCommand(),
		&cobra.Command{Use: "rollback", Short: "Revert the latest migration", Args: cobra.NoArgs, RunE: rollbackCommand},
		newStatusCommand(),
		&cobra.Command{Use: "reset", Short: "Drop, create and migrate the database", Args: cobra.NoArgs, RunE: resetCommand},
		&cobra.Command{Use: "seed", Short: "Load the seeds file into the database in one transaction", Args: cobra.NoArgs, RunE: seedCommand},
		&cobra.Command{Use: "schema", Short: "Print the tables and columns of the database", Args: cobra.NoArgs, RunE: schemaCommand},
	)
	return dbCmd
}

func newMigrateCommand() *cobra.Command {
	flags := newMigrateFlags()
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrateCommand(cmd, flags[toFlag].GetString())
		},
	}
	cobraflags.RegisterMap(migrateCmd, flags)
	return migrateCmd
}

func newStatusCommand() *cobra.Command {
	flags := newStatusFlags()
	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return statusCommand(cmd, flags[outputFlag].GetString())
		},
	}
	cobraflags.RegisterMap(statusCmd, flags)
	return statusCmd
}

func createCommand(cmd *cobra.Command, _ []string) error {
	env, dbURL, err := load(cmd)
	if err != nil {
		return err
	}
	env.Console.Info("Creating %s database…", env.Config.Environment)
	if err := dbschema.CreateDatabase(cmd.Context(), dbURL); err != nil {
		return fmt.Errorf("could not create database: %w", err)
	}
	env.Console.Success("Created database %s successfully.", databaseName(dbURL))
	return nil
}

func dropCommand(cmd *cobra.Command, _ []string) error {
	env, dbURL, err := load(cmd)
	if err != nil {
		return err
	}
	env.Console.Info("Dropping %s database…", env.Config.Environment)
	if err := dbschema.DropDatabase(cmd.Context(), dbURL); err != nil {
		return fmt.Errorf("could not drop database: %w", err)
	}
	env.Console.Success("Dropped database %s successfully.", databaseName(dbURL))
	return nil
}

func migrateCommand(cmd *cobra.Command, to string) error {
	env, dbURL, err := load(cmd)
	if err != nil {
		return err
	}

	target := -1
	if to != "" {
		target, err = strconv.Atoi(to)
		if err != nil || target < 0 {
			return fmt.Errorf("invalid target version %q", to)
		}
	}

	env.Console.Info("Migrating %s database…", env.Config.Environment)
	env.Console.Indent()
	applied, err := migrate(cmd.Context(), env, dbURL, target)
	env.Console.Outdent()
	if err != nil {
		return fmt.Errorf("could not migrate database: %w", err)
	}
	env.Console.Success("%d migrations applied.", applied)
	return nil
}

// migrate applies the pending migrations, or migrates to target when it is
// not negative. It returns the number of migrations applied.
func migrate(ctx context.Context, env *cmdenv.Env, dbURL string, target int) (int, error) {
	return withMigrator(ctx, env, dbURL, func(m *migrator.Migrator) (int, error) {
		pending, err := m.GetPendingMigrations(ctx)
		if err != nil {
			return 0, err
		}

		if target < 0 {
			if err := m.MigrateUp(ctx); err != nil {
				return 0, err
			}
		} else if err := m.MigrateTo(ctx, target); err != nil {
			return 0, err
		}

		applied := 0
		for _, version := range pending {
			if target >= 0 && version > target {
				break
			}
			env.Console.Log("Applied migration %d.", version)
			applied++
		}
		return applied, nil
	})
}

func rollbackCommand(cmd *cobra.Command, _ []string) error {
	env, dbURL, err := load(cmd)
	if err != nil {
		return err
	}

	env.Console.Info("Rolling back %s database…", env.Config.Environment)
	version, err := withMigrator(cmd.Context(), env, dbURL, func(m *migrator.Migrator) (int, error) {
		current, err := m.GetCurrentVersion(cmd.Context())
		if err != nil {
			return 0, err
		}
		return current, m.MigrateDown(cmd.Context())
	})
	if errors.Is(err, migrator.ErrNoPreviousMigration) {
		env.Console.Warn("No migrations to roll back.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not roll back database: %w", err)
	}
	env.Console.Success("Rolled back migration %d.", version)
	return nil
}

func statusCommand(cmd *cobra.Command, format string) error {
	env, dbURL, err := load(cmd)
	if err != nil {
		return err
	}

	var status *migrator.MigrationStatus
	_, err = withMigrator(cmd.Context(), env, dbURL, func(m *migrator.Migrator) (int, error) {
		status, err = m.GetMigrationStatus(cmd.Context())
		return 0, err
	})
	if err != nil {
		return fmt.Errorf("could not read migration status: %w", err)
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(status)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(status); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		fmt.Fprintf(out, "Current version: %d\n", status.CurrentVersion)
		fmt.Fprintf(out, "Total migrations: %d\n", status.TotalMigrations)
		fmt.Fprintf(out, "Applied: %s\n", formatVersions(status.AppliedMigrations))
		fmt.Fprintf(out, "Pending: %s\n", formatVersions(status.PendingMigrations))
		return nil
	default:
		return fmt.Errorf("unsupported format %q (use text, json or yaml)", format)
	}
}

func resetCommand(cmd *cobra.Command, _ []string) error {
	env, dbURL, err := load(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	env.Console.Info("Resetting %s database…", env.Config.Environment)
	env.Console.Indent()
	err = func() error {
		env.Console.Log("Dropping database…")
		if err := dbschema.DropDatabase(ctx, dbURL); err != nil {
			return err
		}
		env.Console.Log("Recreating database…")
		if err := dbschema.CreateDatabase(ctx, dbURL); err != nil {
			return err
		}
		env.Console.Log("Migrating database…")
		_, err := migrate(ctx, env, dbURL, -1)
		return err
	}()
	env.Console.Outdent()
	if err != nil {
		return fmt.Errorf("could not reset the database: %w", err)
	}
	env.Console.Success("Reset database %s successfully.", databaseName(dbURL))
	return nil
}

func seedCommand(cmd *cobra.Command, _ []string) error {
	env, dbURL, err := load(cmd)
	if err != nil {
		return err
	}

	seedsFile := env.Path(env.Config.Database.Seeds)
	statements, err := os.ReadFile(seedsFile)
	if err != nil {
		return fmt.Errorf("could not read seeds, make sure %s exists: %w", env.Config.Database.Seeds, err)
	}

	env.Console.Info("Seeding %s database…", env.Config.Environment)
	if err := seed(cmd.Context(), dbURL, string(statements)); err != nil {
		return fmt.Errorf("could not seed database: %w", err)
	}
	env.Console.Success("Seeded database successfully.")
	return nil
}

// seed executes the statements of sql in one transaction
func seed(ctx context.Context, dbURL, sql string) error {
	conn, err := dbschema.ConnectToDatabase(dbURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	w := conn.Writer()
	if err := w.BeginTransaction(ctx); err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	for _, statement := range migrator.SplitSQLStatements(sql) {
		if err := w.ExecuteSQL(ctx, statement); err != nil {
			if rbErr := w.RollbackTransaction(); rbErr != nil {
				return errors.Join(fmt.Errorf("failed to execute seeds: %w", err), rbErr)
			}
			return fmt.Errorf("failed to execute seeds: %w", err)
		}
	}
	if err := w.CommitTransaction(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func schemaCommand(cmd *cobra.Command, _ []string) error {
	env, dbURL, err := load(cmd)
	if err != nil {
		return err
	}

	conn, err := dbschema.ConnectToDatabase(dbURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	tables, err := conn.Reader().ReadTables(cmd.Context())
	if err != nil {
		return fmt.Errorf("could not read schema: %w", err)
	}

	out := cmd.OutOrStdout()
	info := conn.Info()
	fmt.Fprintf(out, "%s %s (%s)\n", info.Dialect, info.Version, info.Schema)
	for _, table := range tables {
		fmt.Fprintf(out, "\n%s\n", table.Name)
		for _, col := range table.Columns {
			var attrs []string
			if col.Primary {
				attrs = append(attrs, "primary key")
			}
			if !col.Nullable {
				attrs = append(attrs, "not null")
			}
			if col.Default != nil {
				attrs = append(attrs, "default "+*col.Default)
			}
			line := fmt.Sprintf("  %-24s %s", col.Name, col.DataType)
			if len(attrs) > 0 {
				line += "  " + strings.Join(attrs, ", ")
			}
			fmt.Fprintln(out, line)
		}
	}
	env.Logger.Debug("Read schema", "tables", len(tables))
	return nil
}

func load(cmd *cobra.Command) (*cmdenv.Env, string, error) {
	env, err := cmdenv.Load(cmd)
	if err != nil {
		return nil, "", err
	}
	dbURL, err := env.DatabaseURL()
	if err != nil {
		return nil, "", err
	}
	return env, dbURL, nil
}

// withMigrator connects to the database and runs fn with a migrator for the
// project migrations
func withMigrator(ctx context.Context, env *cmdenv.Env, dbURL string, fn func(m *migrator.Migrator) (int, error)) (int, error) {
	conn, err := dbschema.ConnectToDatabase(dbURL)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	m, err := migrator.NewFSMigrator(conn, os.DirFS(env.Path(env.Config.Layout.Migrations)))
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	m = m.WithLogger(env.Logger)
	if err := m.Initialize(ctx); err != nil {
		return 0, err
	}
	return fn(m)
}

func databaseName(dbURL string) string {
	target, err := dbschema.ParseDatabaseURL(dbURL)
	if err != nil {
		return dbURL
	}
	return target.Database
}

func formatVersions(versions []int) string {
	if len(versions) == 0 {
		return "none"
	}
	parts := make([]string, len(versions))
	for i, v := range versions {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}
