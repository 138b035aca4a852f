package migrator

import (
	"context"
	_ "embed"
	"fmt"
	"io/fs"

	"github.com/jrey8343/shipwright/core/sqlutil"
	"github.com/jrey8343/shipwright/dbschema"
)

//go:embed base/schema.sql
var migrationsSchemaSQL string

//go:embed base/get_version.sql
var getVersionSQL string

//go:embed base/applied_versions.sql
var appliedVersionsSQL string

//go:embed base/record_migration.sql
var recordMigrationSQL string

//go:embed base/delete_migration.sql
var deleteMigrationSQL string

// MigrationFunc applies one direction of a migration. It runs inside the
// migration's transaction, so statements must go through conn.Writer().
type MigrationFunc func(context.Context, *dbschema.DatabaseConnection) error

// SplitSQLStatements splits a script into statements with comments removed.
// Drivers such as MySQL reject several statements in one call, so scripts are
// always executed statement by statement.
func SplitSQLStatements(sql string) []string {
	return sqlutil.SplitSQLStatements(sqlutil.StripComments(sql))
}

// MigrationFuncFromSQLFilename returns a migration function executing the
// SQL file filename of fsys. The file is read when the migration runs.
func MigrationFuncFromSQLFilename(filename string, fsys fs.FS) MigrationFunc {
	return func(ctx context.Context, conn *dbschema.DatabaseConnection) error {
		sql, err := fs.ReadFile(fsys, filename)
		if err != nil {
			return fmt.Errorf("failed to read migration file: %w", err)
		}
		return executeSQLStatements(ctx, conn, string(sql))
	}
}

// NoopMigrationFunc is a migration function that does nothing
func NoopMigrationFunc(_ context.Context, _ *dbschema.DatabaseConnection) error {
	return nil
}

// Migration is a versioned schema change
type Migration struct {
	Version     int
	Description string
	Up          MigrationFunc
	Down        MigrationFunc
}

// CreateMigrationFromSQL creates a migration from up and down scripts
func CreateMigrationFromSQL(version int, description, upSQL, downSQL string) *Migration {
	return &Migration{
		Version:     version,
		Description: description,
		Up: func(ctx context.Context, conn *dbschema.DatabaseConnection) error {
			return executeSQLStatements(ctx, conn, upSQL)
		},
		Down: func(ctx context.Context, conn *dbschema.DatabaseConnection) error {
			return executeSQLStatements(ctx, conn, downSQL)
		},
	}
}

func executeSQLStatements(ctx context.Context, conn *dbschema.DatabaseConnection, sql string) error {
	for _, stmt := range SplitSQLStatements(sql) {
		if err := conn.Writer().ExecuteSQL(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute migration SQL: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}
