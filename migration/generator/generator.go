// Package generator plans the files of new migrations: their version,
// file names and SQL.
package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jrey8343/shipwright/core/ddl"
	"github.com/jrey8343/shipwright/core/fieldspec"
	"github.com/jrey8343/shipwright/core/naming"
	"github.com/jrey8343/shipwright/migration/migrator"
)

// ErrEmptyMigrationName is returned when a migration has no name
var ErrEmptyMigrationName = errors.New("migration name is required")

// emptyMigrationSQL is the body of migrations generated without fields
const emptyMigrationSQL = "-- Write your migration here\n"

// Options controls where a migration is placed
type Options struct {
	// MigrationName is the snake_case name, e.g. "create_posts_table"
	MigrationName string
	// OutputDir is the migrations directory
	OutputDir string
	// Version is the migration version. Zero means the current Unix time.
	Version int
	// Existing lists the migrations already on disk. Defaults to OutputDir.
	Existing fs.FS
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// CreateTableOptions describes a migration creating one table
type CreateTableOptions struct {
	Options
	Table   string
	Fields  []fieldspec.Field
	Dialect string
}

// MigrationFiles is a planned migration. Nothing is written to disk.
type MigrationFiles struct {
	Name     string // migration name, e.g. "create_posts_table"
	UpFile   string // Path to the up migration file
	DownFile string // Path to the down migration file
	Version  int    // Migration version (timestamp)
	UpSQL    string
	DownSQL  string
}

// CreateTableMigrationName returns the name of the migration creating the
// table of resource ("post" -> "create_posts_table").
func CreateTableMigrationName(resource string) string {
	return "create_" + naming.Plural(naming.SnakeCase(resource)) + "_table"
}

// PlanCreateTable plans a migration creating opts.Table with opts.Fields and
// dropping it on the way down.
func PlanCreateTable(opts CreateTableOptions) (*MigrationFiles, error) {
	if opts.MigrationName == "" {
		opts.MigrationName = CreateTableMigrationName(opts.Table)
	}

	upSQL, err := ddl.EmitCreateTableFor(opts.Dialect, opts.Table, opts.Fields)
	if err != nil {
		return nil, fmt.Errorf("error generating up migration SQL: %w", err)
	}
	downSQL, err := ddl.EmitDropTable(opts.Dialect, opts.Table)
	if err != nil {
		return nil, fmt.Errorf("error generating down migration SQL: %w", err)
	}

	return plan(opts.Options, upSQL, downSQL)
}

// PlanEmpty plans a migration with placeholder up and down scripts
func PlanEmpty(opts Options) (*MigrationFiles, error) {
	return plan(opts, emptyMigrationSQL, emptyMigrationSQL)
}

func plan(opts Options, upSQL, downSQL string) (*MigrationFiles, error) {
	name := naming.SnakeCase(opts.MigrationName)
	if name == "" {
		return nil, ErrEmptyMigrationName
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Existing == nil {
		opts.Existing = os.DirFS(opts.OutputDir)
	}

	version := opts.Version
	if version == 0 {
		version = migrator.GetNextMigrationVersion(opts.Now())
	}

	// versions identify migrations, so never reuse one already on disk
	for {
		taken, err := versionTaken(opts.Existing, version)
		if err != nil {
			return nil, err
		}
		if !taken {
			break
		}
		version++
	}
	slog.Debug("Generated migration version", "version", version, "name", name)

	return &MigrationFiles{
		Name:     name,
		UpFile:   filepath.Join(opts.OutputDir, migrator.GenerateMigrationFileName(version, name, migrator.DirectionUp)),
		DownFile: filepath.Join(opts.OutputDir, migrator.GenerateMigrationFileName(version, name, migrator.DirectionDown)),
		Version:  version,
		UpSQL:    upSQL,
		DownSQL:  downSQL,
	}, nil
}

func versionTaken(fsys fs.FS, version int) (bool, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read migrations directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file, err := migrator.ParseMigrationFileName(entry.Name())
		if err == nil && file.Version == version {
			return true, nil
		}
	}
	return false, nil
}
