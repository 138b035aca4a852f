package migrator

import (
	"fmt"
	"io/fs"
	"maps"
	"slices"
	"sort"
)

// MigrationProvider provides a list of migrations
type MigrationProvider interface {
	// Migrations provides a list of migrations sorted by version in ascending order
	Migrations() []*Migration
}

// RegisteredMigrationProvider is an in-memory MigrationProvider
type RegisteredMigrationProvider struct {
	migrations []*Migration
	sorted     bool
}

// NewRegisteredMigrationProvider creates an in-memory provider with the given
// migrations. They are sorted by version when first accessed.
func NewRegisteredMigrationProvider(migrations ...*Migration) *RegisteredMigrationProvider {
	return &RegisteredMigrationProvider{
		migrations: migrations,
	}
}

// Register adds a migration to the provider
func (p *RegisteredMigrationProvider) Register(migration *Migration) {
	p.migrations = append(p.migrations, migration)
	p.sorted = false
}

// Migrations returns the migrations sorted by version in ascending order
func (p *RegisteredMigrationProvider) Migrations() []*Migration {
	if !p.sorted {
		sortMigrations(p.migrations)
		p.sorted = true
	}
	return slices.Clone(p.migrations)
}

// FSMigrationProvider loads migrations from the SQL files of a filesystem.
// Files that do not follow the naming convention are ignored.
type FSMigrationProvider struct {
	fsys       fs.FS
	migrations []*Migration
}

// NewFSMigrationProvider scans fsys for migration files. Every version must
// have both an up and a down file.
func NewFSMigrationProvider(fsys fs.FS) (*FSMigrationProvider, error) {
	p := &FSMigrationProvider{fsys: fsys}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

// Migrations returns the loaded migrations sorted by version in ascending order
func (p *FSMigrationProvider) Migrations() []*Migration {
	return slices.Clone(p.migrations)
}

func (p *FSMigrationProvider) load() error {
	migrationsMap := make(map[int]*Migration) // version -> migration

	err := fs.WalkDir(p.fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		migrationFile, err := ParseMigrationFileName(d.Name())
		if err != nil {
			return nil
		}

		migration, exists := migrationsMap[migrationFile.Version]
		if !exists {
			migration = &Migration{
				Version:     migrationFile.Version,
				Description: migrationFile.Name,
			}
			migrationsMap[migrationFile.Version] = migration
		}

		switch migrationFile.Direction {
		case DirectionUp:
			migration.Up = MigrationFuncFromSQLFilename(path, p.fsys)
		case DirectionDown:
			migration.Down = MigrationFuncFromSQLFilename(path, p.fsys)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to scan migrations directory: %w", err)
	}

	var incomplete []int
	for version, migration := range migrationsMap {
		if migration.Up == nil || migration.Down == nil {
			incomplete = append(incomplete, version)
		}
	}
	if len(incomplete) > 0 {
		sort.Ints(incomplete)
		return fmt.Errorf("incomplete migrations found (missing up or down files): %v", incomplete)
	}

	p.migrations = slices.Collect(maps.Values(migrationsMap))
	sortMigrations(p.migrations)
	return nil
}

func sortMigrations(migrations []*Migration) {
	sort.Slice(migrations, func(i, j int) bool {
		return migrations[i].Version < migrations[j].Version
	})
}
