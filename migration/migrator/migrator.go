// Package migrator applies and reverts versioned SQL migrations, recording
// applied versions in the schema_migrations table.
package migrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"time"

	"github.com/jrey8343/shipwright/dbschema"
)

// ErrNoPreviousMigration is returned when rolling back with no applied
// migrations
var ErrNoPreviousMigration = errors.New("no previous migrations exist")

// MigrationStatus represents the current state of migrations
type MigrationStatus struct {
	CurrentVersion    int   `json:"current_version" yaml:"current_version"`
	AppliedMigrations []int `json:"applied_migrations" yaml:"applied_migrations"`
	PendingMigrations []int `json:"pending_migrations" yaml:"pending_migrations"`
	TotalMigrations   int   `json:"total_migrations" yaml:"total_migrations"`
	HasPendingChanges bool  `json:"has_pending_changes" yaml:"has_pending_changes"`
}

// Migrator applies the migrations of a provider to a database
type Migrator struct {
	conn              *dbschema.DatabaseConnection
	migrationProvider MigrationProvider
	initialized       bool
	logger            *slog.Logger
	now               func() time.Time
}

// NewFSMigrator creates a migrator for the migration files of fsys, named
// NNNNNNNNNN_description.up.sql and NNNNNNNNNN_description.down.sql. It
// fails when fsys cannot be scanned or a version lacks one of its files.
func NewFSMigrator(conn *dbschema.DatabaseConnection, fsys fs.FS) (*Migrator, error) {
	provider, err := NewFSMigrationProvider(fsys)
	if err != nil {
		return nil, err
	}
	return NewMigrator(conn, provider), nil
}

// NewMigrator creates a new migrator with the given database connection
func NewMigrator(conn *dbschema.DatabaseConnection, provider MigrationProvider) *Migrator {
	return &Migrator{
		conn:              conn,
		migrationProvider: provider,
		logger:            slog.Default(),
		now:               time.Now,
	}
}

// WithLogger sets the logger for the migrator
func (m *Migrator) WithLogger(l *slog.Logger) *Migrator {
	tmp := *m
	tmp.logger = l
	return &tmp
}

// WithClock sets the clock used for applied_at timestamps
func (m *Migrator) WithClock(now func() time.Time) *Migrator {
	tmp := *m
	tmp.now = now
	return &tmp
}

// MigrationProvider returns the migration provider
func (m *Migrator) MigrationProvider() MigrationProvider {
	return m.migrationProvider
}

// Initialize creates the migrations table if it doesn't exist
func (m *Migrator) Initialize(ctx context.Context) error {
	if m.initialized {
		return nil
	}
	if err := m.conn.Writer().ExecuteSQL(ctx, migrationsSchemaSQL); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	m.initialized = true
	return nil
}

// GetCurrentVersion returns the highest applied version, or 0
func (m *Migrator) GetCurrentVersion(ctx context.Context) (int, error) {
	if err := m.Initialize(ctx); err != nil {
		return 0, fmt.Errorf("failed to initialize migrations table: %w", err)
	}
	if m.conn.Writer().IsDryRun() {
		// the table may not exist yet
		return 0, nil
	}

	var version int
	if err := m.conn.QueryRowContext(ctx, getVersionSQL).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get current version: %w", err)
	}
	return version, nil
}

// GetAppliedMigrations returns the applied versions in ascending order
func (m *Migrator) GetAppliedMigrations(ctx context.Context) ([]int, error) {
	if err := m.Initialize(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize migrations table: %w", err)
	}
	if m.conn.Writer().IsDryRun() {
		return nil, nil
	}

	rows, err := m.conn.QueryContext(ctx, appliedVersionsSQL)
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []int
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied = append(applied, version)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows: %w", err)
	}
	return applied, nil
}

// GetPendingMigrations returns the versions newer than the current version
func (m *Migrator) GetPendingMigrations(ctx context.Context) ([]int, error) {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return nil, err
	}

	var pending []int
	for _, migration := range m.migrationProvider.Migrations() {
		if migration.Version > currentVersion {
			pending = append(pending, migration.Version)
		}
	}
	return pending, nil
}

// GetPreviousMigrationVersion returns the version preceding the current one,
// 0 when the current migration is the first. It returns -1 and
// ErrNoPreviousMigration when nothing is applied.
func (m *Migrator) GetPreviousMigrationVersion(ctx context.Context) (int, error) {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return -1, fmt.Errorf("failed to get current version: %w", err)
	}
	if currentVersion == 0 {
		return -1, ErrNoPreviousMigration
	}

	previousVersion := 0
	for _, migration := range m.migrationProvider.Migrations() {
		if migration.Version >= currentVersion {
			break
		}
		previousVersion = migration.Version
	}
	return previousVersion, nil
}

// GetMigrationStatus reports the applied and pending migrations
func (m *Migrator) GetMigrationStatus(ctx context.Context) (*MigrationStatus, error) {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current version: %w", err)
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	pending, err := m.GetPendingMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending migrations: %w", err)
	}

	return &MigrationStatus{
		CurrentVersion:    currentVersion,
		AppliedMigrations: applied,
		PendingMigrations: pending,
		TotalMigrations:   len(m.migrationProvider.Migrations()),
		HasPendingChanges: len(pending) > 0,
	}, nil
}

// MigrateUp applies every pending migration
func (m *Migrator) MigrateUp(ctx context.Context) error {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	migrations := m.migrationProvider.Migrations()
	m.logger.Info("Migrating up", "currentVersion", currentVersion, "totalMigrations", len(migrations))

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			m.logger.Debug("Skipping migration", "version", migration.Version, "description", migration.Description)
			continue
		}
		if err := m.apply(ctx, migration); err != nil {
			return err
		}
	}

	m.logger.Info("All migrations applied successfully")
	return nil
}

// MigrateDown reverts the current migration
func (m *Migrator) MigrateDown(ctx context.Context) error {
	targetVersion, err := m.GetPreviousMigrationVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get previous version: %w", err)
	}
	return m.MigrateDownTo(ctx, targetVersion)
}

// MigrateDownTo reverts the migrations newer than targetVersion, newest first
func (m *Migrator) MigrateDownTo(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	if targetVersion >= currentVersion {
		m.logger.Info("Already at or below target version", "targetVersion", targetVersion, "currentVersion", currentVersion)
		return nil
	}

	migrations := m.migrationProvider.Migrations()
	slices.Reverse(migrations)

	m.logger.Info("Migrating down", "targetVersion", targetVersion, "currentVersion", currentVersion, "totalMigrations", len(migrations))

	for _, migration := range migrations {
		if migration.Version <= targetVersion || migration.Version > currentVersion {
			continue
		}
		if err := m.revert(ctx, migration); err != nil {
			return err
		}
	}

	m.logger.Info("All migrations rolled back successfully")
	return nil
}

// MigrateTo migrates the database up or down to targetVersion
func (m *Migrator) MigrateTo(ctx context.Context, targetVersion int) error {
	currentVersion, err := m.GetCurrentVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}

	switch {
	case targetVersion == currentVersion:
		m.logger.Info("Already at target version", "version", targetVersion)
		return nil
	case targetVersion < currentVersion:
		return m.MigrateDownTo(ctx, targetVersion)
	}

	migrations := m.migrationProvider.Migrations()
	m.logger.Info("Migrating up", "currentVersion", currentVersion, "targetVersion", targetVersion, "totalMigrations", len(migrations))

	for _, migration := range migrations {
		if migration.Version <= currentVersion || migration.Version > targetVersion {
			continue
		}
		if err := m.apply(ctx, migration); err != nil {
			return err
		}
	}

	m.logger.Info("Migrated successfully", "targetVersion", targetVersion)
	return nil
}

// apply runs the up function of migration and records it, in one transaction
func (m *Migrator) apply(ctx context.Context, migration *Migration) error {
	m.logger.Info("Applying migration", "version", migration.Version, "description", migration.Description)

	appliedAt := m.now().UTC().Truncate(time.Second)
	err := m.inTransaction(ctx, migration.Version, func(w *dbschema.Writer) error {
		if err := migration.Up(ctx, m.conn); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", migration.Version, err)
		}
		if err := w.ExecuteSQL(ctx, recordMigrationSQL, migration.Version, migration.Description, appliedAt); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Applied migration", "version", migration.Version, "description", migration.Description)
	return nil
}

// revert runs the down function of migration and removes its record, in one
// transaction
func (m *Migrator) revert(ctx context.Context, migration *Migration) error {
	m.logger.Info("Rolling back migration", "version", migration.Version, "description", migration.Description)

	err := m.inTransaction(ctx, migration.Version, func(w *dbschema.Writer) error {
		if err := migration.Down(ctx, m.conn); err != nil {
			return fmt.Errorf("failed to revert migration %d: %w", migration.Version, err)
		}
		if err := w.ExecuteSQL(ctx, deleteMigrationSQL, migration.Version); err != nil {
			return fmt.Errorf("failed to record migration reversion %d: %w", migration.Version, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("Rolled back migration", "version", migration.Version, "description", migration.Description)
	return nil
}

func (m *Migrator) inTransaction(ctx context.Context, version int, fn func(w *dbschema.Writer) error) error {
	w := m.conn.Writer()
	if err := w.BeginTransaction(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", version, err)
	}
	if err := fn(w); err != nil {
		if rbErr := w.RollbackTransaction(); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	if err := w.CommitTransaction(); err != nil {
		return fmt.Errorf("failed to commit transaction for migration %d: %w", version, err)
	}
	return nil
}
