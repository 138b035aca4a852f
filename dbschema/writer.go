package dbschema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/core/renderer"
	"github.com/jrey8343/shipwright/dbschema/types"
)

var _ types.SchemaWriter = (*Writer)(nil)

// ErrTransactionActive is returned when a transaction is started while one
// is already open
var ErrTransactionActive = errors.New("transaction already in progress")

// ErrNoTransaction is returned when committing or rolling back without an
// open transaction
var ErrNoTransaction = errors.New("no transaction in progress")

// Writer executes SQL against a database. Statements run inside the open
// transaction when there is one. In dry run mode statements are logged and
// not executed.
type Writer struct {
	db      *sql.DB
	dialect string
	reader  types.SchemaReader
	tx      *sql.Tx
	dryRun  bool
	logger  *slog.Logger
}

// NewWriter creates a writer for db. The reader lists the tables removed by
// DropAllTables.
func NewWriter(db *sql.DB, dialect string, reader types.SchemaReader) *Writer {
	return &Writer{
		db:      db,
		dialect: dialect,
		reader:  reader,
		logger:  slog.Default(),
	}
}

// WithLogger sets the logger for the writer
func (w *Writer) WithLogger(l *slog.Logger) *Writer {
	tmp := *w
	tmp.logger = l
	return &tmp
}

// SetDryRun enables or disables dry run mode
func (w *Writer) SetDryRun(dryRun bool) {
	w.dryRun = dryRun
}

// IsDryRun reports whether dry run mode is enabled
func (w *Writer) IsDryRun() bool {
	return w.dryRun
}

// BeginTransaction opens a transaction used by subsequent statements
func (w *Writer) BeginTransaction(ctx context.Context) error {
	if w.tx != nil {
		return ErrTransactionActive
	}
	if w.dryRun {
		w.logger.Info("[DRY RUN] Would begin transaction")
		return nil
	}
	tx, err := w.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	w.tx = tx
	return nil
}

// CommitTransaction commits the open transaction
func (w *Writer) CommitTransaction() error {
	if w.dryRun {
		w.logger.Info("[DRY RUN] Would commit transaction")
		return nil
	}
	if w.tx == nil {
		return ErrNoTransaction
	}
	err := w.tx.Commit()
	w.tx = nil
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RollbackTransaction rolls back the open transaction
func (w *Writer) RollbackTransaction() error {
	if w.dryRun {
		w.logger.Info("[DRY RUN] Would roll back transaction")
		return nil
	}
	if w.tx == nil {
		return ErrNoTransaction
	}
	err := w.tx.Rollback()
	w.tx = nil
	if err != nil {
		return fmt.Errorf("failed to roll back transaction: %w", err)
	}
	return nil
}

// ExecuteSQL executes a single statement. Arguments use "?" placeholders,
// which are rebound for the dialect.
func (w *Writer) ExecuteSQL(ctx context.Context, sql string, args ...any) error {
	if w.dryRun {
		w.logger.Info("[DRY RUN] Would execute SQL", "sql", sql, "args", args)
		return nil
	}
	if len(args) > 0 {
		sql = Rebind(w.dialect, sql)
	}
	var err error
	if w.tx != nil {
		_, err = w.tx.ExecContext(ctx, sql, args...)
	} else {
		_, err = w.db.ExecContext(ctx, sql, args...)
	}
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// QueryRow runs a query returning at most one row, inside the open
// transaction when there is one.
func (w *Writer) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	query = Rebind(w.dialect, query)
	if w.tx != nil {
		return w.tx.QueryRowContext(ctx, query, args...)
	}
	return w.db.QueryRowContext(ctx, query, args...)
}

// DropAllTables drops every user table and the migrations table
func (w *Writer) DropAllTables(ctx context.Context) error {
	tables, err := w.reader.ReadTables(ctx)
	if err != nil {
		return fmt.Errorf("failed to read tables: %w", err)
	}

	names := make([]string, 0, len(tables)+1)
	for _, t := range tables {
		names = append(names, t.Name)
	}
	names = append(names, "schema_migrations")

	disable, enable := foreignKeyChecks(w.dialect)
	if disable != "" {
		if err := w.ExecuteSQL(ctx, disable); err != nil {
			return err
		}
		defer func() {
			if err := w.ExecuteSQL(ctx, enable); err != nil {
				w.logger.Warn("Failed to re-enable foreign key checks", "error", err)
			}
		}()
	}

	for _, name := range names {
		stmt, err := renderer.RenderSQL(w.dialect, ast.NewDropTable(name).SetIfExists().SetCascade())
		if err != nil {
			return fmt.Errorf("failed to render drop table %s: %w", name, err)
		}
		if err := w.ExecuteSQL(ctx, stmt); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", name, err)
		}
		w.logger.Debug("Dropped table", "table", name)
	}
	return nil
}

func foreignKeyChecks(dialect string) (disable, enable string) {
	switch dialect {
	case platform.SQLite:
		return "PRAGMA foreign_keys = OFF", "PRAGMA foreign_keys = ON"
	case platform.MySQL, platform.MariaDB:
		return "SET FOREIGN_KEY_CHECKS = 0", "SET FOREIGN_KEY_CHECKS = 1"
	default:
		return "", ""
	}
}
