package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jrey8343/shipwright/dbschema/types"
)

// Reader reads schema from MySQL and MariaDB databases
type Reader struct {
	db *sql.DB
}

// NewMySQLReader creates a new MySQL schema reader for the connection's
// current database
func NewMySQLReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// ReadTables reads all base tables of the current database and their
// columns, skipping the migrations table
func (r *Reader) ReadTables(ctx context.Context) ([]types.DBTable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE'
		AND table_name NOT IN ('schema_migrations')
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tables: %w", err)
	}

	tables := make([]types.DBTable, 0, len(names))
	for _, name := range names {
		columns, err := r.readColumns(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns for table %s: %w", name, err)
		}
		tables = append(tables, types.DBTable{Name: name, Columns: columns})
	}
	return tables, nil
}

func (r *Reader) readColumns(ctx context.Context, tableName string) ([]types.DBColumn, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT column_name, column_type, is_nullable = 'YES', column_default, ordinal_position, column_key = 'PRI'
		FROM information_schema.columns
		WHERE table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position`, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []types.DBColumn
	for rows.Next() {
		var col types.DBColumn
		if err := rows.Scan(&col.Name, &col.DataType, &col.Nullable, &col.Default, &col.Position, &col.Primary); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
