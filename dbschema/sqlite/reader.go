package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jrey8343/shipwright/dbschema/types"
)

// Reader reads schema from SQLite databases
type Reader struct {
	db *sql.DB
}

// NewSQLiteReader creates a new SQLite schema reader
func NewSQLiteReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

// ReadTables reads all user tables and their columns, skipping SQLite's
// internal tables and the migrations table
func (r *Reader) ReadTables(ctx context.Context) ([]types.DBTable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table'
		AND name NOT LIKE 'sqlite_%'
		AND name NOT IN ('schema_migrations')
		ORDER BY name`)
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
	rows, err := r.db.QueryContext(ctx,
		`SELECT cid, name, type, "notnull", dflt_value, pk FROM pragma_table_info(?) ORDER BY cid`, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var columns []types.DBColumn
	for rows.Next() {
		var (
			col     types.DBColumn
			notNull bool
			pk      int
		)
		if err := rows.Scan(&col.Position, &col.Name, &col.DataType, &notNull, &col.Default, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.Position++
		col.Primary = pk > 0
		col.Nullable = !notNull && !col.Primary
		columns = append(columns, col)
	}
	return columns, rows.Err()
}
