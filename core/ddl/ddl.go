// Package ddl emits the SQL that creates and drops the table of a resource.
package ddl

import (
	"fmt"

	"github.com/jrey8343/shipwright/core/convert/fromfields"
	"github.com/jrey8343/shipwright/core/fieldspec"
	"github.com/jrey8343/shipwright/core/renderer"
	"github.com/jrey8343/shipwright/core/renderer/dialects/sqlite"
)

// EmitCreateTable returns the SQLite CREATE TABLE IF NOT EXISTS statement
// for fields. The output depends only on its arguments.
func EmitCreateTable(table string, fields []fieldspec.Field) string {
	sql, err := sqlite.New().Render(fromfields.FromFields(table, fields))
	if err != nil {
		// every fieldspec type maps to an SQLite type
		panic(fmt.Sprintf("ddl: rendering %s: %v", table, err))
	}
	return sql
}

// EmitCreateTableFor is EmitCreateTable for any supported dialect.
func EmitCreateTableFor(dialect, table string, fields []fieldspec.Field) (string, error) {
	sql, err := renderer.RenderSQL(dialect, fromfields.FromFields(table, fields))
	if err != nil {
		return "", fmt.Errorf("failed to render create table %s: %w", table, err)
	}
	return sql, nil
}

// EmitDropTable returns the DROP TABLE IF EXISTS statement for table.
func EmitDropTable(dialect, table string) (string, error) {
	sql, err := renderer.RenderSQL(dialect, fromfields.DropTable(table))
	if err != nil {
		return "", fmt.Errorf("failed to render drop table %s: %w", table, err)
	}
	return sql, nil
}
