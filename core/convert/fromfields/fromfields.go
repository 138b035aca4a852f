// Package fromfields converts compiled field specs into AST nodes.
//
// This package is the bridge between fieldspec.Field values and the SQL AST
// rendered by the dialect renderers.
//
// Example:
//
//	fields, _ := fieldspec.Parse([]string{"title:string256!", "owner:references"})
//	table := fromfields.FromFields("invoices", fields)
//	sql, _ := renderer.RenderSQL("sqlite", table)
package fromfields

import (
	"fmt"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/fieldspec"
)

// FromField returns the column of a single field.
func FromField(field fieldspec.Field) *ast.ColumnNode {
	switch f := field.(type) {
	case fieldspec.Column:
		return f.ColumnDefinition()
	case fieldspec.ForeignKey:
		return f.ColumnDefinition()
	default:
		panic(fmt.Sprintf("fromfields: unexpected field type %T", field))
	}
}

// FromFields returns a CREATE TABLE IF NOT EXISTS node with one column per
// field, in input order, followed by one FOREIGN KEY constraint per foreign
// key field. No primary key column is added.
func FromFields(table string, fields []fieldspec.Field) *ast.CreateTableNode {
	createTable := ast.NewCreateTable(table).SetIfNotExists()

	for _, field := range fields {
		createTable.AddColumn(FromField(field))
	}
	for _, field := range fields {
		if fk, ok := field.(fieldspec.ForeignKey); ok {
			createTable.AddConstraint(fk.Constraint(table))
		}
	}

	return createTable
}

// DropTable returns the DROP TABLE IF EXISTS node undoing FromFields.
func DropTable(table string) *ast.DropTableNode {
	return ast.NewDropTable(table).SetIfExists()
}
