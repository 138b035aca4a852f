// Package fieldspec compiles compact field specifications such as
// "title:string256!" or "owner:references=users(id)" into typed fields and
// projects each field type onto SQL columns, Go types, validation rules and
// fake data expressions.
//
// Grammar:
//
//	spec     = name ":" typespec
//	typespec = "references" [ "=" table "(" column ")" ]
//	         | keyword { modifier }
//	modifier = digit | "!" | "^"
//
// Digits form the length of a string column, "!" makes the column NOT NULL
// and "^" makes it UNIQUE. Other modifier characters are ignored.
package fieldspec

import (
	"strings"

	"github.com/jrey8343/shipwright/core/ast"
)

// Field is either a Column or a ForeignKey.
type Field interface {
	// ColumnName returns the name of the database column the field produces
	ColumnName() string
	// String returns the canonical field spec; parsing it yields an equal field
	String() string

	isField()
}

// Column is a plain typed column.
type Column struct {
	Name string
	Type FieldType
}

func (Column) isField() {}

func (c Column) ColumnName() string {
	return c.Name
}

func (c Column) String() string {
	return c.Name + ":" + c.Type.Keyword() + c.Type.Modifiers()
}

// ColumnDefinition returns the column node for this field.
func (c Column) ColumnDefinition() *ast.ColumnNode {
	return c.Type.ColumnDefinition(c.Name)
}

// ForeignKey is a NOT NULL integer column referencing another table's key,
// cascading on delete and update.
type ForeignKey struct {
	// LocalKey is the column on the owning table, "<name>_id"
	LocalKey string
	// ReferencesTable is the referenced table
	ReferencesTable string
	// ReferencesColumn is the referenced column
	ReferencesColumn string
}

func (ForeignKey) isField() {}

func (fk ForeignKey) ColumnName() string {
	return fk.LocalKey
}

// String always renders the explicit references=table(column) form. Keys
// that do not end in "_id" are rendered as is and gain the suffix when
// parsed again.
func (fk ForeignKey) String() string {
	name := strings.TrimSuffix(fk.LocalKey, foreignKeySuffix)
	return name + ":" + referencesKeyword + "=" + fk.ReferencesTable + "(" + fk.ReferencesColumn + ")"
}

// ConstraintName returns the name given to the foreign key constraint of
// table, for dialects that name constraints.
func (fk ForeignKey) ConstraintName(table string) string {
	return "fk_" + table + "_" + fk.LocalKey
}

// ColumnDefinition returns the integer NOT NULL column holding the key.
func (fk ForeignKey) ColumnDefinition() *ast.ColumnNode {
	return ast.NewColumn(fk.LocalKey, ast.NewDataType(ast.TypeInteger)).SetNotNull()
}

// Constraint returns the table-level foreign key constraint for table.
func (fk ForeignKey) Constraint(table string) *ast.ConstraintNode {
	name := fk.ConstraintName(table)
	return ast.NewForeignKeyConstraint(name, []string{fk.LocalKey}, &ast.ForeignKeyRef{
		Table:    fk.ReferencesTable,
		Column:   fk.ReferencesColumn,
		OnDelete: ast.Cascade,
		OnUpdate: ast.Cascade,
		Name:     name,
	})
}
