package ast

import (
	"fmt"
)

// Node represents any SQL AST node that can be visited by a Visitor.
//
// All AST nodes implement this interface to participate in the visitor pattern.
// The Accept method allows visitors to traverse the AST and generate
// dialect-specific SQL output.
type Node interface {
	// Accept implements the visitor pattern for rendering
	Accept(visitor Visitor) error
}

// CreateTableNode represents a CREATE TABLE statement with all its components.
//
// This node contains the complete definition of a table including columns,
// table-level constraints and an optional comment. Columns and constraints are
// rendered in insertion order. It supports a fluent API for easy construction.
type CreateTableNode struct {
	// Name is the name of the table to create
	Name string
	// IfNotExists renders CREATE TABLE IF NOT EXISTS
	IfNotExists bool
	// Columns contains all column definitions for the table
	Columns []*ColumnNode
	// Constraints contains table-level constraints (PRIMARY KEY, UNIQUE, FOREIGN KEY)
	Constraints []*ConstraintNode
	// Comment is an optional table comment
	Comment string
}

// NewCreateTable creates a new CREATE TABLE node with the specified table name.
//
// The returned node has empty slices for columns and constraints. Use the
// fluent API methods to add columns and constraints.
//
// Example:
//
//	table := NewCreateTable("users").SetIfNotExists()
func NewCreateTable(name string) *CreateTableNode {
	return &CreateTableNode{
		Name:        name,
		Columns:     make([]*ColumnNode, 0),
		Constraints: make([]*ConstraintNode, 0),
	}
}

// Accept implements the Node interface for CreateTableNode.
func (n *CreateTableNode) Accept(visitor Visitor) error {
	return visitor.VisitCreateTable(n)
}

// SetIfNotExists makes the statement a no-op when the table already exists.
func (n *CreateTableNode) SetIfNotExists() *CreateTableNode {
	n.IfNotExists = true
	return n
}

// AddColumn adds a column to the CREATE TABLE statement and returns the table node for chaining.
//
// Example:
//
//	table.AddColumn(NewColumn("id", NewDataType(TypeUUID)).SetPrimary())
func (n *CreateTableNode) AddColumn(column *ColumnNode) *CreateTableNode {
	n.Columns = append(n.Columns, column)
	return n
}

// AddConstraint adds a table-level constraint and returns the table node for chaining.
//
// Example:
//
//	table.AddConstraint(NewUniqueConstraint("uk_email", "email"))
func (n *CreateTableNode) AddConstraint(constraint *ConstraintNode) *CreateTableNode {
	n.Constraints = append(n.Constraints, constraint)
	return n
}

// SetComment sets the table comment and returns the table node for chaining.
func (n *CreateTableNode) SetComment(comment string) *CreateTableNode {
	n.Comment = comment
	return n
}

// ColumnNode represents a table column definition with all its attributes.
//
// The column type is a logical DataType; each dialect renderer decides the
// concrete SQL type name for it.
type ColumnNode struct {
	// Name is the column name
	Name string
	// Type is the logical column data type
	Type DataType
	// Nullable indicates whether the column allows NULL values (default: true)
	Nullable bool
	// Primary indicates whether this column is the primary key
	Primary bool
	// Unique indicates whether this column has a unique constraint
	Unique bool
	// Default contains the default value specification (literal or function)
	Default *DefaultValue
}

// NewColumn creates a new column node with the specified name and data type.
//
// The column is created with nullable=true by default. Use the fluent API
// methods to configure other properties.
//
// Example:
//
//	column := NewColumn("email", NewDataType(TypeVarchar).WithLength(255))
func NewColumn(name string, dataType DataType) *ColumnNode {
	return &ColumnNode{
		Name:     name,
		Type:     dataType,
		Nullable: true,
	}
}

// Accept implements the Node interface for ColumnNode.
func (n *ColumnNode) Accept(visitor Visitor) error {
	return visitor.VisitColumn(n)
}

// SetPrimary marks the column as a primary key and returns the column for chaining.
//
// Setting a column as primary automatically makes it NOT NULL, as primary keys
// cannot contain NULL values in SQL.
func (n *ColumnNode) SetPrimary() *ColumnNode {
	n.Primary = true
	n.Nullable = false
	return n
}

// SetNotNull marks the column as NOT NULL and returns the column for chaining.
func (n *ColumnNode) SetNotNull() *ColumnNode {
	n.Nullable = false
	return n
}

// SetUnique marks the column as UNIQUE and returns the column for chaining.
//
// This creates a column-level unique constraint. For multi-column unique
// constraints, use table-level constraints instead.
func (n *ColumnNode) SetUnique() *ColumnNode {
	n.Unique = true
	return n
}

// SetDefault sets a literal default value and returns the column for chaining.
//
// The value should be properly quoted for string literals (e.g., "'active'").
// For function calls, use SetDefaultExpression instead.
//
// Example:
//
//	column.SetDefault("'active'")
//	column.SetDefault("0")
func (n *ColumnNode) SetDefault(value string) *ColumnNode {
	n.Default = &DefaultValue{Value: value}
	return n
}

// SetDefaultExpression sets a function as the default value and returns the column for chaining.
//
// Example:
//
//	column.SetDefaultExpression("CURRENT_TIMESTAMP")
func (n *ColumnNode) SetDefaultExpression(fn string) *ColumnNode {
	n.Default = &DefaultValue{Expression: fn}
	return n
}

// ConstraintNode represents table-level constraints (PRIMARY KEY, UNIQUE, FOREIGN KEY).
//
// Table-level constraints can span multiple columns and are rendered after
// the column definitions of a CREATE TABLE statement.
type ConstraintNode struct {
	// Type specifies the constraint type (PRIMARY KEY, UNIQUE, etc.)
	Type ConstraintType
	// Name is the constraint name (optional for some constraint types)
	Name string
	// Columns contains the list of column names involved in the constraint
	Columns []string
	// Reference contains foreign key reference information (only for FOREIGN KEY constraints)
	Reference *ForeignKeyRef
}

// Accept implements the Node interface for ConstraintNode.
func (n *ConstraintNode) Accept(visitor Visitor) error {
	return visitor.VisitConstraint(n)
}

// CommentNode represents SQL comments that can be included in generated scripts.
type CommentNode struct {
	// Text is the comment content
	Text string
}

// NewComment creates a new comment node with the specified text.
//
// Example:
//
//	comment := NewComment("create invoices table")
func NewComment(text string) *CommentNode {
	return &CommentNode{Text: text}
}

// Accept implements the Node interface for CommentNode.
func (n *CommentNode) Accept(visitor Visitor) error {
	return visitor.VisitComment(n)
}

// DropTableNode represents a DROP TABLE statement.
type DropTableNode struct {
	// Name is the name of the table to drop
	Name string
	// IfExists indicates whether to use IF EXISTS clause
	IfExists bool
	// Cascade indicates whether to use CASCADE option (PostgreSQL)
	Cascade bool
	// Comment is an optional comment for the drop operation
	Comment string
}

// NewDropTable creates a new DROP TABLE node with the specified table name.
//
// Example:
//
//	dropTable := NewDropTable("users").SetIfExists()
func NewDropTable(name string) *DropTableNode {
	return &DropTableNode{Name: name}
}

// SetIfExists sets the IF EXISTS option for the DROP TABLE statement.
func (n *DropTableNode) SetIfExists() *DropTableNode {
	n.IfExists = true
	return n
}

// SetCascade sets the CASCADE option for the DROP TABLE statement.
//
// Only PostgreSQL renders it.
func (n *DropTableNode) SetCascade() *DropTableNode {
	n.Cascade = true
	return n
}

// SetComment sets a comment for the DROP TABLE operation.
func (n *DropTableNode) SetComment(comment string) *DropTableNode {
	n.Comment = comment
	return n
}

// Accept implements the Node interface for DropTableNode.
func (n *DropTableNode) Accept(visitor Visitor) error {
	return visitor.VisitDropTable(n)
}

// StatementList represents a collection of SQL statements that should be executed together.
//
// This is typically used to represent a complete migration script that
// contains multiple statements. The visitor processes each statement in order.
type StatementList struct {
	// Statements contains the ordered list of SQL statements
	Statements []Node
}

// Accept implements the Node interface for StatementList.
//
// This method visits each statement in the list in order. If any statement
// fails to be visited, the process stops and returns the error.
func (sl *StatementList) Accept(visitor Visitor) error {
	for _, stmt := range sl.Statements {
		if err := stmt.Accept(visitor); err != nil {
			return fmt.Errorf("error visiting statement: %w", err)
		}
	}
	return nil
}
