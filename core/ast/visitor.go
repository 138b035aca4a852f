package ast

// Visitor is implemented by every dialect renderer. Each method receives one
// node kind; StatementList dispatches to the node methods in order.
type Visitor interface {
	VisitCreateTable(node *CreateTableNode) error
	VisitColumn(node *ColumnNode) error
	VisitConstraint(node *ConstraintNode) error
	VisitComment(node *CommentNode) error
	VisitDropTable(node *DropTableNode) error
}
