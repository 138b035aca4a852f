package mocks

import (
	"errors"

	"github.com/jrey8343/shipwright/core/ast"
)

// MockVisitor implements the Visitor interface for testing
type MockVisitor struct {
	VisitedNodes []string
	ReturnError  bool
}

var _ ast.Visitor = (*MockVisitor)(nil)

func (m *MockVisitor) record(entry string) error {
	m.VisitedNodes = append(m.VisitedNodes, entry)
	if m.ReturnError {
		return errors.New("mock error")
	}
	return nil
}

func (m *MockVisitor) VisitCreateTable(node *ast.CreateTableNode) error {
	return m.record("CreateTable:" + node.Name)
}

func (m *MockVisitor) VisitColumn(node *ast.ColumnNode) error {
	return m.record("Column:" + node.Name)
}

func (m *MockVisitor) VisitConstraint(node *ast.ConstraintNode) error {
	return m.record("Constraint:" + node.Name)
}

func (m *MockVisitor) VisitComment(node *ast.CommentNode) error {
	return m.record("Comment:" + node.Text)
}

func (m *MockVisitor) VisitDropTable(node *ast.DropTableNode) error {
	return m.record("DropTable:" + node.Name)
}
