package types

import (
	"github.com/jrey8343/shipwright/core/ast"
)

// RenderVisitor is an ast.Visitor that accumulates dialect specific SQL.
type RenderVisitor interface {
	ast.Visitor

	// Dialect returns the platform name of the renderer (see core/platform)
	Dialect() string
	// Render resets the renderer, visits node and returns the produced SQL
	Render(node ast.Node) (string, error)
	// Output returns the SQL accumulated so far
	Output() string
	// Reset discards the accumulated SQL
	Reset()
}
