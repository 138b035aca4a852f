// Package renderer turns AST nodes into SQL for a named dialect.
package renderer

import (
	"fmt"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/core/renderer/dialects/mariadb"
	"github.com/jrey8343/shipwright/core/renderer/dialects/mysql"
	"github.com/jrey8343/shipwright/core/renderer/dialects/postgres"
	"github.com/jrey8343/shipwright/core/renderer/dialects/sqlite"
	"github.com/jrey8343/shipwright/core/renderer/types"
)

// NewRenderer returns the renderer for dialect. Dialect aliases accepted by
// platform.NormalizeDialect are allowed.
func NewRenderer(dialect string) (types.RenderVisitor, error) {
	switch platform.NormalizeDialect(dialect) {
	case platform.SQLite:
		return sqlite.New(), nil
	case platform.Postgres:
		return postgres.New(), nil
	case platform.MySQL:
		return mysql.New(), nil
	case platform.MariaDB:
		return mariadb.New(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %q", dialect)
	}
}

// RenderSQL renders the nodes in order and returns the concatenated SQL.
func RenderSQL(dialect string, nodes ...ast.Node) (string, error) {
	r, err := NewRenderer(dialect)
	if err != nil {
		return "", err
	}
	return r.Render(&ast.StatementList{Statements: nodes})
}
