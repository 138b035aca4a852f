// Package mysqllike holds the rendering shared by MySQL and MariaDB.
package mysqllike

import (
	"strconv"
	"strings"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/core/renderer/dialects/base"
	"github.com/jrey8343/shipwright/core/renderer/dialects/internal/bufwriter"
)

// defaultVarcharLength is used for varchar columns without a length, which
// MySQL rejects.
const defaultVarcharLength = 255

// Renderer renders MySQL-family SQL
type Renderer struct {
	*base.Renderer
}

// New creates a renderer for dialect (platform.MySQL or platform.MariaDB)
func New(dialect string, w *bufwriter.Writer) *Renderer {
	return &Renderer{
		Renderer: base.New(base.Options{
			Dialect:          dialect,
			QuoteIdentifier:  QuoteIdentifier,
			TypeName:         typeNameFunc(dialect),
			NamedConstraints: true,
		}, w),
	}
}

// QuoteIdentifier wraps name in backticks, doubling embedded backticks.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func typeNameFunc(dialect string) func(ast.DataType) (string, error) {
	return func(t ast.DataType) (string, error) {
		switch t.Kind {
		case ast.TypeUUID:
			// MariaDB has had a native UUID type since 10.7
			if dialect == platform.MariaDB {
				return "uuid", nil
			}
			return "char(36)", nil
		case ast.TypeVarchar:
			n := uint64(defaultVarcharLength)
			if t.HasLength {
				n = uint64(t.Length)
			}
			return "varchar(" + strconv.FormatUint(n, 10) + ")", nil
		case ast.TypeText:
			return "text", nil
		case ast.TypeSmallInt:
			return "smallint", nil
		case ast.TypeInteger:
			return "int", nil
		case ast.TypeBigInt:
			return "bigint", nil
		case ast.TypeUnsigned:
			return "int unsigned", nil
		case ast.TypeFloat:
			return "float", nil
		case ast.TypeDouble:
			return "double", nil
		case ast.TypeDecimal:
			return "decimal", nil
		case ast.TypeBoolean:
			return "boolean", nil
		case ast.TypeDate:
			return "date", nil
		case ast.TypeDateTime:
			return "datetime", nil
		case ast.TypeJSON, ast.TypeJSONB:
			return "json", nil
		default:
			return "", &base.UnsupportedTypeError{Dialect: dialect, Type: t}
		}
	}
}
