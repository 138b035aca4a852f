package postgres

import (
	"strconv"

	"github.com/lib/pq"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/core/renderer/dialects/base"
	"github.com/jrey8343/shipwright/core/renderer/dialects/internal/bufwriter"
	"github.com/jrey8343/shipwright/core/renderer/types"
)

var (
	_ types.RenderVisitor = (*Renderer)(nil)
)

// Renderer provides PostgreSQL-specific SQL rendering
type Renderer struct {
	*base.Renderer
}

// New creates a new PostgreSQL renderer
func New() *Renderer {
	return &Renderer{
		Renderer: base.New(base.Options{
			Dialect:          platform.Postgres,
			QuoteIdentifier:  pq.QuoteIdentifier,
			TypeName:         TypeName,
			NamedConstraints: true,
			DropCascade:      true,
		}, &bufwriter.Writer{}),
	}
}

// TypeName maps a logical type to its PostgreSQL column type. PostgreSQL has
// no unsigned integers, so unsigned widens to bigint.
func TypeName(t ast.DataType) (string, error) {
	switch t.Kind {
	case ast.TypeUUID:
		return "uuid", nil
	case ast.TypeVarchar:
		if t.HasLength {
			return "varchar(" + strconv.FormatUint(uint64(t.Length), 10) + ")", nil
		}
		return "varchar", nil
	case ast.TypeText:
		return "text", nil
	case ast.TypeSmallInt:
		return "smallint", nil
	case ast.TypeInteger:
		return "integer", nil
	case ast.TypeBigInt, ast.TypeUnsigned:
		return "bigint", nil
	case ast.TypeFloat:
		return "real", nil
	case ast.TypeDouble:
		return "double precision", nil
	case ast.TypeDecimal:
		return "numeric", nil
	case ast.TypeBoolean:
		return "boolean", nil
	case ast.TypeDate:
		return "date", nil
	case ast.TypeDateTime:
		return "timestamp", nil
	case ast.TypeJSON:
		return "json", nil
	case ast.TypeJSONB:
		return "jsonb", nil
	default:
		return "", &base.UnsupportedTypeError{Dialect: platform.Postgres, Type: t}
	}
}
