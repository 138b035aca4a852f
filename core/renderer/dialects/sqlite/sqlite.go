// Package sqlite renders AST nodes as SQLite DDL.
//
// Column types carry a suffix that describes the stored representation
// (uuid_text, json_text) where scanning does not depend on the declared type.
// Dates keep the plain date and datetime names, which the sqlite3 driver
// needs to scan TEXT values into time.Time.
package sqlite

import (
	"strconv"
	"strings"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/core/renderer/dialects/base"
	"github.com/jrey8343/shipwright/core/renderer/dialects/internal/bufwriter"
	"github.com/jrey8343/shipwright/core/renderer/types"
)

var (
	_ types.RenderVisitor = (*Renderer)(nil)
)

// Renderer provides SQLite-specific SQL rendering
type Renderer struct {
	*base.Renderer
}

// New creates a new SQLite renderer
func New() *Renderer {
	return &Renderer{
		Renderer: base.New(base.Options{
			Dialect:         platform.SQLite,
			QuoteIdentifier: QuoteIdentifier,
			TypeName:        TypeName,
		}, &bufwriter.Writer{}),
	}
}

// QuoteIdentifier wraps name in double quotes, doubling embedded quotes.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// TypeName maps a logical type to its SQLite column type. Every integer size
// collapses to integer.
func TypeName(t ast.DataType) (string, error) {
	switch t.Kind {
	case ast.TypeUUID:
		return "uuid_text", nil
	case ast.TypeVarchar:
		if t.HasLength {
			return "varchar(" + strconv.FormatUint(uint64(t.Length), 10) + ")", nil
		}
		return "varchar", nil
	case ast.TypeText:
		return "text", nil
	case ast.TypeSmallInt, ast.TypeInteger, ast.TypeBigInt, ast.TypeUnsigned:
		return "integer", nil
	case ast.TypeFloat:
		return "float", nil
	case ast.TypeDouble:
		return "double", nil
	case ast.TypeDecimal:
		return "real", nil
	case ast.TypeBoolean:
		return "boolean", nil
	case ast.TypeDate:
		return "date", nil
	case ast.TypeDateTime:
		return "datetime", nil
	case ast.TypeJSON:
		return "json_text", nil
	case ast.TypeJSONB:
		return "jsonb_text", nil
	default:
		return "", &base.UnsupportedTypeError{Dialect: platform.SQLite, Type: t}
	}
}
