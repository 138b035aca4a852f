// Package base implements the rendering shared by every dialect. Dialect
// packages supply identifier quoting and the mapping of logical column types
// to SQL type names.
package base

import (
	"fmt"
	"strings"

	"github.com/jrey8343/shipwright/core/ast"
	"github.com/jrey8343/shipwright/core/renderer/dialects/internal/bufwriter"
)

// Options configures a Renderer for one dialect.
type Options struct {
	// Dialect is the platform name reported by the renderer
	Dialect string
	// QuoteIdentifier quotes a table, column or constraint name
	QuoteIdentifier func(string) string
	// TypeName maps a logical type to the dialect's SQL type
	TypeName func(ast.DataType) (string, error)
	// NamedConstraints renders CONSTRAINT <name> before named table constraints
	NamedConstraints bool
	// DropCascade renders CASCADE for DROP TABLE nodes that request it
	DropCascade bool
}

// Renderer renders AST nodes using the configured dialect hooks.
type Renderer struct {
	opts Options
	w    *bufwriter.Writer
}

// New creates a renderer writing to w.
func New(opts Options, w *bufwriter.Writer) *Renderer {
	return &Renderer{opts: opts, w: w}
}

func (r *Renderer) Dialect() string {
	return r.opts.Dialect
}

func (r *Renderer) Reset() {
	r.w.Reset()
}

func (r *Renderer) Output() string {
	return r.w.String()
}

// Render renders an AST node to SQL and returns the result
func (r *Renderer) Render(node ast.Node) (string, error) {
	r.Reset()
	if err := node.Accept(r); err != nil {
		return "", err
	}
	return r.Output(), nil
}

// VisitCreateTable renders a CREATE TABLE statement with one column or
// constraint definition per line, in insertion order.
func (r *Renderer) VisitCreateTable(node *ast.CreateTableNode) error {
	if node.Comment != "" {
		r.w.WriteLinef("-- %s", node.Comment)
	}

	defs := make([]string, 0, len(node.Columns)+len(node.Constraints))
	for _, col := range node.Columns {
		def, err := r.ColumnDefinition(col)
		if err != nil {
			return fmt.Errorf("table %s: %w", node.Name, err)
		}
		defs = append(defs, def)
	}
	for _, constraint := range node.Constraints {
		def, err := r.ConstraintDefinition(constraint)
		if err != nil {
			return fmt.Errorf("table %s: %w", node.Name, err)
		}
		defs = append(defs, def)
	}

	r.w.Write("CREATE TABLE ")
	if node.IfNotExists {
		r.w.Write("IF NOT EXISTS ")
	}
	r.w.WriteLinef("%s (", r.opts.QuoteIdentifier(node.Name))
	for i, def := range defs {
		if i < len(defs)-1 {
			r.w.WriteLinef("  %s,", def)
		} else {
			r.w.WriteLinef("  %s", def)
		}
	}
	r.w.WriteLine(");")
	return nil
}

// VisitColumn renders a single column definition on its own line.
func (r *Renderer) VisitColumn(node *ast.ColumnNode) error {
	def, err := r.ColumnDefinition(node)
	if err != nil {
		return err
	}
	r.w.WriteLine(def)
	return nil
}

// VisitConstraint renders a single table constraint on its own line.
func (r *Renderer) VisitConstraint(node *ast.ConstraintNode) error {
	def, err := r.ConstraintDefinition(node)
	if err != nil {
		return err
	}
	r.w.WriteLine(def)
	return nil
}

// VisitComment renders a comment
func (r *Renderer) VisitComment(node *ast.CommentNode) error {
	for _, line := range strings.Split(node.Text, "\n") {
		r.w.WriteLinef("-- %s", line)
	}
	return nil
}

// VisitDropTable renders DROP TABLE statements
func (r *Renderer) VisitDropTable(node *ast.DropTableNode) error {
	if node.Comment != "" {
		r.w.WriteLinef("-- %s", node.Comment)
	}
	r.w.Write("DROP TABLE ")
	if node.IfExists {
		r.w.Write("IF EXISTS ")
	}
	r.w.Write(r.opts.QuoteIdentifier(node.Name))
	if node.Cascade && r.opts.DropCascade {
		r.w.Write(" CASCADE")
	}
	r.w.WriteLine(";")
	return nil
}

// ColumnDefinition returns the column clause of a CREATE TABLE statement:
// name, type, then PRIMARY KEY or NOT NULL, UNIQUE and DEFAULT.
func (r *Renderer) ColumnDefinition(col *ast.ColumnNode) (string, error) {
	typeName, err := r.opts.TypeName(col.Type)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", col.Name, err)
	}

	var sb strings.Builder
	sb.WriteString(r.opts.QuoteIdentifier(col.Name))
	sb.WriteByte(' ')
	sb.WriteString(typeName)
	switch {
	case col.Primary:
		sb.WriteString(" PRIMARY KEY")
	case !col.Nullable:
		sb.WriteString(" NOT NULL")
	}
	if col.Unique {
		sb.WriteString(" UNIQUE")
	}
	if col.Default != nil {
		sb.WriteString(" DEFAULT ")
		if col.Default.Expression != "" {
			sb.WriteString(col.Default.Expression)
		} else {
			sb.WriteString(col.Default.Value)
		}
	}
	return sb.String(), nil
}

// ConstraintDefinition returns a table-level constraint clause.
func (r *Renderer) ConstraintDefinition(c *ast.ConstraintNode) (string, error) {
	var sb strings.Builder
	if r.opts.NamedConstraints && c.Name != "" && c.Type != ast.PrimaryKeyConstraint {
		sb.WriteString("CONSTRAINT ")
		sb.WriteString(r.opts.QuoteIdentifier(c.Name))
		sb.WriteByte(' ')
	}
	sb.WriteString(c.Type.String())
	sb.WriteString(" (")
	sb.WriteString(r.quoteList(c.Columns))
	sb.WriteByte(')')

	if c.Type != ast.ForeignKeyConstraint {
		return sb.String(), nil
	}
	if c.Reference == nil {
		return "", fmt.Errorf("foreign key on (%s) has no reference", strings.Join(c.Columns, ", "))
	}
	fmt.Fprintf(&sb, " REFERENCES %s (%s)",
		r.opts.QuoteIdentifier(c.Reference.Table),
		r.opts.QuoteIdentifier(c.Reference.Column))
	if c.Reference.OnDelete != "" {
		sb.WriteString(" ON DELETE ")
		sb.WriteString(c.Reference.OnDelete)
	}
	if c.Reference.OnUpdate != "" {
		sb.WriteString(" ON UPDATE ")
		sb.WriteString(c.Reference.OnUpdate)
	}
	return sb.String(), nil
}

func (r *Renderer) quoteList(names []string) string {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = r.opts.QuoteIdentifier(name)
	}
	return strings.Join(quoted, ", ")
}

// UnsupportedTypeError reports a logical type a dialect cannot render.
type UnsupportedTypeError struct {
	Dialect string
	Type    ast.DataType
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("type %s is not supported by %s", e.Type, e.Dialect)
}
