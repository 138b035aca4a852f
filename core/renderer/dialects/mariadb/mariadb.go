package mariadb

import (
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/core/renderer/dialects/internal/bufwriter"
	"github.com/jrey8343/shipwright/core/renderer/dialects/mysqllike"
	"github.com/jrey8343/shipwright/core/renderer/types"
)

var (
	_ types.RenderVisitor = (*Renderer)(nil)
)

// Renderer provides MariaDB-specific SQL rendering
type Renderer struct {
	*mysqllike.Renderer
}

// New creates a new MariaDB renderer
func New() *Renderer {
	return &Renderer{
		Renderer: mysqllike.New(platform.MariaDB, &bufwriter.Writer{}),
	}
}
