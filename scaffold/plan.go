// Package scaffold turns field specs into the files of a resource: entity,
// migration, controller, views, tests and middleware.
//
// Generation happens in two steps. A Generator renders every file of a
// request in memory and returns a Plan; a Writer applies the plan to the
// project directory. A request that fails at any step leaves the project
// untouched.
package scaffold

import "path/filepath"

// Operation is what the writer does with a generated file
type Operation string

const (
	// OperationCreate creates the file
	OperationCreate Operation = "create"
	// OperationInsertBefore inserts the content before the line holding the
	// marker of an existing file
	OperationInsertBefore Operation = "insert_before"
)

// GeneratedFile is a rendered file. Paths are slash separated and relative
// to the project root.
type GeneratedFile struct {
	Path      string    `json:"path" yaml:"path"`
	Content   string    `json:"content" yaml:"content"`
	Operation Operation `json:"operation" yaml:"operation"`
	Marker    string    `json:"marker,omitempty" yaml:"marker,omitempty"`
}

// Plan is the outcome of a generation request
type Plan struct {
	Files     []GeneratedFile `json:"files" yaml:"files"`
	NextSteps []string        `json:"next_steps,omitempty" yaml:"next_steps,omitempty"`
}

// Paths returns the paths of the plan's files in order
func (p *Plan) Paths() []string {
	paths := make([]string, len(p.Files))
	for i, f := range p.Files {
		paths[i] = f.Path
	}
	return paths
}

// RoutesMarker is the line of the routes file before which route
// registrations are inserted
const RoutesMarker = "// shipwright:routes"

// Layout locates the generated files in the project. Directories are slash
// separated and relative to the project root.
type Layout struct {
	Entities    string `mapstructure:"entities" json:"entities" yaml:"entities"`
	Migrations  string `mapstructure:"migrations" json:"migrations" yaml:"migrations"`
	Controllers string `mapstructure:"controllers" json:"controllers" yaml:"controllers"`
	Views       string `mapstructure:"views" json:"views" yaml:"views"`
	Templates   string `mapstructure:"templates" json:"templates" yaml:"templates"`
	Middlewares string `mapstructure:"middlewares" json:"middlewares" yaml:"middlewares"`
	// Routes is the file holding RoutesMarker
	Routes string `mapstructure:"routes" json:"routes" yaml:"routes"`
}

// DefaultLayout returns the layout of new projects
func DefaultLayout() Layout {
	return Layout{
		Entities:    "db/entities",
		Migrations:  "db/migrations",
		Controllers: "web/controllers",
		Views:       "web/views",
		Templates:   "ui/templates",
		Middlewares: "web/middlewares",
		Routes:      "web/routes.go",
	}
}

// relative returns the slash separated path leading from directory from to
// target. Both are relative to the same root.
func relative(from, target string) string {
	rel, err := filepath.Rel(filepath.FromSlash(from), filepath.FromSlash(target))
	if err != nil {
		return target
	}
	return filepath.ToSlash(rel)
}
