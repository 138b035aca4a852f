// Package blueprint renders the file templates of generated code.
//
// A blueprint is a text/template stored as <name>.tmpl. Blueprints of HTML
// files use [[ and ]] as delimiters so the {{ and }} actions of the
// generated html/template files pass through untouched.
package blueprint

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"
	"text/template"

	"github.com/go-extras/go-kit/must"
)

//go:embed templates
var templatesFS embed.FS

const templateExt = ".tmpl"

// Blueprint names.
const (
	Entity         = "entity.go"
	Controller     = "controller.go"
	ControllerTest = "controller_test.go"
	View           = "view.go"
	ViewIndex      = "view/index.html"
	ViewShow       = "view/show.html"
	ViewUpdate     = "view/update.html"
	Middleware     = "middleware.go"
	MigrationUp    = "migration.up.sql"
	MigrationDown  = "migration.down.sql"
	RoutesSnippet  = "routes.snippet"
)

const (
	htmlLeftDelimiter  = "[["
	htmlRightDelimiter = "]]"
)

// ErrUnknownBlueprint is returned when rendering a name with no template.
var ErrUnknownBlueprint = errors.New("unknown blueprint")

// Registry holds parsed blueprints by name.
type Registry struct {
	templates map[string]*template.Template
}

// NewRegistry parses every *.tmpl file of fsys. A file's blueprint name is
// its path without the extension.
func NewRegistry(fsys fs.FS) (*Registry, error) {
	r := &Registry{templates: make(map[string]*template.Template)}

	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, templateExt) {
			return nil
		}
		content, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("failed to read blueprint %s: %w", p, err)
		}
		name := strings.TrimSuffix(p, templateExt)
		tmpl := template.New(name).Funcs(Funcs()).Option("missingkey=error")
		if path.Ext(name) == ".html" {
			tmpl = tmpl.Delims(htmlLeftDelimiter, htmlRightDelimiter)
		}
		if _, err := tmpl.Parse(string(content)); err != nil {
			return fmt.Errorf("failed to parse blueprint %s: %w", p, err)
		}
		r.templates[name] = tmpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Default returns the registry of the built-in blueprints.
func Default() *Registry {
	return must.Must(NewRegistry(must.Must(fs.Sub(templatesFS, "templates"))))
}

// Names returns the sorted blueprint names.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.templates))
}

// Has reports whether a blueprint called name exists.
func (r *Registry) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes the blueprint called name with data.
func (r *Registry) Render(name string, data any) (string, error) {
	tmpl, ok := r.templates[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownBlueprint, name)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render blueprint %s: %w", name, err)
	}
	return sb.String(), nil
}
