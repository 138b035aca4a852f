package scaffold

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/jrey8343/shipwright/core/fieldspec"
	"github.com/jrey8343/shipwright/core/naming"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/migration/generator"
	"github.com/jrey8343/shipwright/scaffold/blueprint"
)

// ErrNoStore is returned when a resource needs an entity store that cannot
// be generated: the fields have no "id" or the dialect cannot return rows
// from writes.
var ErrNoStore = errors.New("resource has no entity store")

// ErrEmptyName is returned for requests without a resource name
var ErrEmptyName = errors.New("name is required")

// Generator renders the files of generation requests. It never touches the
// project directory except to read existing migrations.
type Generator struct {
	registry *blueprint.Registry
	module   string
	root     string
	layout   Layout
	dialect  string
	workers  int
	now      func() time.Time
	logger   *slog.Logger
}

// NewGenerator creates a generator for the Go module module, rendering with
// the blueprints of registry.
func NewGenerator(registry *blueprint.Registry, module string) *Generator {
	return &Generator{
		registry: registry,
		module:   module,
		root:     ".",
		layout:   DefaultLayout(),
		dialect:  platform.SQLite,
		workers:  runtime.GOMAXPROCS(0),
		now:      time.Now,
		logger:   slog.Default(),
	}
}

// WithLogger sets the logger for the generator
func (g *Generator) WithLogger(l *slog.Logger) *Generator {
	tmp := *g
	tmp.logger = l
	return &tmp
}

// WithWorkers sets the number of files rendered in parallel
func (g *Generator) WithWorkers(n int) *Generator {
	tmp := *g
	tmp.workers = max(n, 1)
	return &tmp
}

// WithClock sets the clock used for migration versions
func (g *Generator) WithClock(now func() time.Time) *Generator {
	tmp := *g
	tmp.now = now
	return &tmp
}

// WithLayout sets the project layout
func (g *Generator) WithLayout(layout Layout) *Generator {
	tmp := *g
	tmp.layout = layout
	return &tmp
}

// WithDialect sets the database dialect of migrations and entity stores
func (g *Generator) WithDialect(dialect string) *Generator {
	tmp := *g
	tmp.dialect = dialect
	return &tmp
}

// WithRoot sets the project directory, used to find existing migrations
func (g *Generator) WithRoot(root string) *Generator {
	tmp := *g
	tmp.root = root
	return &tmp
}

// task is one blueprint rendered to one file
type task struct {
	blueprint string
	path      string
	operation Operation
	marker    string
}

func createTask(name, p string) task {
	return task{blueprint: name, path: p, operation: OperationCreate}
}

// Entity renders the entity of resource name
func (g *Generator) Entity(ctx context.Context, name string, specs []string) (*Plan, error) {
	data, err := g.data(name, specs)
	if err != nil {
		return nil, err
	}
	return g.render(ctx, data, g.entityTasks(data), nil)
}

// Migration renders a migration creating the table of resource name with
// the given fields. Without fields it renders an empty migration called
// name.
func (g *Generator) Migration(ctx context.Context, name string, specs []string) (*Plan, error) {
	data, err := g.data(name, specs)
	if err != nil {
		return nil, err
	}
	tasks, err := g.migrationTasks(data, len(specs) == 0)
	if err != nil {
		return nil, err
	}
	return g.render(ctx, data, tasks, []string{migrateStep})
}

// Controller renders the controller of resource name and its route
// registration. The entity and views of the resource must exist.
func (g *Generator) Controller(ctx context.Context, name string) (*Plan, error) {
	data, err := g.data(name, nil)
	if err != nil {
		return nil, err
	}
	return g.render(ctx, data, g.controllerTasks(data), nil)
}

// ControllerTest renders the HTTP tests of the controller of resource name
func (g *Generator) ControllerTest(ctx context.Context, name string, specs []string) (*Plan, error) {
	data, err := g.storeData(name, specs)
	if err != nil {
		return nil, err
	}
	return g.render(ctx, data, g.controllerTestTasks(data), nil)
}

// View renders the view and templates of resource name. Forms get an input
// per changeset field.
func (g *Generator) View(ctx context.Context, name string, specs []string) (*Plan, error) {
	data, err := g.data(name, specs)
	if err != nil {
		return nil, err
	}
	return g.render(ctx, data, g.viewTasks(data), nil)
}

// Middleware renders a request logging middleware called name
func (g *Generator) Middleware(ctx context.Context, name string) (*Plan, error) {
	data, err := g.data(name, nil)
	if err != nil {
		return nil, err
	}
	tasks := []task{createTask(blueprint.Middleware, path.Join(g.layout.Middlewares, data.Resource.Name+".go"))}
	return g.render(ctx, data, tasks, nil)
}

// Scaffold renders every file of resource name
func (g *Generator) Scaffold(ctx context.Context, name string, specs []string) (*Plan, error) {
	data, err := g.storeData(name, specs)
	if err != nil {
		return nil, err
	}
	migrationTasks, err := g.migrationTasks(data, false)
	if err != nil {
		return nil, err
	}

	var tasks []task
	tasks = append(tasks, g.entityTasks(data)...)
	tasks = append(tasks, migrationTasks...)
	tasks = append(tasks, g.viewTasks(data)...)
	tasks = append(tasks, g.controllerTasks(data)...)
	tasks = append(tasks, g.controllerTestTasks(data)...)
	return g.render(ctx, data, tasks, []string{migrateStep, testStep})
}

const (
	migrateStep = "Run `shipwright db migrate` to apply the migration"
	testStep    = "Run `go test ./...` to check the generated code"
)

func (g *Generator) entityTasks(data *blueprint.Data) []task {
	return []task{createTask(blueprint.Entity, path.Join(g.layout.Entities, data.Resource.Plural+".go"))}
}

func (g *Generator) migrationTasks(data *blueprint.Data, empty bool) ([]task, error) {
	opts := generator.Options{
		OutputDir: g.layout.Migrations,
		Existing:  os.DirFS(filepath.Join(g.root, filepath.FromSlash(g.layout.Migrations))),
		Now:       g.now,
	}

	var (
		files *generator.MigrationFiles
		err   error
	)
	if empty {
		opts.MigrationName = data.Name
		files, err = generator.PlanEmpty(opts)
	} else {
		files, err = generator.PlanCreateTable(generator.CreateTableOptions{
			Options: opts,
			Table:   data.Table,
			Fields:  data.Fields,
			Dialect: data.Dialect,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("failed to plan migration: %w", err)
	}

	data.Migration = blueprint.Migration{Name: files.Name, UpSQL: files.UpSQL, DownSQL: files.DownSQL}
	return []task{
		createTask(blueprint.MigrationUp, filepath.ToSlash(files.UpFile)),
		createTask(blueprint.MigrationDown, filepath.ToSlash(files.DownFile)),
	}, nil
}

func (g *Generator) controllerTasks(data *blueprint.Data) []task {
	return []task{
		createTask(blueprint.Controller, path.Join(g.layout.Controllers, data.Resource.Singular+".go")),
		{
			blueprint: blueprint.RoutesSnippet,
			path:      g.layout.Routes,
			operation: OperationInsertBefore,
			marker:    RoutesMarker,
		},
	}
}

func (g *Generator) controllerTestTasks(data *blueprint.Data) []task {
	return []task{createTask(blueprint.ControllerTest, path.Join(g.layout.Controllers, data.Resource.Singular+"_test.go"))}
}

func (g *Generator) viewTasks(data *blueprint.Data) []task {
	dir := path.Join(g.layout.Templates, data.Resource.Plural)
	return []task{
		createTask(blueprint.View, path.Join(g.layout.Views, data.Resource.Plural+".go")),
		createTask(blueprint.ViewIndex, path.Join(dir, "index.html")),
		createTask(blueprint.ViewShow, path.Join(dir, "show.html")),
		createTask(blueprint.ViewUpdate, path.Join(dir, "update.html")),
	}
}

// data parses specs and compiles the blueprint input. Parsing fails fast on
// the first invalid spec.
func (g *Generator) data(name string, specs []string) (*blueprint.Data, error) {
	if naming.SnakeCase(name) == "" {
		return nil, ErrEmptyName
	}
	fields, err := fieldspec.Parse(specs)
	if err != nil {
		return nil, err
	}

	data := blueprint.NewData(name, fields, g.dialect)
	data.Packages = blueprint.Packages{
		Entities:      path.Join(g.module, g.layout.Entities),
		Views:         path.Join(g.module, g.layout.Views),
		Controllers:   path.Join(g.module, g.layout.Controllers),
		MigrationsDir: relative(g.layout.Controllers, g.layout.Migrations),
		TemplatesDir:  relative(g.layout.Controllers, g.layout.Templates),
	}
	return data, nil
}

// storeData is data for requests that need the entity store
func (g *Generator) storeData(name string, specs []string) (*blueprint.Data, error) {
	data, err := g.data(name, specs)
	if err != nil {
		return nil, err
	}
	if data.Queries == nil {
		if !data.HasID {
			return nil, fmt.Errorf("%w: add an id field, e.g. id:uuid!^", ErrNoStore)
		}
		return nil, fmt.Errorf("%w: dialect %s is not supported", ErrNoStore, g.dialect)
	}
	return data, nil
}

// render executes tasks in parallel. Files keep the order of tasks.
func (g *Generator) render(ctx context.Context, data *blueprint.Data, tasks []task, nextSteps []string) (*Plan, error) {
	files := make([]GeneratedFile, len(tasks))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)
	for i, t := range tasks {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			content, err := g.renderFile(t, data)
			if err != nil {
				return err
			}
			files[i] = GeneratedFile{
				Path:      t.path,
				Content:   content,
				Operation: t.operation,
				Marker:    t.marker,
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	g.logger.Debug("Rendered plan", "resource", data.Name, "files", len(files))
	return &Plan{Files: files, NextSteps: nextSteps}, nil
}

// renderFile renders one task. Go files are formatted and their imports
// fixed.
func (g *Generator) renderFile(t task, data *blueprint.Data) (string, error) {
	out, err := g.registry.Render(t.blueprint, data)
	if err != nil {
		return "", err
	}
	if !strings.HasSuffix(t.path, ".go") || t.operation != OperationCreate {
		return out, nil
	}
	formatted, err := imports.Process(filepath.FromSlash(t.path), []byte(out), nil)
	if err != nil {
		return "", fmt.Errorf("failed to format %s: %w", t.path, err)
	}
	return string(formatted), nil
}
