package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/jrey8343/shipwright/cmd/cmdenv"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/scaffold"
	"github.com/jrey8343/shipwright/scaffold/blueprint"
)

// Generation flags, shared by every subcommand
const (
	forceFlag   = "force"
	dryRunFlag  = "dry-run"
	dialectFlag = "dialect"
)

// newGenerateFlags returns the generation flags. Flags bind to viper on
// first read, so every command gets its own map.
func newGenerateFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		forceFlag: &cobraflags.BoolFlag{
			Name:       forceFlag,
			Persistent: true,
			Value:      false,
			Usage:      "Overwrite existing files",
		},
		dryRunFlag: &cobraflags.BoolFlag{
			Name:       dryRunFlag,
			Persistent: true,
			Value:      false,
			Usage:      "Print the files instead of writing them",
		},
		dialectFlag: &cobraflags.StringFlag{
			Name:       dialectFlag,
			Persistent: true,
			Value:      "",
			Usage:      "Database dialect (sqlite, postgres, mysql, mariadb); defaults to the configured dialect",
		},
	}
}

// Inspection flags
const (
	formatFlag = "format"
)

func newInspectFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		formatFlag: &cobraflags.StringFlag{
			Name:  formatFlag,
			Value: scaffold.FormatYAML,
			Usage: "Output format (yaml, json)",
		},
	}
}

const fieldsHelp = `Fields are given as name:type[modifiers] or name:references[=table(column)].

Types: uuid, string, text, int, smallint, bigint, unsigned, float, double,
decimal, bool, date, datetime, json, jsonb. Modifiers: a length for strings
(title:string120), ! for NOT NULL and ^ for UNIQUE.`

func NewGenerateCommand() *cobra.Command {
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate project files",
		Long: `Generate entities, migrations, controllers, views and middlewares.

` + fieldsHelp + `

Examples:
  shipwright generate scaffold post id:uuid!^ title:string!^ body:text author:references
  shipwright generate migration add_slug_index
  shipwright generate inspect post title:string120! --format json`,
	}

	flags := newGenerateFlags()
	cobraflags.RegisterMap(generateCmd, flags)

	generateCmd.AddCommand(
		newResourceCommand(flags, "entity", "Generate an entity", true, func(ctx context.Context, g *scaffold.Generator, name string, fields []string) (*scaffold.Plan, error) {
			return g.Entity(ctx, name, fields)
		}),
		newResourceCommand(flags, "migration", "Generate a create table migration, or an empty one without fields", false, func(ctx context.Context, g *scaffold.Generator, name string, fields []string) (*scaffold.Plan, error) {
			return g.Migration(ctx, name, fields)
		}),
		newNameCommand(flags, "controller", "Generate a controller and register its routes", func(ctx context.Context, g *scaffold.Generator, name string) (*scaffold.Plan, error) {
			return g.Controller(ctx, name)
		}),
		newResourceCommand(flags, "controller-test", "Generate the tests of a controller", true, func(ctx context.Context, g *scaffold.Generator, name string, fields []string) (*scaffold.Plan, error) {
			return g.ControllerTest(ctx, name, fields)
		}),
		newResourceCommand(flags, "view", "Generate a view and its templates", true, func(ctx context.Context, g *scaffold.Generator, name string, fields []string) (*scaffold.Plan, error) {
			return g.View(ctx, name, fields)
		}),
		newNameCommand(flags, "middleware", "Generate a middleware", func(ctx context.Context, g *scaffold.Generator, name string) (*scaffold.Plan, error) {
			return g.Middleware(ctx, name)
		}),
		newResourceCommand(flags, "scaffold", "Generate the entity, migration, views and controller of a resource", true, func(ctx context.Context, g *scaffold.Generator, name string, fields []string) (*scaffold.Plan, error) {
			return g.Scaffold(ctx, name, fields)
		}),
		newInspectCommand(flags),
	)
	return generateCmd
}

type resourceFunc func(ctx context.Context, g *scaffold.Generator, name string, fields []string) (*scaffold.Plan, error)

type nameFunc func(ctx context.Context, g *scaffold.Generator, name string) (*scaffold.Plan, error)

// newResourceCommand creates a subcommand taking a resource name followed by
// field specs
func newResourceCommand(flags map[string]cobraflags.Flag, use, short string, needsModule bool, fn resourceFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name> [fields...]",
		Short: short,
		Long:  short + ".\n\n" + fieldsHelp,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, needsModule, func(ctx context.Context, g *scaffold.Generator) (*scaffold.Plan, error) {
				return fn(ctx, g, args[0], args[1:])
			})
		},
	}
}

// newNameCommand creates a subcommand taking only a name
func newNameCommand(flags map[string]cobraflags.Flag, use, short string, fn nameFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, true, func(ctx context.Context, g *scaffold.Generator) (*scaffold.Plan, error) {
				return fn(ctx, g, args[0])
			})
		},
	}
}

func newInspectCommand(generateFlags map[string]cobraflags.Flag) *cobra.Command {
	flags := newInspectFlags()
	inspectCmd := &cobra.Command{
		Use:   "inspect <name> [fields...]",
		Short: "Print the compiled fields, struct fields and DDL of a resource",
		Long: `Print the compiled fields, struct fields and DDL of a resource without
generating anything.

` + fieldsHelp,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspectCommand(cmd, generateFlags, flags[formatFlag].GetString(), args)
		},
	}

	cobraflags.RegisterMap(inspectCmd, flags)
	return inspectCmd
}

func inspectCommand(cmd *cobra.Command, generateFlags map[string]cobraflags.Flag, format string, args []string) error {
	env, err := cmdenv.Load(cmd)
	if err != nil {
		return err
	}
	g, err := newGenerator(generateFlags, env, false)
	if err != nil {
		return err
	}

	inspection, err := g.Inspect(args[0], args[1:])
	if err != nil {
		return err
	}
	out, err := inspection.Encode(format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(out)
	return err
}

// run renders a plan with fn and writes it to the project
func run(cmd *cobra.Command, flags map[string]cobraflags.Flag, needsModule bool, fn func(context.Context, *scaffold.Generator) (*scaffold.Plan, error)) error {
	env, err := cmdenv.Load(cmd)
	if err != nil {
		return err
	}
	g, err := newGenerator(flags, env, needsModule)
	if err != nil {
		return err
	}

	plan, err := fn(cmd.Context(), g)
	if err != nil {
		return fmt.Errorf("error generating files: %w", err)
	}

	writer := scaffold.NewWriter(env.Root).
		WithLogger(env.Logger).
		WithForce(flags[forceFlag].GetBool()).
		WithDryRun(flags[dryRunFlag].GetBool(), cmd.OutOrStdout())

	result, err := writer.Apply(plan)
	if err != nil {
		return err
	}

	console := env.Console
	for _, p := range result.Created {
		console.Success("Created %s", p)
	}
	for _, p := range result.Updated {
		console.Success("Updated %s", p)
	}
	for _, p := range result.Skipped {
		console.Log("Skipped %s", p)
	}
	if len(result.NextSteps) > 0 {
		console.Info("Next steps:")
		console.Indent()
		for _, step := range result.NextSteps {
			console.Log("%s", step)
		}
		console.Outdent()
	}
	return nil
}

// newGenerator configures a generator from the project configuration and
// flags. The module path is read from go.mod, falling back to the
// configured one.
func newGenerator(flags map[string]cobraflags.Flag, env *cmdenv.Env, needsModule bool) (*scaffold.Generator, error) {
	cfg := env.Config

	dialect := cfg.Generator.Dialect
	if flag := flags[dialectFlag].GetString(); flag != "" {
		dialect = platform.NormalizeDialect(flag)
		if dialect == "" {
			return nil, fmt.Errorf("unsupported dialect %q (use one of %s)", flag, strings.Join(platform.Dialects, ", "))
		}
	}

	module, err := scaffold.DetectModule(env.Root)
	if err != nil {
		if !errors.Is(err, scaffold.ErrNoModule) || (cfg.Module == "" && needsModule) {
			return nil, err
		}
		module = cfg.Module
	}

	g := scaffold.NewGenerator(blueprint.Default(), module).
		WithRoot(env.Root).
		WithLayout(cfg.Layout).
		WithDialect(dialect).
		WithLogger(env.Logger)
	if cfg.Generator.Workers > 0 {
		g = g.WithWorkers(cfg.Generator.Workers)
	}
	return g, nil
}
