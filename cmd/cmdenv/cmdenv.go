// Package cmdenv resolves the global flags shared by every shipwright
// command into a console, a logger and the project configuration.
package cmdenv

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jrey8343/shipwright/config"
	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/dbschema"
	"github.com/jrey8343/shipwright/ui"
)

// Global flags
const (
	EnvFlag     = "env"
	RootFlag    = "root"
	NoColorFlag = "no-color"
	QuietFlag   = "quiet"
	VerboseFlag = "verbose"
)

// RegisterGlobalFlags adds the global flags to root as persistent flags
func RegisterGlobalFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringP(EnvFlag, "e", "", "Environment (development, staging, production, test); defaults to $APP_ENVIRONMENT or development")
	flags.String(RootFlag, ".", "Project root directory")
	flags.Bool(NoColorFlag, false, "Disable colored output")
	flags.BoolP(QuietFlag, "q", false, "Only print errors")
	flags.BoolP(VerboseFlag, "v", false, "Print debug logs")
}

// Env is the environment a command runs in
type Env struct {
	Root    string
	Config  *config.Config
	Console *ui.Console
	Logger  *slog.Logger
}

// Load resolves the global flags of cmd and loads the configuration of the
// project
func Load(cmd *cobra.Command) (*Env, error) {
	flags := cmd.Flags()
	envName, _ := flags.GetString(EnvFlag)
	root, _ := flags.GetString(RootFlag)
	verbose, _ := flags.GetBool(VerboseFlag)

	console := NewConsole(cmd)

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	env, err := resolveEnvironment(envName)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("error resolving path: %w", err)
	}
	if info, err := os.Stat(absRoot); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory does not exist: %s", absRoot)
	}

	cfg, err := config.Load(absRoot, env)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded configuration", "environment", env, "root", absRoot)

	return &Env{
		Root:    absRoot,
		Config:  cfg,
		Console: console,
		Logger:  logger,
	}, nil
}

// NewConsole creates the console for cmd from the --no-color and --quiet
// flags
func NewConsole(cmd *cobra.Command) *ui.Console {
	noColor, _ := cmd.Flags().GetBool(NoColorFlag)
	quiet, _ := cmd.Flags().GetBool(QuietFlag)
	return ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), noColor, quiet)
}

func resolveEnvironment(name string) (config.Environment, error) {
	if name == "" {
		return config.CurrentEnvironment()
	}
	return config.ParseEnvironment(name)
}

// DatabaseURL returns the configured database URL. Relative SQLite paths are
// resolved against the project root.
func (e *Env) DatabaseURL() (string, error) {
	dbURL := e.Config.Database.URL
	target, err := dbschema.ParseDatabaseURL(dbURL)
	if err != nil {
		return "", err
	}
	if target.Dialect != platform.SQLite || target.Database == ":memory:" || filepath.IsAbs(target.Database) {
		return dbURL, nil
	}

	scheme, rest, _ := strings.Cut(dbURL, "://")
	_, query, hasQuery := strings.Cut(rest, "?")
	resolved := scheme + "://" + filepath.ToSlash(filepath.Join(e.Root, target.Database))
	if hasQuery {
		resolved += "?" + query
	}
	return resolved, nil
}

// Path resolves a project relative path
func (e *Env) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(e.Root, filepath.FromSlash(p))
}
