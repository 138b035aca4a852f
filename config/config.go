// Package config loads the layered configuration of a generated project.
//
// Settings are read from these sources, each overriding the ones before it:
//
//   - built-in defaults
//   - config/app.{yaml,yml,toml}
//   - config/environments/<environment>.{yaml,yml,toml}
//   - APP_ environment variables, with "__" separating nested keys
//     (APP_DATABASE__URL sets database.url)
//
// In development and test, variables missing from the process environment
// are first loaded from .env or .env.test in the project root, or in
// APP_DOTENV_CONFIG_DIR when it is set. Staging and production only use the
// process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/jrey8343/shipwright/core/platform"
	"github.com/jrey8343/shipwright/scaffold"
)

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "APP"

// EnvironmentVariable selects the environment when no flag does
const EnvironmentVariable = EnvPrefix + "_ENVIRONMENT"

// DotenvDirVariable overrides the directory holding .env files
const DotenvDirVariable = EnvPrefix + "_DOTENV_CONFIG_DIR"

// ErrUnknownEnvironment is returned for environment names ParseEnvironment
// does not recognize
var ErrUnknownEnvironment = errors.New("unknown environment")

// Environment is the environment a project runs in
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Production  Environment = "production"
	Test        Environment = "test"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment parses an environment name. Matching is case insensitive
// and accepts the short forms dev, stage and prod.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return Development, nil
	case "stage", "staging":
		return Staging, nil
	case "prod", "production":
		return Production, nil
	case "test":
		return Test, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEnvironment, s)
	}
}

// CurrentEnvironment returns the environment named by APP_ENVIRONMENT, or
// Development when it is unset
func CurrentEnvironment() (Environment, error) {
	value, ok := os.LookupEnv(EnvironmentVariable)
	if !ok || value == "" {
		return Development, nil
	}
	return ParseEnvironment(value)
}

// Config is the configuration of a project
type Config struct {
	Environment Environment     `mapstructure:"environment" json:"environment" yaml:"environment"`
	Module      string          `mapstructure:"module" json:"module,omitempty" yaml:"module,omitempty"`
	Database    DatabaseConfig  `mapstructure:"database" json:"database" yaml:"database"`
	Generator   GeneratorConfig `mapstructure:"generator" json:"generator" yaml:"generator"`
	Layout      scaffold.Layout `mapstructure:"layout" json:"layout" yaml:"layout"`
}

// DatabaseConfig configures the project database
type DatabaseConfig struct {
	URL   string `mapstructure:"url" json:"url" yaml:"url"`
	Seeds string `mapstructure:"seeds" json:"seeds" yaml:"seeds"`
}

// GeneratorConfig configures code generation
type GeneratorConfig struct {
	// Dialect is the SQL dialect of generated migrations and stores
	Dialect string `mapstructure:"dialect" json:"dialect" yaml:"dialect"`
	// Workers bounds the number of files rendered in parallel; 0 uses
	// GOMAXPROCS
	Workers int `mapstructure:"workers" json:"workers" yaml:"workers"`
}

// Load reads the configuration of the project rooted at root for env
func Load(root string, env Environment) (*Config, error) {
	if err := loadDotenv(root, env); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v, env)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "__"))
	v.AutomaticEnv()

	dir := filepath.Join(root, "config")
	for _, file := range []string{
		findConfigFile(dir, "app"),
		findConfigFile(filepath.Join(dir, "environments"), env.String()),
	} {
		if file == "" {
			continue
		}
		v.SetConfigFile(file)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.Environment = env

	dialect := platform.NormalizeDialect(cfg.Generator.Dialect)
	if dialect == "" {
		return nil, fmt.Errorf("unsupported generator dialect %q", cfg.Generator.Dialect)
	}
	cfg.Generator.Dialect = dialect
	return &cfg, nil
}

// DotenvFile returns the dotenv file read for env, or "" when env reads none
func DotenvFile(env Environment) string {
	switch env {
	case Development:
		return ".env"
	case Test:
		return ".env.test"
	default:
		return ""
	}
}

// loadDotenv sets the variables of the environment's dotenv file that the
// process environment does not define. A missing file is not an error.
func loadDotenv(root string, env Environment) error {
	name := DotenvFile(env)
	if name == "" {
		return nil
	}
	dir := root
	if custom := os.Getenv(DotenvDirVariable); custom != "" {
		dir = custom
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
	}

	file := filepath.Join(dir, name)
	if err := godotenv.Load(file); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", file, err)
	}
	return nil
}

func setDefaults(v *viper.Viper, env Environment) {
	layout := scaffold.DefaultLayout()

	v.SetDefault("module", "")
	v.SetDefault("database.url", "sqlite://db/"+env.String()+".db")
	v.SetDefault("database.seeds", "db/seeds.sql")
	v.SetDefault("generator.dialect", platform.SQLite)
	v.SetDefault("generator.workers", 0)
	v.SetDefault("layout.entities", layout.Entities)
	v.SetDefault("layout.migrations", layout.Migrations)
	v.SetDefault("layout.controllers", layout.Controllers)
	v.SetDefault("layout.views", layout.Views)
	v.SetDefault("layout.templates", layout.Templates)
	v.SetDefault("layout.middlewares", layout.Middlewares)
	v.SetDefault("layout.routes", layout.Routes)
}

// findConfigFile returns the first of dir/name.{yaml,yml,toml} that exists
func findConfigFile(dir, name string) string {
	for _, ext := range []string{".yaml", ".yml", ".toml"} {
		p := filepath.Join(dir, name+ext)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
