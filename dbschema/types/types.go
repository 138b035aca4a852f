package types

import "context"

// DBInfo contains connection and metadata information
type DBInfo struct {
	Dialect string `json:"dialect" yaml:"dialect"` // sqlite, postgres, mysql, mariadb
	Version string `json:"version" yaml:"version"`
	Schema  string `json:"schema" yaml:"schema"` // main, public, database name
	URL     string `json:"url" yaml:"url"`       // connection URL with the password masked
}

// DBTable represents a table read from the database
type DBTable struct {
	Name    string     `json:"name" yaml:"name"`
	Columns []DBColumn `json:"columns" yaml:"columns"`
}

// DBColumn represents a column read from the database
type DBColumn struct {
	Name     string  `json:"name" yaml:"name"`
	DataType string  `json:"data_type" yaml:"data_type"`
	Nullable bool    `json:"nullable" yaml:"nullable"`
	Primary  bool    `json:"primary,omitempty" yaml:"primary,omitempty"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty"`
	Position int     `json:"position" yaml:"position"`
}

// SchemaReader reads the tables of a database
type SchemaReader interface {
	ReadTables(ctx context.Context) ([]DBTable, error)
}

// SchemaWriter executes SQL against a database, optionally inside a
// transaction
type SchemaWriter interface {
	DropAllTables(ctx context.Context) error
	ExecuteSQL(ctx context.Context, sql string, args ...any) error
	BeginTransaction(ctx context.Context) error
	CommitTransaction() error
	RollbackTransaction() error
	SetDryRun(dryRun bool)
	IsDryRun() bool
}
