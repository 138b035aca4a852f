package migrator

import (
	"context"
	"testing"
	"testing/fstest"

	qt "github.com/frankban/quicktest"
)

func TestNoopMigrationFunc(t *testing.T) {
	c := qt.New(t)

	err := NoopMigrationFunc(context.Background(), nil)
	c.Assert(err, qt.IsNil)
}

func TestCreateMigrationFromSQL(t *testing.T) {
	c := qt.New(t)

	migration := CreateMigrationFromSQL(1, "Create test table", "CREATE TABLE test (id INTEGER PRIMARY KEY)", "DROP TABLE test")

	c.Assert(migration.Version, qt.Equals, 1)
	c.Assert(migration.Description, qt.Equals, "Create test table")
	c.Assert(migration.Up, qt.IsNotNil)
	c.Assert(migration.Down, qt.IsNotNil)
}

func TestSplitSQLStatements(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected []string
	}{
		{
			name: "single statement",
			sql:  "CREATE TABLE users (id SERIAL PRIMARY KEY);",
			expected: []string{
				"CREATE TABLE users (id SERIAL PRIMARY KEY)",
			},
		},
		{
			name: "multiple statements",
			sql:  "CREATE TABLE users (id SERIAL PRIMARY KEY); CREATE INDEX idx_users_id ON users(id);",
			expected: []string{
				"CREATE TABLE users (id SERIAL PRIMARY KEY)",
				"CREATE INDEX idx_users_id ON users(id)",
			},
		},
		{
			name: "statements with comments",
			sql:  "-- Create users table\nCREATE TABLE users (id SERIAL PRIMARY KEY);\n-- Create index\nCREATE INDEX idx_users_id ON users(id);",
			expected: []string{
				"CREATE TABLE users (id SERIAL PRIMARY KEY)",
				"CREATE INDEX idx_users_id ON users(id)",
			},
		},
		{
			name:     "generated migration header",
			sql:      "-- create_posts_table\nCREATE TABLE \"posts\" (\"title\" varchar NOT NULL);",
			expected: []string{"CREATE TABLE \"posts\" (\"title\" varchar NOT NULL)"},
		},
		{
			name:     "empty SQL",
			sql:      "",
			expected: []string{},
		},
		{
			name:     "only comments",
			sql:      "-- This is a comment\n/* Another comment */",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			c.Assert(SplitSQLStatements(tt.sql), qt.DeepEquals, tt.expected)
		})
	}
}

func TestMigrationFuncFromSQLFilename_FileNotFound(t *testing.T) {
	c := qt.New(t)

	migrationFunc := MigrationFuncFromSQLFilename("nonexistent.sql", fstest.MapFS{})
	c.Assert(migrationFunc, qt.IsNotNil)

	err := migrationFunc(context.Background(), nil)
	c.Assert(err, qt.ErrorMatches, "failed to read migration file: .*")
}

func TestBaseSQL(t *testing.T) {
	c := qt.New(t)

	c.Assert(migrationsSchemaSQL, qt.Contains, "CREATE TABLE IF NOT EXISTS schema_migrations")
	c.Assert(recordMigrationSQL, qt.Contains, "VALUES (?, ?, ?)")
	c.Assert(deleteMigrationSQL, qt.Contains, "WHERE version = ?")
}
