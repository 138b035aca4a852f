package dbschema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"

	"github.com/jrey8343/shipwright/core/platform"
)

// CreateDatabase creates the database named by dbURL. For SQLite the
// database file and its directory are created. Creating a database that
// already exists is not an error.
func CreateDatabase(ctx context.Context, dbURL string) error {
	target, err := ParseDatabaseURL(dbURL)
	if err != nil {
		return err
	}

	switch target.Dialect {
	case platform.SQLite:
		if dir := filepath.Dir(target.Database); target.Database != ":memory:" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		conn, err := ConnectToDatabase(dbURL)
		if err != nil {
			return err
		}
		return conn.Close()
	case platform.Postgres:
		exists := false
		err := withServerConnection(ctx, target, func(db *sql.DB) error {
			err := db.QueryRowContext(ctx, "SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", target.Database).Scan(&exists)
			if err != nil || exists {
				return err
			}
			_, err = db.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(target.Database))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to create database %s: %w", target.Database, err)
		}
		return nil
	default:
		err := withServerConnection(ctx, target, func(db *sql.DB) error {
			_, err := db.ExecContext(ctx, "CREATE DATABASE IF NOT EXISTS "+quoteMySQLIdentifier(target.Database))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to create database %s: %w", target.Database, err)
		}
		return nil
	}
}

// DropDatabase drops the database named by dbURL. For SQLite the database
// file and its journal files are removed. Dropping a missing database is not
// an error.
func DropDatabase(ctx context.Context, dbURL string) error {
	target, err := ParseDatabaseURL(dbURL)
	if err != nil {
		return err
	}

	switch target.Dialect {
	case platform.SQLite:
		if target.Database == ":memory:" {
			return nil
		}
		for _, suffix := range []string{"", "-journal", "-wal", "-shm"} {
			if err := os.Remove(target.Database + suffix); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to remove %s: %w", target.Database+suffix, err)
			}
		}
		return nil
	case platform.Postgres:
		err := withServerConnection(ctx, target, func(db *sql.DB) error {
			_, err := db.ExecContext(ctx, "DROP DATABASE IF EXISTS "+pq.QuoteIdentifier(target.Database))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to drop database %s: %w", target.Database, err)
		}
		return nil
	default:
		err := withServerConnection(ctx, target, func(db *sql.DB) error {
			_, err := db.ExecContext(ctx, "DROP DATABASE IF EXISTS "+quoteMySQLIdentifier(target.Database))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to drop database %s: %w", target.Database, err)
		}
		return nil
	}
}

// withServerConnection runs fn on a connection to the server of target that
// is not bound to target's database
func withServerConnection(ctx context.Context, target *Target, fn func(db *sql.DB) error) error {
	dsn, err := serverDSN(target)
	if err != nil {
		return err
	}
	db, err := sql.Open(target.DriverName, dsn)
	if err != nil {
		return fmt.Errorf("failed to open server connection: %w", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping server: %w", err)
	}
	return fn(db)
}

func serverDSN(target *Target) (string, error) {
	switch target.Dialect {
	case platform.Postgres:
		u, err := url.Parse(target.DSN)
		if err != nil {
			return "", fmt.Errorf("invalid database URL: %w", err)
		}
		u.Path = "/postgres"
		return u.String(), nil
	default:
		cfg, err := mysql.ParseDSN(target.DSN)
		if err != nil {
			return "", fmt.Errorf("invalid data source name: %w", err)
		}
		cfg.DBName = ""
		return cfg.FormatDSN(), nil
	}
}

func quoteMySQLIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
