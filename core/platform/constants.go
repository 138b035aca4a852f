package platform

import (
	"strings"
)

const (
	SQLite   = "sqlite"
	Postgres = "postgres"
	MySQL    = "mysql"
	MariaDB  = "mariadb"
)

// Dialects lists every dialect the renderers support, SQLite first.
var Dialects = []string{SQLite, Postgres, MySQL, MariaDB}

func NormalizeDialect(dialect string) string {
	switch strings.ToLower(dialect) {
	case "sqlite", "sqlite3":
		return SQLite
	case "pgx", "postgresql", "postgres":
		return Postgres
	case "mysql":
		return MySQL
	case "mariadb":
		return MariaDB
	default:
		return ""
	}
}
