package migrator

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/jrey8343/shipwright/core/naming"
)

// Migration directions
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// ErrInvalidMigrationFileName is returned for file names that do not follow
// the NNNNNNNNNN_description.(up|down).sql convention
var ErrInvalidMigrationFileName = errors.New("invalid migration file name")

var migrationFileRe = regexp.MustCompile(`^(\d+)_(.+)\.(up|down)\.sql$`)

// MigrationFile is the parsed name of a migration file
type MigrationFile struct {
	Version   int
	Name      string
	Direction string
}

// ParseMigrationFileName parses a migration file name such as
// "0000000001_create_users_table.up.sql". The description is returned as a
// title ("Create Users Table").
func ParseMigrationFileName(filename string) (*MigrationFile, error) {
	m := migrationFileRe.FindStringSubmatch(filename)
	if m == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidMigrationFileName, filename)
	}
	version, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMigrationFileName, filename, err)
	}
	return &MigrationFile{
		Version:   version,
		Name:      naming.Title(m[2]),
		Direction: m[3],
	}, nil
}

// GenerateMigrationFileName returns the file name of one direction of a
// migration. The version is zero padded to ten digits.
func GenerateMigrationFileName(version int, description, direction string) string {
	return fmt.Sprintf("%010d_%s.%s.sql", version, naming.SnakeCase(description), direction)
}

// GetNextMigrationVersion returns a version derived from the current time,
// in seconds since the Unix epoch
func GetNextMigrationVersion(now time.Time) int {
	return int(now.Unix())
}
