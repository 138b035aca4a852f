package entity

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNoRecordFound is returned when no row matches the requested id.
	ErrNoRecordFound = errors.New("no record found")
	// ErrUniqueConstraint is returned when a write violates a unique constraint.
	ErrUniqueConstraint = errors.New("unique constraint violation")
	// ErrValidation is matched by every ValidationErrors value.
	ErrValidation = errors.New("validation failed")
)

const (
	pgUniqueViolation   = "23505"
	mysqlDuplicateEntry = 1062
)

// TranslateError maps driver errors onto ErrNoRecordFound and
// ErrUniqueConstraint, keeping the original error in the chain. Other errors
// are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", ErrNoRecordFound, err)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %w", ErrUniqueConstraint, err)
	}
	return err
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	return false
}

// FieldError is a validation failure of one field.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// ValidationErrors collects the field errors of a changeset.
type ValidationErrors []*FieldError

// Check records err against field when err is not nil.
func (v *ValidationErrors) Check(field string, err error) {
	if err != nil {
		*v = append(*v, &FieldError{Field: field, Err: err})
	}
}

// Err returns nil when no field failed, and the collected errors otherwise.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (v ValidationErrors) Is(target error) bool {
	return target == ErrValidation
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}
