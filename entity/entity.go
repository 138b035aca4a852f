// Package entity is the runtime used by generated entities: the CRUD
// capability every entity store implements, transactional batch helpers,
// id generation, form binding and error translation.
package entity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Entity is the CRUD capability of a table whose rows are R, whose writable
// fields are C and whose key is ID. Load, Update and Delete return
// ErrNoRecordFound when no row has the given id.
type Entity[ID any, R any, C any] interface {
	LoadAll(ctx context.Context, q Querier) ([]R, error)
	Load(ctx context.Context, q Querier, id ID) (R, error)
	Create(ctx context.Context, q Querier, changeset C) (R, error)
	Update(ctx context.Context, q Querier, id ID, changeset C) (R, error)
	Delete(ctx context.Context, q Querier, id ID) (R, error)
}

// Validatable is implemented by changesets that check their own fields.
type Validatable interface {
	Validate() error
}

// Validate runs changeset.Validate when the changeset implements
// Validatable, and checks its validate struct tags otherwise.
func Validate(changeset any) error {
	if v, ok := changeset.(Validatable); ok {
		return v.Validate()
	}
	return ValidateStruct(changeset)
}

// NewID returns a new time ordered UUID (version 7).
func NewID() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// Transaction runs fn in a transaction, committing when fn returns nil and
// rolling back otherwise.
func Transaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("failed to roll back transaction: %w", rbErr))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// CreateBatch creates one record per changeset in a single transaction.
// Either every record is created or none is.
func CreateBatch[ID, R, C any](ctx context.Context, db *sql.DB, e Entity[ID, R, C], changesets []C) ([]R, error) {
	records := make([]R, 0, len(changesets))
	err := Transaction(ctx, db, func(tx *sql.Tx) error {
		for i, changeset := range changesets {
			record, err := e.Create(ctx, tx, changeset)
			if err != nil {
				return fmt.Errorf("changeset %d: %w", i, err)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteBatch deletes the records with the given ids in a single
// transaction. A missing id aborts the whole batch with ErrNoRecordFound.
func DeleteBatch[ID, R, C any](ctx context.Context, db *sql.DB, e Entity[ID, R, C], ids []ID) ([]R, error) {
	records := make([]R, 0, len(ids))
	err := Transaction(ctx, db, func(tx *sql.Tx) error {
		for _, id := range ids {
			record, err := e.Delete(ctx, tx, id)
			if err != nil {
				return fmt.Errorf("id %v: %w", id, err)
			}
			records = append(records, record)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}
