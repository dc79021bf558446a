package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a specific record is not found.
	ErrNotFound = errors.New("requested record not found")

	// ErrDatabaseError is returned for unexpected database errors.
	// It can be used to wrap more specific driver errors.
	ErrDatabaseError = errors.New("database error")

	// ErrDuplicateKey is returned when an insert/update violates a unique constraint.
	ErrDuplicateKey = errors.New("duplicate key value violates unique constraint")
)

// Unique constraint names on the clients table.
const (
	constraintClientsEmail    = "clients_email_key"
	constraintClientsUsername = "clients_username_key"
)

// DuplicateKeyError identifies which unique field an insert/update collided on.
// It matches ErrDuplicateKey with errors.Is.
type DuplicateKeyError struct {
	Field      string // "email" or "username"
	Constraint string
	Detail     string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: %s (constraint: %s)", ErrDuplicateKey, e.Field, e.Constraint)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// SQLExecutor defines an interface that can be satisfied by *sql.DB or *sql.Tx
// This allows repository methods to be used within transactions or with a direct DB connection.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// scanner is an interface satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// translateWriteError maps driver errors from INSERT/UPDATE statements.
func translateWriteError(err error, op string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return &DuplicateKeyError{
			Field:      duplicateField(pqErr.Constraint, pqErr.Message),
			Constraint: pqErr.Constraint,
			Detail:     pqErr.Detail,
		}
	}
	return fmt.Errorf("%w: %s: %v", ErrDatabaseError, op, err)
}

// duplicateField resolves the offending column from the constraint name and,
// for unknown constraints, from the server message.
func duplicateField(constraint, message string) string {
	switch constraint {
	case constraintClientsEmail:
		return "email"
	case constraintClientsUsername:
		return "username"
	}
	if strings.Contains(strings.ToLower(constraint+" "+message), "email") {
		return "email"
	}
	return "username"
}
