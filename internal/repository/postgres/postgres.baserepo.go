package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/itsatony/w4b_v3/server/apiary/internal/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// constraint names as generated by the schema
const (
	constraintSensorSerial = "sensors_serial_number_key"
	constraintAccountEmail = "accounts_email_key"
)

// PostgresBaseRepo is embedded by every repository. q is either the pool
// or the running transaction.
type PostgresBaseRepo struct {
	q sqlx.ExtContext
}

func (r *PostgresBaseRepo) get(ctx context.Context, dest interface{}, what, query string, args ...interface{}) error {
	if err := sqlx.GetContext(ctx, r.q, dest, query, args...); err != nil {
		return mapError(what, err)
	}
	return nil
}

func (r *PostgresBaseRepo) list(ctx context.Context, dest interface{}, what, query string, args ...interface{}) error {
	if err := sqlx.SelectContext(ctx, r.q, dest, query, args...); err != nil {
		return mapError(what, err)
	}
	return nil
}

func (r *PostgresBaseRepo) namedExec(ctx context.Context, what, query string, arg interface{}) (sql.Result, error) {
	result, err := sqlx.NamedExecContext(ctx, r.q, query, arg)
	if err != nil {
		return nil, mapError(what, err)
	}
	return result, nil
}

func (r *PostgresBaseRepo) exec(ctx context.Context, what, query string, args ...interface{}) (sql.Result, error) {
	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(what, err)
	}
	return result, nil
}

// mustAffect turns a zero-row UPDATE or DELETE into a not_found error.
func mustAffect(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return errors.NewDatabaseError("failed to get rows affected", err)
	}
	if rows == 0 {
		return errors.NewNotFoundError(errors.CodeNotFound, what+" not found", nil)
	}
	return nil
}

func mapError(what string, err error) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.NewNotFoundError(errors.CodeNotFound, what+" not found", err)
	}
	var pqErr *pq.Error
	if stderrors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			switch pqErr.Constraint {
			case constraintSensorSerial:
				return errors.NewConflictError(errors.CodeDuplicateSerial, "serial number already registered", err)
			case constraintAccountEmail:
				return errors.NewConflictError(errors.CodeEmailTaken, "email already registered", err)
			}
			return errors.NewConflictError(errors.CodeDBError, what+" already exists", err)
		case pqForeignKeyViolation:
			return errors.NewValidationError(errors.CodeMissingFields, what+" references a missing record", err)
		}
	}
	return errors.NewDatabaseError("failed to access "+what, err)
}
