package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// Postgres error codes translated into domain errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// mapError translates pgx errors into domain errors. Every repository
// subpackage carries its own copy; the tests for the shared behavior
// live here.
//
// Context cancellation and deadline errors pass through untranslated.
func mapError(err error, entity string, id uuid.UUID) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
	case errors.Is(err, pgx.ErrNoRows):
		err = domain.ErrNotFound
	default:
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case codeUniqueViolation:
				err = domain.ErrAlreadyExists
			case codeForeignKeyViolation:
				err = domain.ErrNotFound
			case codeCheckViolation:
				err = domain.ErrValidation
			}
		}
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
