// Package customer implements the customer directory repository using PostgreSQL.
package customer

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "customers"

var columns = []string{"id", "name", "industry", "website", "description", "created_at", "updated_at"}

// Repo provides customer persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new customer repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a customer by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("customer build select: %w", err)
	}

	c, err := scanCustomer(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "customer", id)
	}
	return &c, nil
}

// GetByIDs returns the customers whose ids are in the given set.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("customers build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("customers by ids: %w", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("customers by ids: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("customers by ids: %w", err)
	}
	return customers, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCustomer(row scannable) (domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.ID, &c.Name, &c.Industry, &c.Website, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

// mapError translates pgx errors into domain errors. Context cancellation
// and deadline errors pass through untranslated.
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
			case "23505": // unique_violation
				err = domain.ErrAlreadyExists
			case "23503": // foreign_key_violation
				err = domain.ErrNotFound
			case "23514": // check_violation
				err = domain.ErrValidation
			}
		}
	}
	return fmt.Errorf("%s %s: %w", entity, id, err)
}
