// Package skill implements the skill directory repository using PostgreSQL.
package skill

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

const table = "skills"

var columns = []string{"id", "name", "category", "description", "created_at", "updated_at"}

// Repo provides skill persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new skill repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID returns a skill by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Skill, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("skill build select: %w", err)
	}

	s, err := scanSkill(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "skill", id)
	}
	return &s, nil
}

// GetByIDs returns the skills whose ids are in the given set.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Skill, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("skills build select: %w", err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("skills by ids: %w", err)
	}
	defer rows.Close()

	var skills []domain.Skill
	for rows.Next() {
		s, err := scanSkill(rows)
		if err != nil {
			return nil, fmt.Errorf("skills by ids: %w", err)
		}
		skills = append(skills, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("skills by ids: %w", err)
	}
	return skills, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanSkill(row scannable) (domain.Skill, error) {
	var s domain.Skill
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Skill{}, err
	}
	return s, nil
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
