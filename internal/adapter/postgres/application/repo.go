// Package application implements the skill application repository using
// PostgreSQL. A skill application is the relationship "user applies skill
// at customer"; ended rows are kept for history.
package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "skill_applications"

var columns = []string{
	"id", "user_id", "skill_id", "customer_id", "proficiency", "notes",
	"started_at", "ended_at", "created_at", "updated_at",
}

// Repo provides skill application persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new application repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an application by primary key, ended or not.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SkillApplication, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("application build select: %w", err)
	}

	app, err := scanApplication(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "application", id)
	}
	return &app, nil
}

// GetActiveByKey returns the active application for (user, skill, customer),
// or domain.ErrNotFound when none is active.
func (r *Repo) GetActiveByKey(ctx context.Context, key domain.ApplicationKey) (*domain.SkillApplication, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Select(columns...).From(table).
		Where(squirrel.Eq{
			"user_id":     key.UserID,
			"skill_id":    key.SkillID,
			"customer_id": key.CustomerID,
		}).
		Where("ended_at IS NULL").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("application build select: %w", err)
	}

	app, err := scanApplication(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "application", uuid.Nil)
	}
	return &app, nil
}

// ListActiveByCustomer returns all active applications at one customer,
// newest first.
func (r *Repo) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.SkillApplication, error) {
	query := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"customer_id": customerID}).
		Where("ended_at IS NULL").
		OrderBy("started_at DESC")

	return r.list(ctx, query, "list active by customer")
}

// ListActiveByUser returns all active applications by one user, newest first.
func (r *Repo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]domain.SkillApplication, error) {
	query := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"user_id": userID}).
		Where("ended_at IS NULL").
		OrderBy("started_at DESC")

	return r.list(ctx, query, "list active by user")
}

// ListActive returns every active application. Used by reconciliation.
func (r *Repo) ListActive(ctx context.Context) ([]domain.SkillApplication, error) {
	query := qb.Select(columns...).From(table).
		Where("ended_at IS NULL").
		OrderBy("started_at DESC")

	return r.list(ctx, query, "list active")
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new application and returns the persisted row.
// Participates in an ambient transaction when one is present in ctx.
func (r *Repo) Create(ctx context.Context, app domain.SkillApplication) (*domain.SkillApplication, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Insert(table).
		Columns(columns...).
		Values(
			app.ID, app.UserID, app.SkillID, app.CustomerID,
			app.Proficiency.String(), app.Notes,
			app.StartedAt, app.EndedAt, app.CreatedAt, app.UpdatedAt,
		).
		Suffix("RETURNING " + selectColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("application build insert: %w", err)
	}

	created, err := scanApplication(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "application", app.ID)
	}
	return &created, nil
}

// Update modifies proficiency and notes of an active application.
// Returns domain.ErrNotFound when the row does not exist or has ended.
func (r *Repo) Update(ctx context.Context, id uuid.UUID, params domain.ApplicationUpdateParams) (*domain.SkillApplication, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	update := qb.Update(table).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where("ended_at IS NULL")

	if params.Proficiency != nil {
		update = update.Set("proficiency", params.Proficiency.String())
	}
	if params.Notes != nil {
		if *params.Notes == "" {
			update = update.Set("notes", nil) // clear notes -> NULL in DB
		} else {
			update = update.Set("notes", *params.Notes)
		}
	}

	sql, args, err := update.Suffix("RETURNING " + selectColumns()).ToSql()
	if err != nil {
		return nil, fmt.Errorf("application build update: %w", err)
	}

	app, err := scanApplication(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "application", id)
	}
	return &app, nil
}

// End closes an active application by setting ended_at.
// Returns domain.ErrNotFound when the row does not exist or has already ended.
func (r *Repo) End(ctx context.Context, id uuid.UUID, endedAt time.Time) (*domain.SkillApplication, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := qb.Update(table).
		Set("ended_at", endedAt).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Where("ended_at IS NULL").
		Suffix("RETURNING " + selectColumns()).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("application build end: %w", err)
	}

	app, err := scanApplication(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return nil, mapError(err, "application", id)
	}
	return &app, nil
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder, op string) ([]domain.SkillApplication, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("applications build %s: %w", op, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("applications %s: %w", op, err)
	}
	defer rows.Close()

	var apps []domain.SkillApplication
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("applications %s: %w", op, err)
		}
		apps = append(apps, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("applications %s: %w", op, err)
	}
	return apps, nil
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

func selectColumns() string {
	return strings.Join(columns, ", ")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanApplication(row scannable) (domain.SkillApplication, error) {
	var (
		app         domain.SkillApplication
		proficiency string
	)
	err := row.Scan(
		&app.ID, &app.UserID, &app.SkillID, &app.CustomerID, &proficiency,
		&app.Notes, &app.StartedAt, &app.EndedAt, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return domain.SkillApplication{}, err
	}
	app.Proficiency = domain.Proficiency(proficiency)
	return app, nil
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
