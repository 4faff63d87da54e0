// Package activity implements the activity log repository using PostgreSQL.
// The log is append-only. Rows are written both by this service and by
// outside producers, so reads must tolerate heterogeneous metadata and
// unknown entity types.
package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

const table = "activity_log"

var columns = []string{
	"id", "actor_id", "entity_type", "entity_id", "operation",
	"event_kind", "description", "metadata", "changes", "created_at",
}

// Repo provides activity log persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new activity repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a new activity record and returns the persisted row.
// Participates in an ambient transaction when one is present in ctx.
func (r *Repo) Create(ctx context.Context, record domain.ActivityRecord) (domain.ActivityRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	metadata := record.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("activity_record marshal metadata: %w", err)
	}

	changes := record.Changes
	if changes == nil {
		changes = []domain.FieldChange{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("activity_record marshal changes: %w", err)
	}

	var kind *string
	if record.Kind != nil {
		k := record.Kind.String()
		kind = &k
	}

	sql, args, err := qb.Insert(table).
		Columns(columns...).
		Values(
			record.ID,
			uuidPtrToPgUUID(record.ActorID),
			record.EntityType.String(),
			uuidPtrToPgUUID(record.EntityID),
			record.Operation.String(),
			kind,
			record.Description,
			metadataJSON,
			changesJSON,
			record.CreatedAt,
		).
		Suffix("RETURNING " + selectColumns()).
		ToSql()
	if err != nil {
		return domain.ActivityRecord{}, fmt.Errorf("activity_record build insert: %w", err)
	}

	rec, err := scanRecord(q.QueryRow(ctx, sql, args...))
	if err != nil {
		return domain.ActivityRecord{}, mapError(err, "activity_record", record.ID)
	}
	return rec, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// ListRecent returns the newest records across the whole log.
func (r *Repo) ListRecent(ctx context.Context, limit int) ([]domain.ActivityRecord, error) {
	query := qb.Select(columns...).From(table).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(limit))

	return r.list(ctx, query, "list recent")
}

// ListByEntity returns records whose subject is the given entity, newest first.
func (r *Repo) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID uuid.UUID, limit int) ([]domain.ActivityRecord, error) {
	query := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"entity_type": entityType.String(), "entity_id": entityID}).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(limit))

	return r.list(ctx, query, "list by entity")
}

// ListForUser returns records where the user is the actor or the subject.
func (r *Repo) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ActivityRecord, error) {
	query := qb.Select(columns...).From(table).
		Where(squirrel.Or{
			squirrel.Eq{"actor_id": userID},
			squirrel.And{
				squirrel.Eq{"entity_type": domain.EntityTypeProfile.String()},
				squirrel.Eq{"entity_id": userID},
			},
		}).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(limit))

	return r.list(ctx, query, "list for user")
}

// ListByMetadataRef returns records whose metadata plausibly references the
// entity, newest first: id keys by equality, name keys by presence. Name
// presence is deliberately permissive; the timeline pipeline resolves the
// actual reference per record.
func (r *Repo) ListByMetadataRef(ctx context.Context, ref domain.MetadataRefQuery) ([]domain.ActivityRecord, error) {
	or := squirrel.Or{}
	for _, key := range ref.IDKeys {
		or = append(or, squirrel.Expr("metadata->>? = ?", key, ref.ID.String()))
	}
	for _, key := range ref.NameKeys {
		or = append(or, squirrel.Expr("metadata->>? IS NOT NULL", key))
	}
	if len(or) == 0 {
		return nil, nil
	}

	query := qb.Select(columns...).From(table).
		Where(or).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(ref.Limit))

	return r.list(ctx, query, "list by metadata ref")
}

// ListBySubjectType returns the newest records for one subject entity type.
// Used to pull skill-application events for client-side relevance filtering.
func (r *Repo) ListBySubjectType(ctx context.Context, entityType domain.EntityType, limit int) ([]domain.ActivityRecord, error) {
	query := qb.Select(columns...).From(table).
		Where(squirrel.Eq{"entity_type": entityType.String()}).
		OrderBy("created_at DESC", "id ASC").
		Limit(uint64(limit))

	return r.list(ctx, query, "list by subject type")
}

// CountOlderThan reports how many records were created before the threshold
// without touching them. The cleanup job uses it for dry runs.
func (r *Repo) CountOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	sql, args, err := qb.Select("count(*)").
		From(table).
		Where(squirrel.Lt{"created_at": threshold}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("activity_record build count: %w", err)
	}

	var n int64
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count old activity_records: %w", err)
	}
	return n, nil
}

// DeleteOlderThan removes records created before the threshold and returns
// the number of rows deleted. Used by the retention cleanup job.
func (r *Repo) DeleteOlderThan(ctx context.Context, threshold time.Time) (int64, error) {
	sql, args, err := qb.Delete(table).
		Where(squirrel.Lt{"created_at": threshold}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("activity_record build delete: %w", err)
	}

	tag, err := r.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete old activity_records: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *Repo) list(ctx context.Context, query squirrel.SelectBuilder, op string) ([]domain.ActivityRecord, error) {
	q := postgres.QuerierFromCtx(ctx, r.pool)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("activity_records build %s: %w", op, err)
	}

	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("activity_records %s: %w", op, err)
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("activity_records %s: %w", op, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("activity_records %s: %w", op, err)
	}

	return records, nil
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

func scanRecord(row scannable) (domain.ActivityRecord, error) {
	var (
		rec          domain.ActivityRecord
		actorID      pgtype.UUID
		entityType   string
		entityID     pgtype.UUID
		operation    string
		kind         *string
		metadataJSON []byte
		changesJSON  []byte
	)

	err := row.Scan(
		&rec.ID, &actorID, &entityType, &entityID, &operation,
		&kind, &rec.Description, &metadataJSON, &changesJSON, &rec.CreatedAt,
	)
	if err != nil {
		return domain.ActivityRecord{}, err
	}

	rec.EntityType = domain.EntityType(entityType)
	rec.Operation = domain.Operation(operation)

	if actorID.Valid {
		id := uuid.UUID(actorID.Bytes)
		rec.ActorID = &id
	}
	if entityID.Valid {
		id := uuid.UUID(entityID.Bytes)
		rec.EntityID = &id
	}
	if kind != nil {
		k := domain.EventKind(*kind)
		rec.Kind = &k
	}

	if len(metadataJSON) > 0 {
		metadata := make(map[string]any)
		if err := json.Unmarshal(metadataJSON, &metadata); err != nil {
			return domain.ActivityRecord{}, fmt.Errorf("activity_record %s unmarshal metadata: %w", rec.ID, err)
		}
		rec.Metadata = metadata
	}
	if len(changesJSON) > 0 {
		var changes []domain.FieldChange
		if err := json.Unmarshal(changesJSON, &changes); err != nil {
			return domain.ActivityRecord{}, fmt.Errorf("activity_record %s unmarshal changes: %w", rec.ID, err)
		}
		if len(changes) > 0 {
			rec.Changes = changes
		}
	}

	return rec, nil
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

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

// ---------------------------------------------------------------------------
// pgtype helpers
// ---------------------------------------------------------------------------

// uuidPtrToPgUUID converts a *uuid.UUID to pgtype.UUID (nil -> NULL).
func uuidPtrToPgUUID(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}
