// Command promote grants the admin role to an existing profile, looked up
// by email. The first admin has to come from somewhere; after that, admins
// can reach the protected endpoints (timeline reconcile) themselves.
//
// The role change is written to the activity log in the same transaction,
// so the promotion shows up on the user's timeline like any other profile
// update.
//
// Usage:
//
//	DATABASE_DSN=postgres://... promote --email=user@example.com
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var qb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func main() {
	email := flag.String("email", "", "email of the profile to promote")
	flag.Parse()

	if err := run(context.Background(), *email); err != nil {
		fmt.Fprintln(os.Stderr, "promote:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, email string) error {
	if email == "" {
		return errors.New("--email is required")
	}
	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		return errors.New("DATABASE_DSN is not set")
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	sql, args, err := qb.Update("profiles").
		Set("role", "admin").
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.NotEq{"role": "admin"}).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	var profileID uuid.UUID
	if err := tx.QueryRow(ctx, sql, args...).Scan(&profileID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("no profile with email %q, or already admin", email)
		}
		return fmt.Errorf("update role: %w", err)
	}

	if err := logPromotion(ctx, tx, profileID, email); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	fmt.Printf("profile %s (%s) promoted to admin\n", profileID, email)
	return nil
}

func logPromotion(ctx context.Context, tx pgx.Tx, profileID uuid.UUID, email string) error {
	changes, err := json.Marshal([]map[string]any{
		{"field": "role", "old_value": "user", "new_value": "admin"},
	})
	if err != nil {
		return fmt.Errorf("marshal changes: %w", err)
	}

	sql, args, err := qb.Insert("activity_log").
		Columns("id", "entity_type", "entity_id", "operation", "description", "changes").
		Values(uuid.New(), "profiles", profileID, "UPDATE",
			fmt.Sprintf("Profile %s promoted to admin", email), changes).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("write activity record: %w", err)
	}
	return nil
}
