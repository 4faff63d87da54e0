package testhelper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a profile row with a unique email. Returns the filled domain.User.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.User {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.User{
		ID:        uuid.New(),
		Email:     "testuser-" + suffix + "@example.com",
		Username:  "user-" + suffix,
		FirstName: "Test",
		LastName:  "User " + suffix,
		Role:      domain.UserRoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO profiles (id, email, username, first_name, last_name, title, avatar_url, role, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		user.ID, user.Email, user.Username, user.FirstName, user.LastName,
		user.Title, user.AvatarURL, string(user.Role), user.PasswordHash,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert profile: %v", err)
	}

	return user
}

// SeedAdmin creates a profile row with the admin role and the given bcrypt
// password hash (may be empty for tests that never log in).
func SeedAdmin(t *testing.T, pool *pgxpool.Pool, passwordHash string) domain.User {
	t.Helper()
	ctx := context.Background()

	user := SeedUser(t, pool)
	user.Role = domain.UserRoleAdmin
	user.PasswordHash = passwordHash

	_, err := pool.Exec(ctx,
		`UPDATE profiles SET role = 'admin', password_hash = $2 WHERE id = $1`,
		user.ID, passwordHash,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedAdmin update profile: %v", err)
	}

	return user
}

// SeedCustomer creates a customer row. Returns the filled domain.Customer.
func SeedCustomer(t *testing.T, pool *pgxpool.Pool) domain.Customer {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	industry := "Testing"
	customer := domain.Customer{
		ID:        uuid.New(),
		Name:      "Customer " + suffix,
		Industry:  &industry,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO customers (id, name, industry, website, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		customer.ID, customer.Name, customer.Industry, customer.Website,
		customer.Description, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedCustomer insert customer: %v", err)
	}

	return customer
}

// SeedSkill creates a skill row with a unique name. Returns the filled domain.Skill.
func SeedSkill(t *testing.T, pool *pgxpool.Pool) domain.Skill {
	t.Helper()
	ctx := context.Background()

	suffix := uniqueSuffix()
	now := time.Now().UTC().Truncate(time.Microsecond)
	category := "Engineering"
	skill := domain.Skill{
		ID:        uuid.New(),
		Name:      "Skill " + suffix,
		Category:  &category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO skills (id, name, category, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		skill.ID, skill.Name, skill.Category, skill.Description, skill.CreatedAt, skill.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSkill insert skill: %v", err)
	}

	return skill
}

// SeedApplication creates an active skill_applications row linking the given
// user, skill and customer.
func SeedApplication(t *testing.T, pool *pgxpool.Pool, userID, skillID, customerID uuid.UUID) domain.SkillApplication {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	app := domain.SkillApplication{
		ID:          uuid.New(),
		UserID:      userID,
		SkillID:     skillID,
		CustomerID:  customerID,
		Proficiency: domain.ProficiencyIntermediate,
		StartedAt:   now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO skill_applications (id, user_id, skill_id, customer_id, proficiency, notes, started_at, ended_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		app.ID, app.UserID, app.SkillID, app.CustomerID, string(app.Proficiency),
		app.Notes, app.StartedAt, app.EndedAt, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedApplication insert: %v", err)
	}

	return app
}

// ActivityParams controls optional fields of a seeded activity record.
type ActivityParams struct {
	ActorID     *uuid.UUID
	EntityType  string
	EntityID    *uuid.UUID
	Operation   domain.Operation
	Kind        *domain.EventKind
	Description string
	Metadata    map[string]any
	Changes     []domain.FieldChange
	CreatedAt   time.Time
}

// SeedActivity inserts a raw activity_log row. Zero-value CreatedAt defaults
// to now; nil Metadata becomes an empty object.
func SeedActivity(t *testing.T, pool *pgxpool.Pool, p ActivityParams) domain.ActivityRecord {
	t.Helper()
	ctx := context.Background()

	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC().Truncate(time.Microsecond)
	}
	if p.Metadata == nil {
		p.Metadata = map[string]any{}
	}
	if p.Operation == "" {
		p.Operation = domain.OperationCreate
	}

	metadataJSON, err := json.Marshal(p.Metadata)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity marshal metadata: %v", err)
	}
	changes := p.Changes
	if changes == nil {
		changes = []domain.FieldChange{}
	}
	changesJSON, err := json.Marshal(changes)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity marshal changes: %v", err)
	}

	record := domain.ActivityRecord{
		ID:          uuid.New(),
		ActorID:     p.ActorID,
		EntityType:  domain.EntityType(p.EntityType),
		EntityID:    p.EntityID,
		Operation:   p.Operation,
		Kind:        p.Kind,
		Description: p.Description,
		Metadata:    p.Metadata,
		Changes:     p.Changes,
		CreatedAt:   p.CreatedAt,
	}

	var kind *string
	if p.Kind != nil {
		k := string(*p.Kind)
		kind = &k
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO activity_log (id, actor_id, entity_type, entity_id, operation, event_kind, description, metadata, changes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		record.ID, record.ActorID, string(record.EntityType), record.EntityID,
		string(record.Operation), kind, record.Description, metadataJSON, changesJSON,
		record.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedActivity insert: %v", err)
	}

	return record
}

// TruncateActivity removes all activity_log rows. Tests that assert on
// global timeline contents call this first to isolate from other tests
// sharing the container.
func TruncateActivity(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if _, err := pool.Exec(context.Background(), `TRUNCATE activity_log`); err != nil {
		t.Fatalf("testhelper: truncate activity_log: %v", err)
	}
}
