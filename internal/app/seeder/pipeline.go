package seeder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
	"github.com/scknurr/tritium-v4-sub001/internal/service/application"
	"github.com/scknurr/tritium-v4-sub001/pkg/ctxutil"
)

// allPhases defines the canonical execution order. The entity phases must
// run before applications so the natural keys resolve without DB lookups.
var allPhases = []string{"users", "skills", "customers", "applications"}

// DB is the subset of pgxpool.Pool the entity phases use.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ApplicationApplier creates skill applications through the regular write
// path, so every seeded application also gets an activity record and shows
// up on the timeline.
type ApplicationApplier interface {
	Apply(ctx context.Context, input application.ApplyInput) (*domain.SkillApplication, error)
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Skipped  int
	Errors   int
	Duration time.Duration
	Err      error
}

// Pipeline orchestrates the 4-phase seeding process.
type Pipeline struct {
	log     *slog.Logger
	db      DB
	apps    ApplicationApplier
	cfg     Config
	fx      *Fixture
	results map[string]PhaseResult

	userIDs     map[string]uuid.UUID // normalized email → id
	skillIDs    map[string]uuid.UUID // name → id
	customerIDs map[string]uuid.UUID // name → id
}

// NewPipeline creates a new Pipeline over an already-loaded fixture.
func NewPipeline(log *slog.Logger, db DB, apps ApplicationApplier, cfg Config, fx *Fixture) *Pipeline {
	return &Pipeline{
		log:         log,
		db:          db,
		apps:        apps,
		cfg:         cfg,
		fx:          fx,
		results:     make(map[string]PhaseResult),
		userIDs:     make(map[string]uuid.UUID),
		skillIDs:    make(map[string]uuid.UUID),
		customerIDs: make(map[string]uuid.UUID),
	}
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// HasErrors returns true if any phase recorded errors.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil || r.Errors > 0 {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases run.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	// Step 1: Determine which phases to run.
	toRun := allPhases
	if len(phases) > 0 {
		filter := make(map[string]bool, len(phases))
		for _, ph := range phases {
			filter[ph] = true
		}
		var filtered []string
		for _, ph := range allPhases {
			if filter[ph] {
				filtered = append(filtered, ph)
			}
		}
		toRun = filtered
	}

	// Step 2: Execute phases in order.
	for _, phase := range toRun {
		start := time.Now()
		p.log.Info("starting phase", slog.String("phase", phase))

		var result PhaseResult
		switch phase {
		case "users":
			result = p.runUsers(ctx)
		case "skills":
			result = p.runSkills(ctx)
		case "customers":
			result = p.runCustomers(ctx)
		case "applications":
			result = p.runApplications(ctx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result

		if result.Err != nil {
			p.log.Warn("phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
		} else {
			p.log.Info("phase completed",
				slog.String("phase", phase),
				slog.Int("inserted", result.Inserted),
				slog.Int("skipped", result.Skipped),
				slog.Int("errors", result.Errors),
				slog.Duration("duration", result.Duration),
			)
		}
	}

	// Step 3: Summary log.
	p.log.Info("pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

// runUsers inserts profile rows. All seeded users share the configured
// default password so demo logins work out of the box.
func (p *Pipeline) runUsers(ctx context.Context) PhaseResult {
	var res PhaseResult
	if p.cfg.DryRun {
		res.Skipped = len(p.fx.Users)
		return res
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.cfg.DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		res.Err = fmt.Errorf("hash default password: %w", err)
		return res
	}

	for _, u := range p.fx.Users {
		email := normalizeEmail(u.Email)
		role := u.Role
		if role == "" {
			role = "user"
		}

		id := uuid.New()
		err := p.db.QueryRow(ctx, `
			INSERT INTO profiles (id, email, username, first_name, last_name, title, role, password_hash)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (email) DO NOTHING
			RETURNING id`,
			id, email, u.Username, u.FirstName, u.LastName, nilIfEmpty(u.Title), role, string(hash),
		).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			// Already present. Resolve the existing id so the
			// applications phase can still reference this user.
			if _, lookErr := p.userID(ctx, email); lookErr != nil {
				p.log.Warn("seed user", slog.String("email", email), slog.String("error", lookErr.Error()))
				res.Errors++
				continue
			}
			res.Skipped++
		case err != nil:
			p.log.Warn("seed user", slog.String("email", email), slog.String("error", err.Error()))
			res.Errors++
		default:
			p.userIDs[email] = id
			res.Inserted++
		}
	}
	return res
}

// runSkills inserts skill rows.
func (p *Pipeline) runSkills(ctx context.Context) PhaseResult {
	var res PhaseResult
	if p.cfg.DryRun {
		res.Skipped = len(p.fx.Skills)
		return res
	}

	for _, s := range p.fx.Skills {
		id := uuid.New()
		err := p.db.QueryRow(ctx, `
			INSERT INTO skills (id, name, category, description)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
			RETURNING id`,
			id, s.Name, nilIfEmpty(s.Category), nilIfEmpty(s.Description),
		).Scan(&id)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if _, lookErr := p.skillID(ctx, s.Name); lookErr != nil {
				p.log.Warn("seed skill", slog.String("name", s.Name), slog.String("error", lookErr.Error()))
				res.Errors++
				continue
			}
			res.Skipped++
		case err != nil:
			p.log.Warn("seed skill", slog.String("name", s.Name), slog.String("error", err.Error()))
			res.Errors++
		default:
			p.skillIDs[s.Name] = id
			res.Inserted++
		}
	}
	return res
}

// runCustomers inserts customer rows. customers.name carries no unique
// constraint, so existing rows are found by lookup instead of ON CONFLICT.
func (p *Pipeline) runCustomers(ctx context.Context) PhaseResult {
	var res PhaseResult
	if p.cfg.DryRun {
		res.Skipped = len(p.fx.Customers)
		return res
	}

	for _, c := range p.fx.Customers {
		if _, err := p.customerID(ctx, c.Name); err == nil {
			res.Skipped++
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			p.log.Warn("seed customer", slog.String("name", c.Name), slog.String("error", err.Error()))
			res.Errors++
			continue
		}

		id := uuid.New()
		_, err := p.db.Exec(ctx, `
			INSERT INTO customers (id, name, industry, website, description)
			VALUES ($1, $2, $3, $4, $5)`,
			id, c.Name, nilIfEmpty(c.Industry), nilIfEmpty(c.Website), nilIfEmpty(c.Description),
		)
		if err != nil {
			p.log.Warn("seed customer", slog.String("name", c.Name), slog.String("error", err.Error()))
			res.Errors++
			continue
		}
		p.customerIDs[c.Name] = id
		res.Inserted++
	}
	return res
}

// runApplications creates skill applications through the write path,
// acting as the fixture user so the activity records name them.
func (p *Pipeline) runApplications(ctx context.Context) PhaseResult {
	var res PhaseResult
	if p.cfg.DryRun {
		res.Skipped = len(p.fx.Applications)
		return res
	}

	for _, a := range p.fx.Applications {
		input, err := p.applyInput(ctx, a)
		if err != nil {
			p.log.Warn("seed application",
				slog.String("user", a.User),
				slog.String("skill", a.Skill),
				slog.String("error", err.Error()),
			)
			res.Errors++
			continue
		}

		_, err = p.apps.Apply(ctxutil.WithUserID(ctx, input.UserID), input)
		switch {
		case errors.Is(err, domain.ErrAlreadyExists):
			res.Skipped++
		case err != nil:
			p.log.Warn("seed application",
				slog.String("user", a.User),
				slog.String("skill", a.Skill),
				slog.String("error", err.Error()),
			)
			res.Errors++
		default:
			res.Inserted++
		}
	}
	return res
}

// applyInput resolves an application fixture's natural keys into ids.
func (p *Pipeline) applyInput(ctx context.Context, a ApplicationFixture) (application.ApplyInput, error) {
	userID, err := p.userID(ctx, normalizeEmail(a.User))
	if err != nil {
		return application.ApplyInput{}, err
	}
	skillID, err := p.skillID(ctx, a.Skill)
	if err != nil {
		return application.ApplyInput{}, err
	}
	customerID, err := p.customerID(ctx, a.Customer)
	if err != nil {
		return application.ApplyInput{}, err
	}

	var notes *string
	if a.Notes != "" {
		notes = &a.Notes
	}
	return application.ApplyInput{
		UserID:      userID,
		SkillID:     skillID,
		CustomerID:  customerID,
		Proficiency: domain.Proficiency(a.Proficiency),
		Notes:       notes,
	}, nil
}

// userID resolves a profile id by normalized email, consulting the DB when
// the phase cache misses (e.g. when --phase skipped the users phase).
func (p *Pipeline) userID(ctx context.Context, email string) (uuid.UUID, error) {
	if id, ok := p.userIDs[email]; ok {
		return id, nil
	}
	var id uuid.UUID
	if err := p.db.QueryRow(ctx, `SELECT id FROM profiles WHERE email = $1`, email).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("profile %q: %w", email, err)
	}
	p.userIDs[email] = id
	return id, nil
}

func (p *Pipeline) skillID(ctx context.Context, name string) (uuid.UUID, error) {
	if id, ok := p.skillIDs[name]; ok {
		return id, nil
	}
	var id uuid.UUID
	if err := p.db.QueryRow(ctx, `SELECT id FROM skills WHERE name = $1`, name).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("skill %q: %w", name, err)
	}
	p.skillIDs[name] = id
	return id, nil
}

func (p *Pipeline) customerID(ctx context.Context, name string) (uuid.UUID, error) {
	if id, ok := p.customerIDs[name]; ok {
		return id, nil
	}
	var id uuid.UUID
	if err := p.db.QueryRow(ctx, `SELECT id FROM customers WHERE name = $1`, name).Scan(&id); err != nil {
		return uuid.Nil, fmt.Errorf("customer %q: %w", name, err)
	}
	p.customerIDs[name] = id
	return id, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
