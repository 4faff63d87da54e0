package timeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader/v7"
	"golang.org/x/sync/errgroup"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

const (
	loaderMaxBatch = 100
	loaderWait     = 2 * time.Millisecond
)

// directory holds the reference data for one pipeline run. Directories are
// local to the invocation; nothing is cached across runs.
type directory struct {
	users     map[uuid.UUID]domain.User
	customers map[uuid.UUID]domain.Customer
	skills    map[uuid.UUID]domain.Skill
}

// loadDirectory batch-fetches every user, customer and skill the merged
// record set references: actors, matching subjects, and metadata id
// aliases. One IN-query per directory per invocation; the three batches
// run concurrently and a failed lookup is terminal for the whole run.
func (s *Service) loadDirectory(ctx context.Context, records []domain.ActivityRecord) (directory, error) {
	userIDs, customerIDs, skillIDs := referencedIDs(records)

	dir := directory{
		users:     make(map[uuid.UUID]domain.User, len(userIDs)),
		customers: make(map[uuid.UUID]domain.Customer, len(customerIDs)),
		skills:    make(map[uuid.UUID]domain.Skill, len(skillIDs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users, err := loadMany(gctx, newLoader(newUsersBatchFn(s.users)), userIDs)
		if err != nil {
			return fmt.Errorf("load users: %w", err)
		}
		for _, u := range users {
			if u != nil {
				dir.users[u.ID] = *u
			}
		}
		return nil
	})
	g.Go(func() error {
		customers, err := loadMany(gctx, newLoader(newCustomersBatchFn(s.customers)), customerIDs)
		if err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		for _, c := range customers {
			if c != nil {
				dir.customers[c.ID] = *c
			}
		}
		return nil
	})
	g.Go(func() error {
		skills, err := loadMany(gctx, newLoader(newSkillsBatchFn(s.skills)), skillIDs)
		if err != nil {
			return fmt.Errorf("load skills: %w", err)
		}
		for _, sk := range skills {
			if sk != nil {
				dir.skills[sk.ID] = *sk
			}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return directory{}, err
	}

	return dir, nil
}

// referencedIDs collects the distinct ids a record batch references.
func referencedIDs(records []domain.ActivityRecord) (users, customers, skills []uuid.UUID) {
	userSet := make(map[uuid.UUID]struct{})
	customerSet := make(map[uuid.UUID]struct{})
	skillSet := make(map[uuid.UUID]struct{})

	for _, rec := range records {
		if rec.ActorID != nil {
			userSet[*rec.ActorID] = struct{}{}
		}
		if id := subjectID(rec, domain.EntityTypeProfile); id != nil {
			userSet[*id] = struct{}{}
		}
		if id, ok := metaUUID(rec.Metadata, userIDKeys, userObjectKeys); ok {
			userSet[id] = struct{}{}
		}

		if id := subjectID(rec, domain.EntityTypeCustomer); id != nil {
			customerSet[*id] = struct{}{}
		}
		if id, ok := metaUUID(rec.Metadata, organizationIDKeys, organizationObjectKeys); ok {
			customerSet[id] = struct{}{}
		}

		if id := subjectID(rec, domain.EntityTypeSkill); id != nil {
			skillSet[*id] = struct{}{}
		}
		if id, ok := metaUUID(rec.Metadata, skillIDKeys, skillObjectKeys); ok {
			skillSet[id] = struct{}{}
		}
	}

	return setToSlice(userSet), setToSlice(customerSet), setToSlice(skillSet)
}

func setToSlice(set map[uuid.UUID]struct{}) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// newLoader creates a dataloader.Loader with standard batch parameters.
func newLoader[V any](batchFn dataloader.BatchFunc[uuid.UUID, V]) *dataloader.Loader[uuid.UUID, V] {
	return dataloader.NewBatchedLoader(
		batchFn,
		dataloader.WithWait[uuid.UUID, V](loaderWait),
		dataloader.WithBatchCapacity[uuid.UUID, V](loaderMaxBatch),
	)
}

// loadMany resolves all ids through the loader. Missing rows come back as
// nil values, not errors; only query failures error.
func loadMany[V any](ctx context.Context, loader *dataloader.Loader[uuid.UUID, V], ids []uuid.UUID) ([]V, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	values, errs := loader.LoadMany(ctx, ids)()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return values, nil
}

func newUsersBatchFn(repo userDirectory) dataloader.BatchFunc[uuid.UUID, *domain.User] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.User] {
		users, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.User](len(keys), err)
		}

		grouped := make(map[uuid.UUID]*domain.User, len(users))
		for i := range users {
			grouped[users[i].ID] = &users[i]
		}

		return mapResults(keys, grouped, nilValue[*domain.User])
	}
}

func newCustomersBatchFn(repo customerDirectory) dataloader.BatchFunc[uuid.UUID, *domain.Customer] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.Customer] {
		customers, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.Customer](len(keys), err)
		}

		grouped := make(map[uuid.UUID]*domain.Customer, len(customers))
		for i := range customers {
			grouped[customers[i].ID] = &customers[i]
		}

		return mapResults(keys, grouped, nilValue[*domain.Customer])
	}
}

func newSkillsBatchFn(repo skillDirectory) dataloader.BatchFunc[uuid.UUID, *domain.Skill] {
	return func(ctx context.Context, keys []uuid.UUID) []*dataloader.Result[*domain.Skill] {
		skills, err := repo.GetByIDs(ctx, keys)
		if err != nil {
			return errorResults[*domain.Skill](len(keys), err)
		}

		grouped := make(map[uuid.UUID]*domain.Skill, len(skills))
		for i := range skills {
			grouped[skills[i].ID] = &skills[i]
		}

		return mapResults(keys, grouped, nilValue[*domain.Skill])
	}
}

// errorResults returns n copies of the same error, one per key.
func errorResults[V any](n int, err error) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], n)
	for i := range results {
		results[i] = &dataloader.Result[V]{Error: err}
	}
	return results
}

// mapResults maps grouped results back to key order, using defaultFn for
// missing keys.
func mapResults[V any](keys []uuid.UUID, grouped map[uuid.UUID]V, defaultFn func() V) []*dataloader.Result[V] {
	results := make([]*dataloader.Result[V], len(keys))
	for i, key := range keys {
		if v, ok := grouped[key]; ok {
			results[i] = &dataloader.Result[V]{Data: v}
		} else {
			results[i] = &dataloader.Result[V]{Data: defaultFn()}
		}
	}
	return results
}

// nilValue returns the zero value; used for missing directory rows.
func nilValue[V any]() V {
	var zero V
	return zero
}
