package timeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// Assemble runs the full pipeline once: fetch, merge, dedup, transform,
// sort. The result is built fresh on every call; output order is newest
// first regardless of fetch arrival order. Whole-batch fetch failures are
// terminal; per-record transformation failures drop the record with a
// warning and keep the rest.
func (s *Service) Assemble(ctx context.Context, f Filter) ([]domain.UnifiedEvent, error) {
	nf, err := s.normalizeFilter(f)
	if err != nil {
		return nil, err
	}
	return s.assemble(ctx, nf)
}

// assemble expects a normalized filter. Watch re-enters here per refresh.
func (s *Service) assemble(ctx context.Context, f Filter) ([]domain.UnifiedEvent, error) {
	merged, err := s.fetchMerged(ctx, f)
	if err != nil {
		return nil, err
	}

	dir, err := s.loadDirectory(ctx, merged)
	if err != nil {
		return nil, err
	}

	events := make([]domain.UnifiedEvent, 0, len(merged))
	for _, rec := range merged {
		ev, err := buildEvent(rec, dir)
		if err != nil {
			s.log.WarnContext(ctx, "dropping activity record",
				slog.String("record_id", rec.ID.String()),
				slog.String("error", err.Error()),
			)
			continue
		}
		events = append(events, ev)
	}

	slices.SortStableFunc(events, func(a, b domain.UnifiedEvent) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return events, nil
}

// fetchMerged issues the primary and any secondary queries concurrently,
// then merges primary-first with one record per id. Primary-sourced copies
// win on id conflicts.
func (s *Service) fetchMerged(ctx context.Context, f Filter) ([]domain.ActivityRecord, error) {
	var (
		primary []domain.ActivityRecord
		byRef   []domain.ActivityRecord
		appScan []domain.ActivityRecord
		byActor []domain.ActivityRecord
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		primary, err = s.fetchPrimary(gctx, f)
		if err != nil {
			return fmt.Errorf("primary query: %w", err)
		}
		return nil
	})

	if f.related != relatedNone {
		g.Go(func() error {
			var err error
			byRef, err = s.activities.ListByMetadataRef(gctx, metadataRefQuery(f))
			if err != nil {
				return fmt.Errorf("metadata ref query: %w", err)
			}
			return nil
		})
	}
	if f.related == relatedOrganization {
		// Skill-application events are not reliably tagged with the
		// organization id in a queryable column; scan them and filter
		// by mention below.
		g.Go(func() error {
			var err error
			appScan, err = s.activities.ListBySubjectType(gctx, domain.EntityTypeSkillApplication, s.cfg.MaxLimit)
			if err != nil {
				return fmt.Errorf("application scan: %w", err)
			}
			return nil
		})
	}
	if f.related == relatedUser {
		// Events the user performed, or that target the user's profile,
		// reference the user too.
		g.Go(func() error {
			var err error
			byActor, err = s.activities.ListForUser(gctx, *f.RelatedID, f.Limit)
			if err != nil {
				return fmt.Errorf("user activity query: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := make([]domain.ActivityRecord, 0, len(primary)+len(byRef)+len(appScan)+len(byActor))
	merged = append(merged, primary...)
	merged = append(merged, byRef...)
	if f.related == relatedOrganization {
		merged = append(merged, organizationMentions(appScan, *f.RelatedID)...)
	}
	merged = append(merged, byActor...)

	return dedupByID(merged), nil
}

func (s *Service) fetchPrimary(ctx context.Context, f Filter) ([]domain.ActivityRecord, error) {
	switch {
	case f.EntityType == "":
		return s.activities.ListRecent(ctx, f.Limit)
	case f.EntityID == nil:
		return s.activities.ListBySubjectType(ctx, f.EntityType, f.Limit)
	default:
		return s.activities.ListByEntity(ctx, f.EntityType, *f.EntityID, f.Limit)
	}
}

// metadataRefQuery builds the permissive reference query for the related
// entity: id aliases by equality, name aliases by presence.
func metadataRefQuery(f Filter) domain.MetadataRefQuery {
	q := domain.MetadataRefQuery{ID: *f.RelatedID, Limit: f.Limit}
	switch f.related {
	case relatedSkill:
		q.IDKeys, q.NameKeys = skillIDKeys, skillNameKeys
	case relatedOrganization:
		q.IDKeys, q.NameKeys = organizationIDKeys, organizationNameKeys
	case relatedUser:
		q.IDKeys, q.NameKeys = userIDKeys, userNameKeys
	}
	return q
}

// organizationMentions keeps records that mention the organization id in
// their metadata or description.
func organizationMentions(records []domain.ActivityRecord, orgID uuid.UUID) []domain.ActivityRecord {
	idText := orgID.String()
	var out []domain.ActivityRecord
	for _, rec := range records {
		if id, ok := metaUUID(rec.Metadata, organizationIDKeys, organizationObjectKeys); ok && id == orgID {
			out = append(out, rec)
			continue
		}
		if strings.Contains(rec.Description, idText) {
			out = append(out, rec)
		}
	}
	return out
}

// dedupByID keeps the first record per id, preserving order.
func dedupByID(records []domain.ActivityRecord) []domain.ActivityRecord {
	seen := make(map[uuid.UUID]struct{}, len(records))
	out := make([]domain.ActivityRecord, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.ID]; ok {
			continue
		}
		seen[rec.ID] = struct{}{}
		out = append(out, rec)
	}
	return out
}

// buildEvent transforms one raw record into a unified event. A panic while
// transforming is recovered into the record's error; one malformed record
// must never blank out the whole timeline.
func buildEvent(rec domain.ActivityRecord, dir directory) (ev domain.UnifiedEvent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("transform panic: %v", r)
		}
	}()

	if rec.ID == uuid.Nil {
		return ev, errors.New("record has no id")
	}
	if rec.CreatedAt.IsZero() {
		return ev, errors.New("record has no timestamp")
	}

	kind := Classify(rec)
	norm := Normalize(rec)

	ev = domain.UnifiedEvent{
		ID:        rec.ID,
		Kind:      kind,
		Timestamp: rec.CreatedAt,
		Actor:     resolveActor(rec.ActorID, dir.users),
		Changes:   norm.FieldChanges,
		Notes:     norm.Notes(),
	}

	if rec.EntityType != "" && rec.EntityID != nil {
		ev.Subject = &domain.EntityRef{EntityType: rec.EntityType, EntityID: *rec.EntityID}
	}

	ev.RelatedSkill = resolveRelatedSkill(rec, kind, dir.skills)
	ev.RelatedOrganization = resolveRelatedOrganization(rec, kind, dir.customers)
	if ru := resolveRelatedUser(rec, dir.users); ru != nil {
		if rec.ActorID == nil || ru.ID != *rec.ActorID {
			ev.RelatedUser = ru
		}
	}

	return ev, nil
}
