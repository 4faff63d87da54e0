package timeline

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// reconcileScanLimit bounds the activity window the check replays. The
// retention job keeps the log within this order of magnitude.
const reconcileScanLimit = 1000

// ReconcileReport is the outcome of one event-vs-table comparison.
type ReconcileReport struct {
	CheckedAt    time.Time               `json:"checked_at"`
	OnlyInEvents []domain.ApplicationKey `json:"only_in_events,omitempty"`
	OnlyInTable  []domain.ApplicationKey `json:"only_in_table,omitempty"`
	Converged    bool                    `json:"converged"`
}

// Reconcile replays recent skill-application events into an active
// relationship set and diffs it against the live skill_applications rows.
// A zero customerID checks every customer; otherwise the comparison is
// scoped to that one. Keys the replay cannot attribute to a full
// user/skill/customer triple are skipped rather than guessed.
func (s *Service) Reconcile(ctx context.Context, customerID uuid.UUID) (*ReconcileReport, error) {
	var (
		records []domain.ActivityRecord
		live    []domain.SkillApplication
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.fetchReconcileRecords(gctx, customerID)
		return err
	})
	g.Go(func() error {
		var err error
		if customerID == uuid.Nil {
			live, err = s.apps.ListActive(gctx)
		} else {
			live, err = s.apps.ListActiveByCustomer(gctx, customerID)
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	derived := activeSetFromRecords(records, customerID)

	liveSet := make(map[domain.ApplicationKey]struct{}, len(live))
	for _, app := range live {
		liveSet[app.Key()] = struct{}{}
	}

	report := &ReconcileReport{CheckedAt: time.Now().UTC()}
	for key := range derived {
		if _, ok := liveSet[key]; !ok {
			report.OnlyInEvents = append(report.OnlyInEvents, key)
		}
	}
	for key := range liveSet {
		if _, ok := derived[key]; !ok {
			report.OnlyInTable = append(report.OnlyInTable, key)
		}
	}
	sortKeys(report.OnlyInEvents)
	sortKeys(report.OnlyInTable)
	report.Converged = len(report.OnlyInEvents) == 0 && len(report.OnlyInTable) == 0

	s.log.InfoContext(ctx, "reconciliation check finished",
		slog.Bool("converged", report.Converged),
		slog.Int("only_in_events", len(report.OnlyInEvents)),
		slog.Int("only_in_table", len(report.OnlyInTable)),
	)
	return report, nil
}

// fetchReconcileRecords collects the records the replay should see:
// everything filed under skill_applications, plus, for a scoped check,
// records that reference the customer only through metadata ids.
func (s *Service) fetchReconcileRecords(ctx context.Context, customerID uuid.UUID) ([]domain.ActivityRecord, error) {
	records, err := s.activities.ListBySubjectType(ctx, domain.EntityTypeSkillApplication, reconcileScanLimit)
	if err != nil {
		return nil, err
	}
	if customerID == uuid.Nil {
		return records, nil
	}

	byRef, err := s.activities.ListByMetadataRef(ctx, domain.MetadataRefQuery{
		IDKeys: organizationIDKeys,
		ID:     customerID,
		Limit:  reconcileScanLimit,
	})
	if err != nil {
		return nil, err
	}
	return dedupByID(append(records, byRef...)), nil
}

// activeSetFromRecords replays classified events into the set of
// relationships the log says are currently active. The newest event per
// key wins; ties keep the first record encountered.
func activeSetFromRecords(records []domain.ActivityRecord, customerID uuid.UUID) map[domain.ApplicationKey]struct{} {
	type lastEvent struct {
		at      time.Time
		applied bool
	}
	last := make(map[domain.ApplicationKey]lastEvent)

	for _, rec := range records {
		kind := Classify(rec)
		if !kind.IsSkillApplicationKind() {
			continue
		}
		key, ok := applicationKeyFromRecord(rec)
		if !ok {
			continue
		}
		if customerID != uuid.Nil && key.CustomerID != customerID {
			continue
		}
		if prev, seen := last[key]; seen && !rec.CreatedAt.After(prev.at) {
			continue
		}
		last[key] = lastEvent{at: rec.CreatedAt, applied: kind == domain.EventSkillApplied}
	}

	active := make(map[domain.ApplicationKey]struct{})
	for key, ev := range last {
		if ev.applied {
			active[key] = struct{}{}
		}
	}
	return active
}

// applicationKeyFromRecord recovers the user/skill/customer triple from a
// record's metadata. The user falls back to the actor, matching how the
// write path stamps records.
func applicationKeyFromRecord(rec domain.ActivityRecord) (domain.ApplicationKey, bool) {
	skillID, ok := metaUUID(rec.Metadata, skillIDKeys, skillObjectKeys)
	if !ok {
		return domain.ApplicationKey{}, false
	}
	orgID, ok := metaUUID(rec.Metadata, organizationIDKeys, organizationObjectKeys)
	if !ok {
		return domain.ApplicationKey{}, false
	}
	userID, ok := metaUUID(rec.Metadata, userIDKeys, userObjectKeys)
	if !ok {
		if rec.ActorID == nil {
			return domain.ApplicationKey{}, false
		}
		userID = *rec.ActorID
	}
	return domain.ApplicationKey{UserID: userID, SkillID: skillID, CustomerID: orgID}, true
}

func sortKeys(keys []domain.ApplicationKey) {
	slices.SortFunc(keys, func(a, b domain.ApplicationKey) int {
		if c := cmp.Compare(a.UserID.String(), b.UserID.String()); c != 0 {
			return c
		}
		if c := cmp.Compare(a.SkillID.String(), b.SkillID.String()); c != 0 {
			return c
		}
		return cmp.Compare(a.CustomerID.String(), b.CustomerID.String())
	})
}
