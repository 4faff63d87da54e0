package timeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// notification is the payload published by the activity insert trigger.
type notification struct {
	EntityType string  `json:"entity_type"`
	EntityID   *string `json:"entity_id"`
	Op         string  `json:"op"`
}

// Watch emits a freshly assembled snapshot for every relevant change to
// the activity log, starting with the current state. Invalidation is
// coarse: any matching change re-runs the whole pipeline. Re-assemblies
// may overlap; each invocation carries a sequence token and a finished
// snapshot is dropped when a newer invocation has already delivered, so
// consumers never observe the timeline move backwards. Superseded runs
// are not cancelled; their results are discarded.
//
// The returned channel closes when ctx is cancelled or the notification
// source shuts down.
func (s *Service) Watch(ctx context.Context, f Filter) (<-chan []domain.UnifiedEvent, error) {
	nf, err := s.normalizeFilter(f)
	if err != nil {
		return nil, err
	}

	initial, err := s.assembleWithTimeout(ctx, nf)
	if err != nil {
		return nil, err
	}

	buffer := s.cfg.WatchBuffer
	if buffer < 1 {
		buffer = 1
	}
	out := make(chan []domain.UnifiedEvent, buffer)
	out <- initial

	notifications, cancel := s.sub.Subscribe()
	go s.watchLoop(ctx, nf, notifications, cancel, out)

	return out, nil
}

func (s *Service) watchLoop(ctx context.Context, f Filter, notifications <-chan []byte, cancel func(), out chan<- []domain.UnifiedEvent) {
	defer cancel()
	defer close(out)

	type snapshot struct {
		seq    uint64
		events []domain.UnifiedEvent
	}
	results := make(chan snapshot)

	// The synchronous initial snapshot was invocation 1.
	var started, delivered uint64 = 1, 1

	launch := func(seq uint64) {
		go func() {
			events, err := s.assembleWithTimeout(ctx, f)
			if err != nil {
				s.log.WarnContext(ctx, "timeline refresh failed",
					slog.Uint64("invocation", seq),
					slog.String("error", err.Error()),
				)
				return
			}
			select {
			case results <- snapshot{seq: seq, events: events}:
			case <-ctx.Done():
			}
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-notifications:
			if !ok {
				return
			}
			if !matchesFilter(payload, f) {
				continue
			}
			started++
			launch(started)
		case snap := <-results:
			if snap.seq <= delivered {
				// a newer invocation already delivered
				continue
			}
			delivered = snap.seq
			select {
			case out <- snap.events:
			case <-ctx.Done():
				return
			}
		}
	}
}

// assembleWithTimeout bounds one watch-path pipeline run so a stuck fetch
// cannot wedge the refresh loop. Plain Assemble imposes no timeout.
func (s *Service) assembleWithTimeout(ctx context.Context, f Filter) ([]domain.UnifiedEvent, error) {
	if s.cfg.AssembleTimeout <= 0 {
		return s.assemble(ctx, f)
	}
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.AssembleTimeout)
	defer cancel()
	return s.assemble(runCtx, f)
}

// matchesFilter reports whether a change notification can affect the
// filtered timeline. Related-entity timelines draw on metadata references
// any record can carry, so every change matches them. Undecodable
// payloads match everything; a spurious refresh is cheaper than a stale
// timeline.
func matchesFilter(payload []byte, f Filter) bool {
	if f.related != relatedNone {
		return true
	}
	if f.EntityType == "" {
		return true
	}

	var n notification
	if err := json.Unmarshal(payload, &n); err != nil {
		return true
	}

	if n.EntityType != f.EntityType.String() {
		return false
	}
	if f.EntityID != nil {
		return n.EntityID != nil && *n.EntityID == f.EntityID.String()
	}
	return true
}
