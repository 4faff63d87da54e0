package domain

import (
	"time"

	"github.com/google/uuid"
)

// FieldChange records one field-level change carried by an activity record.
// Values keep whatever JSON shape the producer wrote.
type FieldChange struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

// MetadataRefQuery selects activity records that reference an entity inside
// their metadata rather than as the subject. IDKeys are matched against the
// entity id; NameKeys are matched for presence only, because callers know
// the related entity's id but not the exact name string producers wrote.
type MetadataRefQuery struct {
	IDKeys   []string
	ID       uuid.UUID
	NameKeys []string
	Limit    int
}

// ActivityRecord is one row of the append-only activity log, the raw input
// of the timeline pipeline. Records are written by this service's own
// transactional writers and, historically, by external callers; only ID,
// Operation, and CreatedAt can be relied on. Everything else is best-effort:
// EntityType is free text, Metadata shape varies by producer, Description
// may be truncated or malformed.
type ActivityRecord struct {
	ID          uuid.UUID
	ActorID     *uuid.UUID
	EntityType  EntityType
	EntityID    *uuid.UUID
	Operation   Operation
	Kind        *EventKind // explicit semantic kind; nil for untyped rows
	Description string
	Metadata    map[string]any
	Changes     []FieldChange
	CreatedAt   time.Time
}
