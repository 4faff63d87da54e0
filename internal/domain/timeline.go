package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventKind is the closed taxonomy of semantic timeline events. The raw
// activity log does not reliably carry a semantic type, so kinds are either
// written explicitly by this service's own writers or inferred by the
// timeline classifier.
type EventKind string

const (
	EventSkillApplied            EventKind = "SKILL_APPLIED"
	EventSkillRemoved            EventKind = "SKILL_REMOVED"
	EventUserJoinedOrganization  EventKind = "USER_JOINED_ORGANIZATION"
	EventUserLeftOrganization    EventKind = "USER_LEFT_ORGANIZATION"
	EventSkillAddedToProfile     EventKind = "SKILL_ADDED_TO_PROFILE"
	EventSkillUpdatedOnProfile   EventKind = "SKILL_UPDATED_ON_PROFILE"
	EventSkillRemovedFromProfile EventKind = "SKILL_REMOVED_FROM_PROFILE"
	EventUserCreated             EventKind = "USER_CREATED"
	EventUserUpdated             EventKind = "USER_UPDATED"
	EventUserDeleted             EventKind = "USER_DELETED"
	EventOrganizationCreated     EventKind = "ORGANIZATION_CREATED"
	EventOrganizationUpdated     EventKind = "ORGANIZATION_UPDATED"
	EventOrganizationDeleted     EventKind = "ORGANIZATION_DELETED"
	EventSkillCreated            EventKind = "SKILL_CREATED"
	EventSkillUpdated            EventKind = "SKILL_UPDATED"
	EventSkillDeleted            EventKind = "SKILL_DELETED"
	EventGenericCreated          EventKind = "GENERIC_CREATED"
	EventGenericUpdated          EventKind = "GENERIC_UPDATED"
	EventGenericDeleted          EventKind = "GENERIC_DELETED"
)

func (k EventKind) String() string { return string(k) }

func (k EventKind) IsValid() bool {
	switch k {
	case EventSkillApplied, EventSkillRemoved,
		EventUserJoinedOrganization, EventUserLeftOrganization,
		EventSkillAddedToProfile, EventSkillUpdatedOnProfile, EventSkillRemovedFromProfile,
		EventUserCreated, EventUserUpdated, EventUserDeleted,
		EventOrganizationCreated, EventOrganizationUpdated, EventOrganizationDeleted,
		EventSkillCreated, EventSkillUpdated, EventSkillDeleted,
		EventGenericCreated, EventGenericUpdated, EventGenericDeleted:
		return true
	}
	return false
}

// IsSkillApplicationKind reports whether the kind describes the
// skill-application relationship (applied or removed).
func (k EventKind) IsSkillApplicationKind() bool {
	return k == EventSkillApplied || k == EventSkillRemoved
}

// Actor is the resolved identity of the user who performed an event.
type Actor struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// EntityRef is the generic subject reference carried when no specialized
// related-entity extraction applies.
type EntityRef struct {
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
}

// SkillRef references a skill involved in an event. A placeholder ref
// (resolved from a name with no id) carries uuid.Nil as ID: displayable,
// not deep-linkable.
type SkillRef struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Proficiency *string   `json:"proficiency,omitempty"`
}

// IsPlaceholder reports whether the ref was resolved from a name only.
func (r SkillRef) IsPlaceholder() bool { return r.ID == uuid.Nil }

// OrganizationRef references a customer organization involved in an event.
type OrganizationRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (r OrganizationRef) IsPlaceholder() bool { return r.ID == uuid.Nil }

// UserRef references a user other than the actor involved in an event.
type UserRef struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
}

// UnifiedEvent is the normalized, typed representation of one activity
// record, ready for display. Constructed fresh on every pipeline run.
type UnifiedEvent struct {
	ID        uuid.UUID `json:"id"`
	Kind      EventKind `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
	Actor     Actor     `json:"actor"`

	Subject             *EntityRef       `json:"subject,omitempty"`
	RelatedSkill        *SkillRef        `json:"related_skill,omitempty"`
	RelatedOrganization *OrganizationRef `json:"related_organization,omitempty"`
	RelatedUser         *UserRef         `json:"related_user,omitempty"`

	Changes []FieldChange `json:"changes,omitempty"`
	Notes   *string       `json:"notes,omitempty"`
}
