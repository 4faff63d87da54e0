package domain

import (
	"time"

	"github.com/google/uuid"
)

// Skill is a catalog entry users can apply at customers.
type Skill struct {
	ID          uuid.UUID
	Name        string
	Category    *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SkillApplication is the live many-to-many relationship row: user UserID
// applies skill SkillID at customer CustomerID. An application with a nil
// EndedAt is active.
type SkillApplication struct {
	ID          uuid.UUID
	UserID      uuid.UUID
	SkillID     uuid.UUID
	CustomerID  uuid.UUID
	Proficiency Proficiency
	Notes       *string
	StartedAt   time.Time
	EndedAt     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive reports whether the application has not been ended.
func (a SkillApplication) IsActive() bool {
	return a.EndedAt == nil
}

// ApplicationUpdateParams carries the mutable fields of an application.
// Nil means "leave unchanged"; an empty Notes string clears the column.
type ApplicationUpdateParams struct {
	Proficiency *Proficiency
	Notes       *string
}

// ApplicationKey identifies an active relationship regardless of which row
// (or which store) it came from. Used by the reconciliation check.
type ApplicationKey struct {
	UserID     uuid.UUID `json:"user_id"`
	SkillID    uuid.UUID `json:"skill_id"`
	CustomerID uuid.UUID `json:"customer_id"`
}

// Key returns the relationship identity of the application.
func (a SkillApplication) Key() ApplicationKey {
	return ApplicationKey{UserID: a.UserID, SkillID: a.SkillID, CustomerID: a.CustomerID}
}
