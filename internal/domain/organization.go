package domain

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a client organization at which users apply skills.
type Customer struct {
	ID          uuid.UUID
	Name        string
	Industry    *string
	Website     *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
