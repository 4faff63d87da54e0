package auth

import (
	"github.com/google/uuid"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// Identity is the authenticated principal extracted from an access token.
type Identity struct {
	UserID uuid.UUID
	Role   domain.UserRole
}
