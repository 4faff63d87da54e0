package auth

import (
	"time"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
)

// LoginResult is returned by Login.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        *domain.User
}
