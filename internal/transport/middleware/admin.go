package middleware

import (
	"context"

	"github.com/scknurr/tritium-v4-sub001/internal/domain"
	"github.com/scknurr/tritium-v4-sub001/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrForbidden unless the context carries an
// admin identity. Used inside handlers, not as HTTP middleware.
func RequireAdmin(ctx context.Context) error {
	role := domain.UserRole(ctxutil.UserRoleFromCtx(ctx))
	if !role.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}
