package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/scknurr/tritium-v4-sub001/internal/auth"
	"github.com/scknurr/tritium-v4-sub001/internal/config"
	"github.com/scknurr/tritium-v4-sub001/internal/transport/middleware"
)

// TokenParser validates access tokens for the auth middleware.
type TokenParser interface {
	ParseAccessToken(token string) (auth.Identity, error)
}

// Deps bundles everything the HTTP router needs.
type Deps struct {
	Timeline     timelineService
	Applications applicationService
	Auth         authService
	DB           dbPinger
	TokenParser  TokenParser
	Logger       *slog.Logger
	CORS         config.CORSConfig
	KeepAlive    time.Duration
	Version      string

	// LoginLimiter guards the login endpoint against brute force when set.
	LoginLimiter   *middleware.RateLimiter
	LoginRateLimit int
}

// NewRouter builds the full HTTP handler: every route wrapped in the
// RequestID -> Recovery -> CORS -> Logger -> Auth chain. Authentication is
// anonymous-passthrough; services reject unauthenticated mutations.
func NewRouter(deps Deps) http.Handler {
	mux := http.NewServeMux()

	health := NewHealthHandler(deps.DB, deps.Version)
	mux.HandleFunc("GET /health", health.Health)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /live", health.Live)

	tl := NewTimelineHandler(deps.Timeline, deps.Logger, deps.KeepAlive)
	mux.HandleFunc("GET /api/v1/timeline", tl.Get)
	mux.HandleFunc("GET /api/v1/timeline/stream", tl.Stream)
	mux.HandleFunc("GET /api/v1/timeline/reconcile", tl.Reconcile)

	apps := NewApplicationsHandler(deps.Applications, deps.Logger)
	mux.HandleFunc("POST /api/v1/applications", apps.Create)
	mux.HandleFunc("GET /api/v1/applications/{id}", apps.Get)
	mux.HandleFunc("PATCH /api/v1/applications/{id}", apps.Update)
	mux.HandleFunc("DELETE /api/v1/applications/{id}", apps.End)
	mux.HandleFunc("GET /api/v1/customers/{id}/applications", apps.ListByCustomer)
	mux.HandleFunc("GET /api/v1/users/{id}/applications", apps.ListByUser)

	authH := NewAuthHandler(deps.Auth, deps.Logger)
	var login http.Handler = http.HandlerFunc(authH.Login)
	if deps.LoginLimiter != nil && deps.LoginRateLimit > 0 {
		login = deps.LoginLimiter.Limit(deps.LoginRateLimit)(login)
	}
	mux.Handle("POST /api/v1/auth/login", login)

	chain := middleware.Chain(
		middleware.RequestID(),
		middleware.Recovery(deps.Logger),
		middleware.CORS(deps.CORS),
		middleware.Logger(deps.Logger),
		middleware.Auth(deps.TokenParser),
	)

	return chain(mux)
}
