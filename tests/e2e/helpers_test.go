//go:build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/activity"
	apprepo "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/application"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/customer"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/notify"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/skill"
	"github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/testhelper"
	userrepo "github.com/scknurr/tritium-v4-sub001/internal/adapter/postgres/user"
	authpkg "github.com/scknurr/tritium-v4-sub001/internal/auth"
	"github.com/scknurr/tritium-v4-sub001/internal/config"
	"github.com/scknurr/tritium-v4-sub001/internal/domain"
	applicationsvc "github.com/scknurr/tritium-v4-sub001/internal/service/application"
	authsvc "github.com/scknurr/tritium-v4-sub001/internal/service/auth"
	"github.com/scknurr/tritium-v4-sub001/internal/service/timeline"
	"github.com/scknurr/tritium-v4-sub001/internal/transport/rest"
)

// ---------------------------------------------------------------------------
// testServer wraps the full-stack HTTP server for E2E tests.
// ---------------------------------------------------------------------------

type testServer struct {
	URL    string
	Client *http.Client
	Pool   *pgxpool.Pool
	jwt    *authpkg.TokenManager
}

// testLogWriter adapts testing.T to io.Writer for slog.
type testLogWriter struct{ t *testing.T }

func (w testLogWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(string(p))
	return len(p), nil
}

// ---------------------------------------------------------------------------
// setupTestServer bootstraps the full application stack backed by
// a real PostgreSQL container (shared via testhelper). The NOTIFY
// listener runs against the same database, so SSE tests exercise the
// real trigger -> LISTEN -> re-assemble path.
// ---------------------------------------------------------------------------

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	// 1. Get pool from testcontainers-backed helper.
	pool := testhelper.SetupTestDB(t)

	// 2. Infrastructure.
	logger := slog.New(slog.NewTextHandler(testLogWriter{t}, nil))
	txm := postgres.NewTxManager(pool)

	// 3. Repositories.
	activityRepo := activity.New(pool)
	applicationRepo := apprepo.New(pool)
	customerRepo := customer.New(pool)
	skillRepo := skill.New(pool)
	userRepo := userrepo.New(pool)

	// 4. LISTEN/NOTIFY listener. The channel name matches the trigger in
	// migration 0002.
	listener := notify.NewListener(pool, "tritium_activity", logger)
	listenerCtx, stopListener := context.WithCancel(context.Background())
	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		listener.Run(listenerCtx)
	}()
	t.Cleanup(func() {
		stopListener()
		<-listenerDone
	})

	// 5. JWT manager with a test secret (>= 32 chars).
	jwtMgr := authpkg.NewTokenManager(config.AuthConfig{
		JWTSecret:      "test-secret-at-least-32-chars-long!!",
		JWTIssuer:      "test-issuer",
		AccessTokenTTL: 15 * time.Minute,
	})

	// 6. Services.
	timelineSvc := timeline.NewService(logger, timeline.Config{
		DefaultLimit:    50,
		MaxLimit:        200,
		WatchBuffer:     16,
		AssembleTimeout: 10 * time.Second,
	}, activityRepo, applicationRepo, userRepo, customerRepo, skillRepo, listener)

	applicationSvc := applicationsvc.NewService(
		logger, applicationRepo, userRepo, skillRepo, customerRepo, activityRepo, txm,
	)

	authService := authsvc.NewService(logger, userRepo, jwtMgr)

	// 7. Router with the full middleware chain.
	router := rest.NewRouter(rest.Deps{
		Timeline:     timelineSvc,
		Applications: applicationSvc,
		Auth:         authService,
		DB:           pool,
		TokenParser:  jwtMgr,
		Logger:       logger,
		CORS: config.CORSConfig{
			AllowedOrigins:   "*",
			AllowedMethods:   "GET,POST,PATCH,DELETE,OPTIONS",
			AllowedHeaders:   "Authorization,Content-Type",
			AllowCredentials: true,
			MaxAge:           86400,
		},
		KeepAlive: time.Second,
		Version:   "test-version",
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{
		URL:    srv.URL,
		Client: srv.Client(),
		Pool:   pool,
		jwt:    jwtMgr,
	}
}

// ---------------------------------------------------------------------------
// Credential helpers.
// ---------------------------------------------------------------------------

// hashPassword returns a bcrypt hash at the minimum cost to keep the
// suite fast.
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

// seedLoginUser creates a regular user that can authenticate with the
// given password.
func seedLoginUser(t *testing.T, pool *pgxpool.Pool, password string) domain.User {
	t.Helper()

	user := testhelper.SeedUser(t, pool)
	user.PasswordHash = hashPassword(t, password)

	_, err := pool.Exec(context.Background(),
		`UPDATE profiles SET password_hash = $2 WHERE id = $1`,
		user.ID, user.PasswordHash,
	)
	require.NoError(t, err)
	return user
}

// tokenFor issues an access token for the user directly, bypassing the
// login endpoint.
func (ts *testServer) tokenFor(t *testing.T, user domain.User) string {
	t.Helper()
	token, _, err := ts.jwt.IssueAccessToken(user.ID, user.Role)
	require.NoError(t, err)
	return token
}

// login authenticates through the REST endpoint and returns the access token.
func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	status, raw := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, status, "login failed: %s", raw)

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(raw, &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

// ---------------------------------------------------------------------------
// HTTP helpers.
// ---------------------------------------------------------------------------

// do performs a request with an optional bearer token and JSON body,
// returning the status code and raw response body.
func (ts *testServer) do(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// objectBody decodes a JSON object response.
func objectBody(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), "not a JSON object: %s", raw)
	return m
}

// arrayBody decodes a JSON array response into a slice of objects.
func arrayBody(t *testing.T, raw []byte) []map[string]any {
	t.Helper()
	var items []map[string]any
	require.NoError(t, json.Unmarshal(raw, &items), "not a JSON array: %s", raw)
	return items
}

// ---------------------------------------------------------------------------
// Timeline helpers.
// ---------------------------------------------------------------------------

// timelineFor fetches the timeline filtered to one subject entity.
func (ts *testServer) timelineFor(t *testing.T, entityType, entityID string) []map[string]any {
	t.Helper()

	status, raw := ts.do(t, http.MethodGet,
		"/api/v1/timeline?entity_type="+entityType+"&entity_id="+entityID, "", nil)
	require.Equal(t, http.StatusOK, status, "timeline fetch failed: %s", raw)
	return arrayBody(t, raw)
}

// eventKinds extracts the kind field of each event, newest first.
func eventKinds(events []map[string]any) []string {
	kinds := make([]string, 0, len(events))
	for _, e := range events {
		if k, ok := e["kind"].(string); ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}
