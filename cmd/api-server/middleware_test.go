package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeetms/fleet-admin/internal/auth"
	"github.com/zeetms/fleet-admin/internal/ctxstore"
)

func newTestApplication() *application {
	return &application{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		auth:   auth.NewService(auth.Config{Secret: "test-secret", TokenTTL: time.Hour}),
	}
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	app := newTestApplication()

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	app := newTestApplication()

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	app := newTestApplication()

	expired := auth.NewService(auth.Config{Secret: "test-secret", TokenTTL: -time.Hour})
	token, err := expired.GenerateToken("admin", _adminRole)
	require.NoError(t, err)

	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_StoresClaims(t *testing.T) {
	app := newTestApplication()

	token, err := app.auth.GenerateToken("admin", _adminRole)
	require.NoError(t, err)

	var got auth.Claims
	handler := app.authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ctxstore.MustFrom[auth.Claims](r.Context(), _claimsKey)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", got.Username)
	assert.Equal(t, _adminRole, got.Role)
}

func TestRequireAdmin_NonAdminRole(t *testing.T) {
	app := newTestApplication()

	token, err := app.auth.GenerateToken("viewer", "User")
	require.NoError(t, err)

	handler := app.authenticate(app.requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	})))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAdmin_AdminPasses(t *testing.T) {
	app := newTestApplication()

	token, err := app.auth.GenerateToken("admin", _adminRole)
	require.NoError(t, err)

	handler := app.authenticate(app.requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/vehicles/1", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAdmin_NoClaims(t *testing.T) {
	app := newTestApplication()

	handler := app.requireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be reached")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
