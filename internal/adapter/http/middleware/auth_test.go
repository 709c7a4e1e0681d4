package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fleetora/fleetops/internal/domain/models"
	"github.com/fleetora/fleetops/internal/domain/types"
	"github.com/fleetora/fleetops/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type stubAuth struct {
	user *models.User
	err  error
}

func (s *stubAuth) RoleCheck(ctx context.Context, token string) (*models.User, error) {
	return s.user, s.err
}

func newTestMiddleware(auth AuthService) *Middleware {
	return NewMiddleware(auth, logger.InitLogger("test", logger.LevelError))
}

func operator(role types.UserRole) *models.User {
	return &models.User{ID: uuid.New(), Role: role}
}

func okHandler(called *bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	}
}

func TestAuthNoHeaderProceedsAnonymous(t *testing.T) {
	m := newTestMiddleware(&stubAuth{})

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = models.UserFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	m.Auth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, seen)
	assert.True(t, seen.IsAnonymous())
}

func TestAuthInvalidTokenRejected(t *testing.T) {
	m := newTestMiddleware(&stubAuth{err: errors.New("bad token")})

	called := false
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	m.Auth(okHandler(&called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestAuthMalformedHeaderRejected(t *testing.T) {
	m := newTestMiddleware(&stubAuth{user: operator(types.AdminRole)})

	called := false
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Token abc")

	rec := httptest.NewRecorder()
	m.Auth(okHandler(&called)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireRolesAnonymousGets401(t *testing.T) {
	m := newTestMiddleware(&stubAuth{})

	called := false
	req := httptest.NewRequest(http.MethodPost, "/admin/pricing-rules", nil)
	req = req.WithContext(models.WithUser(req.Context(), models.AnonymousUser()))

	rec := httptest.NewRecorder()
	m.RequireRoles(okHandler(&called), types.AdminRole).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRequireRolesWrongRoleGets403(t *testing.T) {
	m := newTestMiddleware(&stubAuth{})

	called := false
	req := httptest.NewRequest(http.MethodPost, "/admin/pricing-rules", nil)
	req = req.WithContext(models.WithUser(req.Context(), operator(types.ViewerRole)))

	rec := httptest.NewRecorder()
	m.RequireRoles(okHandler(&called), types.AdminRole).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestRequireRolesAllowedRolePasses(t *testing.T) {
	m := newTestMiddleware(&stubAuth{})

	called := false
	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req = req.WithContext(models.WithUser(req.Context(), operator(types.OperatorRole)))

	rec := httptest.NewRecorder()
	m.RequireRoles(okHandler(&called), types.AdminRole, types.OperatorRole).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestAuthValidTokenInjectsOperator(t *testing.T) {
	admin := operator(types.AdminRole)
	m := newTestMiddleware(&stubAuth{user: admin})

	var seen *models.User
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = models.UserFromContext(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer some.valid.token")

	rec := httptest.NewRecorder()
	m.Auth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, seen)
	assert.Equal(t, admin.ID, seen.ID)
}
