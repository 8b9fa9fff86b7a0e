package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"praxis-api/internal/auth"
	"praxis-api/internal/http/middleware"
	"praxis-api/internal/observability/logger"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer = "praxis-identity"
)

var testSecret = []byte("test-secret-key-for-hs256-tokens")

func mintToken(t *testing.T, tenantID, userID, role string) string {
	t.Helper()
	claims := &auth.CustomClaims{
		TenantID: tenantID,
		UserID:   userID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return signed
}

func newTenantRouter(t *testing.T, final http.HandlerFunc) http.Handler {
	t.Helper()
	log, err := logger.New("test-service", "error")
	require.NoError(t, err)
	validator := auth.NewValidator(testSecret, testIssuer, 30*time.Second)

	r := chi.NewRouter()
	r.Route("/v1/tenants/{tenantId}", func(r chi.Router) {
		r.Use(auth.JWTAuthMiddleware(validator, log))
		r.Use(middleware.TenantMiddleware)
		r.Get("/documents", final)
	})
	return r
}

func TestTenantMiddleware_MatchingTenant(t *testing.T) {
	var gotTenant string
	router := newTenantRouter(t, func(w http.ResponseWriter, r *http.Request) {
		gotTenant, _ = middleware.GetTenantID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/firm-alpha/documents", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "firm-alpha", "user-1", "attorney"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "firm-alpha", gotTenant)
}

func TestTenantMiddleware_TenantMismatchIsForbidden(t *testing.T) {
	router := newTenantRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run on tenant mismatch")
	})

	// Token for firm-beta, path for firm-alpha: classic IDOR probe.
	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/firm-alpha/documents", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "firm-beta", "user-1", "attorney"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "TENANT_MISMATCH")
}

func TestTenantMiddleware_AdminCannotCrossTenants(t *testing.T) {
	router := newTenantRouter(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run on tenant mismatch")
	})

	// Full-access roles bypass permission rules inside a tenant, never the
	// tenant boundary itself.
	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/firm-alpha/documents", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, "firm-beta", "admin-1", "admin"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestTenantMiddleware_MissingClaims(t *testing.T) {
	r := chi.NewRouter()
	r.Route("/v1/tenants/{tenantId}", func(r chi.Router) {
		// TenantMiddleware without JWTAuthMiddleware in front
		r.Use(middleware.TenantMiddleware)
		r.Get("/documents", func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run without claims")
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/v1/tenants/firm-alpha/documents", nil)
	rec := httptest.NewRecorder()

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetTenantID_EmptyContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := middleware.GetTenantID(req.Context())
	assert.False(t, ok)
}
