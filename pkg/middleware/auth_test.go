package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, method jwt.SigningMethod) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func validClaims(tenantID uuid.UUID) Claims {
	return Claims{
		Email:       "ana@example.com",
		Role:        "authenticated",
		AppMetadata: AppMetadata{TenantID: tenantID.String(), Role: "editor"},
		UserMeta:    UserMeta{Language: "de"},
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			Audience:  jwt.ClaimStrings{"authenticated"},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
}

func authOpts() configuration.AuthOptions {
	return configuration.AuthOptions{JWTSecret: testSecret, Audience: "authenticated", Leeway: time.Second}
}

func TestTokenVerifier_Verify(t *testing.T) {
	tenantID := uuid.New()
	v := NewTokenVerifier(authOpts())

	u, err := v.Verify(signToken(t, validClaims(tenantID), jwt.SigningMethodHS256))
	require.NoError(t, err)
	require.Equal(t, "user-1", u.ID())
	require.Equal(t, tenantID, u.TenantID())
	require.Equal(t, user.RoleEditor, u.Role())
	require.Equal(t, user.UILanguageDE, u.UILanguage())
	require.Equal(t, "ana@example.com", u.Email())
}

func TestTokenVerifier_Rejects(t *testing.T) {
	tenantID := uuid.New()
	v := NewTokenVerifier(authOpts())

	t.Run("expired", func(t *testing.T) {
		c := validClaims(tenantID)
		c.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))
		_, err := v.Verify(signToken(t, c, jwt.SigningMethodHS256))
		require.Error(t, err)
	})
	t.Run("wrong audience", func(t *testing.T) {
		c := validClaims(tenantID)
		c.Audience = jwt.ClaimStrings{"anon"}
		_, err := v.Verify(signToken(t, c, jwt.SigningMethodHS256))
		require.Error(t, err)
	})
	t.Run("missing tenant", func(t *testing.T) {
		c := validClaims(tenantID)
		c.AppMetadata.TenantID = ""
		_, err := v.Verify(signToken(t, c, jwt.SigningMethodHS256))
		require.ErrorIs(t, err, errMissingTenant)
	})
	t.Run("bad signature", func(t *testing.T) {
		other := NewTokenVerifier(configuration.AuthOptions{JWTSecret: "other", Audience: "authenticated"})
		_, err := other.Verify(signToken(t, validClaims(tenantID), jwt.SigningMethodHS256))
		require.Error(t, err)
	})
}

func TestTokenVerifier_UnknownRoleFallsBackToViewer(t *testing.T) {
	c := validClaims(uuid.New())
	c.AppMetadata.Role = "owner"
	u, err := NewTokenVerifier(authOpts()).Verify(signToken(t, c, jwt.SigningMethodHS256))
	require.NoError(t, err)
	require.Equal(t, user.RoleViewer, u.Role())
}

func TestAuthorize_Middleware(t *testing.T) {
	tenantID := uuid.New()
	var seen user.User
	var seenTenant uuid.UUID
	h := Authorize(authOpts())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var err error
		seen, err = composables.UseUser(r.Context())
		require.NoError(t, err)
		seenTenant, err = composables.UseTenantID(r.Context())
		require.NoError(t, err)
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vendors", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "UNAUTHENTICATED")
	})

	t.Run("valid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/vendors", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, validClaims(tenantID), jwt.SigningMethodHS256))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "user-1", seen.ID())
		require.Equal(t, tenantID, seenTenant)
	})
}

func TestAuthorize_DisabledUsesDevUser(t *testing.T) {
	tenantID := uuid.New()
	opts := configuration.AuthOptions{Disabled: true, DevTenantID: tenantID.String(), DevUserID: "dev", DevRole: "admin"}
	var seen user.User
	h := Authorize(opts)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = composables.UseUser(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vendors", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, user.RoleAdmin, seen.Role())
	require.Equal(t, tenantID, seen.TenantID())
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := bearerToken(req)
	require.ErrorIs(t, err, errMissingToken)

	req.Header.Set("Authorization", "Basic abc")
	_, err = bearerToken(req)
	require.ErrorIs(t, err, errMissingToken)

	req.Header.Set("Authorization", "bearer abc.def")
	tok, err := bearerToken(req)
	require.NoError(t, err)
	require.Equal(t, "abc.def", tok)
}
