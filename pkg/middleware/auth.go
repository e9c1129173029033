package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/dora-register/modules/core/domain/aggregates/user"
	"github.com/iota-uz/dora-register/pkg/composables"
	"github.com/iota-uz/dora-register/pkg/configuration"
	"github.com/iota-uz/dora-register/pkg/httpapi"
)

var (
	errMissingToken  = errors.New("missing bearer token")
	errMissingTenant = errors.New("token carries no tenant")
)

// Claims mirrors the access token issued by the hosted auth backend.
type Claims struct {
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	AppMetadata AppMetadata `json:"app_metadata"`
	UserMeta    UserMeta    `json:"user_metadata"`
	jwt.RegisteredClaims
}

type AppMetadata struct {
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

type UserMeta struct {
	Language string `json:"language"`
}

// TokenVerifier checks HMAC-signed access tokens.
type TokenVerifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewTokenVerifier(opts configuration.AuthOptions) *TokenVerifier {
	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithLeeway(opts.Leeway),
		jwt.WithExpirationRequired(),
	}
	if opts.Issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(opts.Issuer))
	}
	if opts.Audience != "" {
		parserOpts = append(parserOpts, jwt.WithAudience(opts.Audience))
	}
	return &TokenVerifier{
		secret: []byte(opts.JWTSecret),
		parser: jwt.NewParser(parserOpts...),
	}
}

// Verify parses the token and maps its claims onto a user.
func (v *TokenVerifier) Verify(raw string) (user.User, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	tenantID, err := uuid.Parse(claims.AppMetadata.TenantID)
	if err != nil || tenantID == uuid.Nil {
		return nil, errMissingTenant
	}
	// The top-level role is the auth backend's own ("authenticated").
	// Tenant roles live in app_metadata; anything unknown reads as viewer.
	role, err := user.NewRole(claims.AppMetadata.Role)
	if err != nil {
		role = user.RoleViewer
	}
	opts := []user.Option{user.WithEmail(claims.Email)}
	if lang, err := user.NewUILanguage(claims.UserMeta.Language); err == nil {
		opts = append(opts, user.WithUILanguage(lang))
	}
	return user.New(claims.Subject, tenantID, role, opts...), nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errMissingToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", errMissingToken
	}
	return strings.TrimSpace(parts[1]), nil
}

func devUser(opts configuration.AuthOptions) (user.User, error) {
	tenantID, err := uuid.Parse(opts.DevTenantID)
	if err != nil {
		return nil, fmt.Errorf("AUTH_DEV_TENANT_ID: %w", err)
	}
	role, err := user.NewRole(opts.DevRole)
	if err != nil {
		return nil, err
	}
	return user.New(opts.DevUserID, tenantID, role, user.WithEmail(opts.DevUserID+"@localhost")), nil
}

// Authorize attaches the caller and tenant from the bearer token. With
// AUTH_DISABLED every request runs as the configured development user.
func Authorize(opts configuration.AuthOptions) mux.MiddlewareFunc {
	verifier := NewTokenVerifier(opts)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := composables.UseLogger(r.Context())

			var (
				u   user.User
				err error
			)
			if opts.Disabled {
				u, err = devUser(opts)
			} else {
				var raw string
				raw, err = bearerToken(r)
				if err == nil {
					u, err = verifier.Verify(raw)
				}
			}
			if err != nil {
				logger.WithError(err).Debug("authentication failed")
				httpapi.WriteError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
				return
			}

			ctx := composables.WithUser(r.Context(), u)
			ctx = composables.WithTenantID(ctx, u.TenantID())
			ctx = composables.WithLogger(ctx, logger.WithFields(logrus.Fields{
				"user-id":   u.ID(),
				"tenant-id": u.TenantID().String(),
			}))
			if params, ok := composables.UseParams(ctx); ok {
				params.Authenticated = true
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
