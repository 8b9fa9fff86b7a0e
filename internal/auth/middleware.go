package auth

import (
	"context"
	"net/http"
	"strings"

	"praxis-api/internal/domain"
	"praxis-api/internal/http/httperr"
	"praxis-api/internal/observability/logger"

	"go.uber.org/zap"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// JWTAuthMiddleware validates JWT tokens and injects claims into context
func JWTAuthMiddleware(validator *Validator, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn(ctx, "missing authorization header",
					logger.Module("auth"),
					logger.Action("authenticate"),
				)
				httperr.Unauthorized401(w, ctx, httperr.ErrCodeMissingAuthorization, "missing authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				log.Warn(ctx, "invalid authorization header format",
					logger.Module("auth"),
					logger.Action("authenticate"),
				)
				httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidScheme, "authorization header must use the Bearer scheme")
				return
			}

			claims, err := validator.Validate(parts[1])
			if err != nil {
				log.Warn(ctx, "token validation failed",
					logger.Module("auth"),
					logger.Action("authenticate"),
					zap.Error(err),
					zap.String("remote_addr", r.RemoteAddr),
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
				)
				httperr.Unauthorized401(w, ctx, authFailureCode(err), "invalid token")
				return
			}

			ctx = context.WithValue(ctx, claimsContextKey, claims)
			ctx = logger.SetTenantIDInContext(ctx, claims.TenantID)
			ctx = logger.SetUserIDInContext(ctx, claims.UserID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// authFailureCode maps a categorized validation error to the response code.
func authFailureCode(err error) string {
	authErr, ok := IsAuthError(err)
	if !ok {
		return httperr.ErrCodeInvalidToken
	}
	switch authErr.Reason {
	case AuthFailureTokenExpired:
		return httperr.ErrCodeTokenExpired
	case AuthFailureInvalidSignature:
		return httperr.ErrCodeInvalidSignature
	case AuthFailureInvalidIssuer:
		return httperr.ErrCodeInvalidIssuer
	default:
		return httperr.ErrCodeInvalidToken
	}
}

// GetClaims retrieves claims from context
func GetClaims(ctx context.Context) (*CustomClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*CustomClaims)
	return claims, ok
}

// GetPrincipal retrieves the authenticated principal from context.
func GetPrincipal(ctx context.Context) (domain.Principal, bool) {
	claims, ok := GetClaims(ctx)
	if !ok {
		return domain.Principal{}, false
	}
	return claims.Principal(), true
}
