package middleware

import (
	"context"
	"net/http"

	"praxis-api/internal/auth"
	"praxis-api/internal/http/httperr"
	"praxis-api/internal/observability/logger"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type contextKey string

const tenantIDKey contextKey = "tenant_id"

// TenantMiddleware validates tenant access and prevents IDOR attacks: the
// tenant in the URL must match the tenant in the token, always.
func TenantMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		log := logger.GetLogger(ctx)

		tenantID := chi.URLParam(r, "tenantId")
		if tenantID == "" {
			log.Warn(ctx, "tenant_id not found in path",
				logger.Module("http"),
				logger.Action("tenant_check"),
			)
			httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidTenantID, "tenant_id not found in path")
			return
		}

		// Claims are set by JWTAuthMiddleware
		claims, ok := auth.GetClaims(ctx)
		if !ok {
			log.Error(ctx, "claims not found in context",
				logger.Module("http"),
				logger.Action("tenant_check"),
			)
			httperr.Unauthorized401(w, ctx, httperr.ErrCodeInvalidToken, "unauthorized")
			return
		}

		// IDOR prevention: tenant from the token must match the path.
		if claims.TenantID != tenantID {
			log.Warn(ctx, "tenant access denied - IDOR attempt detected",
				logger.Module("http"),
				logger.Action("tenant_check"),
				zap.String("jwt_tenant_id", claims.TenantID),
				zap.String("path_tenant_id", tenantID),
				zap.String("user_id", claims.UserID),
			)
			httperr.Forbidden403(w, ctx, httperr.ErrCodeTenantMismatch, "tenant access denied")
			return
		}

		span := trace.SpanFromContext(ctx)
		span.SetAttributes(attribute.String("tenant_id", tenantID))

		ctx = context.WithValue(ctx, tenantIDKey, tenantID)
		ctx = logger.SetTenantIDInContext(ctx, tenantID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetTenantID retrieves validated tenant ID from context
func GetTenantID(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(string)
	return tenantID, ok
}
