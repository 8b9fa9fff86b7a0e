package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"praxis-api/internal/auth"
	"praxis-api/internal/domain"
	"praxis-api/internal/http/httperr"
	"praxis-api/internal/observability/logger"
	"praxis-api/internal/service"
	"praxis-api/internal/tenant"

	"go.uber.org/zap"
)

const defaultPageSize = 50

// listResponse is the envelope for collection endpoints.
type listResponse struct {
	OK    bool        `json:"ok"`
	Data  interface{} `json:"data"`
	Count int         `json:"count"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeList(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, listResponse{OK: true, Data: data, Count: count})
}

// requirePrincipal extracts the authenticated principal or writes a 401.
func requirePrincipal(w http.ResponseWriter, ctx context.Context) (domain.Principal, bool) {
	principal, ok := auth.GetPrincipal(ctx)
	if !ok {
		httperr.Unauthorized401(w, ctx, httperr.ErrCodeMissingAuthorization, "authentication claims not found")
		return domain.Principal{}, false
	}
	return principal, true
}

// parseLimit reads the limit query parameter. Absent means the default page
// size; anything outside 1..100 writes a 400 and returns false.
func parseLimit(w http.ResponseWriter, r *http.Request) (int, bool) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return defaultPageSize, true
	}
	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > 100 {
		httperr.BadRequest400(w, r.Context(), httperr.ErrCodeInvalidLimit, "limit must be between 1 and 100")
		return 0, false
	}
	return limit, true
}

// parseCapability reads the capability query parameter for access probes.
// Absent defaults to view.
func parseCapability(w http.ResponseWriter, r *http.Request) (domain.Capability, bool) {
	capStr := r.URL.Query().Get("capability")
	if capStr == "" {
		return domain.CapabilityView, true
	}
	capability := domain.Capability(capStr)
	if !capability.IsValid() {
		httperr.BadRequest400(w, r.Context(), httperr.ErrCodeInvalidCapability, "capability must be one of: view, download, edit, delete, share, manage")
		return "", false
	}
	return capability, true
}

func handleServiceError(w http.ResponseWriter, ctx context.Context, log *logger.Logger, err error) {
	var denied *service.AccessDeniedError

	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		log.Debug(ctx, "document not found", zap.Error(err))
		httperr.NotFound404(w, ctx, "document not found")
	case errors.Is(err, service.ErrMatterNotFound):
		log.Debug(ctx, "matter not found", zap.Error(err))
		httperr.NotFound404(w, ctx, "matter not found")
	case errors.Is(err, service.ErrClientNotFound):
		log.Debug(ctx, "client not found", zap.Error(err))
		httperr.NotFound404(w, ctx, "client not found")
	case errors.As(err, &denied):
		log.Warn(ctx, "access denied", zap.String("reason", string(denied.Reason)))
		httperr.Forbidden403(w, ctx, httperr.ErrCodeAccessDenied, "insufficient permissions for this resource")
	case errors.Is(err, service.ErrUnauthorized):
		log.Warn(ctx, "unauthorized action", zap.Error(err))
		httperr.Forbidden403(w, ctx, httperr.ErrCodeForbidden, "insufficient permissions for this action")
	case errors.Is(err, tenant.ErrInvalidTenant):
		httperr.BadRequest400(w, ctx, httperr.ErrCodeInvalidTenantID, "tenant id is not valid")
	default:
		log.Error(ctx, "service error occurred", zap.Error(err))
		httperr.InternalError(w, ctx)
	}
}
