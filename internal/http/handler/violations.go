package handler

import (
	"net/http"

	"praxis-api/internal/observability/logger"
	"praxis-api/internal/service"

	"go.uber.org/zap"
)

// ViolationHandler exposes the tenant guard's recorded isolation violations
// for operational review.
type ViolationHandler struct {
	service *service.ViolationService
}

func NewViolationHandler(service *service.ViolationService) *ViolationHandler {
	return &ViolationHandler{service: service}
}

// ListViolations handles GET /v1/tenants/{tenantId}/violations
func (h *ViolationHandler) ListViolations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	principal, ok := requirePrincipal(w, ctx)
	if !ok {
		return
	}

	limit, ok := parseLimit(w, r)
	if !ok {
		return
	}

	log.Info(ctx, "listing isolation violations",
		logger.Module("violations"),
		logger.Action("list"),
		zap.Int("limit", limit),
	)

	violations, err := h.service.Recent(ctx, principal, limit)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeList(w, violations, len(violations))
}
