package handler

import (
	"net/http"

	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"
	"praxis-api/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

type MatterHandler struct {
	service *service.MatterService
	denials metric.Int64Counter
}

func NewMatterHandler(service *service.MatterService, denials metric.Int64Counter) *MatterHandler {
	return &MatterHandler{service: service, denials: denials}
}

// ListMatters handles GET /v1/tenants/{tenantId}/matters
func (h *MatterHandler) ListMatters(w http.ResponseWriter, r *http.Request) {
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
	params := domain.ListMattersParams{Limit: limit}

	if clientID := r.URL.Query().Get("clientId"); clientID != "" {
		params.ClientID = &clientID
	}

	log.Info(ctx, "listing matters",
		logger.Module("matters"),
		logger.Action("list"),
		zap.Int("limit", params.Limit),
	)

	matters, err := h.service.List(ctx, principal, params)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeList(w, matters, len(matters))
}

// GetMatter handles GET /v1/tenants/{tenantId}/matters/{matterId}
func (h *MatterHandler) GetMatter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	principal, ok := requirePrincipal(w, ctx)
	if !ok {
		return
	}

	matterID := chi.URLParam(r, "matterId")

	matter, err := h.service.Get(ctx, principal, matterID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, matter)
}

// CheckMatterAccess handles GET /v1/tenants/{tenantId}/matters/{matterId}/access
func (h *MatterHandler) CheckMatterAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	principal, ok := requirePrincipal(w, ctx)
	if !ok {
		return
	}

	matterID := chi.URLParam(r, "matterId")

	capability, ok := parseCapability(w, r)
	if !ok {
		return
	}

	decision, err := h.service.CheckAccess(ctx, principal, matterID, capability)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	if !decision.Granted {
		log.Info(ctx, "matter access denied",
			logger.Module("matters"),
			logger.Action("check_access"),
			zap.String("matter_id", matterID),
			zap.String("capability", string(capability)),
			zap.String("reason", string(decision.Reason)),
		)
		if h.denials != nil {
			h.denials.Add(ctx, 1, metric.WithAttributes(
				attribute.String("resource", string(domain.ResourceMatters)),
				attribute.String("reason", string(decision.Reason)),
			))
		}
	}

	writeJSON(w, http.StatusOK, decision)
}
