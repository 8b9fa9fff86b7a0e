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

type ClientHandler struct {
	service *service.ClientService
	denials metric.Int64Counter
}

func NewClientHandler(service *service.ClientService, denials metric.Int64Counter) *ClientHandler {
	return &ClientHandler{service: service, denials: denials}
}

// ListClients handles GET /v1/tenants/{tenantId}/clients
func (h *ClientHandler) ListClients(w http.ResponseWriter, r *http.Request) {
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
	params := domain.ListClientsParams{Limit: limit}

	log.Info(ctx, "listing clients",
		logger.Module("clients"),
		logger.Action("list"),
		zap.Int("limit", params.Limit),
	)

	clients, err := h.service.List(ctx, principal, params)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeList(w, clients, len(clients))
}

// GetClient handles GET /v1/tenants/{tenantId}/clients/{clientId}
func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	principal, ok := requirePrincipal(w, ctx)
	if !ok {
		return
	}

	clientID := chi.URLParam(r, "clientId")

	client, err := h.service.Get(ctx, principal, clientID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, client)
}

// CheckClientAccess handles GET /v1/tenants/{tenantId}/clients/{clientId}/access
func (h *ClientHandler) CheckClientAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	principal, ok := requirePrincipal(w, ctx)
	if !ok {
		return
	}

	clientID := chi.URLParam(r, "clientId")

	capability, ok := parseCapability(w, r)
	if !ok {
		return
	}

	decision, err := h.service.CheckAccess(ctx, principal, clientID, capability)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	if !decision.Granted {
		log.Info(ctx, "client access denied",
			logger.Module("clients"),
			logger.Action("check_access"),
			zap.String("client_id", clientID),
			zap.String("capability", string(capability)),
			zap.String("reason", string(decision.Reason)),
		)
		if h.denials != nil {
			h.denials.Add(ctx, 1, metric.WithAttributes(
				attribute.String("resource", string(domain.ResourceClients)),
				attribute.String("reason", string(decision.Reason)),
			))
		}
	}

	writeJSON(w, http.StatusOK, decision)
}
