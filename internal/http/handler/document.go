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

type DocumentHandler struct {
	service *service.DocumentService
	denials metric.Int64Counter
}

func NewDocumentHandler(service *service.DocumentService, denials metric.Int64Counter) *DocumentHandler {
	return &DocumentHandler{service: service, denials: denials}
}

// ListDocuments handles GET /v1/tenants/{tenantId}/documents
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
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
	params := domain.ListDocumentsParams{Limit: limit}

	if matterID := r.URL.Query().Get("matterId"); matterID != "" {
		params.MatterID = &matterID
	}

	log.Info(ctx, "listing documents",
		logger.Module("documents"),
		logger.Action("list"),
		zap.Int("limit", params.Limit),
	)

	docs, err := h.service.List(ctx, principal, params)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeList(w, docs, len(docs))
}

// GetDocument handles GET /v1/tenants/{tenantId}/documents/{documentId}
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	principal, ok := requirePrincipal(w, ctx)
	if !ok {
		return
	}

	documentID := chi.URLParam(r, "documentId")

	doc, err := h.service.Get(ctx, principal, documentID)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// CheckDocumentAccess handles GET /v1/tenants/{tenantId}/documents/{documentId}/access
// A denial is a normal 200 response with granted=false.
func (h *DocumentHandler) CheckDocumentAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	principal, ok := requirePrincipal(w, ctx)
	if !ok {
		return
	}

	documentID := chi.URLParam(r, "documentId")

	capability, ok := parseCapability(w, r)
	if !ok {
		return
	}

	decision, err := h.service.CheckAccess(ctx, principal, documentID, capability)
	if err != nil {
		handleServiceError(w, ctx, log, err)
		return
	}

	if !decision.Granted {
		log.Info(ctx, "document access denied",
			logger.Module("documents"),
			logger.Action("check_access"),
			zap.String("document_id", documentID),
			zap.String("capability", string(capability)),
			zap.String("reason", string(decision.Reason)),
		)
		if h.denials != nil {
			h.denials.Add(ctx, 1, metric.WithAttributes(
				attribute.String("resource", string(domain.ResourceDocuments)),
				attribute.String("reason", string(decision.Reason)),
			))
		}
	}

	writeJSON(w, http.StatusOK, decision)
}
