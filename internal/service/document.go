package service

import (
	"context"
	"errors"
	"fmt"

	"praxis-api/internal/authz"
	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"
	"praxis-api/internal/tenant"
)

// DocumentService wires the document evaluator, the tenant guard, and the
// store behind the document endpoints. Every entry point establishes a
// validated tenant context and a database session scope before touching data.
type DocumentService struct {
	store     Store
	evaluator *authz.DocumentEvaluator
	guard     *tenant.Guard
	log       *logger.Logger
}

func NewDocumentService(store Store, evaluator *authz.DocumentEvaluator, guard *tenant.Guard, log *logger.Logger) *DocumentService {
	return &DocumentService{
		store:     store,
		evaluator: evaluator,
		guard:     guard,
		log:       log,
	}
}

// Get returns the document if the principal can view it. Denials surface as
// AccessDeniedError; a missing or cross-tenant document is ErrDocumentNotFound.
func (s *DocumentService) Get(ctx context.Context, principal domain.Principal, documentID string) (*domain.Document, error) {
	tc, err := s.guard.EstablishContext(ctx, principal)
	if err != nil {
		return nil, err
	}
	scoped, release, err := tc.SetSessionScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("set session scope: %w", err)
	}
	defer release()

	decision, err := s.evaluator.CheckAccess(scoped, principal, documentID, domain.CapabilityView)
	if err != nil {
		return nil, fmt.Errorf("check document access: %w", err)
	}
	if !decision.Granted {
		if decision.IsNotFound() {
			return nil, ErrDocumentNotFound
		}
		return nil, &AccessDeniedError{Reason: decision.Reason}
	}

	// Independent ownership check; a mismatch here means the permission
	// model and the stored tenant disagree, and we fail closed.
	ownership, err := tc.ValidateResourceOwnership(scoped, domain.ResourceDocuments, documentID)
	if err != nil {
		return nil, err
	}
	if !ownership.Valid {
		return nil, ErrDocumentNotFound
	}

	doc, err := s.store.GetDocument(scoped, principal.TenantID, documentID)
	if errors.Is(err, authz.ErrNotFound) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// List returns the documents the principal can view, equivalent to running
// Get over every row. The page limit applies after authorization filtering.
func (s *DocumentService) List(ctx context.Context, principal domain.Principal, params domain.ListDocumentsParams) ([]domain.Document, error) {
	tc, err := s.guard.EstablishContext(ctx, principal)
	if err != nil {
		return nil, err
	}
	scoped, release, err := tc.SetSessionScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("set session scope: %w", err)
	}
	defer release()

	allowed, err := s.evaluator.Filter(scoped, principal)
	if err != nil {
		return nil, fmt.Errorf("build document filter: %w", err)
	}

	params.TenantID = principal.TenantID
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("validate list params: %w", err)
	}

	limit := params.Limit
	params.Limit = 0
	docs, err := s.store.ListDocuments(scoped, params)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	visible := make([]domain.Document, 0, len(docs))
	for i := range docs {
		if !allowed(&docs[i]) {
			continue
		}
		visible = append(visible, docs[i])
		if limit > 0 && len(visible) == limit {
			break
		}
	}
	return visible, nil
}

// CheckAccess exposes the point decision for the access probe endpoint. A
// denial is a normal result, not an error.
func (s *DocumentService) CheckAccess(ctx context.Context, principal domain.Principal, documentID string, capability domain.Capability) (authz.Decision, error) {
	tc, err := s.guard.EstablishContext(ctx, principal)
	if err != nil {
		return authz.Decision{}, err
	}
	scoped, release, err := tc.SetSessionScope(ctx)
	if err != nil {
		return authz.Decision{}, fmt.Errorf("set session scope: %w", err)
	}
	defer release()

	return s.evaluator.CheckAccess(scoped, principal, documentID, capability)
}
