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

// ClientService wires the client evaluator and the tenant guard behind the
// client-record endpoints.
type ClientService struct {
	store     Store
	evaluator *authz.ClientEvaluator
	guard     *tenant.Guard
	log       *logger.Logger
}

func NewClientService(store Store, evaluator *authz.ClientEvaluator, guard *tenant.Guard, log *logger.Logger) *ClientService {
	return &ClientService{
		store:     store,
		evaluator: evaluator,
		guard:     guard,
		log:       log,
	}
}

// Get returns the client record if the principal can view it.
func (s *ClientService) Get(ctx context.Context, principal domain.Principal, clientID string) (*domain.Client, error) {
	tc, err := s.guard.EstablishContext(ctx, principal)
	if err != nil {
		return nil, err
	}
	scoped, release, err := tc.SetSessionScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("set session scope: %w", err)
	}
	defer release()

	decision, err := s.evaluator.CheckAccess(scoped, principal, clientID, domain.CapabilityView)
	if err != nil {
		return nil, fmt.Errorf("check client access: %w", err)
	}
	if !decision.Granted {
		if decision.IsNotFound() {
			return nil, ErrClientNotFound
		}
		return nil, &AccessDeniedError{Reason: decision.Reason}
	}

	ownership, err := tc.ValidateResourceOwnership(scoped, domain.ResourceClients, clientID)
	if err != nil {
		return nil, err
	}
	if !ownership.Valid {
		return nil, ErrClientNotFound
	}

	c, err := s.store.GetClient(scoped, principal.TenantID, clientID)
	if errors.Is(err, authz.ErrNotFound) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// List returns the client records the principal can view. The page limit
// applies after authorization filtering.
func (s *ClientService) List(ctx context.Context, principal domain.Principal, params domain.ListClientsParams) ([]domain.Client, error) {
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
		return nil, fmt.Errorf("build client filter: %w", err)
	}

	params.TenantID = principal.TenantID
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("validate list params: %w", err)
	}

	limit := params.Limit
	params.Limit = 0
	clients, err := s.store.ListClients(scoped, params)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	visible := make([]domain.Client, 0, len(clients))
	for i := range clients {
		if !allowed(&clients[i]) {
			continue
		}
		visible = append(visible, clients[i])
		if limit > 0 && len(visible) == limit {
			break
		}
	}
	return visible, nil
}

// CheckAccess exposes the point decision for the access probe endpoint.
func (s *ClientService) CheckAccess(ctx context.Context, principal domain.Principal, clientID string, capability domain.Capability) (authz.Decision, error) {
	tc, err := s.guard.EstablishContext(ctx, principal)
	if err != nil {
		return authz.Decision{}, err
	}
	scoped, release, err := tc.SetSessionScope(ctx)
	if err != nil {
		return authz.Decision{}, fmt.Errorf("set session scope: %w", err)
	}
	defer release()

	return s.evaluator.CheckAccess(scoped, principal, clientID, capability)
}
