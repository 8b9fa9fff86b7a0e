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

// MatterService wires the matter evaluator and the tenant guard behind the
// matter endpoints.
type MatterService struct {
	store     Store
	evaluator *authz.MatterEvaluator
	guard     *tenant.Guard
	log       *logger.Logger
}

func NewMatterService(store Store, evaluator *authz.MatterEvaluator, guard *tenant.Guard, log *logger.Logger) *MatterService {
	return &MatterService{
		store:     store,
		evaluator: evaluator,
		guard:     guard,
		log:       log,
	}
}

// Get returns the matter if the principal can view it.
func (s *MatterService) Get(ctx context.Context, principal domain.Principal, matterID string) (*domain.Matter, error) {
	tc, err := s.guard.EstablishContext(ctx, principal)
	if err != nil {
		return nil, err
	}
	scoped, release, err := tc.SetSessionScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("set session scope: %w", err)
	}
	defer release()

	decision, err := s.evaluator.CheckAccess(scoped, principal, matterID, domain.CapabilityView)
	if err != nil {
		return nil, fmt.Errorf("check matter access: %w", err)
	}
	if !decision.Granted {
		if decision.IsNotFound() {
			return nil, ErrMatterNotFound
		}
		return nil, &AccessDeniedError{Reason: decision.Reason}
	}

	ownership, err := tc.ValidateResourceOwnership(scoped, domain.ResourceMatters, matterID)
	if err != nil {
		return nil, err
	}
	if !ownership.Valid {
		return nil, ErrMatterNotFound
	}

	m, err := s.store.GetMatter(scoped, principal.TenantID, matterID)
	if errors.Is(err, authz.ErrNotFound) {
		return nil, ErrMatterNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get matter: %w", err)
	}
	return m, nil
}

// List returns the matters the principal can view. The optional client
// filter and the page limit apply after authorization filtering.
func (s *MatterService) List(ctx context.Context, principal domain.Principal, params domain.ListMattersParams) ([]domain.Matter, error) {
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
		return nil, fmt.Errorf("build matter filter: %w", err)
	}

	params.TenantID = principal.TenantID
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("validate list params: %w", err)
	}

	matters, err := s.store.ListMatters(scoped, principal.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list matters: %w", err)
	}

	visible := make([]domain.Matter, 0, len(matters))
	for i := range matters {
		if params.ClientID != nil && (matters[i].ClientID == nil || *matters[i].ClientID != *params.ClientID) {
			continue
		}
		if !allowed(&matters[i]) {
			continue
		}
		visible = append(visible, matters[i])
		if params.Limit > 0 && len(visible) == params.Limit {
			break
		}
	}
	return visible, nil
}

// CheckAccess exposes the point decision for the access probe endpoint.
func (s *MatterService) CheckAccess(ctx context.Context, principal domain.Principal, matterID string, capability domain.Capability) (authz.Decision, error) {
	tc, err := s.guard.EstablishContext(ctx, principal)
	if err != nil {
		return authz.Decision{}, err
	}
	scoped, release, err := tc.SetSessionScope(ctx)
	if err != nil {
		return authz.Decision{}, fmt.Errorf("set session scope: %w", err)
	}
	defer release()

	return s.evaluator.CheckAccess(scoped, principal, matterID, capability)
}
