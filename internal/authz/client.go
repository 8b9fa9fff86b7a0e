package authz

import (
	"context"
	"errors"
	"fmt"

	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"

	"go.uber.org/zap"
)

// ClientEvaluator decides access to client records. It mirrors the matter
// evaluator, plus a role-targeted grant mode: a grant keyed by role slug
// applies to every principal holding that role.
type ClientEvaluator struct {
	store Store
	log   *logger.Logger
	rules []rule[*domain.Client]
}

// NewClientEvaluator creates the client evaluator.
func NewClientEvaluator(store Store, log *logger.Logger) *ClientEvaluator {
	e := &ClientEvaluator{store: store, log: log}
	e.rules = []rule[*domain.Client]{
		{
			name: ReasonOwner,
			appliesTo: func(c *domain.Client, snap *principalSnapshot) bool {
				return c.AssignedAttorney == snap.principal.ID || c.CreatedBy == snap.principal.ID
			},
			capabilitiesIf: func(c *domain.Client, snap *principalSnapshot) domain.CapabilitySet {
				return domain.OwnerCapabilities()
			},
		},
		{
			name: ReasonExplicitPermission,
			appliesTo: func(c *domain.Client, snap *principalSnapshot) bool {
				_, ok := snap.directGrantCapabilities(c.ID)
				return ok
			},
			capabilitiesIf: func(c *domain.Client, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := snap.directGrantCapabilities(c.ID)
				return caps
			},
		},
		{
			name: ReasonGroupPermission,
			appliesTo: func(c *domain.Client, snap *principalSnapshot) bool {
				_, ok := snap.groupGrantCapabilities(c.ID)
				return ok
			},
			capabilitiesIf: func(c *domain.Client, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := snap.groupGrantCapabilities(c.ID)
				return caps
			},
		},
		{
			name: ReasonRolePermission,
			appliesTo: func(c *domain.Client, snap *principalSnapshot) bool {
				_, ok := snap.roleGrantCapabilities(c.ID)
				return ok
			},
			capabilitiesIf: func(c *domain.Client, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := snap.roleGrantCapabilities(c.ID)
				return caps
			},
		},
		{
			name: ReasonFirmWide,
			appliesTo: func(c *domain.Client, snap *principalSnapshot) bool {
				return c.Visibility.IsFirmWide()
			},
			capabilitiesIf: func(c *domain.Client, snap *principalSnapshot) domain.CapabilitySet {
				return domain.ViewDownloadCapabilities()
			},
		},
		{
			name: ReasonSharingGroup,
			appliesTo: func(c *domain.Client, snap *principalSnapshot) bool {
				_, ok := sharingCapabilities(snap, domain.ResourceClients, c.AssignedAttorney, c.ID)
				return ok
			},
			capabilitiesIf: func(c *domain.Client, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := sharingCapabilities(snap, domain.ResourceClients, c.AssignedAttorney, c.ID)
				return caps
			},
		},
	}
	return e
}

// CheckAccess performs a point access check for one client record.
func (e *ClientEvaluator) CheckAccess(ctx context.Context, principal domain.Principal, clientID string, capability domain.Capability) (Decision, error) {
	client, err := e.store.GetClient(ctx, principal.TenantID, clientID)
	if errors.Is(err, ErrNotFound) {
		return Decision{Granted: false, Reason: ReasonClientNotFound}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("load client: %w", err)
	}

	if principal.Role.IsFullAccess() {
		return Decision{Granted: true, Reason: ReasonAdminRole}, nil
	}

	snap, err := e.buildSnapshot(ctx, principal)
	if err != nil {
		return Decision{}, err
	}

	decision := e.decide(client, snap, capability)
	if !decision.Granted {
		e.log.Debug(ctx, "client access denied",
			logger.Module("authz"),
			logger.Action("check_access"),
			zap.String("client_id", clientID),
			zap.String("capability", string(capability)),
			zap.String("reason", string(decision.Reason)),
		)
	}
	return decision, nil
}

// Filter returns a predicate equivalent to CheckAccess at view capability.
func (e *ClientEvaluator) Filter(ctx context.Context, principal domain.Principal) (func(*domain.Client) bool, error) {
	if principal.Role.IsFullAccess() {
		return func(c *domain.Client) bool {
			return c.TenantID == principal.TenantID
		}, nil
	}

	snap, err := e.buildSnapshot(ctx, principal)
	if err != nil {
		return nil, err
	}

	return func(c *domain.Client) bool {
		return e.decide(c, snap, domain.CapabilityView).Granted
	}, nil
}

func (e *ClientEvaluator) decide(c *domain.Client, snap *principalSnapshot, capability domain.Capability) Decision {
	if c.TenantID != snap.principal.TenantID {
		return Decision{Granted: false, Reason: ReasonClientNotFound}
	}
	return decide(e.rules, c, snap, capability)
}

func (e *ClientEvaluator) buildSnapshot(ctx context.Context, principal domain.Principal) (*principalSnapshot, error) {
	return buildSnapshot(ctx, e.store, principal, domain.ResourceClients)
}
