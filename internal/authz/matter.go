package authz

import (
	"context"
	"errors"
	"fmt"

	"praxis-api/internal/cache"
	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"

	"go.uber.org/zap"
)

// MatterEvaluator decides access to matters. Rule order: attorney of record,
// assignment, direct grant, group grant, firm-wide visibility, sharing
// group. The matter block list is absolute for non-full-access principals
// and overrides every rule.
type MatterEvaluator struct {
	store Store
	cache *cache.TemporalCache
	log   *logger.Logger
	rules []rule[*domain.Matter]
}

// NewMatterEvaluator creates the matter evaluator. The cache memoizes the
// accessible-matter set per principal; staleness is bounded by the cache TTL.
func NewMatterEvaluator(store Store, c *cache.TemporalCache, log *logger.Logger) *MatterEvaluator {
	e := &MatterEvaluator{store: store, cache: c, log: log}
	e.rules = []rule[*domain.Matter]{
		{
			name: ReasonOwner,
			appliesTo: func(m *domain.Matter, snap *principalSnapshot) bool {
				return m.ResponsibleAttorney == snap.principal.ID || m.OriginatingAttorney == snap.principal.ID
			},
			capabilitiesIf: func(m *domain.Matter, snap *principalSnapshot) domain.CapabilitySet {
				return domain.OwnerCapabilities()
			},
		},
		{
			name: ReasonExplicitPermission,
			appliesTo: func(m *domain.Matter, snap *principalSnapshot) bool {
				_, assigned := snap.assignedMatters[m.ID]
				return assigned
			},
			capabilitiesIf: func(m *domain.Matter, snap *principalSnapshot) domain.CapabilitySet {
				// Assignment always confers edit-level access.
				return domain.CapabilitySet{View: true, Download: true, Edit: true}
			},
		},
		{
			name: ReasonExplicitPermission,
			appliesTo: func(m *domain.Matter, snap *principalSnapshot) bool {
				_, ok := snap.directGrantCapabilities(m.ID)
				return ok
			},
			capabilitiesIf: func(m *domain.Matter, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := snap.directGrantCapabilities(m.ID)
				return caps
			},
		},
		{
			name: ReasonGroupPermission,
			appliesTo: func(m *domain.Matter, snap *principalSnapshot) bool {
				_, ok := snap.groupGrantCapabilities(m.ID)
				return ok
			},
			capabilitiesIf: func(m *domain.Matter, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := snap.groupGrantCapabilities(m.ID)
				return caps
			},
		},
		{
			name: ReasonFirmWide,
			appliesTo: func(m *domain.Matter, snap *principalSnapshot) bool {
				return m.Visibility.IsFirmWide()
			},
			capabilitiesIf: func(m *domain.Matter, snap *principalSnapshot) domain.CapabilitySet {
				return domain.ViewDownloadCapabilities()
			},
		},
		{
			name: ReasonSharingGroup,
			appliesTo: func(m *domain.Matter, snap *principalSnapshot) bool {
				_, ok := sharingCapabilities(snap, domain.ResourceMatters, m.ResponsibleAttorney, m.ID)
				return ok
			},
			capabilitiesIf: func(m *domain.Matter, snap *principalSnapshot) domain.CapabilitySet {
				caps, _ := sharingCapabilities(snap, domain.ResourceMatters, m.ResponsibleAttorney, m.ID)
				return caps
			},
		},
	}
	return e
}

// CheckAccess performs a point access check for one matter. A missing or
// cross-tenant matter yields a matter_not_found denial, not an error.
func (e *MatterEvaluator) CheckAccess(ctx context.Context, principal domain.Principal, matterID string, capability domain.Capability) (Decision, error) {
	m, err := e.store.GetMatter(ctx, principal.TenantID, matterID)
	if errors.Is(err, ErrNotFound) {
		return Decision{Granted: false, Reason: ReasonMatterNotFound}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("load matter: %w", err)
	}

	if principal.Role.IsFullAccess() {
		return Decision{Granted: true, Reason: ReasonAdminRole}, nil
	}

	snap, err := e.buildSnapshot(ctx, principal)
	if err != nil {
		return Decision{}, err
	}

	decision := e.decide(m, snap, capability)
	if !decision.Granted {
		e.log.Debug(ctx, "matter access denied",
			logger.Module("authz"),
			logger.Action("check_access"),
			zap.String("matter_id", matterID),
			zap.String("capability", string(capability)),
			zap.String("reason", string(decision.Reason)),
		)
	}
	return decision, nil
}

// Filter returns a predicate equivalent to CheckAccess at view capability
// for every matter in the principal's tenant. Both paths walk the same rule
// list against the same snapshot.
func (e *MatterEvaluator) Filter(ctx context.Context, principal domain.Principal) (func(*domain.Matter) bool, error) {
	if principal.Role.IsFullAccess() {
		return func(m *domain.Matter) bool {
			return m.TenantID == principal.TenantID
		}, nil
	}

	snap, err := e.buildSnapshot(ctx, principal)
	if err != nil {
		return nil, err
	}

	return func(m *domain.Matter) bool {
		return e.decide(m, snap, domain.CapabilityView).Granted
	}, nil
}

// AccessibleMatterLevels returns the matters the principal can see, mapped
// to standard or edit level. The result is memoized in the temporal cache;
// after a grant change, viewers converge within the cache TTL.
func (e *MatterEvaluator) AccessibleMatterLevels(ctx context.Context, principal domain.Principal) (map[string]MatterAccess, error) {
	key := "authz:matters:" + principal.TenantID + ":" + principal.ID
	if cached, ok := e.cache.Get(key); ok {
		if levels, ok := cached.(map[string]MatterAccess); ok {
			return levels, nil
		}
	}

	matters, err := e.store.ListMatters(ctx, principal.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list matters: %w", err)
	}

	levels := make(map[string]MatterAccess)
	if principal.Role.IsFullAccess() {
		for _, m := range matters {
			levels[m.ID] = MatterAccessEdit
		}
	} else {
		snap, err := e.buildSnapshot(ctx, principal)
		if err != nil {
			return nil, err
		}
		for i := range matters {
			if level := e.accessLevel(&matters[i], snap); level != MatterAccessNone {
				levels[matters[i].ID] = level
			}
		}
	}

	e.cache.Set(key, levels)
	return levels, nil
}

// decide applies the block list, tenant scoping, and the rule list.
func (e *MatterEvaluator) decide(m *domain.Matter, snap *principalSnapshot, capability domain.Capability) Decision {
	if m.TenantID != snap.principal.TenantID {
		return Decision{Granted: false, Reason: ReasonMatterNotFound}
	}
	if m.IsBlocked(snap.principal.ID) {
		return Decision{Granted: false, Reason: ReasonNoPermission}
	}
	return decide(e.rules, m, snap, capability)
}

// accessLevel computes the matter level a linked document inherits. View
// access of any kind yields standard; edit is reached only through attorney
// status, an assignment, or a grant with edit, never through firm-wide
// visibility or sharing groups alone.
func (e *MatterEvaluator) accessLevel(m *domain.Matter, snap *principalSnapshot) MatterAccess {
	if !e.decide(m, snap, domain.CapabilityView).Granted {
		return MatterAccessNone
	}
	if m.ResponsibleAttorney == snap.principal.ID || m.OriginatingAttorney == snap.principal.ID {
		return MatterAccessEdit
	}
	if _, assigned := snap.assignedMatters[m.ID]; assigned {
		return MatterAccessEdit
	}
	if snap.grantEditCapable(m.ID) {
		return MatterAccessEdit
	}
	return MatterAccessStandard
}

func (e *MatterEvaluator) buildSnapshot(ctx context.Context, principal domain.Principal) (*principalSnapshot, error) {
	snap, err := buildSnapshot(ctx, e.store, principal, domain.ResourceMatters)
	if err != nil {
		return nil, err
	}

	assignments, err := e.store.AssignmentsForUser(ctx, principal.TenantID, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("load assignments: %w", err)
	}
	snap.assignedMatters = make(map[string]struct{}, len(assignments))
	for _, a := range assignments {
		snap.assignedMatters[a.MatterID] = struct{}{}
	}

	return snap, nil
}
