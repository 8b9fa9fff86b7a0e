package authz

import (
	"context"
	"fmt"
	"sort"
	"time"

	"praxis-api/internal/domain"
)

// MatterAccess is the access level a principal holds on a matter, used when
// documents inherit matter access.
type MatterAccess int

const (
	MatterAccessNone MatterAccess = iota

	// MatterAccessStandard confers view/download on the matter and on
	// linked documents.
	MatterAccessStandard

	// MatterAccessEdit additionally confers edit. Only attorney-of-record
	// status, assignments, and grants with edit reach this level;
	// firm-wide visibility and sharing groups never do.
	MatterAccessEdit
)

// principalSnapshot is the per-request view of everything rule evaluation
// needs about one principal. Point checks and bulk filters are both
// evaluated against the same snapshot, so within a request they observe the
// same grant state.
type principalSnapshot struct {
	principal domain.Principal
	now       time.Time

	groupIDs []string

	// grants of the evaluator's resource kind, keyed by resource ID.
	// May include expired rows; evaluation treats those as absent.
	grants map[string][]domain.Grant

	folderGrants  []domain.FolderGrant
	sharingGroups []domain.SharingGroup

	// hidden suppressions for the evaluator's kind, keyed by
	// sharing group ID, owner ID, and item ID.
	hidden map[string]struct{}

	// assignedMatters is the set of matter IDs the principal is assigned
	// to (matter evaluator only).
	assignedMatters map[string]struct{}

	// matterAccess maps matter ID to the principal's access level
	// (document evaluator only, for matter inheritance).
	matterAccess map[string]MatterAccess
}

func hiddenKey(sharingGroupID, ownerID, itemID string) string {
	return sharingGroupID + "\x00" + ownerID + "\x00" + itemID
}

// buildSnapshot loads the principal-side data every evaluator shares: group
// memberships, grants of the evaluator's kind, and sharing-group state.
// Sharing groups are sorted by ID so resolution order is deterministic.
func buildSnapshot(ctx context.Context, store Store, principal domain.Principal, kind domain.ResourceKind) (*principalSnapshot, error) {
	groupIDs, err := store.GroupIDsForUser(ctx, principal.TenantID, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("load group memberships: %w", err)
	}

	grants, err := store.GrantsForPrincipal(ctx, principal.TenantID, kind, principal.ID, groupIDs, principal.Role)
	if err != nil {
		return nil, fmt.Errorf("load grants: %w", err)
	}
	grantsByResource := make(map[string][]domain.Grant, len(grants))
	for _, g := range grants {
		grantsByResource[g.ResourceID] = append(grantsByResource[g.ResourceID], g)
	}

	sharingGroups, err := store.SharingGroupsForUser(ctx, principal.TenantID, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("load sharing groups: %w", err)
	}
	sort.Slice(sharingGroups, func(i, j int) bool {
		return sharingGroups[i].ID < sharingGroups[j].ID
	})

	hidden := make(map[string]struct{})
	if len(sharingGroups) > 0 {
		groupIDList := make([]string, len(sharingGroups))
		for i, g := range sharingGroups {
			groupIDList[i] = g.ID
		}
		hiddenRows, err := store.HiddenItemsForGroups(ctx, principal.TenantID, groupIDList, kind)
		if err != nil {
			return nil, fmt.Errorf("load hidden items: %w", err)
		}
		for _, h := range hiddenRows {
			hidden[hiddenKey(h.SharingGroupID, h.OwnerID, h.ItemID)] = struct{}{}
		}
	}

	return &principalSnapshot{
		principal:     principal,
		now:           time.Now(),
		groupIDs:      groupIDs,
		grants:        grantsByResource,
		sharingGroups: sharingGroups,
		hidden:        hidden,
	}, nil
}

// grantCapabilities unions the capabilities of every live grant on the
// resource that satisfies the target match. Returns found=false when no
// live grant matched.
func (s *principalSnapshot) grantCapabilities(resourceID string, match func(*domain.Grant) bool) (domain.CapabilitySet, bool) {
	var caps domain.CapabilitySet
	found := false
	for i := range s.grants[resourceID] {
		g := &s.grants[resourceID][i]
		if g.Expired(s.now) || !match(g) {
			continue
		}
		caps = caps.Union(g.Capabilities())
		found = true
	}
	return caps, found
}

func (s *principalSnapshot) directGrantCapabilities(resourceID string) (domain.CapabilitySet, bool) {
	return s.grantCapabilities(resourceID, func(g *domain.Grant) bool {
		return g.TargetsUser(s.principal.ID)
	})
}

func (s *principalSnapshot) groupGrantCapabilities(resourceID string) (domain.CapabilitySet, bool) {
	return s.grantCapabilities(resourceID, func(g *domain.Grant) bool {
		return g.TargetsAnyGroup(s.groupIDs)
	})
}

func (s *principalSnapshot) roleGrantCapabilities(resourceID string) (domain.CapabilitySet, bool) {
	return s.grantCapabilities(resourceID, func(g *domain.Grant) bool {
		return g.TargetsRole(s.principal.Role)
	})
}

// grantEditCapable reports whether any live direct or group grant on the
// resource confers edit. Used for matter-to-document edit inheritance.
func (s *principalSnapshot) grantEditCapable(resourceID string) bool {
	caps, ok := s.grantCapabilities(resourceID, func(g *domain.Grant) bool {
		return g.TargetsUser(s.principal.ID) || g.TargetsAnyGroup(s.groupIDs)
	})
	return ok && caps.Edit
}
