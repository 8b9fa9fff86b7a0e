package authz

import (
	"praxis-api/internal/domain"
)

// sharingCapabilities resolves sharing-group access for one item: the
// principal and the item's owner must both be members of an active group
// whose toggle for the item kind is on, and the owner must not have hidden
// the item from that group. Self-sharing is a no-op, not a grant.
//
// The snapshot's sharing groups are sorted by ID, so "first remaining group
// wins" is deterministic.
func sharingCapabilities(snap *principalSnapshot, kind domain.ResourceKind, ownerID, itemID string) (domain.CapabilitySet, bool) {
	if ownerID == "" || ownerID == snap.principal.ID {
		return domain.CapabilitySet{}, false
	}

	for i := range snap.sharingGroups {
		group := &snap.sharingGroups[i]
		if !group.SharesKind(kind) || !group.HasMember(ownerID) {
			continue
		}
		if _, hidden := snap.hidden[hiddenKey(group.ID, ownerID, itemID)]; hidden {
			continue
		}

		caps := domain.ViewDownloadCapabilities()
		if group.DefaultPermissionLevel != domain.PermissionLevelView {
			caps.Edit = true
		}
		return caps, true
	}

	return domain.CapabilitySet{}, false
}
