package domain

import "time"

// SharingGroup is a tenant-scoped, bidirectional sharing relation between
// principals. Members see each other's items for every kind whose toggle is
// on, at the group's default permission level. Self-sharing is a no-op: a
// member never gains anything on their own items through the group.
type SharingGroup struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`
	Name     string `json:"name" db:"name"`

	MemberIDs []string `json:"memberIds" db:"member_ids"`

	ShareDocuments bool `json:"shareDocuments" db:"share_documents"`
	ShareMatters   bool `json:"shareMatters" db:"share_matters"`
	ShareClients   bool `json:"shareClients" db:"share_clients"`

	// DefaultPermissionLevel view confers view/download only; edit or
	// admin additionally confer edit.
	DefaultPermissionLevel PermissionLevel `json:"defaultPermissionLevel" db:"default_permission_level"`

	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// HasMember reports whether the user is a member of the sharing group.
func (s *SharingGroup) HasMember(userID string) bool {
	for _, id := range s.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// SharesKind reports whether the group's toggle for the item kind is on.
func (s *SharingGroup) SharesKind(kind ResourceKind) bool {
	switch kind {
	case ResourceDocuments:
		return s.ShareDocuments
	case ResourceMatters:
		return s.ShareMatters
	case ResourceClients:
		return s.ShareClients
	default:
		return false
	}
}

// HiddenItem suppresses sharing-group access to one specific item for one
// specific owner, overriding the group's kind toggle. Other items owned by
// the same member remain shared.
type HiddenItem struct {
	SharingGroupID string       `json:"sharingGroupId" db:"sharing_group_id"`
	TenantID       string       `json:"tenantId" db:"tenant_id"`
	OwnerID        string       `json:"ownerId" db:"owner_id"`
	ItemKind       ResourceKind `json:"itemKind" db:"item_kind"`
	ItemID         string       `json:"itemId" db:"item_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
