package domain

import "time"

// ResourceKind identifies which resource table an entity or grant refers to.
// Values match the table names used by row-level security policies.
type ResourceKind string

const (
	ResourceDocuments ResourceKind = "documents"
	ResourceMatters   ResourceKind = "matters"
	ResourceClients   ResourceKind = "clients"
)

// IsValid checks if the resource kind is one of the defined constants.
func (k ResourceKind) IsValid() bool {
	switch k {
	case ResourceDocuments, ResourceMatters, ResourceClients:
		return true
	default:
		return false
	}
}

// PermissionLevel is a coarse grant level used where a grant row predates
// the per-capability flags. edit and admin both imply edit access.
type PermissionLevel string

const (
	PermissionLevelView  PermissionLevel = "view"
	PermissionLevelEdit  PermissionLevel = "edit"
	PermissionLevelAdmin PermissionLevel = "admin"
)

// ImpliesEdit reports whether the level confers edit access.
func (p PermissionLevel) ImpliesEdit() bool {
	return p == PermissionLevelEdit || p == PermissionLevelAdmin
}

// Grant is a persisted permission row conferring capabilities on exactly one
// resource for exactly one target. Exactly one of PrincipalID, GroupID, or
// RoleSlug is set (role targeting is only used for clients).
//
// A grant whose ExpiresAt is in the past is treated as absent, never as a
// denial.
type Grant struct {
	ID       string       `json:"id" db:"id"`
	TenantID string       `json:"tenantId" db:"tenant_id"`
	Kind     ResourceKind `json:"kind" db:"resource_kind"`

	ResourceID string `json:"resourceId" db:"resource_id"`

	// Target (exactly one set)
	PrincipalID *string `json:"principalId,omitempty" db:"principal_id"`
	GroupID     *string `json:"groupId,omitempty" db:"group_id"`
	RoleSlug    *string `json:"roleSlug,omitempty" db:"role_slug"`

	// Capability flags
	CanView              bool `json:"canView" db:"can_view"`
	CanDownload          bool `json:"canDownload" db:"can_download"`
	CanEdit              bool `json:"canEdit" db:"can_edit"`
	CanDelete            bool `json:"canDelete" db:"can_delete"`
	CanShare             bool `json:"canShare" db:"can_share"`
	CanManagePermissions bool `json:"canManagePermissions" db:"can_manage_permissions"`

	PermissionLevel PermissionLevel `json:"permissionLevel" db:"permission_level"`

	ExpiresAt *time.Time `json:"expiresAt,omitempty" db:"expires_at"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	GrantedBy string     `json:"grantedBy" db:"granted_by"`
}

// Expired reports whether the grant is past its expiry at the given instant.
// Grants without an ExpiresAt never expire.
func (g *Grant) Expired(now time.Time) bool {
	return g.ExpiresAt != nil && g.ExpiresAt.Before(now)
}

// Capabilities converts the grant's flags into a CapabilitySet.
// A permission_level of edit/admin implies edit even when can_edit is unset
// (legacy rows carry only the level).
func (g *Grant) Capabilities() CapabilitySet {
	return CapabilitySet{
		View:     g.CanView,
		Download: g.CanDownload,
		Edit:     g.CanEdit || g.PermissionLevel.ImpliesEdit(),
		Delete:   g.CanDelete,
		Share:    g.CanShare,
		Manage:   g.CanManagePermissions,
	}
}

// TargetsUser reports whether the grant directly targets the given user.
func (g *Grant) TargetsUser(userID string) bool {
	return g.PrincipalID != nil && *g.PrincipalID == userID
}

// TargetsAnyGroup reports whether the grant targets one of the given groups.
func (g *Grant) TargetsAnyGroup(groupIDs []string) bool {
	if g.GroupID == nil {
		return false
	}
	for _, id := range groupIDs {
		if *g.GroupID == id {
			return true
		}
	}
	return false
}

// TargetsRole reports whether the grant targets the given role.
func (g *Grant) TargetsRole(role Role) bool {
	return g.RoleSlug != nil && *g.RoleSlug == string(role)
}

// Group is a named set of principals that grants can target.
type Group struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`
	Name     string `json:"name" db:"name"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// GroupMembership links a user to a group.
type GroupMembership struct {
	GroupID string `json:"groupId" db:"group_id"`
	UserID  string `json:"userId" db:"user_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// FolderGrant confers capabilities on a folder path and every descendant
// path. When several folder grants apply to one request, the longest
// (most specific) matching path wins.
type FolderGrant struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`

	FolderPath string `json:"folderPath" db:"folder_path"`

	// Target (exactly one set)
	PrincipalID *string `json:"principalId,omitempty" db:"principal_id"`
	GroupID     *string `json:"groupId,omitempty" db:"group_id"`

	CanView     bool `json:"canView" db:"can_view"`
	CanDownload bool `json:"canDownload" db:"can_download"`
	CanEdit     bool `json:"canEdit" db:"can_edit"`
	CanDelete   bool `json:"canDelete" db:"can_delete"`
	CanShare    bool `json:"canShare" db:"can_share"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Capabilities converts the folder grant's flags into a CapabilitySet.
func (f *FolderGrant) Capabilities() CapabilitySet {
	return CapabilitySet{
		View:     f.CanView,
		Download: f.CanDownload,
		Edit:     f.CanEdit,
		Delete:   f.CanDelete,
		Share:    f.CanShare,
	}
}

// IsDirect reports whether the folder grant targets a user directly rather
// than through a group. Direct grants win ties at equal path specificity.
func (f *FolderGrant) IsDirect() bool {
	return f.PrincipalID != nil
}
