package domain

// Role represents a platform role (canonical identifier from DB).
type Role string

const (
	// RoleAdmin has unrestricted access to every resource in its own tenant.
	RoleAdmin Role = "admin"

	// RoleManagingPartner has unrestricted access, same as admin.
	RoleManagingPartner Role = "managing_partner"

	// RoleAttorney is a fee earner; access is governed by ownership,
	// matter visibility, and grants.
	RoleAttorney Role = "attorney"

	// RoleParalegal supports attorneys; no implicit access beyond grants.
	RoleParalegal Role = "paralegal"

	// RoleStaff is administrative staff; no implicit access beyond grants.
	RoleStaff Role = "staff"
)

// String returns the string representation of the Role.
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is one of the defined constants.
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManagingPartner, RoleAttorney, RoleParalegal, RoleStaff:
		return true
	default:
		return false
	}
}

// IsFullAccess reports whether the role bypasses per-resource rule
// evaluation within its own tenant.
func (r Role) IsFullAccess() bool {
	return r == RoleAdmin || r == RoleManagingPartner
}

// Principal is an authenticated actor making a request. Identity is
// established upstream (JWT auth); the authorization core only consumes it.
type Principal struct {
	ID       string `json:"id"`
	Role     Role   `json:"role"`
	TenantID string `json:"tenantId"`
}
