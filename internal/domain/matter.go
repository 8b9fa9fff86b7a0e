package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Visibility controls baseline access to a matter or client record.
type Visibility string

const (
	// VisibilityFirmWide grants standard (view/download) access to every
	// member of the tenant.
	VisibilityFirmWide Visibility = "firm_wide"

	// VisibilityRestricted limits access to attorneys of record,
	// assignments, and explicit grants.
	VisibilityRestricted Visibility = "restricted"

	// VisibilityUnset is legacy data with no visibility recorded.
	// It behaves as firm_wide.
	VisibilityUnset Visibility = ""
)

// IsFirmWide reports whether the visibility grants tenant-wide read access.
// Unset visibility defaults to firm-wide.
func (v Visibility) IsFirmWide() bool {
	return v == VisibilityFirmWide || v == VisibilityUnset
}

// Matter is an engagement (case, transaction) a firm works on.
type Matter struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`

	Title    string `json:"title" db:"title"`
	ClientID *string `json:"clientId,omitempty" db:"client_id"`

	// Attorneys of record. Either confers edit-level access.
	ResponsibleAttorney string `json:"responsibleAttorney" db:"responsible_attorney"`
	OriginatingAttorney string `json:"originatingAttorney" db:"originating_attorney"`

	Visibility Visibility `json:"visibility" db:"visibility"`

	// BlockedUserIDs are denied access to this matter regardless of any
	// other rule. Full-access roles are exempt.
	BlockedUserIDs []string `json:"blockedUserIds" db:"blocked_user_ids"`

	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// IsBlocked reports whether the user appears on the matter block list.
func (m *Matter) IsBlocked(userID string) bool {
	for _, id := range m.BlockedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// ListMattersParams are parameters for tenant-scoped matter listing.
type ListMattersParams struct {
	TenantID string `validate:"required"`

	// Limit zero means no cap.
	Limit    int `validate:"gte=0,lte=100"`
	ClientID *string
}

// Validate checks the params after the service has bound the tenant.
func (p *ListMattersParams) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}

// Assignment is a lightweight grant variant for matters: being assigned
// always confers edit-level access on the matter.
type Assignment struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`
	MatterID string `json:"matterId" db:"matter_id"`
	UserID   string `json:"userId" db:"user_id"`
	Role     string `json:"role" db:"role"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
