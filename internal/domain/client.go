package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Client is a firm's customer record (person or organization).
type Client struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`

	Name string `json:"name" db:"name"`

	// Ownership
	AssignedAttorney string `json:"assignedAttorney" db:"assigned_attorney"`
	CreatedBy        string `json:"createdBy" db:"created_by"`

	Visibility Visibility `json:"visibility" db:"visibility"`

	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// ListClientsParams are parameters for tenant-scoped client listing.
type ListClientsParams struct {
	TenantID string `validate:"required"`

	// Limit zero means no cap.
	Limit int `validate:"gte=0,lte=100"`
}

// Validate checks the params after the service has bound the tenant.
func (p *ListClientsParams) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
