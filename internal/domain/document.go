package domain

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// PrivacyLevel controls baseline visibility of a document inside its tenant.
type PrivacyLevel string

const (
	// PrivacyFirm makes the document viewable (not editable) by every
	// member of the tenant.
	PrivacyFirm PrivacyLevel = "firm"

	// PrivacyPrivate restricts the document to ownership, grants, and
	// inherited matter access.
	PrivacyPrivate PrivacyLevel = "private"
)

// Document is a file stored for a legal matter or client.
//
// TenantID is immutable after creation. MatterID is an optional link that
// makes the document inherit matter-level access. FolderPath is the optional
// hierarchical location used for folder grant inheritance.
type Document struct {
	ID       string `json:"id" db:"id"`
	TenantID string `json:"tenantId" db:"tenant_id"`

	Title    string `json:"title" db:"title"`
	FileName string `json:"fileName" db:"file_name"`

	// Ownership
	UploadedBy string `json:"uploadedBy" db:"uploaded_by"`
	OwnerID    string `json:"ownerId" db:"owner_id"`

	PrivacyLevel PrivacyLevel `json:"privacyLevel" db:"privacy_level"`

	// Optional links
	MatterID   *string `json:"matterId,omitempty" db:"matter_id"`
	FolderPath *string `json:"folderPath,omitempty" db:"folder_path"`

	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}

// ListDocumentsParams are parameters for tenant-scoped document listing.
// Authorization filtering happens after the fetch, in the service layer.
type ListDocumentsParams struct {
	TenantID string `validate:"required"`

	// Limit zero means no cap.
	Limit    int `validate:"gte=0,lte=100"`
	MatterID *string
}

// Validate checks the params after the service has bound the tenant.
func (p *ListDocumentsParams) Validate() error {
	validate := validator.New()
	return validate.Struct(p)
}
