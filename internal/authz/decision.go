package authz

// Reason identifies which access rule produced a decision. The value is
// returned to callers and recorded in logs; it is part of the API contract.
type Reason string

const (
	// ReasonAdminRole means a full-access role bypassed rule evaluation.
	ReasonAdminRole Reason = "admin_role"

	// ReasonUploader means the principal uploaded the document.
	ReasonUploader Reason = "uploader"

	// ReasonOwner means the principal owns the resource (document owner,
	// matter attorney of record, client assigned attorney or creator).
	ReasonOwner Reason = "owner"

	// ReasonMatterPermission means access was inherited from the linked
	// matter. The edit variant is used when the request was for edit.
	ReasonMatterPermission     Reason = "matter_permission"
	ReasonMatterPermissionEdit Reason = "matter_permission_edit"

	// ReasonExplicitPermission means a grant targets the principal
	// directly (matter assignments surface under the same reason).
	ReasonExplicitPermission Reason = "explicit_permission"

	// ReasonGroupPermission means a grant targets a group the principal
	// belongs to.
	ReasonGroupPermission Reason = "group_permission"

	// ReasonRolePermission means a grant targets the principal's role
	// (client records only).
	ReasonRolePermission Reason = "role_permission"

	// ReasonFolderPermission means a folder grant on the document's path
	// or an ancestor applied.
	ReasonFolderPermission Reason = "folder_permission"

	// ReasonFirmWide means firm-wide privacy or visibility applied.
	ReasonFirmWide Reason = "firm_wide"

	// ReasonSharingGroup means mutual sharing-group membership with the
	// resource owner applied. The edit variant is used for edit requests.
	ReasonSharingGroup     Reason = "sharing_group"
	ReasonSharingGroupEdit Reason = "sharing_group_edit"

	// ReasonNoPermission means no rule granted the requested capability.
	ReasonNoPermission Reason = "no_permission"

	// Not-found reasons. Callers surface these as a generic 404, never as
	// 403, to avoid confirming cross-tenant existence.
	ReasonDocumentNotFound Reason = "document_not_found"
	ReasonMatterNotFound   Reason = "matter_not_found"
	ReasonClientNotFound   Reason = "client_not_found"
)

// Decision is the outcome of a point access check. A denial is a normal
// result, not an error.
type Decision struct {
	Granted bool   `json:"granted"`
	Reason  Reason `json:"reason"`
}

// IsNotFound reports whether the decision denies because the resource does
// not exist in the principal's tenant.
func (d Decision) IsNotFound() bool {
	switch d.Reason {
	case ReasonDocumentNotFound, ReasonMatterNotFound, ReasonClientNotFound:
		return true
	default:
		return false
	}
}
