package authz

import (
	"context"
	"errors"

	"praxis-api/internal/domain"
)

// ErrNotFound is returned by Store lookups when a resource does not exist
// in the given tenant. Cross-tenant rows are indistinguishable from missing
// rows on purpose.
var ErrNotFound = errors.New("resource not found in tenant")

// Store is the read-only data access the evaluators need. The production
// implementation lives in internal/repo over Postgres; tests use the
// in-memory MemoryStore.
//
// Every method is tenant-scoped: implementations must never return rows
// from another tenant, regardless of matching IDs.
type Store interface {
	GetDocument(ctx context.Context, tenantID, documentID string) (*domain.Document, error)
	GetMatter(ctx context.Context, tenantID, matterID string) (*domain.Matter, error)
	GetClient(ctx context.Context, tenantID, clientID string) (*domain.Client, error)

	// ListMatters returns all live matters in the tenant; the matter
	// evaluator derives the principal's accessible-matter set from it.
	ListMatters(ctx context.Context, tenantID string) ([]domain.Matter, error)

	// GroupIDsForUser returns the IDs of permission groups the user
	// belongs to.
	GroupIDsForUser(ctx context.Context, tenantID, userID string) ([]string, error)

	// GrantsForPrincipal returns every grant of the given kind that
	// targets the user directly, one of their groups, or their role.
	// Expired grants may be included; evaluation treats them as absent.
	GrantsForPrincipal(ctx context.Context, tenantID string, kind domain.ResourceKind, userID string, groupIDs []string, role domain.Role) ([]domain.Grant, error)

	// FolderGrantsForPrincipal returns every folder grant targeting the
	// user directly or via one of their groups.
	FolderGrantsForPrincipal(ctx context.Context, tenantID, userID string, groupIDs []string) ([]domain.FolderGrant, error)

	// SharingGroupsForUser returns the active sharing groups the user is
	// a member of.
	SharingGroupsForUser(ctx context.Context, tenantID, userID string) ([]domain.SharingGroup, error)

	// HiddenItemsForGroups returns hidden-item records of the given kind
	// for the given sharing groups.
	HiddenItemsForGroups(ctx context.Context, tenantID string, sharingGroupIDs []string, kind domain.ResourceKind) ([]domain.HiddenItem, error)

	// AssignmentsForUser returns the user's matter assignments.
	AssignmentsForUser(ctx context.Context, tenantID, userID string) ([]domain.Assignment, error)
}
