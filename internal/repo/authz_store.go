package repo

import (
	"context"
	"errors"
	"fmt"

	"praxis-api/internal/authz"
	"praxis-api/internal/domain"
	"praxis-api/internal/tenant"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthzStore bundles the per-table repositories behind the read interfaces
// the authorization evaluators and the tenant guard consume. It translates
// repo sentinels into the interfaces' own not-found errors so callers never
// import this package's sentinels.
type AuthzStore struct {
	pool      *pgxpool.Pool
	documents *DocumentRepository
	matters   *MatterRepository
	clients   *ClientRepository
	grants    *GrantRepository
	sharing   *SharingRepository
}

var (
	_ authz.Store           = (*AuthzStore)(nil)
	_ tenant.OwnershipStore = (*AuthzStore)(nil)
)

func NewAuthzStore(pool *pgxpool.Pool) *AuthzStore {
	return &AuthzStore{
		pool:      pool,
		documents: NewDocumentRepository(pool),
		matters:   NewMatterRepository(pool),
		clients:   NewClientRepository(pool),
		grants:    NewGrantRepository(pool),
		sharing:   NewSharingRepository(pool),
	}
}

func (s *AuthzStore) GetDocument(ctx context.Context, tenantID, documentID string) (*domain.Document, error) {
	doc, err := s.documents.Get(ctx, tenantID, documentID)
	if errors.Is(err, ErrDocumentNotFound) {
		return nil, authz.ErrNotFound
	}
	return doc, err
}

func (s *AuthzStore) GetMatter(ctx context.Context, tenantID, matterID string) (*domain.Matter, error) {
	m, err := s.matters.Get(ctx, tenantID, matterID)
	if errors.Is(err, ErrMatterNotFound) {
		return nil, authz.ErrNotFound
	}
	return m, err
}

func (s *AuthzStore) GetClient(ctx context.Context, tenantID, clientID string) (*domain.Client, error) {
	c, err := s.clients.Get(ctx, tenantID, clientID)
	if errors.Is(err, ErrClientNotFound) {
		return nil, authz.ErrNotFound
	}
	return c, err
}

func (s *AuthzStore) ListMatters(ctx context.Context, tenantID string) ([]domain.Matter, error) {
	return s.matters.ListAll(ctx, tenantID)
}

func (s *AuthzStore) ListDocuments(ctx context.Context, params domain.ListDocumentsParams) ([]domain.Document, error) {
	return s.documents.List(ctx, params)
}

func (s *AuthzStore) ListClients(ctx context.Context, params domain.ListClientsParams) ([]domain.Client, error) {
	return s.clients.List(ctx, params)
}

func (s *AuthzStore) GroupIDsForUser(ctx context.Context, tenantID, userID string) ([]string, error) {
	return s.grants.GroupIDsForUser(ctx, tenantID, userID)
}

func (s *AuthzStore) GrantsForPrincipal(ctx context.Context, tenantID string, kind domain.ResourceKind, userID string, groupIDs []string, role domain.Role) ([]domain.Grant, error) {
	return s.grants.GrantsForPrincipal(ctx, tenantID, kind, userID, groupIDs, role)
}

func (s *AuthzStore) FolderGrantsForPrincipal(ctx context.Context, tenantID, userID string, groupIDs []string) ([]domain.FolderGrant, error) {
	return s.grants.FolderGrantsForPrincipal(ctx, tenantID, userID, groupIDs)
}

func (s *AuthzStore) SharingGroupsForUser(ctx context.Context, tenantID, userID string) ([]domain.SharingGroup, error) {
	return s.sharing.SharingGroupsForUser(ctx, tenantID, userID)
}

func (s *AuthzStore) HiddenItemsForGroups(ctx context.Context, tenantID string, sharingGroupIDs []string, kind domain.ResourceKind) ([]domain.HiddenItem, error) {
	return s.sharing.HiddenItemsForGroups(ctx, tenantID, sharingGroupIDs, kind)
}

func (s *AuthzStore) AssignmentsForUser(ctx context.Context, tenantID, userID string) ([]domain.Assignment, error) {
	return s.grants.AssignmentsForUser(ctx, tenantID, userID)
}

// ResourceTenant looks up the tenant recorded on a resource row without any
// tenant scoping. The guard uses it to detect cross-tenant access, so the
// query must see rows from every tenant. It therefore bypasses the pinned
// session connection (which is scoped by row-level security) and always
// queries through the pool.
func (s *AuthzStore) ResourceTenant(ctx context.Context, kind domain.ResourceKind, resourceID string) (string, error) {
	var table string
	switch kind {
	case domain.ResourceDocuments:
		table = "documents"
	case domain.ResourceMatters:
		table = "matters"
	case domain.ResourceClients:
		table = "clients"
	default:
		return "", fmt.Errorf("unknown resource kind %q", kind)
	}

	var tenantID string
	err := s.pool.QueryRow(ctx,
		`SELECT tenant_id FROM `+table+` WHERE id = $1 AND deleted_at IS NULL`,
		resourceID,
	).Scan(&tenantID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", tenant.ErrResourceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query resource tenant: %w", err)
	}
	return tenantID, nil
}

// Documents exposes the document repository for the service layer.
func (s *AuthzStore) Documents() *DocumentRepository { return s.documents }

// Matters exposes the matter repository for the service layer.
func (s *AuthzStore) Matters() *MatterRepository { return s.matters }

// Clients exposes the client repository for the service layer.
func (s *AuthzStore) Clients() *ClientRepository { return s.clients }
