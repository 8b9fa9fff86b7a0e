package authz

import (
	"context"
	"sync"

	"praxis-api/internal/domain"
	"praxis-api/internal/tenant"
)

// MemoryStore is an in-memory Store used by tests and local tooling. It
// applies the same tenant scoping as the Postgres store: lookups never cross
// tenants, and a cross-tenant ID behaves exactly like a missing one.
//
// It counts calls per method so tests can assert cache behavior.
type MemoryStore struct {
	mu sync.RWMutex

	documents   []domain.Document
	matters     []domain.Matter
	clients     []domain.Client
	grants      []domain.Grant
	memberships []domain.GroupMembership
	groups      []domain.Group
	folders     []domain.FolderGrant
	sharing     []domain.SharingGroup
	hidden      []domain.HiddenItem
	assignments []domain.Assignment

	calls map[string]int
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{calls: make(map[string]int)}
}

// Calls returns how many times the named Store method has been invoked.
func (s *MemoryStore) Calls(method string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[method]
}

func (s *MemoryStore) AddDocument(d domain.Document) { s.mu.Lock(); s.documents = append(s.documents, d); s.mu.Unlock() }
func (s *MemoryStore) AddMatter(m domain.Matter)     { s.mu.Lock(); s.matters = append(s.matters, m); s.mu.Unlock() }
func (s *MemoryStore) AddClient(c domain.Client)     { s.mu.Lock(); s.clients = append(s.clients, c); s.mu.Unlock() }
func (s *MemoryStore) AddGrant(g domain.Grant)       { s.mu.Lock(); s.grants = append(s.grants, g); s.mu.Unlock() }
func (s *MemoryStore) AddGroup(g domain.Group)       { s.mu.Lock(); s.groups = append(s.groups, g); s.mu.Unlock() }

func (s *MemoryStore) AddGroupMembership(m domain.GroupMembership) {
	s.mu.Lock()
	s.memberships = append(s.memberships, m)
	s.mu.Unlock()
}

func (s *MemoryStore) AddFolderGrant(f domain.FolderGrant) {
	s.mu.Lock()
	s.folders = append(s.folders, f)
	s.mu.Unlock()
}

func (s *MemoryStore) AddSharingGroup(g domain.SharingGroup) {
	s.mu.Lock()
	s.sharing = append(s.sharing, g)
	s.mu.Unlock()
}

func (s *MemoryStore) AddHiddenItem(h domain.HiddenItem) {
	s.mu.Lock()
	s.hidden = append(s.hidden, h)
	s.mu.Unlock()
}

func (s *MemoryStore) AddAssignment(a domain.Assignment) {
	s.mu.Lock()
	s.assignments = append(s.assignments, a)
	s.mu.Unlock()
}

func (s *MemoryStore) GetDocument(ctx context.Context, tenantID, documentID string) (*domain.Document, error) {
	s.mu.Lock()
	s.calls["GetDocument"]++
	defer s.mu.Unlock()
	for i := range s.documents {
		d := s.documents[i]
		if d.ID == documentID && d.TenantID == tenantID && d.DeletedAt == nil {
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetMatter(ctx context.Context, tenantID, matterID string) (*domain.Matter, error) {
	s.mu.Lock()
	s.calls["GetMatter"]++
	defer s.mu.Unlock()
	for i := range s.matters {
		m := s.matters[i]
		if m.ID == matterID && m.TenantID == tenantID && m.DeletedAt == nil {
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) GetClient(ctx context.Context, tenantID, clientID string) (*domain.Client, error) {
	s.mu.Lock()
	s.calls["GetClient"]++
	defer s.mu.Unlock()
	for i := range s.clients {
		c := s.clients[i]
		if c.ID == clientID && c.TenantID == tenantID && c.DeletedAt == nil {
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListMatters(ctx context.Context, tenantID string) ([]domain.Matter, error) {
	s.mu.Lock()
	s.calls["ListMatters"]++
	defer s.mu.Unlock()
	var out []domain.Matter
	for _, m := range s.matters {
		if m.TenantID == tenantID && m.DeletedAt == nil {
			out = append(out, m)
		}
	}
	return out, nil
}

// ListDocuments returns live documents in the tenant; used by the service
// layer list path in tests. Limit zero means no cap.
func (s *MemoryStore) ListDocuments(ctx context.Context, params domain.ListDocumentsParams) ([]domain.Document, error) {
	s.mu.Lock()
	s.calls["ListDocuments"]++
	defer s.mu.Unlock()
	var out []domain.Document
	for _, d := range s.documents {
		if d.TenantID != params.TenantID || d.DeletedAt != nil {
			continue
		}
		if params.MatterID != nil && (d.MatterID == nil || *d.MatterID != *params.MatterID) {
			continue
		}
		out = append(out, d)
		if params.Limit > 0 && len(out) == params.Limit {
			break
		}
	}
	return out, nil
}

// ListClients returns live client records in the tenant. Limit zero means
// no cap.
func (s *MemoryStore) ListClients(ctx context.Context, params domain.ListClientsParams) ([]domain.Client, error) {
	s.mu.Lock()
	s.calls["ListClients"]++
	defer s.mu.Unlock()
	var out []domain.Client
	for _, c := range s.clients {
		if c.TenantID != params.TenantID || c.DeletedAt != nil {
			continue
		}
		out = append(out, c)
		if params.Limit > 0 && len(out) == params.Limit {
			break
		}
	}
	return out, nil
}

// ResourceTenant reports the tenant recorded on a resource row regardless of
// tenant, mirroring the ownership lookup the guard performs in production.
func (s *MemoryStore) ResourceTenant(ctx context.Context, kind domain.ResourceKind, resourceID string) (string, error) {
	s.mu.Lock()
	s.calls["ResourceTenant"]++
	defer s.mu.Unlock()
	switch kind {
	case domain.ResourceDocuments:
		for _, d := range s.documents {
			if d.ID == resourceID && d.DeletedAt == nil {
				return d.TenantID, nil
			}
		}
	case domain.ResourceMatters:
		for _, m := range s.matters {
			if m.ID == resourceID && m.DeletedAt == nil {
				return m.TenantID, nil
			}
		}
	case domain.ResourceClients:
		for _, c := range s.clients {
			if c.ID == resourceID && c.DeletedAt == nil {
				return c.TenantID, nil
			}
		}
	}
	return "", tenant.ErrResourceNotFound
}

func (s *MemoryStore) GroupIDsForUser(ctx context.Context, tenantID, userID string) ([]string, error) {
	s.mu.Lock()
	s.calls["GroupIDsForUser"]++
	defer s.mu.Unlock()
	tenantGroups := make(map[string]struct{})
	for _, g := range s.groups {
		if g.TenantID == tenantID {
			tenantGroups[g.ID] = struct{}{}
		}
	}
	var out []string
	for _, m := range s.memberships {
		if m.UserID != userID {
			continue
		}
		if _, ok := tenantGroups[m.GroupID]; ok {
			out = append(out, m.GroupID)
		}
	}
	return out, nil
}

func (s *MemoryStore) GrantsForPrincipal(ctx context.Context, tenantID string, kind domain.ResourceKind, userID string, groupIDs []string, role domain.Role) ([]domain.Grant, error) {
	s.mu.Lock()
	s.calls["GrantsForPrincipal"]++
	defer s.mu.Unlock()
	var out []domain.Grant
	for _, g := range s.grants {
		if g.TenantID != tenantID || g.Kind != kind {
			continue
		}
		if g.TargetsUser(userID) || g.TargetsAnyGroup(groupIDs) || g.TargetsRole(role) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *MemoryStore) FolderGrantsForPrincipal(ctx context.Context, tenantID, userID string, groupIDs []string) ([]domain.FolderGrant, error) {
	s.mu.Lock()
	s.calls["FolderGrantsForPrincipal"]++
	defer s.mu.Unlock()
	var out []domain.FolderGrant
	for _, f := range s.folders {
		if f.TenantID != tenantID {
			continue
		}
		if f.PrincipalID != nil && *f.PrincipalID == userID {
			out = append(out, f)
			continue
		}
		if f.GroupID != nil {
			for _, id := range groupIDs {
				if *f.GroupID == id {
					out = append(out, f)
					break
				}
			}
		}
	}
	return out, nil
}

func (s *MemoryStore) SharingGroupsForUser(ctx context.Context, tenantID, userID string) ([]domain.SharingGroup, error) {
	s.mu.Lock()
	s.calls["SharingGroupsForUser"]++
	defer s.mu.Unlock()
	var out []domain.SharingGroup
	for _, g := range s.sharing {
		if g.TenantID == tenantID && g.Active && g.HasMember(userID) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *MemoryStore) HiddenItemsForGroups(ctx context.Context, tenantID string, sharingGroupIDs []string, kind domain.ResourceKind) ([]domain.HiddenItem, error) {
	s.mu.Lock()
	s.calls["HiddenItemsForGroups"]++
	defer s.mu.Unlock()
	ids := make(map[string]struct{}, len(sharingGroupIDs))
	for _, id := range sharingGroupIDs {
		ids[id] = struct{}{}
	}
	var out []domain.HiddenItem
	for _, h := range s.hidden {
		if h.TenantID != tenantID || h.ItemKind != kind {
			continue
		}
		if _, ok := ids[h.SharingGroupID]; ok {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *MemoryStore) AssignmentsForUser(ctx context.Context, tenantID, userID string) ([]domain.Assignment, error) {
	s.mu.Lock()
	s.calls["AssignmentsForUser"]++
	defer s.mu.Unlock()
	var out []domain.Assignment
	for _, a := range s.assignments {
		if a.TenantID == tenantID && a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}
