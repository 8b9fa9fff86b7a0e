package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"praxis-api/internal/authz"
	"praxis-api/internal/cache"
	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"
	"praxis-api/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv is the full service stack over an in-memory store: evaluators,
// tenant guard without a pool, and the four services.
type testEnv struct {
	store      *authz.MemoryStore
	guard      *tenant.Guard
	documents  *DocumentService
	matters    *MatterService
	clients    *ClientService
	violations *ViolationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log, err := logger.New("service-test", "error")
	require.NoError(t, err)

	store := authz.NewMemoryStore()
	guard := tenant.NewGuard(store, nil, tenant.NewViolationBuffer(32), log)

	matterEval := authz.NewMatterEvaluator(store, cache.NewTemporalCache(time.Minute, 128), log)
	documentEval := authz.NewDocumentEvaluator(store, matterEval, log)
	clientEval := authz.NewClientEvaluator(store, log)

	return &testEnv{
		store:      store,
		guard:      guard,
		documents:  NewDocumentService(store, documentEval, guard, log),
		matters:    NewMatterService(store, matterEval, guard, log),
		clients:    NewClientService(store, clientEval, guard, log),
		violations: NewViolationService(guard, log),
	}
}

func attorney(id, tenantID string) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleAttorney, TenantID: tenantID}
}

func str(s string) *string { return &s }

func TestDocumentService_Get(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddDocument(domain.Document{
		ID: "doc-1", TenantID: "firm-a",
		Title:      "Engagement letter",
		UploadedBy: "user-1", OwnerID: "user-1",
		PrivacyLevel: domain.PrivacyPrivate,
	})
	env.store.AddDocument(domain.Document{
		ID: "doc-b", TenantID: "firm-b",
		UploadedBy: "user-1", OwnerID: "user-1",
		PrivacyLevel: domain.PrivacyFirm,
	})
	ctx := context.Background()

	t.Run("owner reads own document", func(t *testing.T) {
		doc, err := env.documents.Get(ctx, attorney("user-1", "firm-a"), "doc-1")
		require.NoError(t, err)
		assert.Equal(t, "Engagement letter", doc.Title)
	})

	t.Run("missing document is not found", func(t *testing.T) {
		_, err := env.documents.Get(ctx, attorney("user-1", "firm-a"), "doc-nope")
		assert.ErrorIs(t, err, ErrDocumentNotFound)
	})

	t.Run("cross-tenant document is not found, not forbidden", func(t *testing.T) {
		_, err := env.documents.Get(ctx, attorney("user-1", "firm-a"), "doc-b")
		assert.ErrorIs(t, err, ErrDocumentNotFound)

		var denied *AccessDeniedError
		assert.False(t, errors.As(err, &denied), "cross-tenant must never surface as a denial")
	})

	t.Run("denied principal gets AccessDeniedError with the rule reason", func(t *testing.T) {
		_, err := env.documents.Get(ctx, attorney("user-2", "firm-a"), "doc-1")
		var denied *AccessDeniedError
		require.True(t, errors.As(err, &denied))
		assert.Equal(t, authz.ReasonNoPermission, denied.Reason)
	})

	t.Run("malformed tenant on the principal is rejected", func(t *testing.T) {
		_, err := env.documents.Get(ctx, attorney("user-1", "Firm'; --"), "doc-1")
		assert.ErrorIs(t, err, tenant.ErrInvalidTenant)
	})
}

func TestDocumentService_List(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddMatter(domain.Matter{
		ID: "matter-1", TenantID: "firm-a",
		ResponsibleAttorney: "user-x", Visibility: domain.VisibilityRestricted,
	})
	// Interleave visible and hidden rows so pagination must skip denied ones.
	for i := 0; i < 5; i++ {
		owner := "user-1"
		if i%2 == 1 {
			owner = "user-x"
		}
		env.store.AddDocument(domain.Document{
			ID: fmt.Sprintf("doc-%d", i), TenantID: "firm-a",
			UploadedBy: owner, OwnerID: owner,
			PrivacyLevel: domain.PrivacyPrivate,
		})
	}
	ctx := context.Background()
	principal := attorney("user-1", "firm-a")

	t.Run("returns only visible rows", func(t *testing.T) {
		docs, err := env.documents.List(ctx, principal, domain.ListDocumentsParams{})
		require.NoError(t, err)
		require.Len(t, docs, 3)
		for _, d := range docs {
			assert.Equal(t, "user-1", d.OwnerID)
		}
	})

	t.Run("limit applies after authorization filtering", func(t *testing.T) {
		docs, err := env.documents.List(ctx, principal, domain.ListDocumentsParams{Limit: 2})
		require.NoError(t, err)
		require.Len(t, docs, 2, "page must be full despite interleaved denied rows")
		for _, d := range docs {
			assert.Equal(t, "user-1", d.OwnerID)
		}
	})

	t.Run("matter filter", func(t *testing.T) {
		env.store.AddDocument(domain.Document{
			ID: "doc-linked", TenantID: "firm-a",
			UploadedBy: "user-1", OwnerID: "user-1",
			PrivacyLevel: domain.PrivacyPrivate,
			MatterID:     str("matter-1"),
		})
		docs, err := env.documents.List(ctx, principal, domain.ListDocumentsParams{MatterID: str("matter-1")})
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "doc-linked", docs[0].ID)
	})

	t.Run("out-of-range limit is rejected", func(t *testing.T) {
		_, err := env.documents.List(ctx, principal, domain.ListDocumentsParams{Limit: 101})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "validate list params")
	})

	t.Run("caller-supplied tenant is overwritten by the principal's", func(t *testing.T) {
		docs, err := env.documents.List(ctx, principal, domain.ListDocumentsParams{TenantID: "firm-b"})
		require.NoError(t, err)
		for _, d := range docs {
			assert.Equal(t, "firm-a", d.TenantID)
		}
	})
}

func TestDocumentService_CheckAccess(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddDocument(domain.Document{
		ID: "doc-1", TenantID: "firm-a",
		UploadedBy: "user-1", OwnerID: "user-1",
		PrivacyLevel: domain.PrivacyPrivate,
	})
	ctx := context.Background()

	// A denial is a probe result, never an error.
	d, err := env.documents.CheckAccess(ctx, attorney("user-2", "firm-a"), "doc-1", domain.CapabilityView)
	require.NoError(t, err)
	assert.False(t, d.Granted)
	assert.Equal(t, authz.ReasonNoPermission, d.Reason)

	d, err = env.documents.CheckAccess(ctx, attorney("user-1", "firm-a"), "doc-1", domain.CapabilityEdit)
	require.NoError(t, err)
	assert.True(t, d.Granted)
}

func TestMatterService_ListWithClientFilter(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddMatter(domain.Matter{
		ID: "m-1", TenantID: "firm-a", ClientID: str("client-1"),
		ResponsibleAttorney: "user-1", Visibility: domain.VisibilityRestricted,
	})
	env.store.AddMatter(domain.Matter{
		ID: "m-2", TenantID: "firm-a", ClientID: str("client-2"),
		ResponsibleAttorney: "user-1", Visibility: domain.VisibilityRestricted,
	})
	env.store.AddMatter(domain.Matter{
		ID: "m-3", TenantID: "firm-a",
		ResponsibleAttorney: "user-1", Visibility: domain.VisibilityRestricted,
	})
	ctx := context.Background()
	principal := attorney("user-1", "firm-a")

	matters, err := env.matters.List(ctx, principal, domain.ListMattersParams{ClientID: str("client-1")})
	require.NoError(t, err)
	require.Len(t, matters, 1)
	assert.Equal(t, "m-1", matters[0].ID)

	matters, err = env.matters.List(ctx, principal, domain.ListMattersParams{})
	require.NoError(t, err)
	assert.Len(t, matters, 3)
}

func TestMatterService_Get(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddMatter(domain.Matter{
		ID: "m-1", TenantID: "firm-a",
		ResponsibleAttorney: "user-1", Visibility: domain.VisibilityRestricted,
	})
	ctx := context.Background()

	m, err := env.matters.Get(ctx, attorney("user-1", "firm-a"), "m-1")
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.ID)

	_, err = env.matters.Get(ctx, attorney("user-2", "firm-a"), "m-1")
	var denied *AccessDeniedError
	require.True(t, errors.As(err, &denied))

	_, err = env.matters.Get(ctx, attorney("user-1", "firm-b"), "m-1")
	assert.ErrorIs(t, err, ErrMatterNotFound)
}

func TestClientService_GetAndList(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddClient(domain.Client{
		ID: "c-1", TenantID: "firm-a", Name: "Acme Corp",
		AssignedAttorney: "user-1", CreatedBy: "user-1",
		Visibility: domain.VisibilityRestricted,
	})
	env.store.AddClient(domain.Client{
		ID: "c-2", TenantID: "firm-a", Name: "Globex",
		AssignedAttorney: "user-x", CreatedBy: "user-x",
		Visibility: domain.VisibilityFirmWide,
	})
	ctx := context.Background()
	principal := attorney("user-1", "firm-a")

	c, err := env.clients.Get(ctx, principal, "c-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", c.Name)

	clients, err := env.clients.List(ctx, principal, domain.ListClientsParams{})
	require.NoError(t, err)
	assert.Len(t, clients, 2, "own record plus the firm-wide one")

	// The firm-wide record is readable but not editable.
	d, err := env.clients.CheckAccess(ctx, principal, "c-2", domain.CapabilityEdit)
	require.NoError(t, err)
	assert.False(t, d.Granted)
}

func TestViolationService_Recent(t *testing.T) {
	env := newTestEnv(t)
	env.store.AddDocument(domain.Document{
		ID: "doc-b", TenantID: "firm-b",
		UploadedBy: "user-b", OwnerID: "user-b",
		PrivacyLevel: domain.PrivacyFirm,
	})
	ctx := context.Background()

	// Trigger a recorded violation through the guard directly, the way the
	// ownership check would on a model/storage disagreement.
	tc, err := env.guard.EstablishContext(ctx, attorney("user-1", "firm-a"))
	require.NoError(t, err)
	r, err := tc.ValidateResourceOwnership(ctx, domain.ResourceDocuments, "doc-b")
	require.NoError(t, err)
	require.False(t, r.Valid)

	t.Run("non-admin is refused", func(t *testing.T) {
		_, err := env.violations.Recent(ctx, attorney("user-1", "firm-a"), 10)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("admin sees own tenant's violations", func(t *testing.T) {
		boss := domain.Principal{ID: "boss", Role: domain.RoleAdmin, TenantID: "firm-a"}
		got, err := env.violations.Recent(ctx, boss, 10)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "doc-b", got[0].ResourceID)
		assert.Equal(t, tenant.ReasonCrossTenantAccess, got[0].Reason)
	})

	t.Run("admin of another tenant sees nothing", func(t *testing.T) {
		other := domain.Principal{ID: "boss-b", Role: domain.RoleAdmin, TenantID: "firm-b"}
		got, err := env.violations.Recent(ctx, other, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
