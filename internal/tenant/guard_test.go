package tenant

import (
	"context"
	"errors"
	"strings"
	"testing"

	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOwnershipStore struct {
	tenants map[string]string // resource ID -> stored tenant
	err     error
}

func (f *fakeOwnershipStore) ResourceTenant(ctx context.Context, kind domain.ResourceKind, resourceID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	tenantID, ok := f.tenants[resourceID]
	if !ok {
		return "", ErrResourceNotFound
	}
	return tenantID, nil
}

func newTestGuard(t *testing.T, store OwnershipStore) *Guard {
	t.Helper()
	log, err := logger.New("tenant-test", "error")
	require.NoError(t, err)
	return NewGuard(store, nil, NewViolationBuffer(16), log)
}

func TestEstablishContext_TenantIDFormat(t *testing.T) {
	g := newTestGuard(t, &fakeOwnershipStore{})

	valid := []string{
		"firm-a",
		"a",
		"0tenant",
		"tenant_with_underscores",
		"t" + strings.Repeat("x", 63), // 64 chars, the maximum
	}
	for _, id := range valid {
		t.Run("valid "+id, func(t *testing.T) {
			tc, err := g.EstablishContext(context.Background(), domain.Principal{ID: "u", TenantID: id})
			require.NoError(t, err)
			assert.Equal(t, id, tc.TenantID())
		})
	}

	invalid := []string{
		"",
		"Firm-A",
		"firm a",
		"-leading-dash",
		"_leading-underscore",
		"firm'; DROP TABLE documents; --",
		"firm\nnewline",
		"tenant/../other",
		"t" + strings.Repeat("x", 64), // 65 chars, one over
	}
	for _, id := range invalid {
		t.Run("invalid "+id, func(t *testing.T) {
			_, err := g.EstablishContext(context.Background(), domain.Principal{ID: "u", TenantID: id})
			assert.ErrorIs(t, err, ErrInvalidTenant)
		})
	}
}

func TestEstablishContext_ErrorNeverEchoesInput(t *testing.T) {
	g := newTestGuard(t, &fakeOwnershipStore{})

	hostile := "firm'; SELECT set_config('app.current_tenant', 'other', false); --"
	_, err := g.EstablishContext(context.Background(), domain.Principal{ID: "u", TenantID: hostile})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "set_config")
	assert.NotContains(t, err.Error(), hostile)
}

func TestValidateResourceOwnership(t *testing.T) {
	store := &fakeOwnershipStore{tenants: map[string]string{
		"doc-own":   "firm-a",
		"doc-other": "firm-b",
	}}
	g := newTestGuard(t, store)
	tc, err := g.EstablishContext(context.Background(), domain.Principal{ID: "user-1", TenantID: "firm-a"})
	require.NoError(t, err)

	t.Run("matching tenant", func(t *testing.T) {
		r, err := tc.ValidateResourceOwnership(context.Background(), domain.ResourceDocuments, "doc-own")
		require.NoError(t, err)
		assert.True(t, r.Valid)
		assert.Equal(t, ReasonOK, r.Reason)
		assert.Equal(t, 0, g.Violations().Len())
	})

	t.Run("cross-tenant resource records a violation", func(t *testing.T) {
		r, err := tc.ValidateResourceOwnership(context.Background(), domain.ResourceDocuments, "doc-other")
		require.NoError(t, err)
		assert.False(t, r.Valid)
		assert.Equal(t, ReasonCrossTenantAccess, r.Reason)

		recent := g.Violations().Recent(1)
		require.Len(t, recent, 1)
		assert.Equal(t, "firm-a", recent[0].TenantID)
		assert.Equal(t, "user-1", recent[0].UserID)
		assert.Equal(t, domain.ResourceDocuments, recent[0].ResourceKind)
		assert.Equal(t, "doc-other", recent[0].ResourceID)
		assert.Equal(t, ReasonCrossTenantAccess, recent[0].Reason)
		assert.False(t, recent[0].OccurredAt.IsZero())
	})

	t.Run("missing resource is invalid without a violation", func(t *testing.T) {
		before := g.Violations().Len()
		r, err := tc.ValidateResourceOwnership(context.Background(), domain.ResourceDocuments, "doc-nope")
		require.NoError(t, err)
		assert.False(t, r.Valid)
		assert.Equal(t, ReasonNotFound, r.Reason)
		assert.Equal(t, before, g.Violations().Len())
	})
}

func TestValidateResourceOwnership_LookupFailureFailsClosed(t *testing.T) {
	store := &fakeOwnershipStore{err: errors.New("connection reset")}
	g := newTestGuard(t, store)
	tc, err := g.EstablishContext(context.Background(), domain.Principal{ID: "user-1", TenantID: "firm-a"})
	require.NoError(t, err)

	_, err = tc.ValidateResourceOwnership(context.Background(), domain.ResourceDocuments, "doc-1")
	assert.ErrorIs(t, err, ErrOwnershipUnknown)
}

func TestValidateBatch(t *testing.T) {
	store := &fakeOwnershipStore{tenants: map[string]string{
		"m-1": "firm-a",
		"m-2": "firm-a",
		"m-3": "firm-b",
	}}
	g := newTestGuard(t, store)
	tc, err := g.EstablishContext(context.Background(), domain.Principal{ID: "user-1", TenantID: "firm-a"})
	require.NoError(t, err)

	t.Run("all owned", func(t *testing.T) {
		r, err := tc.ValidateBatch(context.Background(), domain.ResourceMatters, []string{"m-1", "m-2"})
		require.NoError(t, err)
		assert.True(t, r.Valid)
		assert.Empty(t, r.InvalidIDs)
	})

	t.Run("mixed batch reports the offending IDs", func(t *testing.T) {
		r, err := tc.ValidateBatch(context.Background(), domain.ResourceMatters, []string{"m-1", "m-3", "m-missing"})
		require.NoError(t, err)
		assert.False(t, r.Valid)
		assert.ElementsMatch(t, []string{"m-3", "m-missing"}, r.InvalidIDs)
	})
}

func TestSetSessionScope_NoPool(t *testing.T) {
	g := newTestGuard(t, &fakeOwnershipStore{})
	tc, err := g.EstablishContext(context.Background(), domain.Principal{ID: "u", TenantID: "firm-a"})
	require.NoError(t, err)

	ctx := context.Background()
	scoped, release, err := tc.SetSessionScope(ctx)
	require.NoError(t, err)
	require.NotNil(t, release)
	assert.Equal(t, ctx, scoped, "without a pool the scope is a no-op")
	release()
}
