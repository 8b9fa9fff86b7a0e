package authz

import (
	"testing"
	"time"

	"praxis-api/internal/cache"
	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"

	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("authz-test", "error")
	require.NoError(t, err)
	return log
}

func str(s string) *string { return &s }

// newEvaluators wires the three evaluators over one MemoryStore with a fresh
// cache, the way the service layer wires them in production.
func newEvaluators(t *testing.T, store *MemoryStore) (*DocumentEvaluator, *MatterEvaluator, *ClientEvaluator) {
	t.Helper()
	log := testLogger(t)
	me := NewMatterEvaluator(store, cache.NewTemporalCache(time.Minute, 128), log)
	de := NewDocumentEvaluator(store, me, log)
	ce := NewClientEvaluator(store, log)
	return de, me, ce
}

func attorney(id, tenantID string) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleAttorney, TenantID: tenantID}
}

func admin(id, tenantID string) domain.Principal {
	return domain.Principal{ID: id, Role: domain.RoleAdmin, TenantID: tenantID}
}
