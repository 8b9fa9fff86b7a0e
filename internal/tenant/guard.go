package tenant

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"praxis-api/internal/database"
	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrInvalidTenant is returned for a missing or malformed tenant identifier.
// The message is fixed and never echoes the offending input, so injected
// content is not reflected back to the caller.
var ErrInvalidTenant = errors.New("invalid tenant context")

// ErrOwnershipUnknown is returned when the ownership lookup itself failed;
// callers must fail closed.
var ErrOwnershipUnknown = errors.New("resource ownership could not be verified")

// tenantIDPattern is strict on purpose: the tenant identifier ends up in a
// database session directive, so it must never carry quoting or whitespace.
var tenantIDPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// Validation reasons reported by ownership checks.
const (
	ReasonOK                = "ok"
	ReasonNotFound          = "not_found"
	ReasonCrossTenantAccess = "cross_tenant_access"
)

// OwnershipStore resolves the stored tenant of a resource, independent of
// the primary permission model. It is the guard's second line of defense.
type OwnershipStore interface {
	// ResourceTenant returns the tenant ID recorded on the resource row,
	// or authz-style not-found when no such row exists.
	ResourceTenant(ctx context.Context, kind domain.ResourceKind, resourceID string) (string, error)
}

// ErrResourceNotFound is what OwnershipStore implementations return for a
// missing row.
var ErrResourceNotFound = errors.New("resource not found")

// Guard validates tenant context and independently verifies that every
// resource touched actually belongs to that tenant, even if the primary
// permission model has a bug.
type Guard struct {
	store      OwnershipStore
	pool       *pgxpool.Pool
	violations *ViolationBuffer
	log        *logger.Logger
}

// NewGuard creates a Guard. pool may be nil in tests that never bracket a
// session scope.
func NewGuard(store OwnershipStore, pool *pgxpool.Pool, violations *ViolationBuffer, log *logger.Logger) *Guard {
	return &Guard{store: store, pool: pool, violations: violations, log: log}
}

// Violations exposes the ring buffer for the operational feed.
func (g *Guard) Violations() *ViolationBuffer {
	return g.violations
}

// EstablishContext validates the principal's claimed tenant and returns a
// tenant-scoped context for the request. It runs before any evaluator.
func (g *Guard) EstablishContext(ctx context.Context, principal domain.Principal) (*Context, error) {
	if !tenantIDPattern.MatchString(principal.TenantID) {
		g.log.Warn(ctx, "rejected malformed tenant identifier",
			logger.Module("tenant"),
			logger.Action("establish_context"),
			zap.String("user_id", principal.ID),
		)
		return nil, ErrInvalidTenant
	}
	return &Context{guard: g, tenantID: principal.TenantID, userID: principal.ID}, nil
}

// Context is a tenant-scoped execution context for one request.
type Context struct {
	guard    *Guard
	tenantID string
	userID   string
}

// TenantID returns the validated tenant identifier.
func (tc *Context) TenantID() string {
	return tc.tenantID
}

// ValidationResult is the outcome of an ownership check.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason"`
}

// ValidateResourceOwnership looks up the resource's stored tenant and
// compares it to the context's tenant. A mismatch is recorded in the
// violation buffer. A lookup failure returns an error; callers fail closed.
func (tc *Context) ValidateResourceOwnership(ctx context.Context, kind domain.ResourceKind, resourceID string) (ValidationResult, error) {
	storedTenant, err := tc.guard.store.ResourceTenant(ctx, kind, resourceID)
	if errors.Is(err, ErrResourceNotFound) {
		return ValidationResult{Valid: false, Reason: ReasonNotFound}, nil
	}
	if err != nil {
		return ValidationResult{}, fmt.Errorf("%w: %v", ErrOwnershipUnknown, err)
	}

	if storedTenant != tc.tenantID {
		tc.guard.violations.Record(Violation{
			TenantID:     tc.tenantID,
			UserID:       tc.userID,
			ResourceKind: kind,
			ResourceID:   resourceID,
			Reason:       ReasonCrossTenantAccess,
			OccurredAt:   time.Now(),
		})
		tc.guard.log.Warn(ctx, "cross-tenant resource access blocked",
			logger.Module("tenant"),
			logger.Action("validate_ownership"),
			zap.String("resource_kind", string(kind)),
			zap.String("resource_id", resourceID),
		)
		return ValidationResult{Valid: false, Reason: ReasonCrossTenantAccess}, nil
	}

	return ValidationResult{Valid: true, Reason: ReasonOK}, nil
}

// BatchResult is the outcome of a batch ownership check. InvalidIDs holds
// the IDs that belong to another tenant or do not exist at all.
type BatchResult struct {
	Valid      bool     `json:"valid"`
	InvalidIDs []string `json:"invalidIds,omitempty"`
}

// ValidateBatch runs ValidateResourceOwnership over a set of IDs.
func (tc *Context) ValidateBatch(ctx context.Context, kind domain.ResourceKind, resourceIDs []string) (BatchResult, error) {
	result := BatchResult{Valid: true}
	for _, id := range resourceIDs {
		r, err := tc.ValidateResourceOwnership(ctx, kind, id)
		if err != nil {
			return BatchResult{}, err
		}
		if !r.Valid {
			result.Valid = false
			result.InvalidIDs = append(result.InvalidIDs, id)
		}
	}
	return result, nil
}

// SetSessionScope brackets the database's row-level-security session
// variable around a unit of work. It pins one pool connection, sets the
// variable on it, and returns a context that routes queries through that
// same connection plus a release function that must run on every exit path.
// Without a pool (in-memory stores) it is a no-op.
func (tc *Context) SetSessionScope(ctx context.Context) (context.Context, func(), error) {
	if tc.guard.pool == nil {
		return ctx, func() {}, nil
	}

	conn, err := tc.guard.pool.Acquire(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("acquire connection for session scope: %w", err)
	}

	// set_config with a bound parameter; the strict tenant-id format check
	// in EstablishContext stays as defense in depth.
	if _, err := conn.Exec(ctx, "SELECT set_config('app.current_tenant', $1, false)", tc.tenantID); err != nil {
		conn.Release()
		return nil, nil, fmt.Errorf("set tenant session scope: %w", err)
	}

	scoped := database.WithQuerier(ctx, conn)
	release := func() {
		// Best-effort reset before the connection returns to the pool.
		clearCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, _ = conn.Exec(clearCtx, "RESET app.current_tenant")
		conn.Release()
	}
	return scoped, release, nil
}
