package service

import (
	"context"

	"praxis-api/internal/domain"
	"praxis-api/internal/observability/logger"
	"praxis-api/internal/tenant"
)

// defaultViolationFeedSize bounds the operational feed when the caller does
// not ask for a specific page size.
const defaultViolationFeedSize = 50

// ViolationService exposes the tenant guard's recorded isolation violations
// to full-access roles.
type ViolationService struct {
	guard *tenant.Guard
	log   *logger.Logger
}

func NewViolationService(guard *tenant.Guard, log *logger.Logger) *ViolationService {
	return &ViolationService{guard: guard, log: log}
}

// Recent returns the newest violations for the principal's tenant, newest
// first. Only full-access roles may read the feed.
func (s *ViolationService) Recent(ctx context.Context, principal domain.Principal, limit int) ([]tenant.Violation, error) {
	if !principal.Role.IsFullAccess() {
		return nil, ErrUnauthorized
	}
	if limit <= 0 {
		limit = defaultViolationFeedSize
	}

	// Recent(0) returns everything retained; the tenant filter runs here.
	all := s.guard.Violations().Recent(0)
	out := make([]tenant.Violation, 0, limit)
	for _, v := range all {
		if v.TenantID != principal.TenantID {
			continue
		}
		out = append(out, v)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
