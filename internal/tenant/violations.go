package tenant

import (
	"sync"
	"time"

	"praxis-api/internal/domain"
)

// Violation records one tenant isolation failure: a resource was touched
// whose stored tenant did not match the request's tenant context, or a
// referenced resource did not exist at all.
type Violation struct {
	TenantID     string              `json:"tenantId"`
	UserID       string              `json:"userId,omitempty"`
	ResourceKind domain.ResourceKind `json:"resourceKind"`
	ResourceID   string              `json:"resourceId"`
	Reason       string              `json:"reason"`
	OccurredAt   time.Time           `json:"occurredAt"`
}

// ViolationBuffer is a bounded in-memory ring of recent violations for
// operational dashboards. When full, the oldest entry is dropped. It is
// explicitly not a durable audit log; each process has its own buffer.
type ViolationBuffer struct {
	mu      sync.Mutex
	entries []Violation
	next    int
	full    bool
}

// NewViolationBuffer creates a buffer holding at most size entries.
func NewViolationBuffer(size int) *ViolationBuffer {
	if size < 1 {
		size = 1
	}
	return &ViolationBuffer{entries: make([]Violation, size)}
}

// Record appends a violation, dropping the oldest entry when full.
func (b *ViolationBuffer) Record(v Violation) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries[b.next] = v
	b.next++
	if b.next == len(b.entries) {
		b.next = 0
		b.full = true
	}
}

// Recent returns up to limit violations, newest first.
func (b *ViolationBuffer) Recent(limit int) []Violation {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := b.next
	if b.full {
		count = len(b.entries)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]Violation, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (b.next - 1 - i + len(b.entries)) % len(b.entries)
		out = append(out, b.entries[idx])
	}
	return out
}

// Len returns the number of recorded entries currently retained.
func (b *ViolationBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.full {
		return len(b.entries)
	}
	return b.next
}
