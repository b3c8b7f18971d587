package storage

import (
	"sync"

	"overspeed/internal/model"
)

// MaxViolationLimit is how many violations are kept at most, and when no limit is configured.
const MaxViolationLimit = 10

// ViolationBuffer keeps the most recent violations in memory, newest first.
// Once the limit is reached every Add evicts the oldest entry.
type ViolationBuffer struct {
	violations []model.Violation
	limit      int
	mu         sync.Mutex
}

// NewViolationBuffer creates a buffer holding at most limit violations. Limits outside
// 1..MaxViolationLimit are replaced by MaxViolationLimit.
func NewViolationBuffer(limit int) *ViolationBuffer {
	if limit <= 0 || limit > MaxViolationLimit {
		limit = MaxViolationLimit
	}
	return &ViolationBuffer{
		violations: make([]model.Violation, 0, limit+1),
		limit:      limit,
	}
}

// Add prepends v and truncates the buffer to its limit. It reports whether the oldest entry
// was evicted.
func (b *ViolationBuffer) Add(v model.Violation) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.violations = append(b.violations, model.Violation{})
	copy(b.violations[1:], b.violations)
	b.violations[0] = v

	if len(b.violations) > b.limit {
		b.violations = b.violations[:b.limit]
		return true
	}
	return false
}

// List returns a copy of the buffered violations, most recent first.
func (b *ViolationBuffer) List() []model.Violation {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]model.Violation, len(b.violations))
	copy(out, b.violations)
	return out
}

// Len returns the number of buffered violations.
func (b *ViolationBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.violations)
}
