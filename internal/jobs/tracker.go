package jobs

import (
	"sync"

	"hrserver/internal/domain"
)

// ShareTracker holds one independent share state machine per job identifier.
// Entries are created lazily on first action, mutated only through the guarded
// transitions below, and wiped wholesale when the owning list is replaced.
type ShareTracker struct {
	mu     sync.Mutex
	states map[string]domain.ShareStatus
}

// NewShareTracker constructs an empty tracker.
func NewShareTracker() *ShareTracker {
	return &ShareTracker{states: make(map[string]domain.ShareStatus)}
}

// Status reports the current state for id; unseen identifiers are idle.
func (t *ShareTracker) Status(id string) domain.ShareStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.states[id]; ok {
		return s
	}
	return domain.ShareIdle
}

// Begin attempts the idle -> loading transition. The check and the set are one
// critical section, so at most one caller wins per identifier; everyone else
// gets false and must no-op.
func (t *ShareTracker) Begin(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.states[id]; ok && s != domain.ShareIdle {
		return false
	}
	t.states[id] = domain.ShareLoading
	return true
}

// Succeed marks the item shared, terminal for this session.
func (t *ShareTracker) Succeed(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[id] = domain.ShareShared
}

// Fail returns the item to idle so the user can retry.
func (t *ShareTracker) Fail(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states[id] = domain.ShareIdle
}

// Reset drops every entry. Called after a successful list replacement since
// identifiers may have changed membership.
func (t *ShareTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.states = make(map[string]domain.ShareStatus)
}
