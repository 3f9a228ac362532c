package generation

import (
	"context"
	"sync"
	"time"
)

// QuotaFunc reports how many episodes count against the user's quota in the
// current window
type QuotaFunc func(ctx context.Context, userID uint) (int64, error)

// Lease represents a held generation slot; Release must be called exactly
// once when the run finishes
type Lease interface {
	Release()
}

// Gate performs the combined in-flight and quota check before a run is
// accepted. The check is atomic per user: two concurrent requests can never
// both observe "under quota".
type Gate interface {
	Acquire(ctx context.Context, userID uint, limit int) (Lease, error)
}

// MemoryGate serializes generation per user with an in-process slot map.
// Runs for different users can still overlap when invoked directly; the
// batch driver keeps them sequential on its own.
type MemoryGate struct {
	mu         sync.Mutex
	inFlight   map[uint]struct{}
	quota      QuotaFunc
	retryAfter time.Duration
}

// Ensure MemoryGate implements Gate interface
var _ Gate = (*MemoryGate)(nil)

// NewMemoryGate creates a gate backed by the given quota counter
func NewMemoryGate(quota QuotaFunc, retryAfter time.Duration) *MemoryGate {
	return &MemoryGate{
		inFlight:   make(map[uint]struct{}),
		quota:      quota,
		retryAfter: retryAfter,
	}
}

// Acquire takes the user's slot, then checks the quota while holding it.
// Taking the slot first closes the read-then-write window: a concurrent
// request for the same user is rejected before it can read the count.
func (g *MemoryGate) Acquire(ctx context.Context, userID uint, limit int) (Lease, error) {
	g.mu.Lock()
	if _, busy := g.inFlight[userID]; busy {
		g.mu.Unlock()
		return nil, InFlightError{UserID: userID, RetryAfter: g.retryAfter}
	}
	g.inFlight[userID] = struct{}{}
	g.mu.Unlock()

	release := func() {
		g.mu.Lock()
		delete(g.inFlight, userID)
		g.mu.Unlock()
	}

	if limit > 0 {
		count, err := g.quota(ctx, userID)
		if err != nil {
			release()
			return nil, err
		}
		if count >= int64(limit) {
			release()
			return nil, LimitError{UserID: userID, RetryAfter: g.retryAfter}
		}
	}

	return &memoryLease{release: release}, nil
}

type memoryLease struct {
	once    sync.Once
	release func()
}

func (l *memoryLease) Release() {
	l.once.Do(l.release)
}
