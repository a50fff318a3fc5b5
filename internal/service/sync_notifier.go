package service

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultWarnInterval is the minimum gap between two sync warnings for one user.
const DefaultWarnInterval = 5 * time.Second

// SyncNotifier decides when a failed progress write is worth telling the user about.
// It allows at most one warning per interval per user.
type SyncNotifier struct {
	mu       sync.Mutex
	interval time.Duration
	limiters map[int64]*rate.Limiter
}

// NewSyncNotifier creates a notifier; a non-positive interval uses DefaultWarnInterval.
func NewSyncNotifier(interval time.Duration) *SyncNotifier {
	if interval <= 0 {
		interval = DefaultWarnInterval
	}
	return &SyncNotifier{
		interval: interval,
		limiters: make(map[int64]*rate.Limiter),
	}
}

// Allow reports whether a warning may be shown to userID at now.
func (n *SyncNotifier) Allow(userID int64, now time.Time) bool {
	n.mu.Lock()
	defer n.mu.Unlock()

	l, ok := n.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Every(n.interval), 1)
		n.limiters[userID] = l
	}

	return l.AllowN(now, 1)
}

// Forget drops the state kept for userID, e.g. when their session ends.
func (n *SyncNotifier) Forget(userID int64) {
	n.mu.Lock()
	delete(n.limiters, userID)
	n.mu.Unlock()
}
