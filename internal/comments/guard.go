package comments

import (
	"sync"
	"time"
)

// DefaultMinInterval is the shortest allowed gap between two comments from
// the same author.
const DefaultMinInterval = 10 * time.Second

// SpamGuard tracks each author's last accepted comment time. It is owned
// by the moderation service, not a package global, and is safe for
// concurrent use.
type SpamGuard struct {
	mu          sync.Mutex
	last        map[uint]time.Time
	minInterval time.Duration
	now         func() time.Time
}

func NewSpamGuard(minInterval time.Duration) *SpamGuard {
	if minInterval <= 0 {
		minInterval = DefaultMinInterval
	}
	return &SpamGuard{
		last:        make(map[uint]time.Time),
		minInterval: minInterval,
		now:         time.Now,
	}
}

// TooSoon reports whether the author commented within the minimum interval.
// It does not record anything; Record is called once a comment is accepted.
func (g *SpamGuard) TooSoon(authorID uint) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	last, ok := g.last[authorID]
	if !ok {
		return false
	}
	return g.now().Sub(last) < g.minInterval
}

// Record marks now as the author's last accepted comment time.
func (g *SpamGuard) Record(authorID uint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.last[authorID] = g.now()
}
