package app

import (
	"sync"
	"time"

	"privaterooms/internal/domain"
)

// Cooldown is a per-user sliding-window limiter for the join command.
// Reset releases a user's window early so a denied or expired request
// does not burn their next attempt.
type Cooldown struct {
	mu       sync.Mutex
	history  map[domain.UserID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewCooldown(limit int, interval time.Duration) *Cooldown {
	return &Cooldown{
		history:  make(map[domain.UserID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (c *Cooldown) Allow(uid domain.UserID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	windowStart := now.Add(-c.interval)

	attempts := c.history[uid]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= c.limit {
		c.history[uid] = fresh
		return false
	}

	fresh = append(fresh, now)
	c.history[uid] = fresh
	return true
}

func (c *Cooldown) Reset(uid domain.UserID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.history, uid)
}
