package ratelimiter

import (
	"sync"
	"time"
)

// sweepThreshold is the client count above which expired windows are
// dropped before a new client is tracked.
const sweepThreshold = 1024

type Limiter interface {
	// Allow reports whether a request from ip may proceed. When it may not,
	// the duration says how long until the client's window resets.
	Allow(ip string) (bool, time.Duration)
}

type window struct {
	start time.Time
	count int
}

// FixedWindowRateLimiter allows limit requests per client in each window.
// Windows start at a client's first request and are reset lazily.
type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindowLimiter(limit int, frame time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  frame,
		now:     time.Now,
	}
}

func (rl *FixedWindowRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	w, ok := rl.clients[ip]
	if !ok || now.Sub(w.start) >= rl.window {
		if !ok && len(rl.clients) >= sweepThreshold {
			rl.sweep(now)
		}
		rl.clients[ip] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count < rl.limit {
		w.count++
		return true, 0
	}

	return false, rl.window - now.Sub(w.start)
}

func (rl *FixedWindowRateLimiter) sweep(now time.Time) {
	for ip, w := range rl.clients {
		if now.Sub(w.start) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}

// Len returns the number of tracked clients.
func (rl *FixedWindowRateLimiter) Len() int {
	rl.Lock()
	defer rl.Unlock()
	return len(rl.clients)
}
