package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleClientTTL is how long an unseen client keeps its token bucket.
const idleClientTTL = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter throttles connections per client IP with a token bucket each.
// A zero rate disables throttling.
type Limiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	clients   map[string]*client
	lastPrune time.Time
}

func NewLimiter(perSecond float64, burst int) *Limiter {
	l := &Limiter{clients: make(map[string]*client)}
	l.SetLimit(perSecond, burst)
	return l
}

// SetLimit changes the rate for new and existing clients
func (l *Limiter) SetLimit(perSecond float64, burst int) {
	if burst < 1 {
		burst = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = rate.Limit(perSecond)
	l.burst = burst
	for _, c := range l.clients {
		c.limiter.SetLimit(l.limit)
		c.limiter.SetBurst(l.burst)
	}
}

// Allow reports whether ip may be served now
func (l *Limiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.limit == 0 {
		return true
	}

	now := time.Now()
	if now.Sub(l.lastPrune) > time.Minute {
		l.prune(now)
	}

	c, exists := l.clients[ip]
	if !exists {
		c = &client{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

func (l *Limiter) prune(now time.Time) {
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > idleClientTTL {
			delete(l.clients, ip)
		}
	}
	l.lastPrune = now
}
