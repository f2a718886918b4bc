package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Idle clients are dropped from the limiter table periodically so the map
// does not grow with every address ever seen.
const (
	limiterSweepEvery = 10 * time.Minute
	limiterIdleAfter  = 15 * time.Minute
)

// clientLimiter rate-limits uploads per client address.
type clientLimiter struct {
	mu      sync.Mutex
	perMin  int
	burst   int
	clients map[string]*limiterEntry
}

type limiterEntry struct {
	lim  *rate.Limiter
	seen time.Time
}

func newClientLimiter(perMinute int) *clientLimiter {
	burst := perMinute / 6
	if burst < 1 {
		burst = 1
	}

	cl := &clientLimiter{
		perMin:  perMinute,
		burst:   burst,
		clients: make(map[string]*limiterEntry),
	}
	go cl.sweep()

	return cl
}

// Allow reports whether the client may upload now.
func (c *clientLimiter) Allow(addr string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.clients[addr]
	if !ok {
		e = &limiterEntry{
			lim: rate.NewLimiter(rate.Limit(float64(c.perMin)/60), c.burst),
		}
		c.clients[addr] = e
	}
	e.seen = time.Now()

	return e.lim.Allow()
}

func (c *clientLimiter) sweep() {
	ticker := time.NewTicker(limiterSweepEvery)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for addr, e := range c.clients {
			if time.Since(e.seen) > limiterIdleAfter {
				delete(c.clients, addr)
			}
		}
		c.mu.Unlock()
	}
}

// clientIP strips the port from the request's remote address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
