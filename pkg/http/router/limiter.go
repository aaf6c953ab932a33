package router

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const maxTrackedClients = 4096

// clientLimiters keeps one token bucket per client. Least recently seen clients are evicted.
type clientLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters *lru.Cache[string, *rate.Limiter]
}

func newClientLimiters(limit rate.Limit, burst int) *clientLimiters {
	cache, _ := lru.New[string, *rate.Limiter](maxTrackedClients)
	return &clientLimiters{limit: limit, burst: max(burst, 1), limiters: cache}
}

func (c *clientLimiters) get(addr string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.limiters.Get(addr); ok {
		return l
	}
	l := rate.NewLimiter(c.limit, c.burst)
	c.limiters.Add(addr, l)
	return l
}
