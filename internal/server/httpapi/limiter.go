package httpapi

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterPool hands out one token bucket per client key. Entries not seen
// for ttl are dropped by a background loop started on first use.
type limiterPool struct {
	mu            sync.Mutex
	m             map[string]*limiterEntry
	rps           float64
	burst         int
	startCleanup  sync.Once
	ttl           time.Duration
	cleanupPeriod time.Duration
	done          chan struct{}
}

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

func newLimiterPool(rps float64, burst int) *limiterPool {
	if burst <= 0 {
		burst = 1
	}
	return &limiterPool{
		rps:           rps,
		burst:         burst,
		ttl:           10 * time.Minute,
		cleanupPeriod: time.Minute,
		done:          make(chan struct{}),
	}
}

func (p *limiterPool) get(key string) *rate.Limiter {
	p.startCleanup.Do(func() { go p.cleanupLoop() })

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.m == nil {
		p.m = make(map[string]*limiterEntry)
	}
	if e, ok := p.m[key]; ok {
		e.lastSeen = time.Now()
		return e.l
	}

	l := rate.NewLimiter(rate.Limit(p.rps), p.burst)
	p.m[key] = &limiterEntry{l: l, lastSeen: time.Now()}
	return l
}

// Allow reports whether a request from key may proceed now.
func (p *limiterPool) Allow(key string) bool {
	return p.get(key).Allow()
}

// Shutdown stops the cleanup loop. It must be called at most once.
func (p *limiterPool) Shutdown() {
	close(p.done)
}

func (p *limiterPool) cleanupLoop() {
	ticker := time.NewTicker(p.cleanupPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-p.done:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-p.ttl)
			p.mu.Lock()
			for k, e := range p.m {
				if e.lastSeen.Before(cutoff) {
					delete(p.m, k)
				}
			}
			p.mu.Unlock()
		}
	}
}
