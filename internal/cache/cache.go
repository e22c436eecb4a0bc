// internal/cache/cache.go
package cache

import (
	"sync"
	"time"

	"github.com/tamzrod/dht-gateway/internal/sensor"
)

// Cache holds the freshest valid reading. Written by the polling loop only,
// read by any goroutine. One lock guards everything; it is held just long
// enough to copy fields, so Latest never waits on sensor work.
//
// Writes carry a generation token. A loop that has been abandoned at
// shutdown still holds its old generation and its writes no longer land:
// Reset bumps the generation, which is what makes abandonment safe.
type Cache struct {
	mu  sync.RWMutex
	gen uint64

	available bool
	latest    sensor.Reading
	updatedAt time.Time

	published    uint64
	failures     uint64
	consecFails  int
	lastErr      error
	erroredSince time.Time
}

func New() *Cache {
	return &Cache{}
}

// Generation returns the token current writes must carry.
func (c *Cache) Generation() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gen
}

// Publish stores a successful poll result. Returns false (and stores
// nothing) if gen is stale.
func (c *Cache) Publish(gen uint64, res sensor.PollResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.latest = res.Reading
	c.available = true
	c.updatedAt = res.At
	c.published++
	c.consecFails = 0
	c.lastErr = nil
	c.erroredSince = time.Time{}
	return true
}

// RecordFailure notes a failed poll cycle. The last good reading stays
// visible. Returns false if gen is stale.
func (c *Cache) RecordFailure(gen uint64, res sensor.PollResult) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	c.failures++
	c.consecFails++
	c.lastErr = res.Err
	if c.erroredSince.IsZero() {
		c.erroredSince = res.At
	}
	return true
}

// Latest returns a copy of the most recent published reading. The second
// return is false until the first successful cycle and after Reset.
func (c *Cache) Latest() (sensor.Reading, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest, c.available
}

// Reset clears all state and invalidates in-flight writers.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.available = false
	c.latest = sensor.Reading{}
	c.updatedAt = time.Time{}
	c.published = 0
	c.failures = 0
	c.consecFails = 0
	c.lastErr = nil
	c.erroredSince = time.Time{}
}
