// internal/cache/snapshot.go
package cache

import (
	"errors"
	"time"

	"github.com/tamzrod/dht-gateway/internal/sensor"
)

// Snapshot represents exactly what a status target is allowed to see.
// It contains no logic and no memory beyond current state.
type Snapshot struct {
	Health         uint16
	LastErrorCode  uint16
	SecondsInError uint16
}

// Snapshot derives the health view at time now. staleAfter <= 0 disables
// stale detection.
func (c *Cache) Snapshot(now time.Time, staleAfter time.Duration) Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Health:        HealthUnknown,
		LastErrorCode: errorCode(c.lastErr),
	}

	switch {
	case c.consecFails > 0:
		s.Health = HealthError
	case c.available && staleAfter > 0 && now.Sub(c.updatedAt) > staleAfter:
		s.Health = HealthStale
	case c.available:
		s.Health = HealthOK
	}

	if s.Health != HealthOK && !c.erroredSince.IsZero() {
		secs := int64(now.Sub(c.erroredSince) / time.Second)
		// seconds_in_error MUST NOT wrap
		if secs > 65535 {
			secs = 65535
		}
		if secs > 0 {
			s.SecondsInError = uint16(secs)
		}
	}

	return s
}

func errorCode(err error) uint16 {
	switch {
	case err == nil:
		return ErrCodeNone
	case errors.Is(err, sensor.ErrTimeout):
		return ErrCodeTimeout
	case errors.Is(err, sensor.ErrChecksum):
		return ErrCodeChecksum
	default:
		return ErrCodeRead
	}
}

// HealthName maps a health code to its wire name.
func HealthName(h uint16) string {
	switch h {
	case HealthOK:
		return "ok"
	case HealthError:
		return "error"
	case HealthStale:
		return "stale"
	default:
		return "unknown"
	}
}
