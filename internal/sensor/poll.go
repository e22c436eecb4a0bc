// internal/sensor/poll.go
package sensor

import (
	"context"
	"time"
)

// Poll runs one poll cycle: up to MaxAttempts transactions, stopping on the
// first success. Between failed attempts (never after the last) it sleeps
// RetryDelay interruptibly; a cancelled context aborts the cycle early with
// the last transaction's outcome.
func (t *Transactor) Poll(ctx context.Context) PollResult {
	res := PollResult{At: time.Now()}

	for attempt := 1; attempt <= t.cfg.MaxAttempts; attempt++ {
		res.Attempts = attempt

		reading, err := t.ReadOnce()
		if err == nil {
			res.Reading = reading
			res.Err = nil
			return res
		}
		res.Err = err
		t.log.Debugf("read attempt %d/%d failed: %v", attempt, t.cfg.MaxAttempts, err)

		if attempt == t.cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return res
		case <-time.After(t.cfg.RetryDelay):
		}
	}
	return res
}
