// internal/sensor/line.go
package sensor

// Line abstracts the GPIO line the driver bit-bangs.
// The driver depends on level and time only.
//
// DelayMicros MUST be busy-accurate at 1 µs granularity: bit values are
// distinguished solely by pulse widths in the tens of microseconds, so the
// capture loop cannot tolerate scheduler-grade sleeps.
type Line interface {
	Output() error        // take the line (driven high)
	Input() error         // release the line and listen (pull-up)
	Set(level bool) error // drive the level; output mode only
	Level() bool          // sample the line; true = high
	DelayMicros(n int)    // spin for n microseconds
}
