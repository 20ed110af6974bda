// Package flood keeps outbound chat below server flood thresholds.
package flood

import (
	"sync"
	"time"
)

const (
	DefaultBurst = 5
	DefaultPause = 500 * time.Millisecond
)

// Limiter counts sends and asks for a pause after every burst of them.
// The bucket refills completely on each pause; it is not a sliding
// window. The limiter never sleeps itself, so the caller decides what
// else may proceed while chat is held back.
type Limiter struct {
	mu    sync.Mutex
	burst int
	pause time.Duration
	sent  int
	trips int
}

// NewLimiter creates a limiter; non-positive values fall back to defaults
func NewLimiter(burst int, pause time.Duration) *Limiter {
	if burst <= 0 {
		burst = DefaultBurst
	}
	if pause <= 0 {
		pause = DefaultPause
	}
	return &Limiter{burst: burst, pause: pause}
}

// Sent records one send and reports how long the caller must hold
// further chat (zero unless the burst was just used up)
func (l *Limiter) Sent() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.sent++
	if l.sent < l.burst {
		return 0
	}
	l.sent = 0
	l.trips++
	return l.pause
}

// Trips returns how many pauses have been requested so far
func (l *Limiter) Trips() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.trips
}
