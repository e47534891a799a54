package toeic

import (
	"fmt"
	"sync"
	"time"
)

// WarningStatus classifies how urgent the remaining time is.
type WarningStatus string

const (
	WarningNormal   WarningStatus = "normal"   // > 10 minutes left
	WarningWarning  WarningStatus = "warning"  // <= 10 minutes
	WarningCritical WarningStatus = "critical" // <= 5 minutes, or expired
)

// TimeWarning pairs the status with a display message.
type TimeWarning struct {
	Status  WarningStatus `json:"status"`
	Message string        `json:"message"`
}

// WarningForRemaining reproduces the display policy for a countdown value.
func WarningForRemaining(seconds int) TimeWarning {
	minutes := seconds / 60
	switch {
	case seconds <= 0 || minutes <= 0:
		return TimeWarning{WarningCritical, "Time is up!"}
	case minutes <= 5:
		return TimeWarning{WarningCritical, fmt.Sprintf("%dm remaining - HURRY!", minutes)}
	case minutes <= 10:
		return TimeWarning{WarningWarning, fmt.Sprintf("%dm remaining", minutes)}
	default:
		return TimeWarning{WarningNormal, fmt.Sprintf("%dm remaining", minutes)}
	}
}

// FormatClock renders seconds as HH:MM:SS. Negative input clamps to zero.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

// RemainingSeconds derives the countdown start from the exam duration and
// the time already spent on the attempt, clamped to >= 0.
func RemainingSeconds(durationMinutes int, startedAt, now time.Time) int {
	elapsed := int(now.Sub(startedAt).Seconds())
	remaining := durationMinutes*60 - elapsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Clock is the attempt countdown. It ticks once per second while running
// and fires the expiry callback exactly once when it reaches zero; a clock
// started at zero fires immediately without waiting for a tick. Stop
// cancels the ticking goroutine, so an abandoned attempt leaks no timers.
type Clock struct {
	mu        sync.Mutex
	remaining int
	paused    bool
	stopped   bool
	expired   bool
	onExpire  func()
	stopCh    chan struct{}

	// tick interval, overridable in tests
	interval time.Duration
}

// NewClock builds a clock with the given countdown start. onExpire runs on
// the clock's goroutine (or inline from Start when initial is zero).
func NewClock(initialSeconds int, onExpire func()) *Clock {
	if initialSeconds < 0 {
		initialSeconds = 0
	}
	return &Clock{
		remaining: initialSeconds,
		onExpire:  onExpire,
		stopCh:    make(chan struct{}),
		interval:  time.Second,
	}
}

// Start begins ticking. Calling Start on an already-expired or stopped
// clock is a no-op beyond the immediate-expiry case.
func (c *Clock) Start() {
	c.mu.Lock()
	if c.stopped || c.expired {
		c.mu.Unlock()
		return
	}
	if c.remaining <= 0 {
		c.expired = true
		fn := c.onExpire
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
		return
	}
	c.mu.Unlock()

	go c.run()
}

func (c *Clock) run() {
	t := time.NewTicker(c.interval)
	defer t.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case <-t.C:
			if fn := c.tick(); fn != nil {
				fn()
				return
			}
			c.mu.Lock()
			done := c.stopped || c.expired
			c.mu.Unlock()
			if done {
				return
			}
		}
	}
}

// tick decrements once and returns the expiry callback if this tick hit
// zero. The callback is returned, not invoked, so it runs outside the lock.
func (c *Clock) tick() func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.paused || c.stopped || c.expired {
		return nil
	}
	c.remaining--
	if c.remaining > 0 {
		return nil
	}
	c.remaining = 0
	c.expired = true
	return c.onExpire
}

// Pause freezes the countdown; Resume continues it. Practice mode only,
// the manager never pauses a real exam.
func (c *Clock) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *Clock) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

// Stop cancels ticking without firing expiry. Safe to call more than once.
func (c *Clock) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	close(c.stopCh)
	c.mu.Unlock()
}

// Remaining returns the current countdown value in seconds.
func (c *Clock) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Expired reports whether the countdown has reached zero.
func (c *Clock) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expired
}

// Warning returns the display status for the current remaining time.
func (c *Clock) Warning() TimeWarning {
	return WarningForRemaining(c.Remaining())
}
