package toeic

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWarningForRemaining(t *testing.T) {
	cases := []struct {
		seconds int
		status  WarningStatus
		message string
	}{
		{0, WarningCritical, "Time is up!"},
		{30, WarningCritical, "Time is up!"}, // under a minute
		{5 * 60, WarningCritical, "5m remaining - HURRY!"},
		{10 * 60, WarningWarning, "10m remaining"},
		{11 * 60, WarningNormal, "11m remaining"},
		{120 * 60, WarningNormal, "120m remaining"},
	}
	for _, c := range cases {
		got := WarningForRemaining(c.seconds)
		if got.Status != c.status || got.Message != c.message {
			t.Errorf("WarningForRemaining(%d) = %+v, want %s %q",
				c.seconds, got, c.status, c.message)
		}
	}
}

func TestFormatClock(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "00:00:00"},
		{-5, "00:00:00"},
		{61, "00:01:01"},
		{7200, "02:00:00"},
		{7325, "02:02:05"},
	}
	for _, c := range cases {
		if got := FormatClock(c.seconds); got != c.want {
			t.Errorf("FormatClock(%d) = %q, want %q", c.seconds, got, c.want)
		}
	}
}

func TestRemainingSeconds(t *testing.T) {
	start := time.Now()
	if got := RemainingSeconds(120, start, start.Add(30*time.Minute)); got != 90*60 {
		t.Errorf("remaining = %d, want %d", got, 90*60)
	}
	// Elapsed beyond the duration clamps to zero.
	if got := RemainingSeconds(120, start, start.Add(3*time.Hour)); got != 0 {
		t.Errorf("remaining = %d, want 0", got)
	}
}

func TestClock_ZeroFiresImmediatelyOnce(t *testing.T) {
	var fires int32
	c := NewClock(0, func() { atomic.AddInt32(&fires, 1) })
	c.Start()
	c.Start() // second start must not re-fire
	if n := atomic.LoadInt32(&fires); n != 1 {
		t.Fatalf("expiry fired %d times, want 1", n)
	}
	if !c.Expired() {
		t.Error("clock not expired")
	}
}

func TestClock_CountsDownAndExpiresOnce(t *testing.T) {
	fired := make(chan struct{})
	var fires int32
	c := NewClock(3, func() {
		atomic.AddInt32(&fires, 1)
		close(fired)
	})
	c.interval = time.Millisecond
	c.Start()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("clock never expired")
	}
	// Give a stray extra tick a chance to misfire.
	time.Sleep(10 * time.Millisecond)
	if n := atomic.LoadInt32(&fires); n != 1 {
		t.Fatalf("expiry fired %d times, want 1", n)
	}
	if c.Remaining() != 0 {
		t.Errorf("remaining = %d after expiry", c.Remaining())
	}
}

func TestClock_StopCancelsWithoutExpiry(t *testing.T) {
	var fires int32
	c := NewClock(1000, func() { atomic.AddInt32(&fires, 1) })
	c.interval = time.Millisecond
	c.Start()
	time.Sleep(5 * time.Millisecond)
	c.Stop()
	c.Stop() // idempotent

	before := c.Remaining()
	time.Sleep(10 * time.Millisecond)
	if after := c.Remaining(); after != before {
		t.Errorf("clock kept ticking after Stop: %d -> %d", before, after)
	}
	if atomic.LoadInt32(&fires) != 0 {
		t.Error("expiry fired after Stop")
	}
}

func TestClock_PauseHoldsCountdown(t *testing.T) {
	c := NewClock(1000, nil)
	c.interval = time.Millisecond
	c.Pause()
	c.Start()
	time.Sleep(10 * time.Millisecond)
	if got := c.Remaining(); got != 1000 {
		t.Errorf("remaining = %d while paused, want 1000", got)
	}
	c.Resume()
	time.Sleep(10 * time.Millisecond)
	if got := c.Remaining(); got == 1000 {
		t.Error("clock did not resume")
	}
	c.Stop()
}

func TestClock_NegativeInitialClamps(t *testing.T) {
	c := NewClock(-10, nil)
	if c.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", c.Remaining())
	}
}
