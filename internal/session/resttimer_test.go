package session

import (
	"testing"
	"time"
)

const testTick = 2 * time.Millisecond

// TestRestTimerCountsDown verifies the countdown signals completion after
// the configured number of ticks.
func TestRestTimerCountsDown(t *testing.T) {
	rt := NewRestTimerInterval(testTick)
	done := rt.Start(3)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rest timer never signaled")
	}
	if rt.Active() {
		t.Error("timer still active after completion")
	}
	if rt.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", rt.Remaining())
	}
}

// TestRestTimerStop verifies Stop resets to inactive without signaling.
func TestRestTimerStop(t *testing.T) {
	rt := NewRestTimerInterval(50 * time.Millisecond)
	done := rt.Start(60)
	rt.Stop()

	select {
	case <-done:
		t.Fatal("stopped timer should not signal")
	case <-time.After(150 * time.Millisecond):
	}
	if rt.Active() {
		t.Error("timer active after Stop")
	}
	if rt.Remaining() != 0 {
		t.Errorf("remaining = %d, want 0", rt.Remaining())
	}
}

// TestRestTimerRestart verifies a new Start cancels the previous countdown;
// only the latest channel signals.
func TestRestTimerRestart(t *testing.T) {
	rt := NewRestTimerInterval(testTick)
	first := rt.Start(1000)
	second := rt.Start(3)

	select {
	case <-second:
	case <-time.After(time.Second):
		t.Fatal("second countdown never signaled")
	}

	select {
	case <-first:
		t.Fatal("cancelled countdown signaled")
	default:
	}
}

// TestRestTimerZeroSeconds verifies a zero-length rest completes immediately.
func TestRestTimerZeroSeconds(t *testing.T) {
	rt := NewRestTimerInterval(testTick)
	done := rt.Start(0)
	select {
	case <-done:
	default:
		t.Error("zero-second rest should signal immediately")
	}
}
