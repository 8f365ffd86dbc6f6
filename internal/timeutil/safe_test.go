package timeutil

import (
	"testing"
	"time"
)

// TestSafeSincePast verifies a normal past timestamp yields a positive duration.
func TestSafeSincePast(t *testing.T) {
	d := SafeSince(time.Now().Add(-2 * time.Hour))
	if d < 2*time.Hour-time.Second || d > 2*time.Hour+time.Second {
		t.Errorf("SafeSince(2h ago) = %v, want ~2h", d)
	}
}

// TestSafeSinceFuture verifies a future timestamp clamps to zero rather than
// going negative. Client clocks are not trusted.
func TestSafeSinceFuture(t *testing.T) {
	if d := SafeSince(time.Now().Add(1 * time.Hour)); d != 0 {
		t.Errorf("SafeSince(future) = %v, want 0", d)
	}
}

// TestSafeSinceZero verifies the zero time is treated as "just now".
func TestSafeSinceZero(t *testing.T) {
	if d := SafeSince(time.Time{}); d != 0 {
		t.Errorf("SafeSince(zero) = %v, want 0", d)
	}
}

// TestSafeParse verifies both accepted formats and the zero-time fallback.
func TestSafeParse(t *testing.T) {
	tests := []struct {
		in       string
		wantZero bool
	}{
		{"2026-03-01T10:30:00Z", false},
		{"2026-03-01", false},
		{"not-a-date", true},
		{"", true},
		{"13/01/2026", true},
	}
	for _, tt := range tests {
		got := SafeParse(tt.in)
		if got.IsZero() != tt.wantZero {
			t.Errorf("SafeParse(%q).IsZero() = %v, want %v", tt.in, got.IsZero(), tt.wantZero)
		}
	}
}

// TestSafeDuration verifies interval clamping for missing and inverted bounds.
func TestSafeDuration(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if d := SafeDuration(base, base.Add(45*time.Minute)); d != 45*time.Minute {
		t.Errorf("SafeDuration = %v, want 45m", d)
	}
	if d := SafeDuration(base.Add(time.Hour), base); d != 0 {
		t.Errorf("SafeDuration(inverted) = %v, want 0", d)
	}
	if d := SafeDuration(time.Time{}, base); d != 0 {
		t.Errorf("SafeDuration(zero start) = %v, want 0", d)
	}
	if d := SafeDuration(base, time.Time{}); d != 0 {
		t.Errorf("SafeDuration(zero end) = %v, want 0", d)
	}
}
