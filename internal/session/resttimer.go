package session

import (
	"sync"
	"time"
)

// RestTimer is the advisory between-set countdown. It starts after a
// successful set log, ticks down once per interval (one second in
// production), and signals completion on the channel returned by Start.
// It never gates the next set; logging while resting simply restarts it.
type RestTimer struct {
	mu       sync.Mutex
	interval time.Duration

	remaining int
	active    bool
	cancel    chan struct{}
}

// NewRestTimer creates a timer with the production one-second tick.
func NewRestTimer() *RestTimer {
	return NewRestTimerInterval(time.Second)
}

// NewRestTimerInterval creates a timer with a custom tick interval. Tests
// use a short interval to avoid real one-second waits.
func NewRestTimerInterval(interval time.Duration) *RestTimer {
	return &RestTimer{interval: interval}
}

// Start begins a countdown of the given number of seconds, cancelling any
// countdown already running. The returned channel is closed when the rest
// is complete; a cancelled countdown never signals.
func (t *RestTimer) Start(seconds int) <-chan struct{} {
	done := make(chan struct{})

	t.mu.Lock()
	if t.cancel != nil {
		close(t.cancel)
	}
	cancel := make(chan struct{})
	t.cancel = cancel
	t.remaining = seconds
	t.active = seconds > 0
	t.mu.Unlock()

	if seconds <= 0 {
		close(done)
		return done
	}

	go t.run(cancel, done)
	return done
}

func (t *RestTimer) run(cancel, done chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-cancel:
			return
		case <-ticker.C:
			t.mu.Lock()
			if t.cancel != cancel {
				t.mu.Unlock()
				return
			}
			t.remaining--
			finished := t.remaining <= 0
			if finished {
				t.active = false
				t.cancel = nil
			}
			t.mu.Unlock()

			if finished {
				close(done)
				return
			}
		}
	}
}

// Stop resets the timer to inactive without signaling. Called on exercise
// change and workout end.
func (t *RestTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		close(t.cancel)
		t.cancel = nil
	}
	t.active = false
	t.remaining = 0
}

// Remaining returns the seconds left in the current countdown.
func (t *RestTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Active reports whether a countdown is running.
func (t *RestTimer) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}
