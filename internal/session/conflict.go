package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
	"github.com/meltforce/fitforge/internal/timeutil"
)

// Conflict describes an in-progress session found on the persistence layer
// at startup. It exists only long enough to resolve the user's choice:
// resume, abandon and start new, or cancel.
type Conflict struct {
	SessionID     uuid.UUID
	WorkoutName   string
	StartTime     time.Time
	Elapsed       time.Duration // 0 ("recently") for invalid or future start times
	ExerciseCount int
	SetCount      int

	remote *models.WorkoutSession
}

// CheckConflict looks for an existing in-progress session for the user.
// Returns (nil, nil) when there is nothing to resume; an error only when the
// check itself failed, which callers may treat as "nothing to resume" too.
func CheckConflict(ctx context.Context, persist Persistence, userID int) (*Conflict, error) {
	remote, err := persist.GetActiveSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("checking for active session: %w", err)
	}
	if remote == nil || remote.Status != models.StatusInProgress {
		return nil, nil
	}

	return &Conflict{
		SessionID:     remote.ID,
		WorkoutName:   remote.Name,
		StartTime:     remote.StartTime,
		Elapsed:       timeutil.SafeSince(remote.StartTime),
		ExerciseCount: len(remote.Exercises),
		SetCount:      remote.TotalSets(),
		remote:        remote,
	}, nil
}

// Resume rehydrates a fresh in-progress store from the conflicting session's
// persisted data.
func (c *Conflict) Resume(persist Persistence, log *slog.Logger) *Store {
	return Resume(c.remote, persist, log)
}

// Abandon discards the remote record so the caller can start a new workout.
// The abandoned session id is gone for good; the next StartWorkout produces
// a session with a different id and the cursor reset to the first exercise.
func (c *Conflict) Abandon(ctx context.Context, persist Persistence) error {
	if err := persist.DeleteSession(ctx, c.SessionID); err != nil {
		return fmt.Errorf("abandoning session %s: %w", c.SessionID, err)
	}
	return nil
}
