package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
)

// Persistence is the remote save contract the store depends on. Saves are
// fire-and-forget: the store never blocks a local mutation on a save, never
// rolls back local state when a save fails, and does not order or retry
// in-flight saves. The backend's last-write-wins update semantics provide
// eventual consistency.
//
// GetActiveSession returns (nil, nil) when the user has no in-progress
// session; an error means the check itself failed.
type Persistence interface {
	CreateSession(ctx context.Context, userID int, payload models.SessionPayload) (uuid.UUID, error)
	UpdateSession(ctx context.Context, id uuid.UUID, payload models.SessionPayload) error
	GetActiveSession(ctx context.Context, userID int) (*models.WorkoutSession, error)
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

// NopPersistence discards all saves. Used when logging offline and in tests.
type NopPersistence struct{}

func (NopPersistence) CreateSession(context.Context, int, models.SessionPayload) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (NopPersistence) UpdateSession(context.Context, uuid.UUID, models.SessionPayload) error {
	return nil
}

func (NopPersistence) GetActiveSession(context.Context, int) (*models.WorkoutSession, error) {
	return nil, nil
}

func (NopPersistence) DeleteSession(context.Context, uuid.UUID) error { return nil }
