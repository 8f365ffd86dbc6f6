package mcp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
	"github.com/meltforce/fitforge/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.SessionRow, error)
	GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutSession, error)
	GetActiveSession(ctx context.Context, userID int) (*models.WorkoutSession, error)
	QueryExerciseSets(ctx context.Context, exercise string, start, end time.Time, userID int) ([]models.SessionSetRow, error)
	GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]storage.VolumeSummaryPeriod, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
