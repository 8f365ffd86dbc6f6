package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/meltforce/fitforge/internal/models"
)

// InsertSession creates a workout session row and returns its id.
func (db *DB) InsertSession(ctx context.Context, row models.SessionRow) (uuid.UUID, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, name, status, start_time, end_time,
		 current_exercise, total_volume, calories, duration_sec)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		row.ID, row.UserID, row.Name, row.Status, row.StartTime, row.EndTime,
		row.CurrentExercise, row.TotalVolume, row.Calories, row.DurationSec)
	if err != nil {
		return uuid.Nil, fmt.Errorf("inserting session: %w", err)
	}
	return row.ID, nil
}

// UpdateSession overwrites a session row with the latest snapshot.
// Last write wins; the client does not sequence its saves.
func (db *DB) UpdateSession(ctx context.Context, row models.SessionRow) error {
	tag, err := db.Pool.Exec(ctx,
		`UPDATE workout_sessions
		 SET name = $3, status = $4, start_time = $5, end_time = $6,
		     current_exercise = $7, total_volume = $8, calories = $9,
		     duration_sec = $10, updated_at = NOW()
		 WHERE id = $1 AND user_id = $2`,
		row.ID, row.UserID, row.Name, row.Status, row.StartTime, row.EndTime,
		row.CurrentExercise, row.TotalVolume, row.Calories, row.DurationSec)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetActiveSession retrieves the user's in-progress session with all its
// sets, or (nil, nil) when there is none. At most one session per user is
// in_progress at a time; the most recently started wins if the invariant is
// ever violated by concurrent writers.
func (db *DB) GetActiveSession(ctx context.Context, userID int) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, status, start_time, end_time, current_exercise,
		 total_volume, calories, duration_sec
		 FROM workout_sessions
		 WHERE user_id = $1 AND status = 'in_progress'
		 ORDER BY start_time DESC
		 LIMIT 1`,
		userID)

	sr, err := scanSessionRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying active session: %w", err)
	}
	return db.assembleSession(ctx, sr)
}

// GetSession retrieves a single session by id with all its sets.
func (db *DB) GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutSession, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, name, status, start_time, end_time, current_exercise,
		 total_volume, calories, duration_sec
		 FROM workout_sessions
		 WHERE id = $1 AND user_id = $2`,
		id, userID)

	sr, err := scanSessionRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return db.assembleSession(ctx, sr)
}

// QuerySessions retrieves session summaries (no sets) in a time range.
func (db *DB) QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.SessionRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, name, status, start_time, end_time, current_exercise,
		 total_volume, calories, duration_sec
		 FROM workout_sessions
		 WHERE start_time >= $1 AND start_time < $2 AND user_id = $3
		 ORDER BY start_time DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SessionRow
	for rows.Next() {
		sr, err := scanSessionRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, sr)
	}
	return result, rows.Err()
}

// DeleteSession removes a session and its sets (abandon flow).
func (db *DB) DeleteSession(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM workout_sessions WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// assembleSession groups a session's set rows back into ordered exercises.
func (db *DB) assembleSession(ctx context.Context, sr models.SessionRow) (*models.WorkoutSession, error) {
	setRows, err := db.QuerySessionSets(ctx, sr.ID)
	if err != nil {
		return nil, err
	}

	ws := &models.WorkoutSession{
		ID:              sr.ID,
		UserID:          sr.UserID,
		Name:            sr.Name,
		Status:          sr.Status,
		StartTime:       sr.StartTime,
		EndTime:         sr.EndTime,
		CurrentExercise: sr.CurrentExercise,
		TotalVolume:     sr.TotalVolume,
		Calories:        sr.Calories,
	}

	for _, r := range setRows {
		for len(ws.Exercises) <= r.ExerciseIndex {
			ws.Exercises = append(ws.Exercises, models.WorkoutExercise{})
		}
		ex := &ws.Exercises[r.ExerciseIndex]
		if ex.Name == "" {
			ex.Name = r.ExerciseName
			ex.MuscleGroup = r.MuscleGroup
			ex.Equipment = r.Equipment
		}
		// set_number 0 is a plan marker for an exercise with no logged sets
		if r.SetNumber == 0 {
			continue
		}
		ex.Sets = append(ex.Sets, models.SetRecord{
			Number:    r.SetNumber,
			Weight:    r.Weight,
			Reps:      r.Reps,
			Volume:    r.Volume,
			Equipment: r.Equipment,
			FormScore: r.FormScore,
			Notes:     r.Notes,
			LoggedAt:  r.LoggedAt,
		})
	}

	// Clamp the cursor so it stays a valid index (or one past the end).
	if ws.CurrentExercise > len(ws.Exercises) {
		ws.CurrentExercise = len(ws.Exercises)
	}

	return ws, nil
}

func scanSessionRow(row pgx.Row) (models.SessionRow, error) {
	var sr models.SessionRow
	err := row.Scan(&sr.ID, &sr.UserID, &sr.Name, &sr.Status, &sr.StartTime, &sr.EndTime,
		&sr.CurrentExercise, &sr.TotalVolume, &sr.Calories, &sr.DurationSec)
	return sr, err
}
