package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
)

// ReplaceSessionSets replaces all set rows for a session with the given
// snapshot. The client sends full snapshots on every save, so delete-then-
// insert keeps the stored sets exactly in sync with the latest write.
func (db *DB) ReplaceSessionSets(ctx context.Context, sessionID uuid.UUID, rows []models.SessionSetRow) (int64, error) {
	if _, err := db.Pool.Exec(ctx,
		`DELETE FROM session_sets WHERE session_id = $1`, sessionID); err != nil {
		return 0, fmt.Errorf("clearing session sets: %w", err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	query := `INSERT INTO session_sets (session_id, exercise_index, exercise_name, muscle_group,
		equipment, set_number, weight, reps, volume, form_score, notes, logged_at) VALUES `
	args := make([]any, 0, len(rows)*12)
	valueStrings := make([]string, 0, len(rows))

	for i, r := range rows {
		base := i * 12
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
			base+7, base+8, base+9, base+10, base+11, base+12,
		))
		args = append(args, sessionID, r.ExerciseIndex, r.ExerciseName, r.MuscleGroup,
			r.Equipment, r.SetNumber, r.Weight, r.Reps, r.Volume, r.FormScore, r.Notes, r.LoggedAt)
	}

	query += strings.Join(valueStrings, ",") + " ON CONFLICT DO NOTHING"

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting session sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// QuerySessionSets retrieves all set rows for one session in logged order.
func (db *DB) QuerySessionSets(ctx context.Context, sessionID uuid.UUID) ([]models.SessionSetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT session_id, exercise_index, exercise_name, muscle_group, equipment,
		 set_number, weight, reps, volume, form_score, notes, logged_at
		 FROM session_sets
		 WHERE session_id = $1
		 ORDER BY exercise_index ASC, set_number ASC`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying session sets: %w", err)
	}
	defer rows.Close()

	var result []models.SessionSetRow
	for rows.Next() {
		var r models.SessionSetRow
		if err := rows.Scan(&r.SessionID, &r.ExerciseIndex, &r.ExerciseName, &r.MuscleGroup,
			&r.Equipment, &r.SetNumber, &r.Weight, &r.Reps, &r.Volume,
			&r.FormScore, &r.Notes, &r.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning session set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// QueryExerciseSets retrieves set rows for one exercise across sessions in a
// time range, oldest first. Feeds per-exercise progression views.
func (db *DB) QueryExerciseSets(ctx context.Context, exercise string, start, end time.Time, userID int) ([]models.SessionSetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT ss.session_id, ss.exercise_index, ss.exercise_name, ss.muscle_group,
		 ss.equipment, ss.set_number, ss.weight, ss.reps, ss.volume,
		 ss.form_score, ss.notes, ss.logged_at
		 FROM session_sets ss
		 JOIN workout_sessions ws ON ws.id = ss.session_id
		 WHERE ss.exercise_name ILIKE '%' || $1 || '%' AND ss.set_number > 0
		   AND ws.start_time >= $2 AND ws.start_time < $3 AND ws.user_id = $4
		 ORDER BY ss.logged_at ASC`,
		exercise, start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise sets: %w", err)
	}
	defer rows.Close()

	var result []models.SessionSetRow
	for rows.Next() {
		var r models.SessionSetRow
		if err := rows.Scan(&r.SessionID, &r.ExerciseIndex, &r.ExerciseName, &r.MuscleGroup,
			&r.Equipment, &r.SetNumber, &r.Weight, &r.Reps, &r.Volume,
			&r.FormScore, &r.Notes, &r.LoggedAt); err != nil {
			return nil, fmt.Errorf("scanning exercise set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
