package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionRow is a row ready for upsert into the workout_sessions table.
type SessionRow struct {
	ID              uuid.UUID     `json:"id"`
	UserID          int           `json:"user_id"`
	Name            string        `json:"name"`
	Status          SessionStatus `json:"status"`
	StartTime       time.Time     `json:"start_time"`
	EndTime         *time.Time    `json:"end_time"`
	CurrentExercise int           `json:"current_exercise"`
	TotalVolume     float64       `json:"total_volume"`
	Calories        float64       `json:"calories"`
	DurationSec     float64       `json:"duration_sec"`
}

// SessionSetRow is a row for the session_sets table. Sets are stored
// flattened; the (ExerciseIndex, SetNumber) pair orders them within a session.
type SessionSetRow struct {
	SessionID     uuid.UUID `json:"session_id"`
	ExerciseIndex int       `json:"exercise_index"`
	ExerciseName  string    `json:"exercise_name"`
	MuscleGroup   string    `json:"muscle_group"`
	Equipment     string    `json:"equipment"`
	SetNumber     int       `json:"set_number"`
	Weight        float64   `json:"weight"`
	Reps          int       `json:"reps"`
	Volume        float64   `json:"volume"`
	FormScore     *int      `json:"form_score"`
	Notes         string    `json:"notes"`
	LoggedAt      time.Time `json:"logged_at"`
}
