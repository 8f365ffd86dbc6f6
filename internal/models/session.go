package models

import (
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a workout session. A session never
// moves back from completed; resuming reconstructs a fresh in-progress
// session from persisted data.
type SessionStatus string

const (
	StatusInProgress SessionStatus = "in_progress"
	StatusCompleted  SessionStatus = "completed"
)

// CaloriesPerVolumeUnit is the fixed heuristic used to estimate calories
// burned from total lifted volume (weight x reps). Not configurable.
const CaloriesPerVolumeUnit = 0.1

// ExercisePlan is the caller-supplied description of one exercise to include
// when starting a workout.
type ExercisePlan struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	Equipment   string `json:"equipment,omitempty"`
}

// SetRecord is one logged performance unit within an exercise. Append-only:
// sets are never edited in place, only appended or removed outright.
type SetRecord struct {
	Number    int       `json:"setNumber"`
	Weight    float64   `json:"weight"`
	Reps      int       `json:"reps"`
	Volume    float64   `json:"volume"`
	Equipment string    `json:"equipment,omitempty"`
	FormScore *int      `json:"formScore,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	LoggedAt  time.Time `json:"timestamp"`
}

// WorkoutExercise is one exercise within a session: immutable identity,
// mutable set list.
type WorkoutExercise struct {
	Name        string      `json:"exerciseName"`
	MuscleGroup string      `json:"muscleGroup,omitempty"`
	Equipment   string      `json:"equipment,omitempty"`
	RestSeconds int         `json:"restSeconds,omitempty"`
	Sets        []SetRecord `json:"sets"`
}

// WorkoutSession is one in-progress or completed workout instance.
// CurrentExercise is a cursor into Exercises; a value equal to
// len(Exercises) signals that every exercise has been completed.
type WorkoutSession struct {
	ID              uuid.UUID         `json:"id"`
	UserID          int               `json:"userId"`
	Name            string            `json:"workoutType"`
	Status          SessionStatus     `json:"completionStatus"`
	StartTime       time.Time         `json:"startTime"`
	EndTime         *time.Time        `json:"endTime,omitempty"`
	CurrentExercise int               `json:"currentExercise"`
	Exercises       []WorkoutExercise `json:"exercises"`
	TotalVolume     float64           `json:"totalVolume"`
	Calories        float64           `json:"caloriesBurned"`
}

// TotalSets counts logged sets across all exercises.
func (s *WorkoutSession) TotalSets() int {
	n := 0
	for _, ex := range s.Exercises {
		n += len(ex.Sets)
	}
	return n
}

// Clone returns a deep copy of the session so callers can hand out snapshots
// without exposing internal slices to mutation.
func (s *WorkoutSession) Clone() *WorkoutSession {
	out := *s
	out.Exercises = make([]WorkoutExercise, len(s.Exercises))
	for i, ex := range s.Exercises {
		out.Exercises[i] = ex
		out.Exercises[i].Sets = make([]SetRecord, len(ex.Sets))
		copy(out.Exercises[i].Sets, ex.Sets)
	}
	if s.EndTime != nil {
		end := *s.EndTime
		out.EndTime = &end
	}
	return &out
}
