package models

import "time"

// SessionPayload is the wire format for creating or updating a session over
// the REST API. Updates are partial: the server treats the payload as the
// latest full snapshot of the session (last write wins per record).
type SessionPayload struct {
	WorkoutType      string            `json:"workoutType"`
	StartTime        time.Time         `json:"startTime"`
	CompletionStatus SessionStatus     `json:"completionStatus"`
	CurrentExercise  int               `json:"currentExercise"`
	Exercises        []WorkoutExercise `json:"exercises"`
	TotalVolume      float64           `json:"totalVolume"`
	TotalDurationSec *float64          `json:"totalDuration,omitempty"`
	CaloriesBurned   *float64          `json:"caloriesBurned,omitempty"`
	EndTime          *time.Time        `json:"endTime,omitempty"`
}

// Payload converts a session snapshot to its wire representation.
func (s *WorkoutSession) Payload() SessionPayload {
	p := SessionPayload{
		WorkoutType:      s.Name,
		StartTime:        s.StartTime,
		CompletionStatus: s.Status,
		CurrentExercise:  s.CurrentExercise,
		Exercises:        s.Exercises,
		TotalVolume:      s.TotalVolume,
		EndTime:          s.EndTime,
	}
	if s.TotalVolume > 0 {
		cal := s.Calories
		p.CaloriesBurned = &cal
	}
	if s.EndTime != nil {
		dur := s.EndTime.Sub(s.StartTime).Seconds()
		if dur < 0 {
			dur = 0
		}
		p.TotalDurationSec = &dur
	}
	return p
}
