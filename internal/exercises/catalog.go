// Package exercises holds the static exercise catalog: names, muscle groups,
// equipment options, and per-exercise rest policy. The catalog backs the
// /api/v1/exercises endpoints and the rest timer's lookup table.
package exercises

import "strings"

// Exercise describes one catalog entry.
type Exercise struct {
	Name        string   `json:"name"`
	MuscleGroup string   `json:"muscleGroup"`
	Equipment   []string `json:"equipment"`
	RestSeconds int      `json:"restSeconds"`
	Compound    bool     `json:"compound"`
}

// Rest defaults for exercises not in the catalog (or without an explicit
// rest policy): compound movements get the longer default.
const (
	DefaultRestSeconds         = 60
	DefaultCompoundRestSeconds = 90
)

var catalog = []Exercise{
	{Name: "Barbell Squat", MuscleGroup: "Legs", Equipment: []string{"Barbell"}, RestSeconds: 180, Compound: true},
	{Name: "Front Squat", MuscleGroup: "Legs", Equipment: []string{"Barbell"}, RestSeconds: 150, Compound: true},
	{Name: "Leg Press", MuscleGroup: "Legs", Equipment: []string{"Machine"}, RestSeconds: 120, Compound: true},
	{Name: "Romanian Deadlift", MuscleGroup: "Legs", Equipment: []string{"Barbell", "Dumbbell"}, RestSeconds: 150, Compound: true},
	{Name: "Leg Curl", MuscleGroup: "Legs", Equipment: []string{"Machine"}, RestSeconds: 60},
	{Name: "Leg Extension", MuscleGroup: "Legs", Equipment: []string{"Machine"}, RestSeconds: 60},
	{Name: "Calf Raise", MuscleGroup: "Legs", Equipment: []string{"Machine", "Bodyweight"}, RestSeconds: 45},
	{Name: "Walking Lunge", MuscleGroup: "Legs", Equipment: []string{"Dumbbell", "Bodyweight"}, RestSeconds: 90, Compound: true},

	{Name: "Deadlift", MuscleGroup: "Back", Equipment: []string{"Barbell"}, RestSeconds: 180, Compound: true},
	{Name: "Pull-Up", MuscleGroup: "Back", Equipment: []string{"Bodyweight"}, RestSeconds: 120, Compound: true},
	{Name: "Barbell Row", MuscleGroup: "Back", Equipment: []string{"Barbell"}, RestSeconds: 120, Compound: true},
	{Name: "Dumbbell Row", MuscleGroup: "Back", Equipment: []string{"Dumbbell"}, RestSeconds: 90, Compound: true},
	{Name: "Lat Pulldown", MuscleGroup: "Back", Equipment: []string{"Cable"}, RestSeconds: 90},
	{Name: "Seated Cable Row", MuscleGroup: "Back", Equipment: []string{"Cable"}, RestSeconds: 90},
	{Name: "Face Pull", MuscleGroup: "Back", Equipment: []string{"Cable"}, RestSeconds: 45},

	{Name: "Bench Press", MuscleGroup: "Chest", Equipment: []string{"Barbell", "Dumbbell"}, RestSeconds: 150, Compound: true},
	{Name: "Incline Bench Press", MuscleGroup: "Chest", Equipment: []string{"Barbell", "Dumbbell"}, RestSeconds: 120, Compound: true},
	{Name: "Dumbbell Fly", MuscleGroup: "Chest", Equipment: []string{"Dumbbell", "Cable"}, RestSeconds: 60},
	{Name: "Push-Up", MuscleGroup: "Chest", Equipment: []string{"Bodyweight"}, RestSeconds: 60, Compound: true},
	{Name: "Cable Crossover", MuscleGroup: "Chest", Equipment: []string{"Cable"}, RestSeconds: 60},
	{Name: "Dip", MuscleGroup: "Chest", Equipment: []string{"Bodyweight"}, RestSeconds: 90, Compound: true},

	{Name: "Overhead Press", MuscleGroup: "Shoulders", Equipment: []string{"Barbell", "Dumbbell"}, RestSeconds: 120, Compound: true},
	{Name: "Lateral Raise", MuscleGroup: "Shoulders", Equipment: []string{"Dumbbell", "Cable"}, RestSeconds: 45},
	{Name: "Front Raise", MuscleGroup: "Shoulders", Equipment: []string{"Dumbbell"}, RestSeconds: 45},
	{Name: "Rear Delt Fly", MuscleGroup: "Shoulders", Equipment: []string{"Dumbbell", "Machine"}, RestSeconds: 45},
	{Name: "Arnold Press", MuscleGroup: "Shoulders", Equipment: []string{"Dumbbell"}, RestSeconds: 90, Compound: true},

	{Name: "Barbell Curl", MuscleGroup: "Arms", Equipment: []string{"Barbell"}, RestSeconds: 60},
	{Name: "Dumbbell Curl", MuscleGroup: "Arms", Equipment: []string{"Dumbbell"}, RestSeconds: 45},
	{Name: "Hammer Curl", MuscleGroup: "Arms", Equipment: []string{"Dumbbell"}, RestSeconds: 45},
	{Name: "Tricep Pushdown", MuscleGroup: "Arms", Equipment: []string{"Cable"}, RestSeconds: 45},
	{Name: "Skull Crusher", MuscleGroup: "Arms", Equipment: []string{"Barbell", "Dumbbell"}, RestSeconds: 60},
	{Name: "Close-Grip Bench Press", MuscleGroup: "Arms", Equipment: []string{"Barbell"}, RestSeconds: 120, Compound: true},

	{Name: "Plank", MuscleGroup: "Core", Equipment: []string{"Bodyweight"}, RestSeconds: 45},
	{Name: "Hanging Leg Raise", MuscleGroup: "Core", Equipment: []string{"Bodyweight"}, RestSeconds: 45},
	{Name: "Cable Crunch", MuscleGroup: "Core", Equipment: []string{"Cable"}, RestSeconds: 45},
	{Name: "Russian Twist", MuscleGroup: "Core", Equipment: []string{"Bodyweight", "Dumbbell"}, RestSeconds: 45},
}

// index maps lowercased name -> catalog entry.
var index = func() map[string]*Exercise {
	m := make(map[string]*Exercise, len(catalog))
	for i := range catalog {
		m[strings.ToLower(catalog[i].Name)] = &catalog[i]
	}
	return m
}()

// All returns the full catalog in canonical order.
func All() []Exercise {
	out := make([]Exercise, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds an exercise by name (case-insensitive). The second return
// value reports whether the exercise is in the catalog.
func Lookup(name string) (Exercise, bool) {
	e, ok := index[strings.ToLower(name)]
	if !ok {
		return Exercise{}, false
	}
	return *e, true
}

// ByMuscleGroup returns catalog entries for one muscle group (case-insensitive).
func ByMuscleGroup(group string) []Exercise {
	var out []Exercise
	for _, e := range catalog {
		if strings.EqualFold(e.MuscleGroup, group) {
			out = append(out, e)
		}
	}
	return out
}

// MuscleGroup returns the muscle group for a named exercise, or "Other" when
// the exercise is not in the catalog.
func MuscleGroup(name string) string {
	if e, ok := Lookup(name); ok {
		return e.MuscleGroup
	}
	return "Other"
}

// RestSeconds returns the rest policy for a named exercise. Unknown exercises
// fall back to the compound default when the chosen equipment suggests a
// compound barbell movement, otherwise the standard default.
func RestSeconds(name, equipment string) int {
	if e, ok := Lookup(name); ok && e.RestSeconds > 0 {
		return e.RestSeconds
	}
	if strings.EqualFold(equipment, "Barbell") {
		return DefaultCompoundRestSeconds
	}
	return DefaultRestSeconds
}
