package session

import (
	"errors"
	"testing"
)

// TestSetFormValidation exercises the input boundary's rejection rules.
func TestSetFormValidation(t *testing.T) {
	tests := []struct {
		name    string
		weight  string
		reps    string
		form    string
		wantErr error
	}{
		{"valid", "100", "10", "", nil},
		{"valid decimal weight", "62.5", "8", "", nil},
		{"valid with form score", "100", "10", "7", nil},
		{"zero weight bodyweight", "0", "15", "", nil},
		{"weight not numeric", "heavy", "10", "", ErrWeightNotNumeric},
		{"weight negative", "-20", "10", "", ErrWeightNegative},
		{"reps not numeric", "100", "ten", "", ErrRepsNotNumeric},
		{"reps zero", "100", "0", "", ErrRepsNotPositive},
		{"reps negative", "100", "-3", "", ErrRepsNotPositive},
		{"reps fractional", "100", "7.5", "", ErrRepsNotNumeric},
		{"form score too low", "100", "10", "0", ErrFormScoreRange},
		{"form score too high", "100", "10", "11", ErrFormScoreRange},
		{"form score not numeric", "100", "10", "great", ErrFormScoreRange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := SetForm{Weight: tt.weight, Reps: tt.reps, FormScore: tt.form}
			_, err := f.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestSetFormParsesFields verifies accepted values reach the entry intact.
func TestSetFormParsesFields(t *testing.T) {
	f := SetForm{
		Exercise:  "Bench Press",
		Equipment: "Barbell",
		Weight:    " 102.5 ",
		Reps:      "6",
		FormScore: "8",
		Notes:     "  paused reps ",
	}
	entry, err := f.Validate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if entry.Weight != 102.5 {
		t.Errorf("weight = %v, want 102.5", entry.Weight)
	}
	if entry.Reps != 6 {
		t.Errorf("reps = %d, want 6", entry.Reps)
	}
	if entry.FormScore == nil || *entry.FormScore != 8 {
		t.Errorf("form score = %v, want 8", entry.FormScore)
	}
	if entry.Notes != "paused reps" {
		t.Errorf("notes = %q, want trimmed", entry.Notes)
	}
	if entry.Equipment != "Barbell" {
		t.Errorf("equipment = %q, want Barbell", entry.Equipment)
	}
}

// TestSubmitRejectionDoesNotTouchStore verifies a rejected form never calls
// the store and keeps its values for correction.
func TestSubmitRejectionDoesNotTouchStore(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())
	before := s.Snapshot()

	f := SetForm{Exercise: "Barbell Squat", Equipment: "Barbell", Weight: "abc", Reps: "10"}
	if err := f.Submit(s); err == nil {
		t.Fatal("expected validation error")
	}

	after := s.Snapshot()
	if after.TotalSets() != before.TotalSets() {
		t.Error("rejected submit mutated the store")
	}
	if f.Weight != "abc" {
		t.Error("rejected form should keep its values")
	}
}

// TestSubmitClearsTransientKeepsSelection verifies accepted sets clear
// weight/reps/notes but keep exercise and equipment sticky.
func TestSubmitClearsTransientKeepsSelection(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())

	f := SetForm{
		Exercise:  "Barbell Squat",
		Equipment: "Barbell",
		Weight:    "100",
		Reps:      "10",
		FormScore: "9",
		Notes:     "felt strong",
	}
	if err := f.Submit(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Weight != "" || f.Reps != "" || f.FormScore != "" || f.Notes != "" {
		t.Errorf("transient fields not cleared: %+v", f)
	}
	if f.Exercise != "Barbell Squat" || f.Equipment != "Barbell" {
		t.Errorf("selection not preserved: %+v", f)
	}

	ws := s.Snapshot()
	if ws.TotalSets() != 1 {
		t.Fatalf("sets = %d, want 1", ws.TotalSets())
	}
	set := ws.Exercises[0].Sets[0]
	if set.FormScore == nil || *set.FormScore != 9 {
		t.Errorf("form score = %v, want 9", set.FormScore)
	}
	if set.Notes != "felt strong" {
		t.Errorf("notes = %q", set.Notes)
	}
}
