package session

import (
	"errors"
	"strconv"
	"strings"
)

// Validation errors surfaced to the user by the set-input boundary. None of
// these ever reach the store; a rejected form leaves the session untouched.
var (
	ErrWeightNotNumeric = errors.New("weight must be a number")
	ErrWeightNegative   = errors.New("weight cannot be negative")
	ErrRepsNotNumeric   = errors.New("reps must be a whole number")
	ErrRepsNotPositive  = errors.New("reps must be greater than zero")
	ErrFormScoreRange   = errors.New("form score must be between 1 and 10")
)

// SetEntry is a validated set ready for the store.
type SetEntry struct {
	Weight    float64
	Reps      int
	Equipment string
	FormScore *int
	Notes     string
}

// SetForm gatekeeps raw user input before it reaches the store. Exercise and
// equipment selections are sticky across sets; the per-set fields (weight,
// reps, form score, notes) are cleared after each accepted set so consecutive
// sets of the same exercise need no re-selection.
type SetForm struct {
	Exercise  string
	Equipment string

	Weight    string
	Reps      string
	FormScore string
	Notes     string
}

// Validate parses the form into a SetEntry. The first violation found is
// returned as a user-facing error.
func (f *SetForm) Validate() (SetEntry, error) {
	weight, err := strconv.ParseFloat(strings.TrimSpace(f.Weight), 64)
	if err != nil {
		return SetEntry{}, ErrWeightNotNumeric
	}
	if weight < 0 {
		return SetEntry{}, ErrWeightNegative
	}

	reps, err := strconv.Atoi(strings.TrimSpace(f.Reps))
	if err != nil {
		return SetEntry{}, ErrRepsNotNumeric
	}
	if reps <= 0 {
		return SetEntry{}, ErrRepsNotPositive
	}

	entry := SetEntry{
		Weight:    weight,
		Reps:      reps,
		Equipment: f.Equipment,
		Notes:     strings.TrimSpace(f.Notes),
	}

	if fs := strings.TrimSpace(f.FormScore); fs != "" {
		score, err := strconv.Atoi(fs)
		if err != nil || score < 1 || score > 10 {
			return SetEntry{}, ErrFormScoreRange
		}
		entry.FormScore = &score
	}

	return entry, nil
}

// Submit validates the form and, on acceptance, logs the set and clears the
// transient fields. On rejection the store is not called and the form keeps
// its values so the user can correct them.
func (f *SetForm) Submit(store *Store) error {
	entry, err := f.Validate()
	if err != nil {
		return err
	}
	store.LogSetDetail(entry)
	f.clearTransient()
	return nil
}

func (f *SetForm) clearTransient() {
	f.Weight = ""
	f.Reps = ""
	f.FormScore = ""
	f.Notes = ""
}
