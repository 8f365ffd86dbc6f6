// Package session implements the live workout session engine: an injectable
// store owning the single in-progress workout, the set-input boundary that
// gatekeeps user-entered values, the advisory rest timer, and startup
// conflict resolution against the persistence layer.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/exercises"
	"github.com/meltforce/fitforge/internal/models"
	"github.com/meltforce/fitforge/internal/timeutil"
)

// saveTimeout bounds each fire-and-forget save request.
const saveTimeout = 30 * time.Second

// Store owns the active workout session for one user. It is the single
// source of truth for the workout happening right now: local state is
// authoritative and optimistic, remote saves are best-effort.
//
// All operations are safe for concurrent use. The store hands out deep-copy
// snapshots; callers never observe internal mutation.
type Store struct {
	mu      sync.Mutex
	userID  int
	persist Persistence
	log     *slog.Logger

	cur      *models.WorkoutSession
	remoteID uuid.UUID // zero until the remote create acks
	gen      uint64    // bumped on each StartWorkout, guards stale create acks
}

// NewStore creates an empty (idle) store for the given user.
func NewStore(userID int, persist Persistence, log *slog.Logger) *Store {
	if persist == nil {
		persist = NopPersistence{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{userID: userID, persist: persist, log: log}
}

// Resume reconstructs an in-progress store from a previously persisted
// session. The rebuilt session is always in_progress regardless of how the
// remote record was left; completed sessions are never resumed.
func Resume(remote *models.WorkoutSession, persist Persistence, log *slog.Logger) *Store {
	s := NewStore(remote.UserID, persist, log)
	cur := remote.Clone()
	cur.Status = models.StatusInProgress
	cur.EndTime = nil
	// Rest recommendations are catalog-derived and not persisted.
	for i := range cur.Exercises {
		if cur.Exercises[i].RestSeconds == 0 {
			cur.Exercises[i].RestSeconds = exercises.RestSeconds(cur.Exercises[i].Name, cur.Exercises[i].Equipment)
		}
	}
	if cur.CurrentExercise < 0 {
		cur.CurrentExercise = 0
	}
	if cur.CurrentExercise > len(cur.Exercises) {
		cur.CurrentExercise = len(cur.Exercises)
	}
	recomputeTotals(cur)
	s.cur = cur
	s.remoteID = remote.ID
	return s
}

// StartWorkout initializes a new in-progress session with the cursor at the
// first exercise and zero totals. An empty exercise list is a silent no-op.
// Any session already active is replaced outright; callers resolve conflicts
// via CheckConflict before starting.
func (s *Store) StartWorkout(name string, plans []models.ExercisePlan) *models.WorkoutSession {
	if len(plans) == 0 {
		return nil
	}

	exs := make([]models.WorkoutExercise, len(plans))
	for i, p := range plans {
		ex := models.WorkoutExercise{
			Name:        p.Name,
			MuscleGroup: p.MuscleGroup,
			Equipment:   p.Equipment,
			RestSeconds: exercises.RestSeconds(p.Name, p.Equipment),
		}
		if ex.MuscleGroup == "" {
			ex.MuscleGroup = exercises.MuscleGroup(p.Name)
		}
		exs[i] = ex
	}

	s.mu.Lock()
	s.cur = &models.WorkoutSession{
		ID:        uuid.New(),
		UserID:    s.userID,
		Name:      name,
		Status:    models.StatusInProgress,
		StartTime: time.Now(),
		Exercises: exs,
	}
	s.remoteID = uuid.Nil
	s.gen++
	gen := s.gen
	snap := s.cur.Clone()
	s.mu.Unlock()

	go s.createRemote(gen, snap)
	return snap
}

// LogSet appends a set to the exercise at the current cursor, recomputes
// running totals, and fires an asynchronous save. Input validation happens
// at the SetForm boundary; the store only guards its own invariants, so an
// out-of-range value or an idle/completed session leaves state untouched.
func (s *Store) LogSet(weight float64, reps int, equipment string) *models.WorkoutSession {
	return s.LogSetDetail(SetEntry{Weight: weight, Reps: reps, Equipment: equipment})
}

// LogSetDetail is LogSet with the optional form score and notes attached.
func (s *Store) LogSetDetail(entry SetEntry) *models.WorkoutSession {
	s.mu.Lock()

	cur := s.cur
	if cur == nil || cur.Status != models.StatusInProgress ||
		cur.CurrentExercise >= len(cur.Exercises) ||
		entry.Weight < 0 || entry.Reps <= 0 {
		var snap *models.WorkoutSession
		if cur != nil {
			snap = cur.Clone()
		}
		s.mu.Unlock()
		return snap
	}

	ex := &cur.Exercises[cur.CurrentExercise]
	rec := models.SetRecord{
		Number:    len(ex.Sets) + 1,
		Weight:    entry.Weight,
		Reps:      entry.Reps,
		Volume:    entry.Weight * float64(entry.Reps),
		Equipment: entry.Equipment,
		FormScore: entry.FormScore,
		Notes:     entry.Notes,
		LoggedAt:  time.Now(),
	}
	ex.Sets = append(ex.Sets, rec)
	cur.TotalVolume += rec.Volume
	cur.Calories = cur.TotalVolume * models.CaloriesPerVolumeUnit

	snap := cur.Clone()
	s.mu.Unlock()

	s.saveAsync(snap)
	return snap
}

// RemoveSet deletes one logged set and renumbers the remaining sets of that
// exercise so set numbers stay sequential with no gaps. Totals are
// recomputed from scratch.
func (s *Store) RemoveSet(exerciseIdx, setNumber int) *models.WorkoutSession {
	s.mu.Lock()

	cur := s.cur
	if cur == nil || exerciseIdx < 0 || exerciseIdx >= len(cur.Exercises) {
		var snap *models.WorkoutSession
		if cur != nil {
			snap = cur.Clone()
		}
		s.mu.Unlock()
		return snap
	}

	ex := &cur.Exercises[exerciseIdx]
	removed := false
	kept := ex.Sets[:0]
	for _, set := range ex.Sets {
		if !removed && set.Number == setNumber {
			removed = true
			continue
		}
		kept = append(kept, set)
	}
	if !removed {
		snap := cur.Clone()
		s.mu.Unlock()
		return snap
	}
	for i := range kept {
		kept[i].Number = i + 1
	}
	ex.Sets = kept
	recomputeTotals(cur)

	snap := cur.Clone()
	s.mu.Unlock()

	s.saveAsync(snap)
	return snap
}

// CompleteExercise advances the cursor by one. Reaching one past the last
// exercise transitions the session to completed and records the end time.
func (s *Store) CompleteExercise() *models.WorkoutSession {
	s.mu.Lock()

	cur := s.cur
	if cur == nil || cur.Status != models.StatusInProgress {
		var snap *models.WorkoutSession
		if cur != nil {
			snap = cur.Clone()
		}
		s.mu.Unlock()
		return snap
	}

	if cur.CurrentExercise < len(cur.Exercises) {
		cur.CurrentExercise++
	}
	final := cur.CurrentExercise >= len(cur.Exercises)
	if final {
		s.completeLocked()
	}

	snap := cur.Clone()
	s.mu.Unlock()

	if final {
		s.finalSaveAsync(snap)
	} else {
		s.saveAsync(snap)
	}
	return snap
}

// NextExercise moves the cursor forward without completing the session.
// Out-of-range requests clamp to the last exercise.
func (s *Store) NextExercise() *models.WorkoutSession {
	return s.moveCursor(1)
}

// PrevExercise moves the cursor back, clamping at the first exercise.
func (s *Store) PrevExercise() *models.WorkoutSession {
	return s.moveCursor(-1)
}

func (s *Store) moveCursor(delta int) *models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.cur
	if cur == nil {
		return nil
	}
	if cur.Status == models.StatusInProgress && len(cur.Exercises) > 0 {
		idx := cur.CurrentExercise + delta
		if idx < 0 {
			idx = 0
		}
		if idx > len(cur.Exercises)-1 {
			idx = len(cur.Exercises) - 1
		}
		cur.CurrentExercise = idx
	}
	return cur.Clone()
}

// EndWorkout force-completes the session regardless of cursor position
// (user-initiated early stop).
func (s *Store) EndWorkout() *models.WorkoutSession {
	s.mu.Lock()

	cur := s.cur
	if cur == nil || cur.Status != models.StatusInProgress {
		var snap *models.WorkoutSession
		if cur != nil {
			snap = cur.Clone()
		}
		s.mu.Unlock()
		return snap
	}

	s.completeLocked()
	snap := cur.Clone()
	s.mu.Unlock()

	s.finalSaveAsync(snap)
	return snap
}

// completeLocked transitions the current session to completed. Caller holds mu.
func (s *Store) completeLocked() {
	now := time.Now()
	s.cur.Status = models.StatusCompleted
	s.cur.EndTime = &now
	recomputeTotals(s.cur)
}

// Clear drops the local session (completion acknowledged or abandoned).
// The remote record is untouched.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = nil
	s.remoteID = uuid.Nil
	s.gen++
}

// Snapshot returns a deep copy of the current session, or nil when idle.
func (s *Store) Snapshot() *models.WorkoutSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return nil
	}
	return s.cur.Clone()
}

// RemoteID returns the persistence layer's id for the current session, or
// uuid.Nil while the create is unacked (or the store is idle). Callers use it
// to tell whether the session ever reached the server.
func (s *Store) RemoteID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remoteID
}

// Active reports whether a session is currently in progress.
func (s *Store) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur != nil && s.cur.Status == models.StatusInProgress
}

// Stats holds the derived summary of a session.
type Stats struct {
	TotalVolume float64       `json:"totalVolume"`
	TotalSets   int           `json:"totalSets"`
	Calories    float64       `json:"caloriesBurned"`
	Duration    time.Duration `json:"duration"`
}

// SessionStats computes derived totals for the current session: total
// volume, total sets, estimated calories, and duration (running while in
// progress, fixed once completed). Zero stats when idle.
func (s *Store) SessionStats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.cur
	if cur == nil {
		return Stats{}
	}

	st := Stats{
		TotalVolume: cur.TotalVolume,
		TotalSets:   cur.TotalSets(),
		Calories:    cur.Calories,
	}
	if cur.EndTime != nil {
		st.Duration = timeutil.SafeDuration(cur.StartTime, *cur.EndTime)
	} else {
		st.Duration = timeutil.SafeSince(cur.StartTime)
	}
	return st
}

// recomputeTotals rebuilds volume and calorie totals from the logged sets.
func recomputeTotals(ws *models.WorkoutSession) {
	total := 0.0
	for _, ex := range ws.Exercises {
		for _, set := range ex.Sets {
			total += set.Volume
		}
	}
	ws.TotalVolume = total
	ws.Calories = total * models.CaloriesPerVolumeUnit
}

// createRemote performs the initial remote create for a freshly started
// session and records the returned id for subsequent updates. A stale ack
// (the session was replaced meanwhile) is discarded.
func (s *Store) createRemote(gen uint64, snap *models.WorkoutSession) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	id, err := s.persist.CreateSession(ctx, s.userID, snap.Payload())
	if err != nil {
		s.log.Warn("session create failed, logging continues locally", "error", err)
		return
	}

	s.mu.Lock()
	if s.gen == gen {
		s.remoteID = id
	}
	s.mu.Unlock()
}

// saveAsync fires one best-effort remote update carrying the full snapshot.
// Saves issued before the remote create acks are skipped; the next save
// after the id arrives carries the complete state anyway.
func (s *Store) saveAsync(snap *models.WorkoutSession) {
	s.mu.Lock()
	id := s.remoteID
	s.mu.Unlock()

	if id == uuid.Nil {
		s.log.Debug("save skipped, session not yet created remotely")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.persist.UpdateSession(ctx, id, snap.Payload()); err != nil {
			s.log.Warn("session save failed, local state kept", "error", err)
		}
	}()
}

// finalSaveAsync issues the completion update. Failure is a non-fatal
// warning; the local completed state stands.
func (s *Store) finalSaveAsync(snap *models.WorkoutSession) {
	s.mu.Lock()
	id := s.remoteID
	s.mu.Unlock()

	if id == uuid.Nil {
		s.log.Warn("completion save skipped, session was never created remotely")
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		if err := s.persist.UpdateSession(ctx, id, snap.Payload()); err != nil {
			s.log.Warn("completion save failed, workout is recorded locally only", "error", err)
		}
	}()
}
