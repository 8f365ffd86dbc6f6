package session

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
)

// fakePersistence records calls so tests can observe the fire-and-forget
// save traffic without a real server.
type fakePersistence struct {
	mu       sync.Mutex
	created  []models.SessionPayload
	updates  []models.SessionPayload
	deleted  []uuid.UUID
	active   *models.WorkoutSession
	createID uuid.UUID
	failAll  bool
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{createID: uuid.New()}
}

func (f *fakePersistence) CreateSession(_ context.Context, _ int, p models.SessionPayload) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return uuid.Nil, context.DeadlineExceeded
	}
	f.created = append(f.created, p)
	return f.createID, nil
}

func (f *fakePersistence) UpdateSession(_ context.Context, _ uuid.UUID, p models.SessionPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return context.DeadlineExceeded
	}
	f.updates = append(f.updates, p)
	return nil
}

func (f *fakePersistence) GetActiveSession(context.Context, int) (*models.WorkoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active, nil
}

func (f *fakePersistence) DeleteSession(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePersistence) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.updates)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func legsPlan() []models.ExercisePlan {
	return []models.ExercisePlan{
		{Name: "Barbell Squat", Equipment: "Barbell"},
		{Name: "Leg Curl", Equipment: "Machine"},
	}
}

// waitForRemoteID blocks until the store has adopted the remote session id,
// so that subsequent saves are not skipped.
func waitForRemoteID(t *testing.T, s *Store) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		got := s.remoteID != uuid.Nil
		s.mu.Unlock()
		if got {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("store never adopted a remote session id")
}

// TestStartWorkoutEmptyList verifies that an empty exercise list is a
// silent no-op: no session is created.
func TestStartWorkoutEmptyList(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	if got := s.StartWorkout("Legs", nil); got != nil {
		t.Fatalf("StartWorkout(empty) = %+v, want nil", got)
	}
	if s.Snapshot() != nil {
		t.Error("store should remain idle after empty StartWorkout")
	}
}

// TestStartWorkoutInitialState verifies cursor, status, and totals of a
// fresh session.
func TestStartWorkoutInitialState(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	ws := s.StartWorkout("Legs", legsPlan())
	if ws == nil {
		t.Fatal("expected a session")
	}
	if ws.Status != models.StatusInProgress {
		t.Errorf("status = %q, want in_progress", ws.Status)
	}
	if ws.CurrentExercise != 0 {
		t.Errorf("cursor = %d, want 0", ws.CurrentExercise)
	}
	if ws.TotalVolume != 0 || ws.Calories != 0 {
		t.Errorf("totals = %v/%v, want zero", ws.TotalVolume, ws.Calories)
	}
	if len(ws.Exercises) != 2 {
		t.Fatalf("exercises = %d, want 2", len(ws.Exercises))
	}
	// Rest policy comes from the catalog
	if ws.Exercises[0].RestSeconds != 180 {
		t.Errorf("squat rest = %d, want 180", ws.Exercises[0].RestSeconds)
	}
	if ws.Exercises[0].MuscleGroup != "Legs" {
		t.Errorf("muscle group = %q, want Legs", ws.Exercises[0].MuscleGroup)
	}
}

// TestStartWorkoutReplacesActive verifies that starting over replaces the
// active session with a new id and a reset cursor, no merge.
func TestStartWorkoutReplacesActive(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	first := s.StartWorkout("Legs", legsPlan())
	s.LogSet(100, 10, "Barbell")
	s.CompleteExercise()

	second := s.StartWorkout("Push", []models.ExercisePlan{{Name: "Bench Press", Equipment: "Barbell"}})
	if second.ID == first.ID {
		t.Error("replacement session should have a new id")
	}
	if second.CurrentExercise != 0 {
		t.Errorf("cursor = %d, want 0", second.CurrentExercise)
	}
	if second.TotalVolume != 0 {
		t.Errorf("volume = %v, want 0 (no merge)", second.TotalVolume)
	}
}

// TestLogSetVolumeAccumulation verifies total volume equals the sum of
// weight*reps over any sequence of logged sets.
func TestLogSetVolumeAccumulation(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())

	sets := []struct {
		weight float64
		reps   int
	}{
		{100, 10}, {100, 8}, {60, 12}, {0, 15},
	}
	want := 0.0
	for _, set := range sets {
		s.LogSet(set.weight, set.reps, "Barbell")
		want += set.weight * float64(set.reps)
	}

	ws := s.Snapshot()
	if ws.TotalVolume != want {
		t.Errorf("total volume = %v, want %v", ws.TotalVolume, want)
	}
	if ws.Calories != want*models.CaloriesPerVolumeUnit {
		t.Errorf("calories = %v, want %v", ws.Calories, want*models.CaloriesPerVolumeUnit)
	}
	stats := s.SessionStats()
	if stats.TotalSets != len(sets) {
		t.Errorf("total sets = %d, want %d", stats.TotalSets, len(sets))
	}
}

// TestLogSetNumbering verifies 1-based sequential set numbers within an
// exercise.
func TestLogSetNumbering(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())
	for i := 0; i < 3; i++ {
		s.LogSet(80, 10, "Barbell")
	}

	ws := s.Snapshot()
	for i, set := range ws.Exercises[0].Sets {
		if set.Number != i+1 {
			t.Errorf("set[%d].Number = %d, want %d", i, set.Number, i+1)
		}
	}
}

// TestLogSetInvalidNeverMutates verifies that reps = 0 or weight < 0 leaves
// the session untouched even if a value slips past the input boundary.
func TestLogSetInvalidNeverMutates(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())
	s.LogSet(100, 10, "Barbell")
	before := s.Snapshot()

	s.LogSet(100, 0, "Barbell")
	s.LogSet(-5, 10, "Barbell")

	after := s.Snapshot()
	if after.TotalVolume != before.TotalVolume {
		t.Errorf("volume changed: %v -> %v", before.TotalVolume, after.TotalVolume)
	}
	if after.TotalSets() != before.TotalSets() {
		t.Errorf("set count changed: %d -> %d", before.TotalSets(), after.TotalSets())
	}
}

// TestLogSetIdleStore verifies logging against an idle store is a no-op.
func TestLogSetIdleStore(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	if got := s.LogSet(100, 10, "Barbell"); got != nil {
		t.Errorf("LogSet on idle store = %+v, want nil", got)
	}
}

// TestFullSessionScenario runs the reference flow: two exercises, three
// sets, completion. Volume 100*10 + 100*8 + 50*12 = 2400, three sets,
// completed status with a non-nil end time.
func TestFullSessionScenario(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", []models.ExercisePlan{
		{Name: "Barbell Squat", Equipment: "Barbell"},
		{Name: "Walking Lunge", Equipment: "Dumbbell"},
	})

	s.LogSet(100, 10, "Barbell")
	s.LogSet(100, 8, "Barbell")
	s.CompleteExercise()
	s.LogSet(50, 12, "Dumbbell")
	ws := s.CompleteExercise()

	if ws.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", ws.Status)
	}
	if ws.EndTime == nil {
		t.Error("end time not set on completion")
	}
	if ws.TotalVolume != 2400 {
		t.Errorf("total volume = %v, want 2400", ws.TotalVolume)
	}
	if got := s.SessionStats(); got.TotalSets != 3 {
		t.Errorf("total sets = %d, want 3", got.TotalSets)
	}
}

// TestCompleteExerciseExactCount verifies that exactly len(exercises) calls
// transition the session to completed, and that the cursor clamps there.
func TestCompleteExerciseExactCount(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	plan := legsPlan()
	s.StartWorkout("Legs", plan)

	for i := 0; i < len(plan)-1; i++ {
		ws := s.CompleteExercise()
		if ws.Status != models.StatusInProgress {
			t.Fatalf("completed after %d advances, want in_progress", i+1)
		}
	}
	ws := s.CompleteExercise()
	if ws.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", ws.Status)
	}
	if ws.CurrentExercise != len(plan) {
		t.Errorf("cursor = %d, want %d", ws.CurrentExercise, len(plan))
	}

	// Further calls are no-ops on a completed session.
	again := s.CompleteExercise()
	if again.CurrentExercise != len(plan) {
		t.Errorf("cursor moved after completion: %d", again.CurrentExercise)
	}
}

// TestCursorClamping verifies Next/Prev clamp to [0, len-1] instead of
// erroring.
func TestCursorClamping(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())

	if ws := s.PrevExercise(); ws.CurrentExercise != 0 {
		t.Errorf("Prev at 0: cursor = %d, want 0", ws.CurrentExercise)
	}
	s.NextExercise()
	if ws := s.NextExercise(); ws.CurrentExercise != 1 {
		t.Errorf("Next past end: cursor = %d, want 1", ws.CurrentExercise)
	}
	if ws := s.PrevExercise(); ws.CurrentExercise != 0 {
		t.Errorf("Prev: cursor = %d, want 0", ws.CurrentExercise)
	}
}

// TestEndWorkoutEarly verifies the user-initiated early stop completes the
// session regardless of cursor position.
func TestEndWorkoutEarly(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())
	s.LogSet(100, 5, "Barbell")

	ws := s.EndWorkout()
	if ws.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", ws.Status)
	}
	if ws.EndTime == nil {
		t.Error("end time not set")
	}
	if ws.CurrentExercise != 0 {
		t.Errorf("cursor = %d, early stop should not advance it", ws.CurrentExercise)
	}
}

// TestRemoveSetRenumbers verifies removal keeps set numbers sequential with
// no gaps and recomputes totals.
func TestRemoveSetRenumbers(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())
	s.LogSet(100, 10, "Barbell") // 1000
	s.LogSet(90, 10, "Barbell")  // 900
	s.LogSet(80, 10, "Barbell")  // 800

	ws := s.RemoveSet(0, 2)
	sets := ws.Exercises[0].Sets
	if len(sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(sets))
	}
	for i, set := range sets {
		if set.Number != i+1 {
			t.Errorf("set[%d].Number = %d, want %d", i, set.Number, i+1)
		}
	}
	if ws.TotalVolume != 1800 {
		t.Errorf("total volume = %v, want 1800", ws.TotalVolume)
	}

	// Removing a nonexistent set is a no-op.
	ws = s.RemoveSet(0, 99)
	if len(ws.Exercises[0].Sets) != 2 {
		t.Errorf("sets = %d after no-op removal, want 2", len(ws.Exercises[0].Sets))
	}
}

// TestSaveTrafficOptimistic verifies that saves flow to the persistence
// layer after the create acks, and that local state never depends on them.
func TestSaveTrafficOptimistic(t *testing.T) {
	fake := newFakePersistence()
	s := NewStore(1, fake, testLogger())
	s.StartWorkout("Legs", legsPlan())
	waitForRemoteID(t, s)

	s.LogSet(100, 10, "Barbell")
	s.LogSet(100, 8, "Barbell")

	deadline := time.Now().Add(2 * time.Second)
	for fake.updateCount() < 2 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := fake.updateCount(); got < 2 {
		t.Fatalf("updates = %d, want >= 2", got)
	}
}

// TestSaveFailureKeepsLocalState verifies a failing persistence layer never
// rolls back or blocks local logging.
func TestSaveFailureKeepsLocalState(t *testing.T) {
	fake := newFakePersistence()
	fake.failAll = true
	s := NewStore(1, fake, testLogger())

	s.StartWorkout("Legs", legsPlan())
	s.LogSet(100, 10, "Barbell")
	ws := s.EndWorkout()

	if ws.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed despite save failures", ws.Status)
	}
	if ws.TotalVolume != 1000 {
		t.Errorf("volume = %v, want 1000", ws.TotalVolume)
	}
}

// TestResumeRebuildsInProgress verifies resuming reconstructs a fresh
// in-progress store from persisted data and recomputes totals.
func TestResumeRebuildsInProgress(t *testing.T) {
	end := time.Now()
	remote := &models.WorkoutSession{
		ID:              uuid.New(),
		UserID:          1,
		Name:            "Pull",
		Status:          models.StatusInProgress,
		StartTime:       time.Now().Add(-30 * time.Minute),
		EndTime:         &end, // stale garbage from a partial write
		CurrentExercise: 1,
		Exercises: []models.WorkoutExercise{
			{Name: "Deadlift", Sets: []models.SetRecord{{Number: 1, Weight: 140, Reps: 5, Volume: 700}}},
			{Name: "Barbell Row", Sets: nil},
		},
	}

	s := Resume(remote, NopPersistence{}, testLogger())
	ws := s.Snapshot()
	if ws.Status != models.StatusInProgress {
		t.Errorf("status = %q, want in_progress", ws.Status)
	}
	if ws.EndTime != nil {
		t.Error("resumed session should have no end time")
	}
	if ws.TotalVolume != 700 {
		t.Errorf("volume = %v, want 700 (recomputed)", ws.TotalVolume)
	}
	if ws.CurrentExercise != 1 {
		t.Errorf("cursor = %d, want 1", ws.CurrentExercise)
	}

	// Resumed stores update the original remote record.
	fake := newFakePersistence()
	s2 := Resume(remote, fake, testLogger())
	s2.LogSet(100, 5, "Barbell")
	deadline := time.Now().Add(2 * time.Second)
	for fake.updateCount() < 1 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if fake.updateCount() < 1 {
		t.Fatal("resumed store never saved")
	}
}

// TestStatsDuration verifies duration derivation for in-progress and
// completed sessions.
func TestStatsDuration(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())

	if d := s.SessionStats().Duration; d < 0 || d > time.Minute {
		t.Errorf("in-progress duration = %v, want small positive", d)
	}

	s.EndWorkout()
	first := s.SessionStats().Duration
	time.Sleep(20 * time.Millisecond)
	if second := s.SessionStats().Duration; second != first {
		t.Errorf("completed duration moved: %v -> %v", first, second)
	}
}

// TestSnapshotIsolation verifies mutating a snapshot does not affect the
// store's state.
func TestSnapshotIsolation(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())
	s.LogSet(100, 10, "Barbell")

	snap := s.Snapshot()
	snap.Exercises[0].Sets[0].Weight = 9999
	snap.TotalVolume = 0

	ws := s.Snapshot()
	if ws.Exercises[0].Sets[0].Weight != 100 {
		t.Error("snapshot mutation leaked into store")
	}
	if ws.TotalVolume != 1000 {
		t.Errorf("volume = %v, want 1000", ws.TotalVolume)
	}
}

// TestClear verifies completion-acknowledgement drops the local session.
func TestClear(t *testing.T) {
	s := NewStore(1, NopPersistence{}, testLogger())
	s.StartWorkout("Legs", legsPlan())
	s.EndWorkout()
	s.Clear()
	if s.Snapshot() != nil {
		t.Error("store not cleared")
	}
	if s.Active() {
		t.Error("cleared store reports active")
	}
}
