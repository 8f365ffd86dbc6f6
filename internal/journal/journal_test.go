package journal

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
)

func testSession(synced bool) *models.WorkoutSession {
	id := uuid.Nil
	if synced {
		id = uuid.New()
	}
	return &models.WorkoutSession{
		ID:        id,
		Name:      "Legs",
		Status:    models.StatusCompleted,
		StartTime: time.Now().Add(-time.Hour),
		Exercises: []models.WorkoutExercise{
			{
				Name: "Barbell Squat",
				Sets: []models.SetRecord{
					{Number: 1, Weight: 100, Reps: 8, Volume: 800},
					{Number: 2, Weight: 100, Reps: 8, Volume: 800},
				},
			},
		},
		TotalVolume: 1600,
	}
}

// TestRecordAndRecent verifies entries round-trip through the journal.
func TestRecordAndRecent(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	if _, err := j.Record(testSession(true), true); err != nil {
		t.Fatal(err)
	}
	if _, err := j.Record(testSession(false), false); err != nil {
		t.Fatal(err)
	}

	entries, err := j.Recent(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// Newest first.
	if entries[0].Synced {
		t.Error("newest entry should be unsynced")
	}
	if entries[0].WorkoutType != "Legs" || entries[0].TotalSets != 2 || entries[0].TotalVolume != 1600 {
		t.Errorf("entry = %+v", entries[0])
	}
}

// TestUnsyncedAndMarkSynced verifies the offline re-push flow: an unsynced
// entry yields its snapshot and disappears from the queue after MarkSynced.
func TestUnsyncedAndMarkSynced(t *testing.T) {
	j, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer j.Close()

	localID, err := j.Record(testSession(false), false)
	if err != nil {
		t.Fatal(err)
	}

	pending, err := j.Unsynced()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].LocalID != localID {
		t.Fatalf("pending = %+v", pending)
	}

	payload, err := j.Snapshot(localID)
	if err != nil {
		t.Fatal(err)
	}
	if payload.WorkoutType != "Legs" || payload.TotalVolume != 1600 {
		t.Errorf("snapshot = %+v", payload)
	}
	if payload.CompletionStatus != models.StatusCompleted {
		t.Errorf("status = %q, want completed", payload.CompletionStatus)
	}

	remote := uuid.New()
	if err := j.MarkSynced(localID, remote); err != nil {
		t.Fatal(err)
	}

	pending, err = j.Unsynced()
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("pending after sync = %d, want 0", len(pending))
	}

	entries, err := j.Recent(1)
	if err != nil {
		t.Fatal(err)
	}
	if entries[0].RemoteID != remote {
		t.Errorf("remote id = %s, want %s", entries[0].RemoteID, remote)
	}
}

// TestOpenCreatesDir verifies Open creates the journal directory.
func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir() + "/nested/journal"
	j, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	j.Close()
}
