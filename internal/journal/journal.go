package journal

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"

	_ "modernc.org/sqlite"
)

// Journal is the CLI's local record of finished workouts. Every completed
// session lands here whether or not the server save succeeded, so an
// offline workout is never lost: unsynced entries carry the full session
// snapshot and can be pushed later.
type Journal struct {
	db *sql.DB
}

// Entry is one journaled workout.
type Entry struct {
	LocalID     int64
	RemoteID    uuid.UUID
	WorkoutType string
	StartTime   time.Time
	TotalVolume float64
	TotalSets   int
	Synced      bool
}

// Open opens (or creates) the journal database at dir/journal.db.
func Open(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS workouts (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		remote_id    TEXT NOT NULL DEFAULT '',
		workout_type TEXT NOT NULL,
		start_time   TIMESTAMP NOT NULL,
		total_volume REAL NOT NULL,
		total_sets   INTEGER NOT NULL,
		snapshot     TEXT NOT NULL,
		synced       INTEGER NOT NULL DEFAULT 0,
		recorded_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating workouts table: %w", err)
	}

	return &Journal{db: db}, nil
}

// Record stores a finished session. synced marks whether the server already
// has the final snapshot.
func (j *Journal) Record(ws *models.WorkoutSession, synced bool) (int64, error) {
	snapshot, err := json.Marshal(ws.Payload())
	if err != nil {
		return 0, fmt.Errorf("marshaling snapshot: %w", err)
	}

	remoteID := ""
	if ws.ID != uuid.Nil {
		remoteID = ws.ID.String()
	}

	res, err := j.db.Exec(
		`INSERT INTO workouts (remote_id, workout_type, start_time, total_volume, total_sets, snapshot, synced)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		remoteID, ws.Name, ws.StartTime, ws.TotalVolume, ws.TotalSets(), string(snapshot), synced,
	)
	if err != nil {
		return 0, fmt.Errorf("recording workout: %w", err)
	}
	return res.LastInsertId()
}

// Unsynced returns entries that have not reached the server yet, oldest first.
func (j *Journal) Unsynced() ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, remote_id, workout_type, start_time, total_volume, total_sets, synced
		 FROM workouts WHERE synced = 0 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("querying unsynced workouts: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Recent returns the most recent entries, newest first.
func (j *Journal) Recent(limit int) ([]Entry, error) {
	rows, err := j.db.Query(
		`SELECT id, remote_id, workout_type, start_time, total_volume, total_sets, synced
		 FROM workouts ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying recent workouts: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Snapshot returns the stored session payload for an entry.
func (j *Journal) Snapshot(localID int64) (models.SessionPayload, error) {
	var raw string
	err := j.db.QueryRow(`SELECT snapshot FROM workouts WHERE id = ?`, localID).Scan(&raw)
	if err != nil {
		return models.SessionPayload{}, fmt.Errorf("loading snapshot %d: %w", localID, err)
	}

	var payload models.SessionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return models.SessionPayload{}, fmt.Errorf("decoding snapshot %d: %w", localID, err)
	}
	return payload, nil
}

// MarkSynced records that an entry reached the server under remoteID.
func (j *Journal) MarkSynced(localID int64, remoteID uuid.UUID) error {
	_, err := j.db.Exec(
		`UPDATE workouts SET synced = 1, remote_id = ? WHERE id = ?`,
		remoteID.String(), localID,
	)
	return err
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var (
			e        Entry
			remoteID string
		)
		if err := rows.Scan(&e.LocalID, &remoteID, &e.WorkoutType, &e.StartTime, &e.TotalVolume, &e.TotalSets, &e.Synced); err != nil {
			return nil, fmt.Errorf("scanning workout entry: %w", err)
		}
		if remoteID != "" {
			if id, err := uuid.Parse(remoteID); err == nil {
				e.RemoteID = id
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
