package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/exercises"
	"github.com/meltforce/fitforge/internal/models"
	"github.com/meltforce/fitforge/internal/storage"
)

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload models.SessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}
	if payload.WorkoutType == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "workoutType is required"})
		return
	}

	uid := UserIDFromRequest(r)
	row, setRows := rowsFromPayload(uuid.Nil, uid, payload)

	id, err := s.db.InsertSession(r.Context(), row)
	if err != nil {
		s.log.Error("create session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	for i := range setRows {
		setRows[i].SessionID = id
	}
	if _, err := s.db.ReplaceSessionSets(r.Context(), id, setRows); err != nil {
		s.log.Error("create session sets", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	var payload models.SessionPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	uid := UserIDFromRequest(r)
	row, setRows := rowsFromPayload(id, uid, payload)

	if err := s.db.UpdateSession(r.Context(), row); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		s.log.Error("update session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if _, err := s.db.ReplaceSessionSets(r.Context(), id, setRows); err != nil {
		s.log.Error("update session sets", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id.String()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	if err := s.db.DeleteSession(r.Context(), id, UserIDFromRequest(r)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		s.log.Error("delete session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleGetActiveSession(w http.ResponseWriter, r *http.Request) {
	ws, err := s.db.GetActiveSession(r.Context(), UserIDFromRequest(r))
	if err != nil {
		s.log.Error("get active session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if ws == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no active session"})
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session ID"})
		return
	}

	ws, err := s.db.GetSession(r.Context(), id, UserIDFromRequest(r))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
			return
		}
		s.log.Error("get session", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, ws)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sessions, err := s.db.QuerySessions(r.Context(), start, end, UserIDFromRequest(r))
	if err != nil {
		s.log.Error("list sessions", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleListExercises(w http.ResponseWriter, r *http.Request) {
	if muscle := r.URL.Query().Get("muscle"); muscle != "" {
		writeJSON(w, http.StatusOK, exercises.ByMuscleGroup(muscle))
		return
	}
	writeJSON(w, http.StatusOK, exercises.All())
}

func (s *Server) handleGetExercise(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise name"})
		return
	}
	e, ok := exercises.Lookup(name)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "exercise not found"})
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) handleExerciseSets(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid exercise name"})
		return
	}
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sets, err := s.db.QueryExerciseSets(r.Context(), name, start, end, UserIDFromRequest(r))
	if err != nil {
		s.log.Error("exercise sets", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, sets)
}

func (s *Server) handleVolumeSummary(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseTimeRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	bucket := "1 month"
	if r.URL.Query().Get("agg") == "weekly" {
		bucket = "1 week"
	}

	summary, err := s.db.GetVolumeSummary(r.Context(), start, end, bucket, UserIDFromRequest(r))
	if err != nil {
		s.log.Error("volume summary", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.db.GetDataStats(r.Context(), UserIDFromRequest(r))
	if err != nil {
		s.log.Error("data stats", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// rowsFromPayload flattens a session payload into its storage rows. The
// payload is a full snapshot, so derived fields are recomputed server-side
// when the client omitted them.
func rowsFromPayload(id uuid.UUID, userID int, p models.SessionPayload) (models.SessionRow, []models.SessionSetRow) {
	status := p.CompletionStatus
	if status == "" {
		status = models.StatusInProgress
	}
	startTime := p.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}

	row := models.SessionRow{
		ID:              id,
		UserID:          userID,
		Name:            p.WorkoutType,
		Status:          status,
		StartTime:       startTime,
		EndTime:         p.EndTime,
		CurrentExercise: p.CurrentExercise,
		TotalVolume:     p.TotalVolume,
	}
	if p.CaloriesBurned != nil {
		row.Calories = *p.CaloriesBurned
	} else {
		row.Calories = p.TotalVolume * models.CaloriesPerVolumeUnit
	}
	if p.TotalDurationSec != nil {
		row.DurationSec = *p.TotalDurationSec
	} else if p.EndTime != nil && p.EndTime.After(startTime) {
		row.DurationSec = p.EndTime.Sub(startTime).Seconds()
	}

	var setRows []models.SessionSetRow
	for i, ex := range p.Exercises {
		muscle := ex.MuscleGroup
		if muscle == "" {
			muscle = exercises.MuscleGroup(ex.Name)
		}
		// A planned exercise with no sets still gets a marker row
		// (set_number 0) so the plan survives a resume.
		if len(ex.Sets) == 0 {
			setRows = append(setRows, models.SessionSetRow{
				SessionID:     id,
				ExerciseIndex: i,
				ExerciseName:  ex.Name,
				MuscleGroup:   muscle,
				Equipment:     ex.Equipment,
				LoggedAt:      startTime,
			})
			continue
		}
		for _, set := range ex.Sets {
			equipment := set.Equipment
			if equipment == "" {
				equipment = ex.Equipment
			}
			volume := set.Volume
			if volume == 0 {
				volume = set.Weight * float64(set.Reps)
			}
			loggedAt := set.LoggedAt
			if loggedAt.IsZero() {
				loggedAt = startTime
			}
			setRows = append(setRows, models.SessionSetRow{
				SessionID:     id,
				ExerciseIndex: i,
				ExerciseName:  ex.Name,
				MuscleGroup:   muscle,
				Equipment:     equipment,
				SetNumber:     set.Number,
				Weight:        set.Weight,
				Reps:          set.Reps,
				Volume:        volume,
				FormScore:     set.FormScore,
				Notes:         set.Notes,
				LoggedAt:      loggedAt,
			})
		}
	}

	return row, setRows
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseTimeRange(r *http.Request) (start, end time.Time, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 30 days
		end = time.Now()
		start = end.AddDate(0, 0, -30)
		return
	}

	start, err = time.Parse(time.RFC3339, startStr)
	if err != nil {
		start, err = time.Parse("2006-01-02", startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}

	if endStr == "" {
		end = time.Now()
	} else {
		end, err = time.Parse(time.RFC3339, endStr)
		if err != nil {
			end, err = time.Parse("2006-01-02", endStr)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			// End of day for date-only
			end = end.Add(24 * time.Hour)
		}
	}
	return
}
