package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
)

func payload() models.SessionPayload {
	return models.SessionPayload{
		WorkoutType:      "Push",
		StartTime:        time.Now(),
		CompletionStatus: models.StatusInProgress,
	}
}

// TestCreateSession verifies the POST body, the API key header and the
// returned ID.
func TestCreateSession(t *testing.T) {
	want := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/sessions" {
			t.Errorf("got %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-API-Key") != "secret" {
			t.Errorf("API key = %q", r.Header.Get("X-API-Key"))
		}
		var p models.SessionPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		if p.WorkoutType != "Push" {
			t.Errorf("workoutType = %q", p.WorkoutType)
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"id": want.String()})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	got, err := c.CreateSession(context.Background(), 1, payload())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("id = %s, want %s", got, want)
	}
}

// TestCreateSessionServerError verifies a non-201 status surfaces as an error.
func TestCreateSessionServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	if _, err := c.CreateSession(context.Background(), 1, payload()); err == nil {
		t.Fatal("expected error")
	}
}

// TestUpdateSession verifies the PATCH path includes the session ID.
func TestUpdateSession(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Errorf("method = %s", r.Method)
		}
		if r.URL.Path != "/api/v1/sessions/"+id.String() {
			t.Errorf("path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]string{"id": id.String()})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	if err := c.UpdateSession(context.Background(), id, payload()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// TestGetActiveSession verifies 404 maps to (nil, nil) while other failures
// return an error.
func TestGetActiveSession(t *testing.T) {
	var status int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			http.Error(w, `{"error":"x"}`, status)
			return
		}
		ws := models.WorkoutSession{ID: uuid.New(), Name: "Pull", Status: models.StatusInProgress}
		json.NewEncoder(w).Encode(ws)
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")

	status = http.StatusNotFound
	ws, err := c.GetActiveSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("404 should not be an error, got %v", err)
	}
	if ws != nil {
		t.Error("expected nil session for 404")
	}

	status = http.StatusInternalServerError
	if _, err := c.GetActiveSession(context.Background(), 1); err == nil {
		t.Error("expected error for 500")
	}

	status = http.StatusOK
	ws, err = c.GetActiveSession(context.Background(), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ws == nil || ws.Name != "Pull" {
		t.Errorf("session = %+v", ws)
	}
}

// TestDeleteSession verifies the DELETE path and error mapping.
func TestDeleteSession(t *testing.T) {
	id := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/sessions/"+id.String() {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted"})
	}))
	defer srv.Close()

	c := New(srv.URL, "secret")
	if err := c.DeleteSession(context.Background(), id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.DeleteSession(context.Background(), uuid.New()); err == nil {
		t.Error("expected error for unknown id")
	}
}
