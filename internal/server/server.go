package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/meltforce/fitforge/internal/models"
	"github.com/meltforce/fitforge/internal/storage"
)

// SessionStore abstracts the storage layer for HTTP handlers, so they can be
// tested against an in-memory fake. *storage.DB satisfies it.
type SessionStore interface {
	InsertSession(ctx context.Context, row models.SessionRow) (uuid.UUID, error)
	UpdateSession(ctx context.Context, row models.SessionRow) error
	ReplaceSessionSets(ctx context.Context, sessionID uuid.UUID, rows []models.SessionSetRow) (int64, error)
	GetActiveSession(ctx context.Context, userID int) (*models.WorkoutSession, error)
	GetSession(ctx context.Context, id uuid.UUID, userID int) (*models.WorkoutSession, error)
	QuerySessions(ctx context.Context, start, end time.Time, userID int) ([]models.SessionRow, error)
	QueryExerciseSets(ctx context.Context, exercise string, start, end time.Time, userID int) ([]models.SessionSetRow, error)
	DeleteSession(ctx context.Context, id uuid.UUID, userID int) error
	GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]storage.VolumeSummaryPeriod, error)
	GetDataStats(ctx context.Context, userID int) (*storage.DataStats, error)
	GetOrCreateUser(ctx context.Context, login, displayName string) (int, error)
}

// Compile-time check: *storage.DB satisfies SessionStore.
var _ SessionStore = (*storage.DB)(nil)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     SessionStore
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db SessionStore, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(UserContext(s.db, s.log))

	// Session write path (API key required)
	s.router.Route("/api/v1/sessions", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(APIKeyAuth(s.apiKey))
			r.Post("/", s.handleCreateSession)
			r.Patch("/{id}", s.handleUpdateSession)
			r.Delete("/{id}", s.handleDeleteSession)
		})
		r.Get("/", s.handleListSessions)
		r.Get("/active", s.handleGetActiveSession)
		r.Get("/{id}", s.handleGetSession)
	})

	// Exercise library and progress stats (read-only, no auth)
	s.router.Get("/api/v1/exercises", s.handleListExercises)
	s.router.Get("/api/v1/exercises/{name}", s.handleGetExercise)
	s.router.Get("/api/v1/exercises/{name}/sets", s.handleExerciseSets)
	s.router.Get("/api/v1/stats/volume", s.handleVolumeSummary)
	s.router.Get("/api/v1/stats", s.handleStats)
}
