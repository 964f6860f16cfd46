package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/MikeSquared-Agency/policedraft/internal/drafter"
	"github.com/MikeSquared-Agency/policedraft/internal/logging"
)

const (
	maxDraftBody  = 2 << 20
	maxUploadBody = 25 << 20
)

// Drafter produces a draft for a narration.
type Drafter interface {
	Draft(ctx context.Context, narration string) (*drafter.Draft, error)
}

// Status is reported by the status endpoint.
type Status struct {
	Mode   string `json:"mode"`
	Policy string `json:"policy"`
	Model  string `json:"model"`
}

type Options struct {
	AllowedOrigins []string
	Status         Status
}

type Server struct {
	router  *chi.Mux
	drafter Drafter
	status  Status
	logger  zerolog.Logger
	srv     *http.Server
}

func NewServer(port int, d Drafter, opts Options, logger zerolog.Logger) *Server {
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(logging.Requests(logger))
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	s := &Server{
		router:  router,
		drafter: d,
		status:  opts.Status,
		logger:  logger,
	}

	router.Get("/healthz", s.health)
	router.Get("/health", s.health)
	router.Get("/api/v1/status", s.statusInfo)
	router.With(middleware.RequestSize(maxDraftBody)).Post("/api/police-draft", s.draft)
	router.Post("/api/whisper", s.transcribe)

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start blocks until the server stops. It returns nil after Shutdown, also
// when Shutdown ran first.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.srv.Addr).Msg("API server starting")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}

func (s *Server) statusInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "policedraft",
		"mode":    s.status.Mode,
		"policy":  s.status.Policy,
		"model":   s.status.Model,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
