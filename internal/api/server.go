package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/ssiserve/internal/config"
	"github.com/dgallion1/ssiserve/internal/content"
	"github.com/dgallion1/ssiserve/internal/deps"
	"github.com/dgallion1/ssiserve/internal/filetype"
	"github.com/dgallion1/ssiserve/internal/watch"
)

// Server is the HTTP preview server: it serves documents under the root with
// includes expanded, records their dependency sets, and streams reload events.
type Server struct {
	router  chi.Router
	files   content.Provider
	index   *deps.Index
	watcher *watch.Watcher // nil when live reload is disabled
	types   *filetype.Set
	log     *slog.Logger
	cfg     config.Config
}

// NewServer creates and configures the preview server.
func NewServer(files content.Provider, index *deps.Index, watcher *watch.Watcher, types *filetype.Set, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		files:   files,
		index:   index,
		watcher: watcher,
		types:   types,
		log:     log,
		cfg:     cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/events", s.handleEvents)
	r.Get("/*", s.handleDocument)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
