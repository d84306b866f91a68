package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/mradosav-amd/cache/pkg/config"
)

// EngineStatus is the slice of *engine.Engine this package needs, kept as
// an interface so tests can stub it without constructing a real Engine.
type EngineStatus interface {
	Used() int
	Running() bool
}

// Server exposes /metrics and a small /debug/engine status endpoint.
type Server struct {
	router http.Handler
	bind   string
	log    *logrus.Entry
}

// New builds a Server bound to cfg.Bind, reporting status from eng.
func New(eng EngineStatus, cfg config.HTTP, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/debug/engine", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Running   bool `json:"running"`
			UsedBytes int  `json:"used_bytes"`
		}{
			Running:   eng.Running(),
			UsedBytes: eng.Used(),
		})
	})

	return &Server{router: r, bind: cfg.Bind, log: log}
}

// Handler returns the underlying http.Handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving HTTP on the configured bind address.
func (s *Server) ListenAndServe() error {
	s.log.WithField("bind", s.bind).Info("httpapi: listening")
	return http.ListenAndServe(s.bind, s.router)
}
