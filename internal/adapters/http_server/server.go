package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog/log"
)

type Server struct{ mux *chi.Mux }

// New builds the router. ratePerMin <= 0 disables per-IP rate limiting.
func New(ratePerMin int) *Server {
	m := chi.NewRouter()

	// chi panics on Use after a route is registered, so the stack is fixed here.
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(15 * time.Second))
	m.Use(Metrics)
	m.Use(Logger(log.Logger))
	if ratePerMin > 0 {
		m.Use(httprate.LimitByIP(ratePerMin, time.Minute))
	}

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Mount exposes h at path outside the v1 API, e.g. the Prometheus handler.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
