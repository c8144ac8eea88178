package ops

import (
	"log"
	"net/http"
	"net/http/pprof"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"gosleuth/internal/config"
)

// Server is the operational sidecar surface: liveness, readiness and pprof.
// It never exposes analysis endpoints and runs on its own port.
type Server struct {
	router *chi.Mux
	cfg    config.ProfilingConfig
	ready  func() bool
}

// NewServer builds the ops router. The ready probe reports whether the model
// registry warmed successfully.
func NewServer(cfg config.ProfilingConfig, ready func() bool) *Server {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	s := &Server{router: r, cfg: cfg, ready: ready}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.router.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if s.ready != nil && !s.ready() {
			http.Error(w, "models not loaded", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	s.router.Route("/debug/pprof", func(r chi.Router) {
		r.Get("/", pprof.Index)
		r.Get("/cmdline", pprof.Cmdline)
		r.Get("/profile", pprof.Profile)
		r.Get("/symbol", pprof.Symbol)
		r.Get("/trace", pprof.Trace)
		r.Handle("/{name}", http.HandlerFunc(pprof.Index))
	})
}

// Run blocks serving the ops surface.
func (s *Server) Run() error {
	addr := ":" + s.cfg.Port
	log.Printf("[Ops] listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}
