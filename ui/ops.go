package ui

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"healthdash/app"
	"healthdash/internal"
)

// OpsServer is the internal operations listener: liveness, readiness and
// optional profiling. It binds separately from the product server so the
// dashboard port never exposes pprof.
type OpsServer struct {
	router   *chi.Mux
	explorer *app.Explorer
	logger   *internal.Logger
}

// NewOpsServer creates the ops listener.
func NewOpsServer(explorer *app.Explorer, enablePprof bool) *OpsServer {
	s := &OpsServer{
		router:   chi.NewRouter(),
		explorer: explorer,
		logger:   internal.NewDefaultLogger().Tagged("Ops"),
	}

	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	if enablePprof {
		s.router.Mount("/debug", middleware.Profiler())
	}

	return s
}

// Router exposes the mux for tests.
func (s *OpsServer) Router() http.Handler {
	return s.router
}

// Start starts the ops listener.
func (s *OpsServer) Start(addr string) error {
	s.logger.Info("Starting ops listener on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *OpsServer) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReadyz reports ready once a dataset is loaded and derived.
func (s *OpsServer) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if s.explorer == nil || s.explorer.Dataset() == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":      "ready",
		"recordCount": s.explorer.Dataset().Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
