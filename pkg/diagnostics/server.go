package diagnostics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const writeTimeout = 10 * time.Second
const readTimeout = 5 * time.Second

var profiles = []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"}

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

// Server exposes metrics, health and pprof endpoints on their own port.
type Server struct {
	httpServer *http.Server
}

func NewServer(port int, checks map[string]HealthCheck) *Server {
	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler(checks))
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	for _, profile := range profiles {
		mux.Handle("/debug/pprof/"+profile, pprof.Handler(profile))
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      mux,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
	}
}

// Handler returns the diagnostics mux.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		report := make(map[string]string, len(checks))

		for name, check := range checks {
			if err := check(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				report[name] = err.Error()
				continue
			}
			report[name] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(report)
	}
}
