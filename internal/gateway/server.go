// Package gateway exposes the agent registry and turn loop over HTTP.
// It is a thin consumer of the core: selection via the registry, one turn
// per chat request, events streamed as SSE.
package gateway

import (
	"net/http"

	"magpie/internal/agent"
	"magpie/internal/session"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	registry *agent.Registry
	runner   *agent.Runner
	sessions *session.Store
	mux      *http.ServeMux
}

func NewServer(registry *agent.Registry, runner *agent.Runner, sessions *session.Store) *Server {
	s := &Server{
		registry: registry,
		runner:   runner,
		sessions: sessions,
		mux:      http.NewServeMux(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /v1/agents", s.handleListAgents)
	s.mux.HandleFunc("POST /v1/agents/{name}/chat", s.handleChat)
	s.mux.HandleFunc("GET /v1/sessions", s.handleListSessions)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
}

func (s *Server) Handler() http.Handler {
	return otelhttp.NewHandler(s.mux, "gateway")
}

func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.Handler())
}
