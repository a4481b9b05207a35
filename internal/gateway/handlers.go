package gateway

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"magpie/internal/agent"
)

type agentInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tools       []string `json:"tools"`
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	agents := s.registry.Agents()
	out := make([]agentInfo, 0, len(agents))
	for _, ag := range agents {
		out = append(out, agentInfo{
			Name:        ag.Name,
			Description: ag.Description,
			Tools:       ag.Tools.Names(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.sessions.IDs()})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	ag, err := s.registry.Get(r.PathValue("name"))
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = s.sessions.New()
	} else {
		s.sessions.Ensure(sessionID)
	}

	ctx := agent.ContextWithSessionID(r.Context(), sessionID)
	history := s.sessions.History(sessionID)

	sse := NewSSEWriter(w)
	result, err := s.runner.Run(ctx, ag, history, req.Message, func(ev agent.Event) {
		switch ev.Type {
		case agent.EventToolCall:
			sse.Send("tool_call", ev.Data)
		case agent.EventToolResult:
			sse.Send("tool_result", ev.Data)
		case agent.EventError:
			sse.Send("error", map[string]any{"error": ev.Data})
		}
	})

	if errors.Is(err, agent.ErrEmptyMessage) {
		sse.Send("error", map[string]string{"error": err.Error()})
		return
	}
	if result != nil {
		// Failed turns still carry the history accumulated so far; keep it
		// so the client can render partial progress.
		s.sessions.Append(sessionID, result.Messages[len(history):]...)
		sse.Send("done", map[string]any{
			"session_id": sessionID,
			"state":      result.State,
			"reply":      result.Reply,
		})
	}
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
