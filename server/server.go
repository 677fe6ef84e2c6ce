// Package server exposes the agent and the task CRUD surface over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	contractx "github.com/taskmaster-ai/taskmaster-agent/agent/contract"
	"github.com/taskmaster-ai/taskmaster-agent/pkg/authgate"
	taskx "github.com/taskmaster-ai/taskmaster-agent/task"
)

const agentName = "TaskMasterAI"

type Config struct {
	Addr string `split_words:"true" default:":8080"`
}

// Agent is the conversational surface the server fronts.
type Agent interface {
	HandleMessage(ctx context.Context, userID, message string) (contractx.Outcome, error)
	ClearHistory(userID string)
}

// Verifier resolves a bearer token to a user identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (authgate.Identity, error)
}

type Server struct {
	cfg       Config
	agent     Agent
	tasks     *taskx.Service
	verifier  Verifier
	model     string
	toolCount int
}

func New(cfg Config, agent Agent, tasks *taskx.Service, verifier Verifier, model string, toolCount int) *Server {
	return &Server{
		cfg:       cfg,
		agent:     agent,
		tasks:     tasks,
		verifier:  verifier,
		model:     model,
		toolCount: toolCount,
	}
}

func (s *Server) Addr() string { return s.cfg.Addr }

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireIdentity)

		r.Route("/agent", func(r chi.Router) {
			r.Get("/status", s.handleAgentStatus)
			r.Post("/chat", s.handleChat)
			r.Post("/clear-history", s.handleClearHistory)
		})

		r.Route("/users/{userID}/tasks", func(r chi.Router) {
			r.Use(s.requireUserMatch)
			r.Post("/", s.handleCreateTask)
			r.Get("/", s.handleListTasks)
			r.Get("/stats", s.handleTaskStats)
			r.Get("/{taskID}", s.handleGetTask)
			r.Patch("/{taskID}", s.handleUpdateTask)
			r.Delete("/{taskID}", s.handleDeleteTask)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

type agentStatusResponse struct {
	Status         string `json:"status"`
	AgentName      string `json:"agent_name"`
	Model          string `json:"model"`
	ToolsAvailable int    `json:"tools_available"`
}

func (s *Server) handleAgentStatus(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, agentStatusResponse{
		Status:         "active",
		AgentName:      agentName,
		Model:          s.model,
		ToolsAvailable: s.toolCount,
	})
}
