package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	taskx "github.com/taskmaster-ai/taskmaster-agent/task"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var params taskx.CreateParams
	if err := decodeJSON(r, &params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	created, err := s.tasks.Create(r.Context(), userID, params)
	if err != nil {
		respondTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	query := taskx.ListQuery{
		Filter: strings.TrimSpace(r.URL.Query().Get("filter")),
		Sort:   strings.TrimSpace(r.URL.Query().Get("sort")),
		Search: strings.TrimSpace(r.URL.Query().Get("search")),
	}

	tasks, err := s.tasks.List(r.Context(), userID, query)
	if err != nil {
		respondTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"tasks": tasks,
		"count": len(tasks),
	})
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tasks.Stats(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		respondTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	got, err := s.tasks.Get(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "taskID"))
	if err != nil {
		respondTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, got)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var params taskx.UpdateParams
	if err := decodeJSON(r, &params); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	updated, err := s.tasks.Update(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "taskID"), params)
	if err != nil {
		respondTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), chi.URLParam(r, "userID"), chi.URLParam(r, "taskID")); err != nil {
		respondTaskError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

func respondTaskError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, taskx.ErrNotFound):
		respondError(w, http.StatusNotFound, "task_not_found", err.Error())
	case errors.Is(err, taskx.ErrEmptyTitle),
		errors.Is(err, taskx.ErrTitleTooLong),
		errors.Is(err, taskx.ErrDescriptionLong),
		errors.Is(err, taskx.ErrUnknownFilter),
		errors.Is(err, taskx.ErrUnknownSortOrder):
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		log.Error().Err(err).Msg("task operation failed")
		respondError(w, http.StatusInternalServerError, "internal_error", "task operation failed")
	}
}
