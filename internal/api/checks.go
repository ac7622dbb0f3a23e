package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/authlens/authlens-core/internal/history"
)

// maxListLimit caps the number of runs a single listing request can return.
const maxListLimit = 100

// handleListProfiles returns the profiles this instance checks.
func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"profiles": s.runner.Profiles(),
	})
}

// handleStartCheck triggers a check run in the background.
//
// Only one run may be in flight at a time; a second request while a run is
// active gets 409. The run itself continues after the HTTP response; clients
// follow progress on the WebSocket stream or poll GET /checks/{id}.
func (s *Server) handleStartCheck(w http.ResponseWriter, _ *http.Request) {
	if !s.checking.CompareAndSwap(false, true) {
		writeConflict(w, "a check run is already in progress")
		return
	}

	runID := uuid.NewString()

	// The run outlives this request; it is bounded by the gateway's
	// per-job timeout rather than the request context.
	go func() {
		defer s.checking.Store(false)

		if _, err := s.runner.Execute(context.Background(), runID); err != nil {
			s.logger.Error("check run failed", "run_id", runID, "error", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{
		"run_id": runID,
		"status": "started",
	})
}

// handleListRuns returns recent run summaries, newest first.
// The limit query parameter caps the result count (default 20, max 100).
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "run history is not enabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeBadRequest(w, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	runs, err := s.history.ListRuns(r.Context(), limit)
	if err != nil {
		s.logger.Error("listing check runs", "error", err)
		writeInternalError(w, "failed to list check runs")
		return
	}
	if runs == nil {
		runs = []history.Run{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// handleGetRun returns one run with its full per-profile results.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeNotFound(w, "run history is not enabled")
		return
	}

	id := chi.URLParam(r, "id")

	run, err := s.history.GetRun(r.Context(), id)
	if errors.Is(err, history.ErrRunNotFound) {
		writeNotFound(w, "no run with id "+id)
		return
	}
	if err != nil {
		s.logger.Error("loading check run", "run_id", id, "error", err)
		writeInternalError(w, "failed to load check run")
		return
	}

	writeJSON(w, http.StatusOK, run)
}
