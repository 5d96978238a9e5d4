package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/harper/lumi/internal/tracing"
	"github.com/harper/lumi/pkg/lesson"
	"github.com/harper/lumi/pkg/planner"
	"github.com/harper/lumi/pkg/profile"
	"github.com/harper/lumi/pkg/workflow"
)

type errorResponse struct {
	Error string `json:"error"`
}

// handleLessonPlan serves POST /v1/lesson-plans via the fallback chain.
// Once the request passes validation it cannot fail: the chain degrades to
// the static tier instead of erroring.
func (s *Server) handleLessonPlan(w http.ResponseWriter, r *http.Request) {
	body, ctx, ok := s.readPlanRequest(w, r)
	if !ok {
		return
	}

	var req lesson.PlanRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to parse request"})
		return
	}

	plan := s.lessons.GenerateLessonPlan(ctx, req)
	s.broadcaster.Broadcast("lesson.planned", map[string]any{
		"plan_id":    plan.ID,
		"learner_id": plan.LearnerID,
		"subject":    plan.Subject,
	})

	writeJSON(w, http.StatusOK, map[string]any{"plan": plan})
}

// handleSessionPlan serves POST /v1/session-plans via the workflow engine.
// Engine failures surface to the caller: a wrong or partial session plan is
// worse than a visible failure.
func (s *Server) handleSessionPlan(w http.ResponseWriter, r *http.Request) {
	body, ctx, ok := s.readPlanRequest(w, r)
	if !ok {
		return
	}

	var req planner.SessionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to parse request"})
		return
	}

	result, err := s.sessions.PlanLearnerSession(ctx, req)
	if err != nil {
		logger := tracing.LoggerFromContext(ctx, s.logger)

		var stepErr *workflow.StepError
		switch {
		case workflow.KindOf(err) == workflow.FailurePrecondition || errors.Is(err, profile.ErrLearnerNotFound):
			logger.Warn().Err(err).Str("learner_id", req.LearnerID).Msg("Session planning rejected")
			writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		case errors.As(err, &stepErr):
			logger.Error().
				Err(err).
				Str("step_id", stepErr.StepID).
				Str("kind", string(stepErr.Kind)).
				Int("trace_entries", len(stepErr.Trace)).
				Msg("Session planning workflow failed")
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		default:
			logger.Error().Err(err).Msg("Session planning failed")
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// readPlanRequest enforces method, auth, and schema for both planning
// endpoints, returning the validated body and a traced context.
func (s *Server) readPlanRequest(w http.ResponseWriter, r *http.Request) ([]byte, context.Context, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, nil, false
	}

	if s.sharedSecret != "" && r.Header.Get("X-Lumi-Secret") != s.sharedSecret {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return nil, nil, false
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "failed to read request body"})
		return nil, nil, false
	}

	if err := s.validator.Validate(body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return nil, nil, false
	}

	traceID := r.Header.Get("X-Trace-Id")
	if traceID == "" {
		traceID = tracing.NewTraceID()
	}
	ctx := tracing.WithTraceID(r.Context(), traceID)
	w.Header().Set("X-Trace-Id", traceID)

	return body, ctx, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
