package workflow

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/harper/lumi/internal/observability"
	"github.com/harper/lumi/internal/tracing"
)

// TraceSink receives trace entries as steps finish, for live observers.
type TraceSink func(workflowName string, entry TraceEntry)

// Engine executes workflow definitions step by step over a shared context.
// The pipeline is intentionally linear: no branching, no retries, no
// parallelism. Each step's input path is its MapInput function, which keeps
// every input dependency explicit at the definition level.
type Engine struct {
	logger    zerolog.Logger
	traceSink TraceSink
}

// EngineConfig holds engine configuration.
type EngineConfig struct {
	Logger zerolog.Logger

	// TraceSink is optional. It is invoked once per finished step, after
	// the entry has been appended to the context trace.
	TraceSink TraceSink
}

// NewEngine creates a new workflow engine.
func NewEngine(cfg EngineConfig) *Engine {
	observability.EnsureRegistered()
	return &Engine{
		logger:    cfg.Logger,
		traceSink: cfg.TraceSink,
	}
}

// Run executes the definition's steps in order over a defensive copy of
// base. The caller's context object is never mutated. On the first step
// failure the run aborts and a *StepError is returned carrying the failing
// step's id and the trace accumulated so far; no later steps execute.
func (e *Engine) Run(ctx context.Context, def WorkflowDefinition, base *AgentContext) (*AgentContext, error) {
	if base == nil {
		return nil, fmt.Errorf("workflow %q: nil base context", def.Name)
	}
	if len(def.Steps) == 0 {
		return nil, fmt.Errorf("workflow %q has no steps", def.Name)
	}

	runID, _ := gonanoid.New()
	ctx = tracing.WithRunID(ctx, runID)
	if base.LearnerID != "" {
		ctx = tracing.WithLearnerID(ctx, base.LearnerID)
	}
	logger := e.logger.With().
		Str("workflow", def.Name).
		Str("run_id", runID).
		Logger()

	ac := base.Clone()
	runStart := time.Now()

	logger.Info().
		Str("learner_id", ac.LearnerID).
		Str("subject", ac.Subject).
		Int("steps", len(def.Steps)).
		Msg("Starting workflow run")

	for _, step := range def.Steps {
		entry, err := e.runStep(ctx, step, ac)
		ac.Trace = append(ac.Trace, entry)
		observability.RecordWorkflowStep(def.Name, step.ID, stepStatus(err), time.Duration(entry.DurationMs)*time.Millisecond)
		if e.traceSink != nil {
			e.traceSink(def.Name, entry)
		}

		if err != nil {
			logger.Error().
				Err(err).
				Str("step_id", step.ID).
				Int64("duration_ms", entry.DurationMs).
				Msg("Workflow step failed, aborting run")
			observability.RecordWorkflowRun(def.Name, "failed", time.Since(runStart))
			return nil, &StepError{
				Workflow: def.Name,
				StepID:   step.ID,
				Kind:     KindOf(err),
				Trace:    ac.Trace,
				Err:      err,
			}
		}

		logger.Debug().
			Str("step_id", step.ID).
			Int64("duration_ms", entry.DurationMs).
			Strs("saved_keys", entry.SavedKeys).
			Msg("Workflow step completed")
	}

	observability.RecordWorkflowRun(def.Name, "completed", time.Since(runStart))
	logger.Info().
		Int64("duration_ms", time.Since(runStart).Milliseconds()).
		Msg("Workflow run completed")

	return ac, nil
}

// runStep executes one step and builds its trace entry. The entry is
// returned in both the success and the failure case; exactly one entry
// exists per step that began executing.
func (e *Engine) runStep(ctx context.Context, step WorkflowStep, ac *AgentContext) (TraceEntry, error) {
	entry := TraceEntry{
		StepID:    step.ID,
		Label:     step.Label,
		ToolName:  step.Tool.Name(),
		StartedAt: time.Now(),
	}

	finish := func() {
		entry.FinishedAt = time.Now()
		entry.DurationMs = entry.FinishedAt.Sub(entry.StartedAt).Milliseconds()
	}

	var input any
	if step.MapInput != nil {
		mapped, err := step.MapInput(ac)
		if err != nil {
			finish()
			entry.Error = err.Error()
			return entry, fmt.Errorf("map input: %w", err)
		}
		input = mapped
	}

	output, err := step.Tool.Run(ctx, ac, input)
	if err != nil {
		finish()
		entry.Error = err.Error()
		return entry, err
	}

	saved := make(map[string]struct{})
	if step.SaveResultAs != "" {
		ac.State[step.SaveResultAs] = output
		saved[step.SaveResultAs] = struct{}{}
	}

	if step.OnResult != nil {
		before := snapshotState(ac.State)
		step.OnResult(output, ac)
		for _, key := range changedKeys(before, ac.State) {
			saved[key] = struct{}{}
		}
	}

	entry.SavedKeys = sortedKeys(saved)

	if summarizer, ok := step.Tool.(ResultSummarizer); ok {
		entry.Notes = summarizer.SummarizeResult(output)
	}

	finish()
	return entry, nil
}

func snapshotState(state map[string]any) map[string]any {
	snap := make(map[string]any, len(state))
	for k, v := range state {
		snap[k] = v
	}
	return snap
}

// changedKeys returns keys that are new or whose value differs from the
// snapshot, so the trace records every key an OnResult callback touched.
func changedKeys(before, after map[string]any) []string {
	var keys []string
	for k, v := range after {
		old, ok := before[k]
		if !ok || !reflect.DeepEqual(old, v) {
			keys = append(keys, k)
		}
	}
	return keys
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func stepStatus(err error) string {
	if err != nil {
		return "failed"
	}
	return "completed"
}
