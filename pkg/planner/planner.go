package planner

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/harper/lumi/pkg/workflow"
)

// Planner plans learning sessions by driving the session-planning workflow.
type Planner struct {
	engine *workflow.Engine
	store  ProfileStore
	logger zerolog.Logger
}

// Config holds planner configuration.
type Config struct {
	Engine *workflow.Engine
	Store  ProfileStore
	Logger zerolog.Logger
}

// New creates a session planner.
func New(cfg Config) (*Planner, error) {
	if cfg.Engine == nil {
		return nil, fmt.Errorf("workflow engine is required")
	}
	if cfg.Store == nil {
		return nil, fmt.Errorf("profile store is required")
	}

	return &Planner{
		engine: cfg.Engine,
		store:  cfg.Store,
		logger: cfg.Logger,
	}, nil
}

// definition builds the session-planning pipeline: gather learner context,
// compute session intent, assemble session plan. The last step splits its
// combined artifact into two state keys via OnResult instead of using
// SaveResultAs.
func (p *Planner) definition() workflow.WorkflowDefinition {
	return workflow.WorkflowDefinition{
		Name:        "session_planning",
		Description: "Plans a personalized learning session for one learner and subject",
		Steps: []workflow.WorkflowStep{
			{
				ID:           "gather_learner_context",
				Label:        "Gather learner context",
				Tool:         &gatherLearnerContextTool{store: p.store},
				SaveResultAs: stateLearnerContext,
			},
			{
				ID:    "compute_session_intent",
				Label: "Compute session intent",
				Tool:  &computeSessionIntentTool{},
				MapInput: func(ac *workflow.AgentContext) (any, error) {
					summary, err := learnerContextFromState(ac)
					if err != nil {
						return nil, err
					}
					return intentInput{Summary: summary, Subject: ac.Subject}, nil
				},
				SaveResultAs: stateSessionIntent,
			},
			{
				ID:    "assemble_session_plan",
				Label: "Assemble session plan",
				Tool:  &assembleSessionPlanTool{},
				MapInput: func(ac *workflow.AgentContext) (any, error) {
					summary, err := learnerContextFromState(ac)
					if err != nil {
						return nil, err
					}
					intent, err := sessionIntentFromState(ac)
					if err != nil {
						return nil, err
					}
					return assembleInput{Summary: summary, Intent: intent}, nil
				},
				OnResult: func(output any, ac *workflow.AgentContext) {
					if artifacts, ok := output.(SessionPlanArtifacts); ok {
						ac.State[stateSessionPlan] = artifacts.Plan
						ac.State[stateSessionInsights] = artifacts.Insights
					}
				},
			},
		},
	}
}

// PlanLearnerSession runs the workflow for one request and extracts the
// final plan and insights. A missing output after a successful run is a
// wiring defect and fails loudly rather than returning a partial result.
func (p *Planner) PlanLearnerSession(ctx context.Context, req SessionRequest) (*SessionResult, error) {
	base := workflow.NewContext(req.LearnerID, req.TenantID, req.Subject, req.Region)

	final, err := p.engine.Run(ctx, p.definition(), base)
	if err != nil {
		return nil, err
	}

	plan, planOK := final.State[stateSessionPlan].(SessionPlan)
	insights, insightsOK := final.State[stateSessionInsights].(SessionInsights)
	if !planOK || !insightsOK {
		return nil, workflow.WithKind(workflow.FailureInvariant,
			fmt.Errorf("workflow completed without generating a session plan"))
	}

	trace := make([]TraceSummary, 0, len(final.Trace))
	for _, entry := range final.Trace {
		trace = append(trace, TraceSummary{
			StepID:     entry.StepID,
			Label:      entry.Label,
			DurationMs: entry.DurationMs,
			Notes:      entry.Notes,
		})
	}

	return &SessionResult{
		Plan:     plan,
		Insights: insights,
		Trace:    trace,
	}, nil
}
