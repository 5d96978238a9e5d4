package planner

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harper/lumi/pkg/profile"
	"github.com/harper/lumi/pkg/workflow"
)

// ProfileStore loads learner records and brain profiles.
type ProfileStore interface {
	GetLearner(ctx context.Context, learnerID string) (*profile.Learner, error)
	GetBrainProfile(ctx context.Context, learnerID string) (*profile.BrainProfile, error)
}

// State keys written by the session-planning workflow.
const (
	stateLearnerContext  = "learnerContext"
	stateSessionIntent   = "sessionIntent"
	stateSessionPlan     = "sessionPlan"
	stateSessionInsights = "sessionInsights"
)

// Fixed activity durations in minutes for the four session slots.
const (
	checkInMinutes     = 2
	microLessonMinutes = 5
	practiceMinutes    = 6
	reflectionMinutes  = 3
)

// gatherLearnerContextTool loads the learner record and brain profile,
// synthesizing a default profile when none is persisted. A missing learner
// record is the one unrecoverable failure in the whole chain.
type gatherLearnerContextTool struct {
	store ProfileStore
}

func (t *gatherLearnerContextTool) Name() string { return "gather_learner_context" }

func (t *gatherLearnerContextTool) Description() string {
	return "Loads the learner record and brain profile, synthesizing defaults when no profile exists"
}

func (t *gatherLearnerContextTool) Run(ctx context.Context, ac *workflow.AgentContext, _ any) (any, error) {
	learner, err := t.store.GetLearner(ctx, ac.LearnerID)
	if err != nil {
		kind := workflow.FailureTransport
		if errors.Is(err, profile.ErrLearnerNotFound) {
			kind = workflow.FailurePrecondition
		}
		return nil, workflow.WithKind(kind, fmt.Errorf("gather learner context: %w", err))
	}

	persisted, err := t.store.GetBrainProfile(ctx, ac.LearnerID)
	if err != nil {
		return nil, workflow.WithKind(workflow.FailureTransport, fmt.Errorf("gather learner context: %w", err))
	}

	summary := LearnerContextSummary{
		LearnerID:    learner.ID,
		TenantID:     learner.TenantID,
		DisplayName:  learner.DisplayName,
		Region:       learner.Region,
		CurrentGrade: learner.CurrentGrade,
	}

	if persisted != nil {
		summary.BrainProfile = *persisted
	} else {
		summary.BrainProfile = profile.SynthesizeDefaultProfile(*learner)
		summary.FallbackProfile = true
	}

	summary.PrimarySubjectLevel = summary.BrainProfile.SubjectLevelFor(ac.Subject)

	return summary, nil
}

func (t *gatherLearnerContextTool) SummarizeResult(output any) string {
	summary, ok := output.(LearnerContextSummary)
	if !ok {
		return ""
	}
	if summary.FallbackProfile {
		return fmt.Sprintf("loaded %s (grade %d) with synthesized default profile", summary.LearnerID, summary.CurrentGrade)
	}
	return fmt.Sprintf("loaded %s (grade %d) with persisted profile", summary.LearnerID, summary.CurrentGrade)
}

// intentInput is the second tool's input, derived from state by MapInput.
type intentInput struct {
	Summary LearnerContextSummary
	Subject string
}

// computeSessionIntentTool derives the session intent. Pure computation:
// no network, no storage, cannot fail under normal conditions.
type computeSessionIntentTool struct{}

func (t *computeSessionIntentTool) Name() string { return "compute_session_intent" }

func (t *computeSessionIntentTool) Description() string {
	return "Derives objective, tone, difficulty, and calming guidance from the learner context"
}

func (t *computeSessionIntentTool) Run(_ context.Context, _ *workflow.AgentContext, input any) (any, error) {
	in, ok := input.(intentInput)
	if !ok {
		return nil, fmt.Errorf("compute session intent: unexpected input type %T", input)
	}

	difficultySummary := pickDifficultySummary(in.Summary.BrainProfile, in.Subject)

	tone := "warm, focused"
	if in.Summary.FallbackProfile {
		// Without assessment history we explore rather than direct.
		tone = "gentle, exploratory"
	}

	var calming []string
	if in.Summary.BrainProfile.Preferences.PrefersShortSessions {
		calming = append(calming,
			"offer a movement break after the micro-lesson",
			"show remaining activities, never remaining time")
	} else {
		calming = append(calming, "open with a grounding breath prompt")
	}
	if in.Summary.BrainProfile.Preferences.ReducedStimulation {
		calming = append(calming, "use the low-stimulation theme")
	}

	hook := fmt.Sprintf("Today we take one small, steady step in %s.", in.Subject)

	return SessionIntent{
		Objective:         fmt.Sprintf("Build confidence with one %s concept through a worked example and guided practice", in.Subject),
		Tone:              tone,
		EstimatedMinutes:  checkInMinutes + microLessonMinutes + practiceMinutes + reflectionMinutes,
		FocusDomain:       in.Subject,
		PracticeDomain:    in.Subject,
		ReflectionDomain:  "self-awareness",
		CalmingStrategies: calming,
		DifficultySummary: difficultySummary,
		NarrativeHook:     hook,
	}, nil
}

func (t *computeSessionIntentTool) SummarizeResult(output any) string {
	intent, ok := output.(SessionIntent)
	if !ok {
		return ""
	}
	return fmt.Sprintf("intent: %s tone, %d minutes", intent.Tone, intent.EstimatedMinutes)
}

// pickDifficultySummary selects the subject-matched recommendation, else
// the first available, else a textual default.
func pickDifficultySummary(brainProfile profile.BrainProfile, subject string) string {
	recs := profile.RecommendDifficulty(brainProfile)
	if len(recs) == 0 {
		return "no difficulty data available yet"
	}
	chosen := recs[0]
	for _, rec := range recs {
		if rec.Subject == subject {
			chosen = rec
			break
		}
	}
	return fmt.Sprintf("%s difficulty for %s (%s)", chosen.RecommendedDifficulty, chosen.Subject, chosen.Rationale)
}

// assembleInput is the third tool's input.
type assembleInput struct {
	Summary LearnerContextSummary
	Intent  SessionIntent
}

// assembleSessionPlanTool renders the four fixed activity slots and the
// insights object. Deterministic; no I/O.
type assembleSessionPlanTool struct{}

func (t *assembleSessionPlanTool) Name() string { return "assemble_session_plan" }

func (t *assembleSessionPlanTool) Description() string {
	return "Builds the renderable session plan and insights from the learner context and intent"
}

func (t *assembleSessionPlanTool) Run(_ context.Context, ac *workflow.AgentContext, input any) (any, error) {
	in, ok := input.(assembleInput)
	if !ok {
		return nil, fmt.Errorf("assemble session plan: unexpected input type %T", input)
	}

	activities := []SessionActivity{
		{
			Kind:             "calm_check_in",
			Title:            "Check in",
			Instructions:     fmt.Sprintf("%s Start with a slow breath and pick how you feel right now.", in.Intent.NarrativeHook),
			EstimatedMinutes: checkInMinutes,
		},
		{
			Kind:             "micro_lesson",
			Title:            fmt.Sprintf("Micro-lesson: %s", in.Intent.FocusDomain),
			Instructions:     fmt.Sprintf("Watch one short example at %s. Each step waits for you.", in.Intent.DifficultySummary),
			EstimatedMinutes: microLessonMinutes,
		},
		{
			Kind:             "guided_practice",
			Title:            "Guided practice",
			Instructions:     fmt.Sprintf("Try a few %s problems with hints. %s", in.Intent.PracticeDomain, strings.Join(in.Intent.CalmingStrategies, "; ")),
			EstimatedMinutes: practiceMinutes,
		},
		{
			Kind:             "reflection",
			Title:            "Reflect",
			Instructions:     "Pick one word for how this went. Nothing is graded here.",
			EstimatedMinutes: reflectionMinutes,
		},
	}

	planned := 0
	for _, a := range activities {
		planned += a.EstimatedMinutes
	}

	plan := SessionPlan{
		ID:             uuid.New().String(),
		LearnerID:      in.Summary.LearnerID,
		TenantID:       in.Summary.TenantID,
		Subject:        ac.Subject,
		Activities:     activities,
		PlannedMinutes: planned,
		CreatedAt:      time.Now(),
	}

	insights := SessionInsights{
		DifficultySummary: in.Intent.DifficultySummary,
		Tone:              in.Intent.Tone,
		FallbackProfile:   in.Summary.FallbackProfile,
		CalmingStrategies: in.Intent.CalmingStrategies,
		NarrativeHook:     in.Intent.NarrativeHook,
	}

	return SessionPlanArtifacts{Plan: plan, Insights: insights}, nil
}

func (t *assembleSessionPlanTool) SummarizeResult(output any) string {
	artifacts, ok := output.(SessionPlanArtifacts)
	if !ok {
		return ""
	}
	return fmt.Sprintf("assembled %d activities, %d planned minutes",
		len(artifacts.Plan.Activities), artifacts.Plan.PlannedMinutes)
}

// learnerContextFromState reads the first tool's output back out of state.
// Keeping the cast in one place spares the step wiring from raw key reads.
func learnerContextFromState(ac *workflow.AgentContext) (LearnerContextSummary, error) {
	raw, ok := ac.State[stateLearnerContext]
	if !ok {
		return LearnerContextSummary{}, fmt.Errorf("state key %q not set", stateLearnerContext)
	}
	summary, ok := raw.(LearnerContextSummary)
	if !ok {
		return LearnerContextSummary{}, fmt.Errorf("state key %q holds %T", stateLearnerContext, raw)
	}
	return summary, nil
}

func sessionIntentFromState(ac *workflow.AgentContext) (SessionIntent, error) {
	raw, ok := ac.State[stateSessionIntent]
	if !ok {
		return SessionIntent{}, fmt.Errorf("state key %q not set", stateSessionIntent)
	}
	intent, ok := raw.(SessionIntent)
	if !ok {
		return SessionIntent{}, fmt.Errorf("state key %q holds %T", stateSessionIntent, raw)
	}
	return intent, nil
}
