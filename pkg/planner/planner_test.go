package planner

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/lumi/pkg/profile"
	"github.com/harper/lumi/pkg/workflow"
)

type fakeStore struct {
	learner      *profile.Learner
	learnerErr   error
	brainProfile *profile.BrainProfile
	profileErr   error
}

func (f *fakeStore) GetLearner(ctx context.Context, learnerID string) (*profile.Learner, error) {
	if f.learnerErr != nil {
		return nil, f.learnerErr
	}
	return f.learner, nil
}

func (f *fakeStore) GetBrainProfile(ctx context.Context, learnerID string) (*profile.BrainProfile, error) {
	return f.brainProfile, f.profileErr
}

func newTestPlanner(t *testing.T, store ProfileStore) *Planner {
	t.Helper()

	p, err := New(Config{
		Engine: workflow.NewEngine(workflow.EngineConfig{Logger: zerolog.Nop()}),
		Store:  store,
		Logger: zerolog.Nop(),
	})
	require.NoError(t, err)
	return p
}

func testSessionRequest() SessionRequest {
	return SessionRequest{
		LearnerID: "L1",
		TenantID:  "T1",
		Subject:   "math",
		Region:    "north_america",
	}
}

func TestPlanner_PlanLearnerSession_NoPersistedProfile(t *testing.T) {
	store := &fakeStore{
		learner: &profile.Learner{
			ID: "L1", TenantID: "T1", DisplayName: "Avery",
			Region: "north_america", CurrentGrade: 8,
		},
	}

	result, err := newTestPlanner(t, store).PlanLearnerSession(context.Background(), testSessionRequest())
	require.NoError(t, err)

	// Plan shape.
	plan := result.Plan
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "L1", plan.LearnerID)
	assert.Equal(t, "T1", plan.TenantID)
	assert.Equal(t, "math", plan.Subject)
	assert.Equal(t, 16, plan.PlannedMinutes)

	require.Len(t, plan.Activities, 4)
	kinds := make([]string, 0, 4)
	total := 0
	for _, a := range plan.Activities {
		kinds = append(kinds, a.Kind)
		total += a.EstimatedMinutes
		assert.NotEmpty(t, a.Title)
		assert.NotEmpty(t, a.Instructions)
	}
	assert.Equal(t, []string{"calm_check_in", "micro_lesson", "guided_practice", "reflection"}, kinds)
	assert.Equal(t, plan.PlannedMinutes, total)

	// A synthesized profile softens the tone.
	assert.True(t, result.Insights.FallbackProfile)
	assert.Equal(t, "gentle, exploratory", result.Insights.Tone)
	assert.NotEmpty(t, result.Insights.DifficultySummary)

	// One trace entry per step, in order.
	require.Len(t, result.Trace, 3)
	assert.Equal(t, "gather_learner_context", result.Trace[0].StepID)
	assert.Equal(t, "compute_session_intent", result.Trace[1].StepID)
	assert.Equal(t, "assemble_session_plan", result.Trace[2].StepID)
	assert.Contains(t, result.Trace[0].Notes, "synthesized default profile")
}

func TestPlanner_PlanLearnerSession_PersistedProfile(t *testing.T) {
	store := &fakeStore{
		learner: &profile.Learner{
			ID: "L1", TenantID: "T1", DisplayName: "Avery",
			Region: "north_america", CurrentGrade: 8,
		},
		brainProfile: &profile.BrainProfile{
			LearnerID: "L1",
			GradeBand: "6_8",
			SubjectLevels: []profile.SubjectLevel{
				{Subject: "math", AssessedGradeLevel: 7, MasteryScore: 0.75},
			},
			Preferences: profile.Preferences{ReducedStimulation: true},
		},
	}

	result, err := newTestPlanner(t, store).PlanLearnerSession(context.Background(), testSessionRequest())
	require.NoError(t, err)

	assert.False(t, result.Insights.FallbackProfile)
	assert.Equal(t, "warm, focused", result.Insights.Tone)
	assert.Contains(t, result.Insights.DifficultySummary, "stretch difficulty for math")
	assert.Contains(t, result.Insights.CalmingStrategies, "use the low-stimulation theme")
	assert.Contains(t, result.Insights.CalmingStrategies, "open with a grounding breath prompt")
}

func TestPlanner_PlanLearnerSession_LearnerNotFound(t *testing.T) {
	store := &fakeStore{
		learnerErr: fmt.Errorf("%w: L1", profile.ErrLearnerNotFound),
	}

	result, err := newTestPlanner(t, store).PlanLearnerSession(context.Background(), testSessionRequest())
	assert.Nil(t, result)
	require.Error(t, err)

	// The failure surfaces as a step error on the first step, with the
	// original cause preserved for the gateway's status mapping.
	var stepErr *workflow.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "gather_learner_context", stepErr.StepID)
	assert.Equal(t, workflow.FailurePrecondition, stepErr.Kind)
	assert.ErrorIs(t, err, profile.ErrLearnerNotFound)
	require.Len(t, stepErr.Trace, 1)
	assert.NotEmpty(t, stepErr.Trace[0].Error)
}

func TestPlanner_PlanLearnerSession_ProfileLoadFailure(t *testing.T) {
	store := &fakeStore{
		learner:    &profile.Learner{ID: "L1", TenantID: "T1", CurrentGrade: 8},
		profileErr: errors.New("disk I/O error"),
	}

	_, err := newTestPlanner(t, store).PlanLearnerSession(context.Background(), testSessionRequest())
	require.Error(t, err)

	var stepErr *workflow.StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "gather_learner_context", stepErr.StepID)
	assert.Equal(t, workflow.FailureTransport, stepErr.Kind)
}

func TestPlanner_TraceRecordsSavedKeys(t *testing.T) {
	store := &fakeStore{
		learner: &profile.Learner{ID: "L1", TenantID: "T1", CurrentGrade: 8},
	}
	p := newTestPlanner(t, store)

	final, err := p.engine.Run(context.Background(), p.definition(),
		workflow.NewContext("L1", "T1", "math", "north_america"))
	require.NoError(t, err)

	require.Len(t, final.Trace, 3)
	assert.Equal(t, []string{stateLearnerContext}, final.Trace[0].SavedKeys)
	assert.Equal(t, []string{stateSessionIntent}, final.Trace[1].SavedKeys)
	// The last step writes two keys through its OnResult callback.
	assert.Equal(t, []string{stateSessionInsights, stateSessionPlan}, final.Trace[2].SavedKeys)
}

func TestComputeSessionIntentTool_RejectsWrongInput(t *testing.T) {
	tool := &computeSessionIntentTool{}
	_, err := tool.Run(context.Background(), nil, "not an intentInput")
	assert.Error(t, err)
}

func TestPickDifficultySummary(t *testing.T) {
	t.Run("subject match", func(t *testing.T) {
		got := pickDifficultySummary(profile.BrainProfile{
			SubjectLevels: []profile.SubjectLevel{
				{Subject: "ela", AssessedGradeLevel: 5, MasteryScore: 0.2},
				{Subject: "math", AssessedGradeLevel: 6, MasteryScore: 0.5},
			},
		}, "math")
		assert.Contains(t, got, "supportive difficulty for math")
	})

	t.Run("no match falls back to weakest", func(t *testing.T) {
		got := pickDifficultySummary(profile.BrainProfile{
			SubjectLevels: []profile.SubjectLevel{
				{Subject: "ela", AssessedGradeLevel: 5, MasteryScore: 0.2},
			},
		}, "science")
		assert.Contains(t, got, "foundational difficulty for ela")
	})

	t.Run("empty profile", func(t *testing.T) {
		assert.Equal(t, "no difficulty data available yet", pickDifficultySummary(profile.BrainProfile{}, "math"))
	})
}
