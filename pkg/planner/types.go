package planner

import (
	"time"

	"github.com/harper/lumi/pkg/profile"
)

// LearnerContextSummary is the first tool's output: everything later steps
// need to know about the learner.
type LearnerContextSummary struct {
	LearnerID    string               `json:"learner_id"`
	TenantID     string               `json:"tenant_id"`
	DisplayName  string               `json:"display_name"`
	Region       string               `json:"region"`
	CurrentGrade int                  `json:"current_grade"`
	BrainProfile profile.BrainProfile `json:"brain_profile"`

	// PrimarySubjectLevel is the profile's level for the target subject,
	// nil when the profile has no entry for it.
	PrimarySubjectLevel *profile.SubjectLevel `json:"primary_subject_level,omitempty"`

	// FallbackProfile records that no persisted brain profile existed and
	// one was synthesized with defaults. Later steps soften tone when set.
	FallbackProfile bool `json:"fallback_profile"`
}

// SessionIntent is the second tool's output: a purely computed planning
// intent with no I/O behind it.
type SessionIntent struct {
	Objective         string   `json:"objective"`
	Tone              string   `json:"tone"`
	EstimatedMinutes  int      `json:"estimated_minutes"`
	FocusDomain       string   `json:"focus_domain"`
	PracticeDomain    string   `json:"practice_domain"`
	ReflectionDomain  string   `json:"reflection_domain"`
	CalmingStrategies []string `json:"calming_strategies"`
	DifficultySummary string   `json:"difficulty_summary"`
	NarrativeHook     string   `json:"narrative_hook"`
}

// SessionActivity is one slot in the rendered session plan.
type SessionActivity struct {
	Kind             string `json:"kind"`
	Title            string `json:"title"`
	Instructions     string `json:"instructions"`
	EstimatedMinutes int    `json:"estimated_minutes"`
}

// SessionPlan is the concrete, renderable session.
type SessionPlan struct {
	ID             string            `json:"id"`
	LearnerID      string            `json:"learner_id"`
	TenantID       string            `json:"tenant_id"`
	Subject        string            `json:"subject"`
	Activities     []SessionActivity `json:"activities"`
	PlannedMinutes int               `json:"planned_minutes"`
	CreatedAt      time.Time         `json:"created_at"`
}

// SessionInsights is a compact explanation object for the caller and UI.
type SessionInsights struct {
	DifficultySummary string   `json:"difficulty_summary"`
	Tone              string   `json:"tone"`
	FallbackProfile   bool     `json:"fallback_profile"`
	CalmingStrategies []string `json:"calming_strategies"`
	NarrativeHook     string   `json:"narrative_hook"`
}

// SessionPlanArtifacts is the third tool's combined output, split into two
// state keys by the step's OnResult callback.
type SessionPlanArtifacts struct {
	Plan     SessionPlan     `json:"plan"`
	Insights SessionInsights `json:"insights"`
}

// SessionRequest identifies who and what to plan a session for.
type SessionRequest struct {
	LearnerID string `json:"learnerId"`
	TenantID  string `json:"tenantId"`
	Subject   string `json:"subject"`
	Region    string `json:"region"`
}

// SessionResult is what PlanLearnerSession returns to the caller.
type SessionResult struct {
	Plan     SessionPlan     `json:"plan"`
	Insights SessionInsights `json:"insights"`
	Trace    []TraceSummary  `json:"trace"`
}

// TraceSummary is the caller-facing projection of a workflow trace entry.
type TraceSummary struct {
	StepID     string `json:"step_id"`
	Label      string `json:"label"`
	DurationMs int64  `json:"duration_ms"`
	Notes      string `json:"notes,omitempty"`
}
