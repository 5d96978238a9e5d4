package workflow

import (
	"context"
	"time"
)

// AgentContext is the mutable state threaded through one workflow run.
// The identity fields are fixed for the lifetime of the run; State and
// Trace are written by the engine as steps execute.
type AgentContext struct {
	LearnerID string         `json:"learner_id"`
	TenantID  string         `json:"tenant_id"`
	Subject   string         `json:"subject"`
	Region    string         `json:"region"`
	State     map[string]any `json:"state"`
	Trace     []TraceEntry   `json:"trace"`
}

// NewContext creates a fresh context with empty state and trace.
func NewContext(learnerID, tenantID, subject, region string) *AgentContext {
	return &AgentContext{
		LearnerID: learnerID,
		TenantID:  tenantID,
		Subject:   subject,
		Region:    region,
		State:     make(map[string]any),
		Trace:     []TraceEntry{},
	}
}

// Clone returns a shallow copy of the context. State entries and trace
// records are copied into new collections, so a run never mutates the
// caller's original object.
func (c *AgentContext) Clone() *AgentContext {
	state := make(map[string]any, len(c.State))
	for k, v := range c.State {
		state[k] = v
	}
	trace := make([]TraceEntry, len(c.Trace))
	copy(trace, c.Trace)

	return &AgentContext{
		LearnerID: c.LearnerID,
		TenantID:  c.TenantID,
		Subject:   c.Subject,
		Region:    c.Region,
		State:     state,
		Trace:     trace,
	}
}

// TraceEntry is one audit record per executed step.
type TraceEntry struct {
	StepID     string    `json:"step_id"`
	Label      string    `json:"label"`
	ToolName   string    `json:"tool_name"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DurationMs int64     `json:"duration_ms"`
	Notes      string    `json:"notes,omitempty"`
	SavedKeys  []string  `json:"saved_keys,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// AgentTool is a named, reusable unit of work. Tools may read the context
// but must not write State directly; state mutation is owned by the engine
// via the step's SaveResultAs key and OnResult callback.
type AgentTool interface {
	Name() string
	Description() string
	Run(ctx context.Context, ac *AgentContext, input any) (any, error)
}

// ResultSummarizer is optionally implemented by tools that can produce a
// short human-readable summary of their output for trace notes.
type ResultSummarizer interface {
	SummarizeResult(output any) string
}

// WorkflowStep binds a tool into a pipeline position.
type WorkflowStep struct {
	ID    string
	Label string
	Tool  AgentTool

	// MapInput derives the step's input from current context state. It may
	// only read state written by earlier steps. Nil means the tool takes
	// no input.
	MapInput func(ac *AgentContext) (any, error)

	// SaveResultAs stores the raw tool output verbatim under this state
	// key when non-empty.
	SaveResultAs string

	// OnResult may write additional derived keys into context state, for
	// example splitting one composite output into several entries.
	OnResult func(output any, ac *AgentContext)
}

// WorkflowDefinition is an ordered, immutable list of steps describing one
// pipeline. Steps execute strictly in the order listed.
type WorkflowDefinition struct {
	Name        string
	Description string
	Steps       []WorkflowStep
}
