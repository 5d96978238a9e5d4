package workflow

import (
	"errors"
	"fmt"
)

// FailureKind classifies workflow-adjacent failures so catch sites can
// assert on kind instead of treating every error as recoverable.
type FailureKind string

const (
	// FailureNotFound covers missing optional data (no config, no curated
	// content, no persisted profile). Always recoverable with a default.
	FailureNotFound FailureKind = "not_found"

	// FailureTransport covers timeouts, non-2xx responses, and malformed
	// bodies on optional enrichments. Always recoverable via fallback.
	FailureTransport FailureKind = "transport"

	// FailurePrecondition covers hard preconditions such as a learner that
	// does not exist. Fatal; propagated to the caller.
	FailurePrecondition FailureKind = "precondition"

	// FailureInvariant covers programming defects such as a workflow that
	// completed without producing its declared outputs. Fatal.
	FailureInvariant FailureKind = "invariant"
)

// kindError attaches a FailureKind to an error without changing its
// message or unwrap chain.
type kindError struct {
	kind FailureKind
	err  error
}

func (e *kindError) Error() string { return e.err.Error() }
func (e *kindError) Unwrap() error { return e.err }

// WithKind classifies an error with a failure kind. Tools wrap their
// errors so the gateway can map kinds to responses instead of matching
// message text.
func WithKind(kind FailureKind, err error) error {
	if err == nil {
		return nil
	}
	return &kindError{kind: kind, err: err}
}

// KindOf returns the failure kind attached anywhere in the error's chain,
// or "" when the error is unclassified.
func KindOf(err error) FailureKind {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.kind
	}
	return ""
}

// StepError is raised when a workflow step fails. It carries the failing
// step's id, the failure kind, the original cause, and the trace
// accumulated up to and including the failed step.
type StepError struct {
	Workflow string
	StepID   string
	Kind     FailureKind
	Trace    []TraceEntry
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow %q failed at step %q: %v", e.Workflow, e.StepID, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
