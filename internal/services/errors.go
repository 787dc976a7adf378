package services

import "fmt"

// EntityProcessingError wraps any failure while evaluating or dispatching for
// a single entity. It is caught, logged and counted inside the run; it never
// propagates to sibling entities or past the job's top level.
type EntityProcessingError struct {
	Job      string
	EntityID string
	Err      error
}

func (e *EntityProcessingError) Error() string {
	return fmt.Sprintf("job %s: entity %s: %v", e.Job, e.EntityID, e.Err)
}

func (e *EntityProcessingError) Unwrap() error { return e.Err }

// TransportError marks a push send failure. Treated as a per-entity processing
// error; the engine performs no retry — the next scheduled run naturally
// re-evaluates eligibility.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("push transport: %v", e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// AuthorizationError rejects a job-trigger invocation before any entity is
// touched.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string { return "unauthorized: " + e.Reason }
