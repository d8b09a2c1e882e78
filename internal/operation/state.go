package operation

import "time"

// Status is the lifecycle position of an operation
type Status string

const (
	StatusIdle      Status = "idle"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// State is a snapshot of one operation: Idle, Running, Succeeded(Result) or Failed(Reason)
type State[T any] struct {
	Operation  string     `json:"operation"`
	Status     Status     `json:"status"`
	Result     *T         `json:"result,omitempty"`
	Reason     string     `json:"reason,omitempty"`
	Cause      string     `json:"cause,omitempty"`
	ErrorKind  string     `json:"error_kind,omitempty"`
	StatusCode int        `json:"status_code,omitempty"`
	Generation uint64     `json:"generation"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Running reports whether a request is in flight
func (s State[T]) Running() bool {
	return s.Status == StatusRunning
}

// Succeeded returns the result when the operation succeeded
func (s State[T]) Succeeded() (*T, bool) {
	if s.Status != StatusSucceeded {
		return nil, false
	}
	return s.Result, true
}
