package domain

import "time"

// DiagnosticReason classifies why a record was left out of a hydrated result.
type DiagnosticReason string

const (
	ReasonNotFound           DiagnosticReason = "not_found"
	ReasonValidation         DiagnosticReason = "validation"
	ReasonMalformedReference DiagnosticReason = "malformed_reference"
	ReasonProjectFailure     DiagnosticReason = "project_failure"
)

// Diagnostic is emitted once per dropped reference, entity or project.
type Diagnostic struct {
	Owner   string           `json:"owner"`
	Ref     Reference        `json:"ref"`
	Reason  DiagnosticReason `json:"reason"`
	Field   string           `json:"field,omitempty"`
	Message string           `json:"message"`
}

const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// CycleReport summarises one fetch-resolve cycle.
type CycleReport struct {
	RunID       string       `json:"run_id"`
	Status      string       `json:"status"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt time.Time    `json:"completed_at"`
	RawProjects int          `json:"raw_projects"`
	Projects    int          `json:"projects"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Error       string       `json:"error,omitempty"`
}
