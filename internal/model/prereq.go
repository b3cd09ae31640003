package model

import "encoding/json"

// Prerequisites holds the four static conditions checked before the
// pipeline runs. All four are expected to be true under a normal runtime.
type Prerequisites struct {
	// RuntimeVersion is true when the Go runtime meets the minimum version.
	RuntimeVersion bool `json:"runtime_version"`

	// LoggingConfigured is true when a logger was injected at construction.
	LoggingConfigured bool `json:"logging_configured"`

	// TimestampValid is true when the run context carries a timestamp.
	TimestampValid bool `json:"timestamp_valid"`

	// IssueNumberValid is true when the issue number is positive.
	IssueNumberValid bool `json:"issue_number_valid"`
}

// AllPassed reports whether every prerequisite check succeeded.
func (p Prerequisites) AllPassed() bool {
	return p.RuntimeVersion && p.LoggingConfigured && p.TimestampValid && p.IssueNumberValid
}

// PassedCount returns how many of the four checks succeeded.
func (p Prerequisites) PassedCount() int {
	count := 0
	for _, ok := range []bool{p.RuntimeVersion, p.LoggingConfigured, p.TimestampValid, p.IssueNumberValid} {
		if ok {
			count++
		}
	}
	return count
}

// PrerequisiteResult is the outcome of prerequisite validation.
// Validation never raises: an internal fault is carried as Message and
// serialized as {"error": true, "message": ...} instead of the check map.
//
// Design decision: This is an explicit success-or-error result type rather
// than an error return. Prerequisite failure is report data, not a fault,
// and must survive serialization into the final report.
type PrerequisiteResult struct {
	// Checks holds the check outcomes. Nil when validation itself faulted.
	Checks *Prerequisites

	// Message is the fault description when validation could not run.
	Message string
}

// Failed reports whether validation itself faulted.
func (p PrerequisiteResult) Failed() bool {
	return p.Checks == nil
}

// prerequisiteError is the serialized shape of a faulted validation.
type prerequisiteError struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// MarshalJSON serializes either the check map or the error shape.
func (p PrerequisiteResult) MarshalJSON() ([]byte, error) {
	if p.Checks == nil {
		return json.Marshal(prerequisiteError{Error: true, Message: p.Message})
	}
	return json.Marshal(*p.Checks)
}

// UnmarshalJSON restores a PrerequisiteResult from either serialized shape.
func (p *PrerequisiteResult) UnmarshalJSON(data []byte) error {
	var probe struct {
		Error   bool   `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	if probe.Error {
		p.Checks = nil
		p.Message = probe.Message
		return nil
	}

	var checks Prerequisites
	if err := json.Unmarshal(data, &checks); err != nil {
		return err
	}
	p.Checks = &checks
	p.Message = ""
	return nil
}
