package models

import "fmt"

// FieldError points at a single bad field in a request or record.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError rejects malformed input (marks out of range, bad ids,
// bad weight configuration) before anything is written.
type ValidationError struct {
	Msg    string       `json:"error"`
	Fields []FieldError `json:"fields,omitempty"`
}

func NewValidationError(msg string, fields ...FieldError) *ValidationError {
	return &ValidationError{Msg: msg, Fields: fields}
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError reports a referenced subject/component/student/term that
// does not exist.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

// InvalidOperationError reports a call that is wrong for the target's
// configuration, e.g. aggregating a non-composite subject. These are
// programming or configuration errors and are never silently ignored.
type InvalidOperationError struct {
	Op     string
	Reason string
}

func NewInvalidOperationError(op, reason string) *InvalidOperationError {
	return &InvalidOperationError{Op: op, Reason: reason}
}

func (e *InvalidOperationError) Error() string {
	return e.Op + ": " + e.Reason
}

// ConsistencyWarning is non-fatal: component weights for a subject do not
// sum to 1.0. The caller normalizes and proceeds but should log the warning
// so an administrator can fix the catalog.
type ConsistencyWarning struct {
	SubjectID   string
	SubjectName string
	WeightSum   float64
}

func (w *ConsistencyWarning) Error() string {
	return fmt.Sprintf("component weights for subject %q sum to %.4f, expected 1.0 (normalized)", w.SubjectName, w.WeightSum)
}
