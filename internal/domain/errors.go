package domain

import (
	"errors"
	"fmt"
)

// Error codes for the failure scenarios surfaced across the scoring
// boundary. Scoring errors are returned as tagged values, never panics.
const (
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeMissingField = "MISSING_REQUIRED_FIELD"
	ErrCodeNoDiagnosis  = "NO_MATCHING_DIAGNOSES"
	ErrCodeComputation  = "COMPUTATION_ERROR"
)

// ValidationError represents a per-field input validation failure. These
// are recovered locally by re-prompting and never abort a session.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// ScoringError is the tagged error the scoring engine returns instead of
// throwing across its boundary. Code is one of the ErrCode constants.
type ScoringError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *ScoringError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewScoringError creates a tagged scoring error.
func NewScoringError(code, message string) *ScoringError {
	return &ScoringError{Code: code, Message: message}
}

// NewMissingFieldError creates the error for a profile that reached scoring
// without a mandatory field, naming the field.
func NewMissingFieldError(field, message string) *ScoringError {
	return &ScoringError{Code: ErrCodeMissingField, Message: message, Field: field}
}

// IsScoringError extracts a ScoringError from an error chain.
func IsScoringError(err error) (*ScoringError, bool) {
	var se *ScoringError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}
