// Package errors provides standardized error handling for the query pipeline
// and its BPMN workflow integration.
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Input errors
	ErrCodeQueryInputInvalid ErrorCode = "QUERY_INPUT_INVALID"
	ErrCodeQueryMeaningless  ErrorCode = "QUERY_MEANINGLESS"

	// Disambiguation errors
	ErrCodePersonNotSpecified  ErrorCode = "PERSON_NOT_SPECIFIED"
	ErrCodeProjectNotSpecified ErrorCode = "PROJECT_NOT_SPECIFIED"
	ErrCodePersonNotFound      ErrorCode = "PERSON_NOT_FOUND"

	// Collaborator errors
	ErrCodeDirectoryUnavailable ErrorCode = "DIRECTORY_UNAVAILABLE"
	ErrCodeDirectoryQueryFailed ErrorCode = "DIRECTORY_QUERY_FAILED"
	ErrCodeCacheUnavailable     ErrorCode = "CACHE_UNAVAILABLE"

	// Workflow engine errors
	ErrCodeWorkflowEngineFailed ErrorCode = "WORKFLOW_ENGINE_FAILED"

	// Internal errors
	ErrCodeQueryProcessingFailed ErrorCode = "QUERY_PROCESSING_FAILED"
	ErrCodeInternal              ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata attaches a key/value pair and returns the same error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}

	for k, v := range e.ErrorVariables {
		vars[k] = v
	}

	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

// NewQueryInputInvalidError creates a non-retryable input validation error.
func NewQueryInputInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryInputInvalid,
		Message:   "Query input is invalid",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryMeaninglessError creates a non-retryable error for gibberish input.
func NewQueryMeaninglessError(query string) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryMeaningless,
		Message:   "Query could not be understood",
		Details:   fmt.Sprintf("query: %q", query),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewPersonNotSpecifiedError() *StandardError {
	return &StandardError{
		Code:      ErrCodePersonNotSpecified,
		Message:   "Workload analysis requires a person name, but no known person was found in the query",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewProjectNotSpecifiedError() *StandardError {
	return &StandardError{
		Code:      ErrCodeProjectNotSpecified,
		Message:   "Risk assessment requires a project name, but no known project was found in the query",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPersonNotFoundError creates a non-retryable error for queries that name
// nobody the directory knows.
func NewPersonNotFoundError(unknown []string) *StandardError {
	details := "no known person matched the query"
	if len(unknown) > 0 {
		details = fmt.Sprintf("unrecognized: %s", strings.Join(unknown, ", "))
	}
	return &StandardError{
		Code:      ErrCodePersonNotFound,
		Message:   "Could not identify the person this query refers to",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectoryUnavailableError creates a retryable directory connection error.
func NewDirectoryUnavailableError(backend string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryUnavailable,
		Message:   "Task directory is unavailable",
		Details:   fmt.Sprintf("backend: %s, error: %s", backend, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDirectoryQueryFailedError creates a retryable directory query error.
func NewDirectoryQueryFailedError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDirectoryQueryFailed,
		Message:   "Task directory query failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryProcessingFailedError wraps an unexpected failure raised while
// executing a parsed query.
func NewQueryProcessingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryProcessingFailed,
		Message:   "Query processing failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowEngineError wraps a failed Zeebe gateway call.
func NewWorkflowEngineError(operation string, err error, retryable bool) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowEngineFailed,
		Message:   fmt.Sprintf("Zeebe operation '%s' failed", operation),
		Details:   err.Error(),
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to BPMN error codes.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeQueryInputInvalid:     "QUERY_INPUT_INVALID",
	ErrCodeQueryMeaningless:      "QUERY_MEANINGLESS",
	ErrCodePersonNotSpecified:    "PERSON_NOT_SPECIFIED",
	ErrCodeProjectNotSpecified:   "PROJECT_NOT_SPECIFIED",
	ErrCodePersonNotFound:        "PERSON_NOT_FOUND",
	ErrCodeDirectoryUnavailable:  "DIRECTORY_UNAVAILABLE",
	ErrCodeDirectoryQueryFailed:  "DIRECTORY_QUERY_FAILED",
	ErrCodeCacheUnavailable:      "CACHE_UNAVAILABLE",
	ErrCodeQueryProcessingFailed: "QUERY_PROCESSING_FAILED",
	ErrCodeWorkflowEngineFailed:  "WORKFLOW_ENGINE_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDirectoryUnavailable,
		ErrCodeDirectoryQueryFailed,
		ErrCodeWorkflowEngineFailed:
		return 3

	case ErrCodeCacheUnavailable,
		ErrCodeQueryProcessingFailed:
		return 2

	default:
		return 0 // Business errors: no retry
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasPrefix(codeStr, "QUERY_INPUT") || codeStr == string(ErrCodeQueryMeaningless):
		return "INPUT"
	case strings.HasPrefix(codeStr, "PERSON") || strings.HasPrefix(codeStr, "PROJECT"):
		return "DISAMBIGUATION"
	case strings.HasPrefix(codeStr, "DIRECTORY"):
		return "DIRECTORY"
	case strings.HasPrefix(codeStr, "CACHE"):
		return "CACHE"
	case strings.HasPrefix(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "PROCESSING") || codeStr == string(ErrCodeInternal):
		return "INTERNAL"
	default:
		return "OTHER"
	}
}

// AsStandardError unwraps err into a StandardError when one is in the chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}
