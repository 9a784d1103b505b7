// Package errors provides standardized error handling for the matching workers and
// their BPMN workflow integration.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Validation codes come first; everything from DATA_UNAVAILABLE down is runtime or infrastructure.
const (
	ErrCodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidGrade         ErrorCode = "INVALID_GRADE"
	ErrCodeInsufficientSubjects ErrorCode = "INSUFFICIENT_SUBJECTS"
	ErrCodeDuplicateSubject     ErrorCode = "DUPLICATE_SUBJECT"
	ErrCodeInvalidResponse      ErrorCode = "INVALID_RESPONSE"
	ErrCodeInvalidPlacementRule ErrorCode = "INVALID_PLACEMENT_RULE"
	ErrCodeSessionNotFound      ErrorCode = "ASSESSMENT_SESSION_NOT_FOUND"
	ErrCodeSessionClosed        ErrorCode = "ASSESSMENT_SESSION_CLOSED"
	ErrCodeDataUnavailable      ErrorCode = "DATA_UNAVAILABLE"
	ErrCodeComputationTimeout   ErrorCode = "COMPUTATION_TIMEOUT"
	ErrCodePartialDataWarning   ErrorCode = "PARTIAL_DATA_WARNING"
	ErrCodeCatalogUnavailable   ErrorCode = "CATALOG_UNAVAILABLE"
	ErrCodeCatalogLoadFailed    ErrorCode = "CATALOG_LOAD_FAILED"
	ErrCodeCacheOperationFailed ErrorCode = "CACHE_OPERATION_FAILED"
	ErrCodeEventPublishFailed   ErrorCode = "EVENT_PUBLISH_FAILED"
	ErrCodeInternal             ErrorCode = "INTERNAL_ERROR"
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
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is reports whether target is a StandardError with the same code, so that
// errors.Is(err, ErrInvalidGrade) works against constructed errors.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is matching by code.
var (
	ErrValidationFailed     = &StandardError{Code: ErrCodeValidationFailed}
	ErrInvalidGrade         = &StandardError{Code: ErrCodeInvalidGrade}
	ErrInsufficientSubjects = &StandardError{Code: ErrCodeInsufficientSubjects}
	ErrDuplicateSubject     = &StandardError{Code: ErrCodeDuplicateSubject}
	ErrInvalidResponse      = &StandardError{Code: ErrCodeInvalidResponse}
	ErrInvalidPlacementRule = &StandardError{Code: ErrCodeInvalidPlacementRule}
	ErrSessionNotFound      = &StandardError{Code: ErrCodeSessionNotFound}
	ErrSessionClosed        = &StandardError{Code: ErrCodeSessionClosed}
	ErrDataUnavailable      = &StandardError{Code: ErrCodeDataUnavailable}
	ErrComputationTimeout   = &StandardError{Code: ErrCodeComputationTimeout}
	ErrCatalogUnavailable   = &StandardError{Code: ErrCodeCatalogUnavailable}
	ErrCatalogLoadFailed    = &StandardError{Code: ErrCodeCatalogLoadFailed}
	ErrCacheOperationFailed = &StandardError{Code: ErrCodeCacheOperationFailed}
)

// Warning is a non-fatal condition carried on a result, e.g. an older cutoff year
// used as fallback. It has no timestamp so identical inputs produce identical output.
type Warning struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Code, w.Message)
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

// NewValidationError creates a non-retryable generic validation error.
func NewValidationError(details string, metadata map[string]interface{}) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Input validation failed",
		Details:   details,
		Retryable: false,
		Metadata:  metadata,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidGradeError reports a letter grade outside the recognized vocabulary.
// subject may be empty when the grade is normalized on its own.
func NewInvalidGradeError(subject, grade string) *StandardError {
	meta := map[string]interface{}{"grade": grade}
	details := fmt.Sprintf("grade: %q", grade)
	if subject != "" {
		meta["subject"] = subject
		details = fmt.Sprintf("subject: %s, grade: %q", subject, grade)
	}
	return &StandardError{
		Code:      ErrCodeInvalidGrade,
		Message:   "Unrecognized letter grade",
		Details:   details,
		Retryable: false,
		Metadata:  meta,
		Timestamp: time.Now().UTC(),
	}
}

// NewInsufficientSubjectsError reports a profile with too few subjects.
func NewInsufficientSubjectsError(got, min int) *StandardError {
	return &StandardError{
		Code:      ErrCodeInsufficientSubjects,
		Message:   "Not enough subjects to compute cluster points",
		Details:   fmt.Sprintf("got %d subjects, need at least %d", got, min),
		Retryable: false,
		Metadata:  map[string]interface{}{"subjectCount": got, "minimum": min},
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateSubjectError reports a subject listed more than once.
func NewDuplicateSubjectError(subject string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateSubject,
		Message:   "Subject listed more than once",
		Details:   fmt.Sprintf("subject: %s", subject),
		Retryable: false,
		Metadata:  map[string]interface{}{"subject": subject},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidResponseError reports an assessment response that cannot be accepted.
func NewInvalidResponseError(questionID, reason string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidResponse,
		Message:   "Invalid assessment response",
		Details:   fmt.Sprintf("questionId: %s, %s", questionID, reason),
		Retryable: false,
		Metadata:  map[string]interface{}{"questionId": questionID},
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidPlacementRuleError reports a misconfigured cluster placement rule.
func NewInvalidPlacementRuleError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidPlacementRule,
		Message:   "Invalid cluster placement rule",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError reports an unknown or expired assessment session.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Assessment session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Metadata:  map[string]interface{}{"sessionId": sessionID},
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionClosedError reports a submission against a completed session.
func NewSessionClosedError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionClosed,
		Message:   "Assessment session already completed",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Metadata:  map[string]interface{}{"sessionId": sessionID},
		Timestamp: time.Now().UTC(),
	}
}

// NewDataUnavailableError reports a program with no cutoff data for any year.
func NewDataUnavailableError(programID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDataUnavailable,
		Message:   "Insufficient data",
		Details:   fmt.Sprintf("programId: %s has no cutoff data for any year", programID),
		Retryable: false,
		Metadata:  map[string]interface{}{"programId": programID},
		Timestamp: time.Now().UTC(),
	}
}

// NewComputationTimeoutError reports a deadline hit while scanning the catalog.
func NewComputationTimeoutError(scanned, total int) *StandardError {
	return &StandardError{
		Code:      ErrCodeComputationTimeout,
		Message:   "Deadline exceeded while scoring programs",
		Details:   fmt.Sprintf("scored %d of %d programs", scanned, total),
		Retryable: false,
		Metadata:  map[string]interface{}{"scanned": scanned, "total": total},
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogUnavailableError reports that no catalog snapshot has been loaded yet.
func NewCatalogUnavailableError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogUnavailable,
		Message:   "Program catalog not loaded",
		Details:   details,
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogLoadFailedError wraps a failure reading the catalog feed.
func NewCatalogLoadFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogLoadFailed,
		Message:   "Program catalog load failed",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"source": source},
		Timestamp: time.Now().UTC(),
	}
}

// NewCacheOperationFailedError wraps a redis failure.
func NewCacheOperationFailedError(op string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCacheOperationFailed,
		Message:   "Cache operation failed",
		Details:   fmt.Sprintf("op: %s, error: %s", op, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewEventPublishFailedError wraps an SNS publish failure.
func NewEventPublishFailedError(event string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEventPublishFailed,
		Message:   "Event publish failed",
		Details:   fmt.Sprintf("event: %s, error: %s", event, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return &StandardError{
		Code:      "RESOURCE_NOT_FOUND",
		Message:   fmt.Sprintf("Resource not found in %s", service),
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPartialDataWarning builds a non-fatal warning.
func NewPartialDataWarning(message string, metadata map[string]interface{}) Warning {
	return Warning{
		Code:     ErrCodePartialDataWarning,
		Message:  message,
		Metadata: metadata,
	}
}

// AsWarning downgrades a StandardError into a Warning carried on a result.
func AsWarning(err *StandardError) Warning {
	return Warning{
		Code:     err.Code,
		Message:  err.Message + ": " + err.Details,
		Metadata: err.Metadata,
	}
}

// ==========================
// 4. Classification
// ==========================

// BPMNErrorMapping maps internal codes to the error codes modelled in the BPMN diagrams.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeValidationFailed:     "VALIDATION_ERROR",
	ErrCodeInvalidGrade:         "VALIDATION_ERROR",
	ErrCodeInsufficientSubjects: "VALIDATION_ERROR",
	ErrCodeDuplicateSubject:     "VALIDATION_ERROR",
	ErrCodeInvalidResponse:      "VALIDATION_ERROR",
	ErrCodeInvalidPlacementRule: "CONFIGURATION_ERROR",
	ErrCodeSessionNotFound:      "ASSESSMENT_SESSION_NOT_FOUND",
	ErrCodeSessionClosed:        "ASSESSMENT_SESSION_CLOSED",
	ErrCodeDataUnavailable:      "DATA_UNAVAILABLE",
	ErrCodeComputationTimeout:   "COMPUTATION_TIMEOUT",
	ErrCodeCatalogUnavailable:   "CATALOG_UNAVAILABLE",
	ErrCodeCatalogLoadFailed:    "CATALOG_LOAD_FAILED",
	ErrCodeCacheOperationFailed: "CACHE_OPERATION_FAILED",
	ErrCodeEventPublishFailed:   "EVENT_PUBLISH_FAILED",
}

func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeCatalogLoadFailed,
		ErrCodeCacheOperationFailed,
		ErrCodeEventPublishFailed:
		return 3

	case ErrCodeCatalogUnavailable:
		return 2

	default:
		return 0
	}
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           bpmnCode,
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// IsValidationError reports whether err belongs to the validation family.
func IsValidationError(err error) bool {
	if err == nil {
		return false
	}
	return GetErrorCategory(Normalize(err).Code) == "VALIDATION"
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION") ||
		strings.Contains(codeStr, "INSUFFICIENT") || strings.Contains(codeStr, "DUPLICATE"):
		return "VALIDATION"
	case strings.Contains(codeStr, "SESSION"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "DATA_UNAVAILABLE"):
		return "CATALOG"
	case strings.Contains(codeStr, "TIMEOUT"):
		return "TIMEOUT"
	case strings.Contains(codeStr, "CACHE") || strings.Contains(codeStr, "PUBLISH"):
		return "INFRASTRUCTURE"
	default:
		return "OTHER"
	}
}
