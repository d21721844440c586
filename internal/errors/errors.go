package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrIndexNotFound is returned when search or import is invoked against a
	// nonexistent index. It is distinct from "no results".
	ErrIndexNotFound = errors.New("index not found")

	// ErrIndexAlreadyExists is returned when trying to create an index that already exists
	ErrIndexAlreadyExists = errors.New("index already exists")

	// ErrDocumentNotFound is returned when a document is not found
	ErrDocumentNotFound = errors.New("document not found")

	// ErrMalformedQuery is returned when an option combination is structurally
	// invalid (e.g. a negative size), rejected before execution.
	ErrMalformedQuery = errors.New("malformed query")

	// ErrBackendUnavailable is returned for transient index store failures,
	// recoverable by caller retry.
	ErrBackendUnavailable = errors.New("index backend unavailable")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")
)

// IndexNotFoundError represents an index not found error with context
type IndexNotFoundError struct {
	IndexName string
}

func (e *IndexNotFoundError) Error() string {
	return fmt.Sprintf("index named '%s' not found", e.IndexName)
}

func (e *IndexNotFoundError) Is(target error) bool {
	return target == ErrIndexNotFound
}

// NewIndexNotFoundError creates a new IndexNotFoundError
func NewIndexNotFoundError(indexName string) *IndexNotFoundError {
	return &IndexNotFoundError{IndexName: indexName}
}

// IndexAlreadyExistsError represents an index already exists error with context
type IndexAlreadyExistsError struct {
	IndexName string
}

func (e *IndexAlreadyExistsError) Error() string {
	return fmt.Sprintf("index named '%s' already exists", e.IndexName)
}

func (e *IndexAlreadyExistsError) Is(target error) bool {
	return target == ErrIndexAlreadyExists
}

// NewIndexAlreadyExistsError creates a new IndexAlreadyExistsError
func NewIndexAlreadyExistsError(indexName string) *IndexAlreadyExistsError {
	return &IndexAlreadyExistsError{IndexName: indexName}
}

// DocumentNotFoundError represents a document not found error with context
type DocumentNotFoundError struct {
	DocumentID string
	IndexName  string
}

func (e *DocumentNotFoundError) Error() string {
	if e.IndexName != "" {
		return fmt.Sprintf("document with ID '%s' not found in index '%s'", e.DocumentID, e.IndexName)
	}
	return fmt.Sprintf("document with ID '%s' not found", e.DocumentID)
}

func (e *DocumentNotFoundError) Is(target error) bool {
	return target == ErrDocumentNotFound
}

// NewDocumentNotFoundError creates a new DocumentNotFoundError
func NewDocumentNotFoundError(documentID string, indexName ...string) *DocumentNotFoundError {
	err := &DocumentNotFoundError{DocumentID: documentID}
	if len(indexName) > 0 {
		err.IndexName = indexName[0]
	}
	return err
}

// MalformedQueryError represents a structurally invalid search request with
// context about the offending option.
type MalformedQueryError struct {
	Option  string
	Message string
}

func (e *MalformedQueryError) Error() string {
	if e.Option != "" {
		return fmt.Sprintf("malformed query: option '%s': %s", e.Option, e.Message)
	}
	return fmt.Sprintf("malformed query: %s", e.Message)
}

func (e *MalformedQueryError) Is(target error) bool {
	return target == ErrMalformedQuery
}

// NewMalformedQueryError creates a new MalformedQueryError
func NewMalformedQueryError(option, message string) *MalformedQueryError {
	return &MalformedQueryError{Option: option, Message: message}
}

// BackendUnavailableError represents a transient failure of the underlying
// index store. Callers may retry.
type BackendUnavailableError struct {
	Operation string
	Cause     error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("index backend unavailable during %s: %v", e.Operation, e.Cause)
}

func (e *BackendUnavailableError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Cause
}

// NewBackendUnavailableError creates a new BackendUnavailableError
func NewBackendUnavailableError(operation string, cause error) *BackendUnavailableError {
	return &BackendUnavailableError{Operation: operation, Cause: cause}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
