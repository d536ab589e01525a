package history

import "fmt"

// StorageError represents an error from the history store.
type StorageError struct {
	Backend   string // "sqlite", "memory"
	Operation string // "store", "query", "delete", ...
	Cause     error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("history storage error [backend=%s, operation=%s]: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// NewStorageError creates a new StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{
		Backend:   backend,
		Operation: operation,
		Cause:     cause,
	}
}

// RecorderError represents an error while recording an analysis.
type RecorderError struct {
	RecordID string
	Cause    error
}

// Error implements the error interface.
func (e *RecorderError) Error() string {
	if e.RecordID != "" {
		return fmt.Sprintf("history recorder error [record_id=%s]: %v", e.RecordID, e.Cause)
	}
	return fmt.Sprintf("history recorder error: %v", e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RecorderError) Unwrap() error {
	return e.Cause
}

// NewRecorderError creates a new RecorderError.
func NewRecorderError(recordID string, cause error) *RecorderError {
	return &RecorderError{
		RecordID: recordID,
		Cause:    cause,
	}
}

// RetentionError represents an error during retention enforcement.
type RetentionError struct {
	RetentionDays int
	Cause         error
}

// Error implements the error interface.
func (e *RetentionError) Error() string {
	return fmt.Sprintf("history retention error [retention_days=%d]: %v", e.RetentionDays, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// NewRetentionError creates a new RetentionError.
func NewRetentionError(retentionDays int, cause error) *RetentionError {
	return &RetentionError{
		RetentionDays: retentionDays,
		Cause:         cause,
	}
}
