package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeSecurity represents security-context errors
	ErrorTypeSecurity ErrorType = "security"
	// ErrorTypeRouting represents responder-selection errors
	ErrorTypeRouting ErrorType = "routing"
	// ErrorTypeRetrieval represents retrieval-layer errors
	ErrorTypeRetrieval ErrorType = "retrieval"
	// ErrorTypeGraph represents graph store errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeProvider represents model/embedding provider errors
	ErrorTypeProvider ErrorType = "provider"
	// ErrorTypePersistence represents turn-persistence errors
	ErrorTypePersistence ErrorType = "persistence"
	// ErrorTypeConfig represents configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// BaseError is the base error type with common fields
type BaseError struct {
	Type      ErrorType
	Message   string
	Timestamp time.Time
	Err       error // Wrapped error
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the wrapped error for error unwrapping
func (e *BaseError) Unwrap() error {
	return e.Err
}

// NewBaseError creates a new base error
func NewBaseError(errType ErrorType, message string, err error) *BaseError {
	return &BaseError{
		Type:      errType,
		Message:   message,
		Timestamp: time.Now(),
		Err:       err,
	}
}

// Security Errors

// MissingTenantError is returned when a request arrives without a tenant id.
// It fails closed: no store access is attempted once this is raised.
type MissingTenantError struct {
	*BaseError
}

func NewMissingTenant() *MissingTenantError {
	return &MissingTenantError{
		BaseError: NewBaseError(ErrorTypeSecurity, "missing tenant id in security context", nil),
	}
}

// IsMissingTenant reports whether err is (or wraps) a MissingTenantError
func IsMissingTenant(err error) bool {
	var target *MissingTenantError
	return stderrors.As(err, &target)
}

// Routing Errors

// DelegationError is returned when a router or leaf cannot select any
// child or tool for a request. The request is never silently dropped.
type DelegationError struct {
	*BaseError
	ResponderName string
}

func NewDelegationError(responderName, reason string) *DelegationError {
	return &DelegationError{
		BaseError:     NewBaseError(ErrorTypeRouting, fmt.Sprintf("%s could not delegate: %s", responderName, reason), nil),
		ResponderName: responderName,
	}
}

// Retrieval Errors

// RetrievalFault is raised when a store or embedding call fails during
// retrieval. It is captured at the retrieval boundary and surfaced as an
// error-marker record, never as a raw fault across the responder boundary.
type RetrievalFault struct {
	*BaseError
	Operation string
}

func NewRetrievalFault(operation string, err error) *RetrievalFault {
	return &RetrievalFault{
		BaseError: NewBaseError(ErrorTypeRetrieval, fmt.Sprintf("retrieval failed: %s", operation), err),
		Operation: operation,
	}
}

// Graph Errors

// GraphConnectionFailed is returned when the graph store connection fails
type GraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *GraphConnectionFailed {
	return &GraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to graph store: %s", uri), err),
		URI:       uri,
	}
}

// GraphQueryFailed is returned when a graph query fails
type GraphQueryFailed struct {
	*BaseError
	Query string
}

func NewGraphQueryFailed(query string, err error) *GraphQueryFailed {
	return &GraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, "query failed", err),
		Query:     query,
	}
}

// Provider Errors

// ProviderFault is returned when a model or embedding provider call fails
type ProviderFault struct {
	*BaseError
	Model    string
	Attempts int
}

func NewProviderFault(model string, attempts int, err error) *ProviderFault {
	return &ProviderFault{
		BaseError: NewBaseError(ErrorTypeProvider, fmt.Sprintf("provider request failed after %d attempts", attempts), err),
		Model:     model,
		Attempts:  attempts,
	}
}

// Persistence Errors

// PersistenceFault is returned when storing a completed turn fails. It is
// logged only: never surfaced to the caller, never retried within the turn.
type PersistenceFault struct {
	*BaseError
	ConversationID string
}

func NewPersistenceFault(conversationID string, err error) *PersistenceFault {
	return &PersistenceFault{
		BaseError:      NewBaseError(ErrorTypePersistence, "failed to persist turn", err),
		ConversationID: conversationID,
	}
}

// Config Errors

// ConfigMissingRequired is returned when a required config value is missing
type ConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ConfigMissingRequired {
	return &ConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// ErrType returns the error category. Typed wrappers embed *BaseError, so
// the method is promoted and every error in this package satisfies
// interface{ ErrType() ErrorType }.
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// Helper functions

// IsErrorType checks if an error (or any error it wraps) carries the
// given category.
func IsErrorType(err error, errType ErrorType) bool {
	for err != nil {
		if typed, ok := err.(interface{ ErrType() ErrorType }); ok {
			return typed.ErrType() == errType
		}
		wrapped, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = wrapped.Unwrap()
	}
	return false
}
