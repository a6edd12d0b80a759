package errors

import (
	"fmt"
	"time"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeData represents malformed or unparsable source data errors
	ErrorTypeData ErrorType = "data"
	// ErrorTypeGraph represents graph database errors
	ErrorTypeGraph ErrorType = "graph"
	// ErrorTypeNotFound represents lookup misses for a named entity
	ErrorTypeNotFound ErrorType = "not_found"
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

// Data Errors

// ErrRowParseFailed is returned when a source row cannot be converted
type ErrRowParseFailed struct {
	*BaseError
	File  string
	Line  int
	Field string
}

func NewRowParseFailed(file string, line int, field string, err error) *ErrRowParseFailed {
	return &ErrRowParseFailed{
		BaseError: NewBaseError(ErrorTypeData, fmt.Sprintf("unparsable %s at %s line %d", field, file, line), err),
		File:      file,
		Line:      line,
		Field:     field,
	}
}

// ErrMissingColumn is returned when a source file lacks a required header column
type ErrMissingColumn struct {
	*BaseError
	File   string
	Column string
}

func NewMissingColumn(file, column string) *ErrMissingColumn {
	return &ErrMissingColumn{
		BaseError: NewBaseError(ErrorTypeData, fmt.Sprintf("missing column %q in %s", column, file), nil),
		File:      file,
		Column:    column,
	}
}

// Graph Errors

// ErrGraphConnectionFailed is returned when the Neo4j connection fails
type ErrGraphConnectionFailed struct {
	*BaseError
	URI string
}

func NewGraphConnectionFailed(uri string, err error) *ErrGraphConnectionFailed {
	return &ErrGraphConnectionFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("failed to connect to Neo4j: %s", uri), err),
		URI:       uri,
	}
}

// ErrGraphQueryFailed is returned when a graph query or mutation fails
type ErrGraphQueryFailed struct {
	*BaseError
	Operation string
}

func NewGraphQueryFailed(operation string, err error) *ErrGraphQueryFailed {
	return &ErrGraphQueryFailed{
		BaseError: NewBaseError(ErrorTypeGraph, fmt.Sprintf("%s failed", operation), err),
		Operation: operation,
	}
}

// Not-Found Errors

// ErrUserNotFound is returned when a username does not resolve to a node
type ErrUserNotFound struct {
	*BaseError
	Username string
}

func NewUserNotFound(username string) *ErrUserNotFound {
	return &ErrUserNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("user not found: %s", username), nil),
		Username:  username,
	}
}

// ErrProductNotFound is returned when a product name does not resolve to a node
type ErrProductNotFound struct {
	*BaseError
	Name string
}

func NewProductNotFound(name string) *ErrProductNotFound {
	return &ErrProductNotFound{
		BaseError: NewBaseError(ErrorTypeNotFound, fmt.Sprintf("product not found: %s", name), nil),
		Name:      name,
	}
}

// Config Errors

// ErrConfigMissingRequired is returned when a required config value is missing
type ErrConfigMissingRequired struct {
	*BaseError
	Field string
}

func NewConfigMissingRequired(field string) *ErrConfigMissingRequired {
	return &ErrConfigMissingRequired{
		BaseError: NewBaseError(ErrorTypeConfig, fmt.Sprintf("missing required config: %s", field), nil),
		Field:     field,
	}
}

// Helper functions

// ErrType returns the error's category; promoted through embedding so every
// typed error in this package reports its BaseError type.
func (e *BaseError) ErrType() ErrorType {
	return e.Type
}

// IsErrorType checks if an error is of a specific type
func IsErrorType(err error, errType ErrorType) bool {
	if err == nil {
		return false
	}
	if typed, ok := err.(interface{ ErrType() ErrorType }); ok {
		return typed.ErrType() == errType
	}
	if wrapped, ok := err.(interface{ Unwrap() error }); ok {
		return IsErrorType(wrapped.Unwrap(), errType)
	}
	return false
}

// IsNotFound reports whether the error is a lookup miss
func IsNotFound(err error) bool {
	return IsErrorType(err, ErrorTypeNotFound)
}
