// Package errors provides the typed errors shared by the solver and its
// front-ends. Callers branch on Type, never on message text.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidInput indicates a contract violation in caller-supplied values
	TypeInvalidInput Type = "INVALID_INPUT"

	// TypeGeometry indicates an invalid pipe geometry (diameter, length, roughness)
	TypeGeometry Type = "GEOMETRY_ERROR"

	// TypeFlow indicates an invalid flow input
	TypeFlow Type = "FLOW_ERROR"

	// TypePropertyEstimation indicates the property correlation could not produce a state
	TypePropertyEstimation Type = "PROPERTY_ESTIMATION_ERROR"

	// TypePropertyUnavailable indicates estimation failed and no manual values were supplied
	TypePropertyUnavailable Type = "PROPERTY_UNAVAILABLE"

	// TypeParsing indicates a parsing error
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeStorage indicates a persistence error
	TypeStorage Type = "STORAGE_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeNotFound indicates a resource not found error
	TypeNotFound Type = "NOT_FOUND"
)

// Error is a classified failure. Context carries machine-readable detail
// such as the offending field; the HTTP layer exposes it to clients.
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Field returns the offending input name, if recorded
func (e *Error) Field() string {
	if s, ok := e.Context["field"].(string); ok {
		return s
	}
	return ""
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// TypeOf returns the type of the outermost domain error in the chain, or "".
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// IsType checks if an error (or anything it wraps) is of a specific type
func IsType(err error, t Type) bool {
	for err != nil {
		var e *Error
		if !stderrors.As(err, &e) {
			return false
		}
		if e.Type == t {
			return true
		}
		err = e.Cause
	}
	return false
}

// IsInvalidInput reports whether err is a caller contract violation.
// Geometry and flow errors are specialised invalid inputs.
func IsInvalidInput(err error) bool {
	switch TypeOf(err) {
	case TypeInvalidInput, TypeGeometry, TypeFlow:
		return true
	}
	return false
}

// bounded records which input broke which bound, e.g. "diameter must be > 0 (got -1)"
func bounded(t Type, field string, value interface{}, bound string) *Error {
	e := Newf(t, "%s %s (got %v)", field, bound, value)
	e.Context = map[string]interface{}{
		"field": field,
		"value": value,
		"bound": bound,
	}
	return e
}

// InvalidInput reports a caller value outside its contract
func InvalidInput(field string, value interface{}, bound string) *Error {
	return bounded(TypeInvalidInput, field, value, bound)
}

// Geometry reports an invalid diameter, length or roughness
func Geometry(field string, value interface{}, bound string) *Error {
	return bounded(TypeGeometry, field, value, bound)
}

// Flow reports an invalid mass or volumetric flow
func Flow(field string, value interface{}, bound string) *Error {
	return bounded(TypeFlow, field, value, bound)
}

// PropertyEstimation creates a property estimation error
func PropertyEstimation(message string) *Error {
	return New(TypePropertyEstimation, message)
}

// PropertyUnavailable wraps an estimation failure that had no manual fallback
func PropertyUnavailable(cause error) *Error {
	return Wrap(TypePropertyUnavailable, "fluid properties unavailable: supply manual density and viscosity", cause)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Storage creates a storage error
func Storage(message string, cause error) *Error {
	return Wrap(TypeStorage, message, cause)
}

// NotFound creates a not found error
func NotFound(resourceType, identifier string) *Error {
	return Newf(TypeNotFound, "%s not found: %s", resourceType, identifier)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
