package errors

import "fmt"

// ErrorType represents different types of errors that can occur
type ErrorType string

const (
	ErrorTypeEmptyInput       ErrorType = "empty_input"
	ErrorTypeDatabaseNotFound ErrorType = "database_not_found"
	ErrorTypeDatabaseInvalid  ErrorType = "database_invalid"
	ErrorTypeScraper          ErrorType = "scraper"
	ErrorTypeThumbnail        ErrorType = "thumbnail"
	ErrorTypeStorage          ErrorType = "storage"
	ErrorTypeUnknown          ErrorType = "unknown"
)

// Error represents an operation error with type information
type Error struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s error: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a typed error without an underlying cause
func New(errorType ErrorType, message string) *Error {
	return &Error{Type: errorType, Message: message}
}

// Wrap creates a typed error around an underlying cause
func Wrap(errorType ErrorType, message string, err error) *Error {
	return &Error{Type: errorType, Message: message, Err: err}
}

// TypeOf returns the ErrorType of err, or ErrorTypeUnknown for plain errors
func TypeOf(err error) ErrorType {
	if e, ok := err.(*Error); ok {
		return e.Type
	}
	return ErrorTypeUnknown
}

// IsType reports whether err is a typed error of the given type
func IsType(err error, errorType ErrorType) bool {
	return TypeOf(err) == errorType
}

// IsFatal reports whether an error type aborts the whole operation rather
// than a single file
func IsFatal(errorType ErrorType) bool {
	switch errorType {
	case ErrorTypeDatabaseNotFound, ErrorTypeDatabaseInvalid, ErrorTypeScraper, ErrorTypeStorage:
		return true
	case ErrorTypeThumbnail:
		return false
	default:
		return false
	}
}
