package models

import "fmt"

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrFetch ErrorType = iota
	ErrDecode
	ErrParse
	ErrCorruptIndex
	ErrInvalidConfig
	ErrNoData
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrFetch:
		return "Fetch"
	case ErrDecode:
		return "Decode"
	case ErrParse:
		return "Parse"
	case ErrCorruptIndex:
		return "CorruptIndex"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrNoData:
		return "NoData"
	default:
		return "Unknown"
	}
}

// TraceError represents an error during index building or origin discovery.
// Fetch, Decode, Parse and CorruptIndex errors are scoped to one repository
// or one index artifact and recoverable; InvalidConfig and NoData are fatal
// for the invocation.
type TraceError struct {
	Type ErrorType
	Repo string
	Err  error
}

// Error implements the error interface
func (e *TraceError) Error() string {
	if e.Repo != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Repo, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Type, e.Err)
}

// Unwrap returns the wrapped error
func (e *TraceError) Unwrap() error {
	return e.Err
}
