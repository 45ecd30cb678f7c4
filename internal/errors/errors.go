// Package errors provides the domain error taxonomy for the phono pipeline.
//
// File-level failures during scan, import, and repair carry one of the codes
// below so callers can report per-file outcomes without string matching.
// Manifest loading distinguishes recoverable line corruption
// (CodeManifestCorruption, skipped) from impossible-but-well-formed entries
// (CodeDataInvariant, fatal).
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library helpers so callers need a single import.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
	New    = errors.New
)

// Code is a machine-readable error classification.
type Code string

const (
	// CodeUnknownFormat marks files whose extension maps to no known format.
	CodeUnknownFormat Code = "UNKNOWN_FORMAT"
	// CodeNoDuration marks files whose duration could not be determined;
	// the file has been relocated to the problem tree for later repair.
	CodeNoDuration Code = "NO_DURATION"
	// CodeIO marks failed filesystem operations.
	CodeIO Code = "IO"
	// CodeTagParse marks malformed embedded metadata.
	CodeTagParse Code = "TAG_PARSE"
	// CodeManifestCorruption marks a single unparsable manifest line.
	CodeManifestCorruption Code = "MANIFEST_CORRUPTION"
	// CodeDataInvariant marks a structurally valid manifest entry with an
	// impossible duration. Fatal: the manifest is untrustworthy beyond the
	// single record.
	CodeDataInvariant Code = "DATA_INVARIANT"
	// CodeConfiguration marks invalid or missing configuration.
	CodeConfiguration Code = "CONFIGURATION"
)

// Error is a domain error with a code, message, and optional file path.
type Error struct {
	Code    Code
	Message string
	Path    string
	cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code, enabling
// errors.Is(err, ErrNoDuration) style checks.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithPath returns a copy of the error annotated with a file path.
func (e *Error) WithPath(path string) *Error {
	return &Error{Code: e.Code, Message: e.Message, Path: path, cause: e.cause}
}

// Sentinel errors for use with errors.Is.
var (
	ErrUnknownFormat      = &Error{Code: CodeUnknownFormat, Message: "unknown audio format"}
	ErrNoDuration         = &Error{Code: CodeNoDuration, Message: "could not determine duration"}
	ErrIO                 = &Error{Code: CodeIO, Message: "io failure"}
	ErrTagParse           = &Error{Code: CodeTagParse, Message: "tag parse failure"}
	ErrManifestCorruption = &Error{Code: CodeManifestCorruption, Message: "manifest line corrupt"}
	ErrDataInvariant      = &Error{Code: CodeDataInvariant, Message: "data invariant violation"}
	ErrConfiguration      = &Error{Code: CodeConfiguration, Message: "configuration error"}
)

// UnknownFormat reports an unrecognized extension on path.
func UnknownFormat(path string) *Error {
	return &Error{Code: CodeUnknownFormat, Message: "unknown audio format", Path: path}
}

// NoDuration reports an undeterminable duration. movedTo is the problem-tree
// location the file was relocated to, discoverable from the error payload.
func NoDuration(movedTo string) *Error {
	return &Error{Code: CodeNoDuration, Message: "could not determine duration; moved to problem tree", Path: movedTo}
}

// IO wraps a filesystem error for path.
func IO(path string, err error) *Error {
	return &Error{Code: CodeIO, Message: "io failure", Path: path, cause: err}
}

// TagParse wraps a tag parsing error for path.
func TagParse(path string, err error) *Error {
	return &Error{Code: CodeTagParse, Message: "tag parse failure", Path: path, cause: err}
}

// DataInvariant reports an impossible value in an otherwise valid record.
func DataInvariant(msg string) *Error {
	return &Error{Code: CodeDataInvariant, Message: msg}
}

// DataInvariantf reports an impossible value with a formatted message.
func DataInvariantf(format string, args ...any) *Error {
	return &Error{Code: CodeDataInvariant, Message: fmt.Sprintf(format, args...)}
}

// Configuration reports invalid configuration.
func Configuration(msg string) *Error {
	return &Error{Code: CodeConfiguration, Message: msg}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf attaches a code and formatted message to an underlying error.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
