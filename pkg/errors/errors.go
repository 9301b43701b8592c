// Package errors defines the coded errors shared by the packer, the sprite
// pipeline, the CLI and the HTTP server.
//
// Every failure a caller can act on carries a [Code]. Codes are grouped
// into a [Class] that front ends translate into their own vocabulary: the
// CLI picks an exit status, the server picks an HTTP status.
//
//	err := errors.New(errors.ErrCodeInvalidInput, "negative width for %s", id)
//	errors.Is(err, errors.ErrCodeInvalidInput) // true
//	errors.ClassOf(err)                        // errors.ClassInput
//
// Wrap keeps the cause reachable through the standard errors.Is/As:
//
//	err := errors.Wrap(errors.ErrCodeDecode, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// The request or its files are malformed.
	ErrCodeInvalidInput    Code = "INVALID_INPUT"
	ErrCodeInvalidFormat   Code = "INVALID_FORMAT"
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"
	ErrCodeInvalidPath     Code = "INVALID_PATH"

	// Something named by the caller does not exist.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Raster codecs.
	ErrCodeDecode Code = "DECODE_FAILED"
	ErrCodeEncode Code = "ENCODE_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Class groups codes by who has to act on them.
type Class int

const (
	// ClassNone is the class of nil and of errors without a code.
	ClassNone Class = iota
	// ClassInput means the caller's data cannot be used as given.
	ClassInput
	// ClassMissing means a referenced file or sprite does not exist.
	ClassMissing
	// ClassUnsupported means the data is well formed but not handled.
	ClassUnsupported
	// ClassInternal means spritepack itself failed.
	ClassInternal
)

// Class returns the class of c. Unknown codes are internal.
func (c Code) Class() Class {
	switch c {
	case "":
		return ClassNone
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidManifest,
		ErrCodeInvalidPath, ErrCodeDecode:
		return ClassInput
	case ErrCodeNotFound, ErrCodeFileNotFound:
		return ClassMissing
	case ErrCodeUnsupported:
		return ClassUnsupported
	default:
		return ClassInternal
	}
}

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error renders "CODE: message" followed by the cause, if any.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ClassOf is GetCode(err).Class().
func ClassOf(err error) Class {
	return GetCode(err).Class()
}

// UserMessage returns the message of a coded error without its code, or
// err.Error() for anything else.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsInvalid reports whether err carries one of the INVALID_* codes, i.e.
// the command line or manifest was wrong rather than the images.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidManifest, ErrCodeInvalidPath:
		return true
	}
	return false
}
