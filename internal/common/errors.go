package common

import (
	"errors"
	"fmt"

	"github.com/ClaireJ59/News-Translator/constants"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrDatabase     = errors.New("database error")

	// Per-document pipeline failures. Each maps to a constants.ErrorKind
	// in the batch status report.
	ErrDecode            = errors.New("image decode failed")
	ErrOracle            = errors.New("oracle call failed")
	ErrMalformedResponse = errors.New("malformed oracle response")
	ErrPackaging         = errors.New("packaging failed")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Fail tags err with a pipeline stage sentinel, keeping both chains
// reachable through errors.Is / errors.As.
func Fail(kind, err error) error {
	if err == nil {
		return kind
	}
	return fmt.Errorf("%w: %w", kind, err)
}

// MalformedResponseError is returned when an oracle payload fails the JSON
// syntax or structural gate. It carries the raw response text so the caller
// can persist it for diagnosis.
type MalformedResponseError struct {
	Raw   string
	Cause error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed oracle response: %v", e.Cause)
	}
	return "malformed oracle response"
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func NewMalformedResponseError(raw string, cause error) *MalformedResponseError {
	return &MalformedResponseError{Raw: raw, Cause: cause}
}

// RawResponse extracts the preserved oracle payload from an error chain,
// returning false when the chain holds no malformed-response error.
func RawResponse(err error) (string, bool) {
	var mr *MalformedResponseError
	if errors.As(err, &mr) {
		return mr.Raw, true
	}
	return "", false
}

// KindOf classifies a pipeline error for the status report.
func KindOf(err error) constants.ErrorKind {
	switch {
	case err == nil:
		return constants.ErrorKindNone
	case errors.Is(err, ErrMalformedResponse):
		return constants.ErrorKindMalformed
	case errors.Is(err, ErrDecode):
		return constants.ErrorKindDecode
	case errors.Is(err, ErrOracle):
		return constants.ErrorKindOracle
	case errors.Is(err, ErrPackaging):
		return constants.ErrorKindPackaging
	default:
		return constants.ErrorKindInternal
	}
}
