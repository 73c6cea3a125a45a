// Package apperrors provides the error taxonomy shared by services and handlers.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an application error.
type Code string

const (
	// CodeInvalidInput covers bad request payloads: non-positive area,
	// missing building type, empty project name.
	CodeInvalidInput Code = "INVALID_INPUT"

	// CodeDataIntegrity signals a missing coefficient row. It is fatal to
	// that one calculation, never silently defaulted.
	CodeDataIntegrity Code = "DATA_INTEGRITY"

	// CodeAuthFailure covers bad credentials and invalid/expired tokens.
	CodeAuthFailure Code = "AUTH_FAILURE"

	// CodeNotConfirmed means the account exists but the email verification
	// code has not been entered yet.
	CodeNotConfirmed Code = "NOT_CONFIRMED"

	// CodeNotFound is a missing project record.
	CodeNotFound Code = "NOT_FOUND"

	// CodeConfirmationRequired is returned on the first step of the
	// two-step delete gate, together with a confirmation token.
	CodeConfirmationRequired Code = "CONFIRMATION_REQUIRED"

	// CodeLegacyProject marks a record stored in the old raw-results
	// format. It can be listed but not restored into the input form.
	CodeLegacyProject Code = "LEGACY_PROJECT"

	// CodePersistenceFailure is a store error. Non-fatal to the session;
	// in-memory results stay usable.
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
)

// Error is a coded application error.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// HTTPStatus maps the error code to a response status.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case CodeInvalidInput:
		return http.StatusBadRequest
	case CodeAuthFailure, CodeNotConfirmed:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConfirmationRequired:
		return http.StatusConflict
	case CodeLegacyProject:
		return http.StatusUnprocessableEntity
	case CodeDataIntegrity, CodePersistenceFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func newError(code Code, msg, details string, cause error) *Error {
	return &Error{Code: code, Message: msg, Details: details, cause: cause}
}

func InvalidInput(details string) *Error {
	return newError(CodeInvalidInput, "invalid input", details, nil)
}

func DataIntegrity(details string) *Error {
	return newError(CodeDataIntegrity, "no matching coefficient row", details, nil)
}

func AuthFailure(details string) *Error {
	return newError(CodeAuthFailure, "authentication failed", details, nil)
}

func NotConfirmed(username string) *Error {
	return newError(CodeNotConfirmed, "account not confirmed", username, nil)
}

func NotFound(what string) *Error {
	return newError(CodeNotFound, "not found", what, nil)
}

func ConfirmationRequired(details string) *Error {
	return newError(CodeConfirmationRequired, "delete requires confirmation", details, nil)
}

func LegacyProject(name string) *Error {
	return newError(CodeLegacyProject, "cannot restore legacy project", name, nil)
}

func PersistenceFailure(err error) *Error {
	return newError(CodePersistenceFailure, "persistence store error", err.Error(), err)
}

// As extracts an *Error from an error chain, or wraps unknown errors as
// a persistence failure so handlers always have a coded error to write.
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return PersistenceFailure(err)
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
