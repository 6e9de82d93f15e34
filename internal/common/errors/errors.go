package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/KYD-04/Home-Files/internal/ingress"
	"github.com/KYD-04/Home-Files/internal/registry/service"
	"github.com/KYD-04/Home-Files/pkg/share"
)

// Error codes carried in the payload
const (
	CodeInvalidPath    = "INVALID_PATH"
	CodeNotFound       = "NOT_FOUND"
	CodeFileRejected   = "FILE_REJECTED"
	CodeNoFileSelected = "NO_FILE_SELECTED"
	CodeFileTooLarge   = "FILE_TOO_LARGE"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeInternalError  = "INTERNAL_ERROR"
)

// Error is an HTTP-facing error with a status and a stable code
type Error struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Payload returns the wire form of the error
func (e *Error) Payload() share.Error {
	return share.Error{Error: e.Message, Code: e.Code}
}

// New creates a new error with the given status, code and message
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// From maps a domain error onto its HTTP status and code.
// Unknown errors become 500 INTERNAL_ERROR.
func From(err error) *Error {
	var httpErr *Error
	if stderrors.As(err, &httpErr) {
		return httpErr
	}

	switch {
	case stderrors.Is(err, service.ErrInvalidPath):
		return New(http.StatusBadRequest, CodeInvalidPath, err.Error())
	case stderrors.Is(err, service.ErrNotFound):
		return New(http.StatusNotFound, CodeNotFound, err.Error())
	case stderrors.Is(err, ingress.ErrFileRejected):
		return New(http.StatusBadRequest, CodeFileRejected, err.Error())
	case stderrors.Is(err, ingress.ErrNoFileSelected):
		return New(http.StatusBadRequest, CodeNoFileSelected, err.Error())
	case stderrors.Is(err, ingress.ErrFileTooLarge):
		return New(http.StatusRequestEntityTooLarge, CodeFileTooLarge, err.Error())
	default:
		return New(http.StatusInternalServerError, CodeInternalError, err.Error())
	}
}
