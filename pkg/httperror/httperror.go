// Package httperror carries classified client-facing rejections.
package httperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a rejection with a stable machine-readable Code. Err holds the
// internal cause; it is logged, never sent to the client.
type Error struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Stable codes.
const (
	CodeMissingContent     = "missing_content"
	CodeEmptyContent       = "empty_content"
	CodeContentTooLong     = "content_too_long"
	CodeInvalidBody        = "invalid_body"
	CodePayloadTooLarge    = "payload_too_large"
	CodeRateLimited        = "rate_limited"
	CodeStorageUnavailable = "storage_unavailable"
	CodeForbidden          = "forbidden"
	CodeNotFound           = "not_found"
	CodeInternal           = "internal_error"
)

func New(status int, code, message string, err error) *Error {
	return &Error{Status: status, Code: code, Message: message, Err: err}
}

func MissingContent() *Error {
	return New(http.StatusBadRequest, CodeMissingContent, "Content is required", nil)
}

func EmptyContent() *Error {
	return New(http.StatusBadRequest, CodeEmptyContent, "Content cannot be empty", nil)
}

func ContentTooLong(max int) *Error {
	return New(http.StatusBadRequest, CodeContentTooLong, fmt.Sprintf("Content too long (max %d characters)", max), nil)
}

func InvalidBody(err error) *Error {
	return New(http.StatusBadRequest, CodeInvalidBody, "Bad Request", err)
}

func PayloadTooLarge(err error) *Error {
	return New(http.StatusRequestEntityTooLarge, CodePayloadTooLarge, "Payload Too Large", err)
}

func RateLimited() *Error {
	return New(http.StatusTooManyRequests, CodeRateLimited, "Too Many Requests", nil)
}

func StorageUnavailable(err error) *Error {
	return New(http.StatusServiceUnavailable, CodeStorageUnavailable, "Service Unavailable", err)
}

func Forbidden(err error) *Error {
	return New(http.StatusForbidden, CodeForbidden, "Forbidden", err)
}

func NotFound() *Error {
	return New(http.StatusNotFound, CodeNotFound, "Not Found", nil)
}

func Internal(err error) *Error {
	return New(http.StatusInternalServerError, CodeInternal, "Internal Server Error", err)
}

// From returns err as an *Error, classifying anything unknown as Internal.
func From(err error) *Error {
	var he *Error
	if errors.As(err, &he) {
		return he
	}
	return Internal(err)
}
