package fetch

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorClass categorizes fetch failures for the retry policy.
type ErrorClass string

const (
	// ClassTransient covers rate limiting, server errors, network
	// failures, and timeouts. Transient errors are retried with
	// jittered exponential backoff.
	ClassTransient ErrorClass = "transient"

	// ClassMalformed covers responses that arrived but failed the
	// validity check (missing or empty content field). Malformed
	// responses are retried without backoff.
	ClassMalformed ErrorClass = "malformed"

	// ClassPermanent covers statuses that will not change on retry,
	// such as 404. Permanent errors fail the target immediately.
	ClassPermanent ErrorClass = "permanent"
)

// Error represents a failed fetch attempt with its classification.
type Error struct {
	// StatusCode is the HTTP status observed, or zero when the failure
	// happened before a status was available.
	StatusCode int

	// Class determines how the retry policy treats this error.
	Class ErrorClass

	// Message describes the failure.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s fetch error (status %d): %s: %v", e.Class, e.StatusCode, e.Message, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s fetch error (status %d): %s", e.Class, e.StatusCode, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s fetch error: %s: %v", e.Class, e.Message, e.Err)
	default:
		return fmt.Sprintf("%s fetch error: %s", e.Class, e.Message)
	}
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// ClassifyStatus maps an HTTP status code to an error class.
// 429 and the common 5xx gateway statuses are transient; every other
// non-success status is permanent.
func ClassifyStatus(status int) ErrorClass {
	switch status {
	case 429, 500, 502, 503, 504:
		return ClassTransient
	default:
		return ClassPermanent
	}
}

// ClassOf returns the class of a fetch error. Network-level failures
// and timeouts that are not *Error values are treated as transient;
// anything else unknown is permanent.
func ClassOf(err error) ErrorClass {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Class
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return ClassTransient
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ClassTransient
	}

	return ClassPermanent
}

// Retryable reports whether another attempt may succeed.
func Retryable(err error) bool {
	switch ClassOf(err) {
	case ClassTransient, ClassMalformed:
		return true
	default:
		return false
	}
}

// IsTransient reports whether the error is classified as transient.
func IsTransient(err error) bool {
	return ClassOf(err) == ClassTransient
}

// IsMalformed reports whether the error is classified as malformed.
func IsMalformed(err error) bool {
	return ClassOf(err) == ClassMalformed
}
