package sheetapi

import (
	"errors"
	"fmt"

	"github.com/MrSnakeDoc/folio/internal/domain"
)

// FailureKind classifies why an operation failed.
type FailureKind string

const (
	KindNone        FailureKind = "ok"
	KindTransport   FailureKind = "transport"
	KindMalformed   FailureKind = "malformed"
	KindApplication FailureKind = "application"
	KindUnknown     FailureKind = "unknown"
)

// TransportError means the request never completed.
type TransportError struct {
	Op  domain.Operation
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: failed to fetch: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponseError means the body was not the JSON shape the operation expects.
// Raw keeps the response text for diagnosis.
type MalformedResponseError struct {
	Op     domain.Operation
	Status int
	Raw    string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: malformed response (status %d): %v", e.Op, e.Status, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ApplicationError is a well-formed response carrying an error tag.
type ApplicationError struct {
	Op      domain.Operation
	Message string
	Raw     string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// Classify reports the failure kind of err. A nil error is KindNone.
func Classify(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	var te *TransportError
	if errors.As(err, &te) {
		return KindTransport
	}
	var me *MalformedResponseError
	if errors.As(err, &me) {
		return KindMalformed
	}
	var ae *ApplicationError
	if errors.As(err, &ae) {
		return KindApplication
	}
	return KindUnknown
}

// Describe returns the short user-facing text for a failed list operation.
func Describe(err error) string {
	var ae *ApplicationError
	if errors.As(err, &ae) {
		return ae.Message
	}
	var te *TransportError
	if errors.As(err, &te) {
		return fmt.Sprintf("Failed to fetch (%v)", te.Err)
	}
	var me *MalformedResponseError
	if errors.As(err, &me) {
		return fmt.Sprintf("Invalid response from server: %v", me.Err)
	}
	return err.Error()
}
