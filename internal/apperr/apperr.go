// Package apperr defines the error taxonomy shared by the HTTP services:
// a small set of kinds mapped to status codes, stable error codes, and
// optional context echoed back to the client.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindNotFound
	KindBusinessRule
	KindUnauthorized
	KindForbidden
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindBusinessRule:
		return "business_rule"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "unexpected"
	}
}

type Code string

const (
	CodeInvalidRequest      Code = "invalid_request"
	CodeUnauthorized        Code = "unauthorized"
	CodeForbidden           Code = "forbidden"
	CodeInternal            Code = "internal"
	CodeProductNotFound     Code = "product_not_found"
	CodeOrderNotFound       Code = "order_not_found"
	CodeCollectionNotFound  Code = "collection_not_found"
	CodeUserNotFound        Code = "user_not_found"
	CodeInsufficientStock   Code = "insufficient_stock"
	CodeCODLimitExceeded    Code = "cod_limit_exceeded"
	CodeAgeVerification     Code = "age_verification_required"
	CodeOrderNotCancellable Code = "order_not_cancellable"
	CodeInvalidTransition   Code = "invalid_status_transition"
	CodeCollectionProcessed Code = "collection_already_processed"
	CodeAmountMismatch      Code = "amount_mismatch"
	CodeInvalidCredentials  Code = "invalid_credentials"
	CodeEmailTaken          Code = "email_already_registered"
	CodeRouteNotFound       Code = "route_not_found"
)

// Details is extra context rendered next to the localized messages.
type Details map[string]any

type Error struct {
	Kind    Kind
	Code    Code
	Details Details
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Err)
	}
	return string(e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Code so callers can compare against the package sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(kind Kind, code Code, details Details) *Error {
	return &Error{Kind: kind, Code: code, Details: details}
}

func Validation(code Code, details Details) *Error {
	return New(KindValidation, code, details)
}

func NotFound(code Code, details Details) *Error {
	return New(KindNotFound, code, details)
}

func BusinessRule(code Code, details Details) *Error {
	return New(KindBusinessRule, code, details)
}

func Unauthorized() *Error { return New(KindUnauthorized, CodeUnauthorized, nil) }

func Forbidden() *Error { return New(KindForbidden, CodeForbidden, nil) }

// Internal wraps an unexpected failure. The cause is kept for logs and is
// never rendered to the client.
func Internal(err error) *Error {
	return &Error{Kind: KindUnexpected, Code: CodeInternal, Err: err}
}

// As returns err as an *Error, treating anything unknown as unexpected.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return Internal(err)
}

// KindOf is a shortcut for As(err).Kind.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnexpected
	}
	return As(err).Kind
}
