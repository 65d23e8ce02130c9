// Package apperr is the error taxonomy shared by the three services. Every
// failure that crosses a package boundary is an *Error carrying a Kind, and
// the Kind decides the HTTP status.
package apperr

import (
	"context"
	"errors"
	"net"
	"net/http"
)

type Kind string

const (
	KindInternal                  Kind = "Internal"
	KindValidation                Kind = "ValidationError"
	KindNotFound                  Kind = "NotFound"
	KindConflict                  Kind = "Conflict"
	KindInsufficientFunds         Kind = "InsufficientFunds"
	KindItemNotAvailable          Kind = "ItemNotAvailable"
	KindCustomerLookupFailed      Kind = "CustomerLookupFailed"
	KindDeductionFailed           Kind = "DeductionFailed"
	KindDownstreamUnavailable     Kind = "DownstreamUnavailable"
	KindPostDeductionStockFailure Kind = "PostDeductionStockFailure"
	KindSaleRecordFailure         Kind = "SaleRecordFailure"
)

// Error is a classified failure. Op names the operation that failed, Msg is
// the client-facing message and Err is the underlying cause.
type Error struct {
	Kind Kind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	msg := e.Msg
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error of the same Kind, so sentinel values such as
// ErrNotFound work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == "" && t.Err == nil
}

// Sentinels for errors.Is checks.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrNotFound          = &Error{Kind: KindNotFound}
	ErrConflict          = &Error{Kind: KindConflict}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Wrap(kind Kind, op string, err error, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg, Err: err}
}

func Validation(msg string) *Error { return New(KindValidation, msg) }

func NotFound(msg string) *Error { return New(KindNotFound, msg) }

func Conflict(msg string) *Error { return New(KindConflict, msg) }

func InsufficientFunds(msg string) *Error { return New(KindInsufficientFunds, msg) }

// KindOf returns the Kind of the outermost *Error in the chain, or
// KindInternal when there is none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HasKind reports whether any *Error in the chain has the given kind.
func HasKind(err error, kind Kind) bool {
	return errors.Is(err, &Error{Kind: kind})
}

// Message returns the client-facing message of the outermost *Error.
func Message(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "internal server error"
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return Message(e.Err)
	}
	return string(e.Kind)
}

// IsTimeout reports whether the chain contains a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// HTTPStatus maps an error to the status code the handlers write.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindInsufficientFunds:
		return http.StatusBadRequest
	case KindNotFound, KindItemNotAvailable:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindCustomerLookupFailed:
		if HasKind(err, KindNotFound) {
			return http.StatusNotFound
		}
		return downstreamStatus(err)
	case KindDeductionFailed:
		if HasKind(err, KindInsufficientFunds) {
			return http.StatusBadRequest
		}
		return downstreamStatus(err)
	case KindDownstreamUnavailable:
		return downstreamStatus(err)
	case KindPostDeductionStockFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func downstreamStatus(err error) int {
	if IsTimeout(err) {
		return http.StatusGatewayTimeout
	}
	return http.StatusBadGateway
}
