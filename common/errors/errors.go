package errors

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Kind identifies the category of an application error independently of the
// HTTP code it maps to. InsufficientStock and TransactionConflict share a
// caller-facing meaning but are kept distinct for diagnostics.
type Kind string

const (
	KindNotFound            Kind = "NOT_FOUND"
	KindInsufficientStock   Kind = "INSUFFICIENT_STOCK"
	KindForbidden           Kind = "FORBIDDEN"
	KindInvalidTransition   Kind = "INVALID_TRANSITION"
	KindInvalidArgument     Kind = "INVALID_ARGUMENT"
	KindTransactionConflict Kind = "TRANSACTION_CONFLICT"
	KindUnauthorized        Kind = "UNAUTHORIZED"
	KindInternal            Kind = "INTERNAL"
)

// Error represents an application error
type Error struct {
	Code    int    `json:"code"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{Code: code, Kind: kind, Message: message, Err: err}
}

func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, KindNotFound, fmt.Sprintf(format, args...), nil)
}

// InsufficientStock carries the available-vs-requested detail so the caller
// can see exactly which line failed and by how much.
func InsufficientStock(bookID uuid.UUID, available, requested int) *Error {
	return New(http.StatusBadRequest, KindInsufficientStock,
		fmt.Sprintf("insufficient stock for book %s: available=%d requested=%d", bookID, available, requested), nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, KindForbidden, message, nil)
}

func InvalidTransition(from, to string) *Error {
	return New(http.StatusBadRequest, KindInvalidTransition,
		fmt.Sprintf("cannot transition order from %s to %s", from, to), nil)
}

func InvalidArgument(format string, args ...any) *Error {
	return New(http.StatusBadRequest, KindInvalidArgument, fmt.Sprintf(format, args...), nil)
}

// TransactionConflict is returned when the conditional stock decrement affects
// zero rows mid-transaction, i.e. a concurrent order consumed the stock after
// the pre-check passed. No partial state survives, so callers may retry.
func TransactionConflict(bookID uuid.UUID) *Error {
	return New(http.StatusConflict, KindTransactionConflict,
		fmt.Sprintf("stock for book %s was consumed by a concurrent order", bookID), nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindInternal, message, err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return false
}

// AsError coerces any error into an *Error, wrapping unknown errors as
// internal so raw store errors never leak to the presentation layer.
func AsError(err error) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return Internal("internal server error", err)
}

// Respond writes the error to a gin context with its mapped status code.
func Respond(c *gin.Context, err error) {
	e := AsError(err)
	c.JSON(e.Code, gin.H{"error": e.Message, "kind": e.Kind})
}
