package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/yashrajoria/sneakershop/logger"
)

// Kind classifies an application error independently of its message.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindNotFound     Kind = "not_found"
	KindEmptyCart    Kind = "empty_cart"
	KindConflict     Kind = "conflict"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindUpstream     Kind = "upstream"
)

const internalMessage = "Internal server error"

// Error represents an application error
type Error struct {
	Code    int    `json:"-"`
	Kind    Kind   `json:"-"`
	Message string `json:"error"`
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

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Public returns the message that is safe to show to the caller.
func (e *Error) Public() string {
	if e.Code >= http.StatusInternalServerError {
		return internalMessage
	}
	return e.Message
}

// New creates a new Error
func New(code int, kind Kind, message string, err error) *Error {
	return &Error{
		Code:    code,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// Sentinels for errors.Is checks
var (
	ErrValidation   = New(http.StatusBadRequest, KindValidation, "Validation error", nil)
	ErrNotFound     = New(http.StatusNotFound, KindNotFound, "Not found", nil)
	ErrEmptyCart    = New(http.StatusBadRequest, KindEmptyCart, "Cart is empty", nil)
	ErrConflict     = New(http.StatusConflict, KindConflict, "Conflict", nil)
	ErrUnauthorized = New(http.StatusUnauthorized, KindUnauthorized, "Not authenticated", nil)
	ErrForbidden    = New(http.StatusForbidden, KindForbidden, "Forbidden", nil)
	ErrUpstream     = New(http.StatusInternalServerError, KindUpstream, internalMessage, nil)
)

func Validation(message string) *Error {
	return New(http.StatusBadRequest, KindValidation, message, nil)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, KindNotFound, message, nil)
}

func EmptyCart() *Error {
	return New(http.StatusBadRequest, KindEmptyCart, "Cart is empty", nil)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, KindConflict, message, nil)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, KindUnauthorized, message, nil)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, KindForbidden, message, nil)
}

// Upstream wraps a storage or dependency failure. message is logged, never rendered.
func Upstream(message string, err error) *Error {
	return New(http.StatusInternalServerError, KindUpstream, message, err)
}

// From converts any error into an *Error, treating unknown errors as upstream failures.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Upstream("unhandled error", err)
}

// Respond writes err as {"error": "..."} with its status code. 5xx causes are logged, not leaked.
func Respond(c *gin.Context, err error) {
	appErr := From(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error(c, appErr.Message, appErr.Err,
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}
	c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Public()})
}

// ErrorMiddleware renders the last error attached with c.Error when no response was written.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			Respond(c, c.Errors.Last().Err)
		}
	}
}
