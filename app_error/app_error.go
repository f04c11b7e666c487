package app_error

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

type statusError struct {
	error
	status int
}

func (e statusError) Unwrap() error {
	return e.error
}

func (e statusError) HTTPStatus() int {
	return e.status
}

// NotFound signals that a referenced entity does not exist.
func NotFound(format string, args ...any) error {
	return statusError{fmt.Errorf(format, args...), 404}
}

// Validation signals a semantically invalid request.
func Validation(format string, args ...any) error {
	return statusError{fmt.Errorf(format, args...), 400}
}

// Conflict signals a write that would violate a uniqueness rule.
func Conflict(format string, args ...any) error {
	return statusError{fmt.Errorf(format, args...), 409}
}

// ExternalService wraps a failure of an outbound dependency.
func ExternalService(err error, message string) error {
	return statusError{fmt.Errorf("%s: %w", message, err), 502}
}

// HTTPStatus extracts the status code carried by err, defaulting to 500.
func HTTPStatus(err error) int {
	var se statusError
	if errors.As(err, &se) {
		return se.status
	}
	return 500
}

func IsNotFound(err error) bool {
	var se statusError
	return errors.As(err, &se) && se.status == 404
}

func WithHTTPStatus(c *gin.Context, err error) {
	var se statusError
	if errors.As(err, &se) {
		c.JSON(se.status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(500, gin.H{"error": err.Error()})
}
