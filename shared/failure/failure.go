package failure

import (
	"errors"
	"net/http"
)

// Kinds let callers render specific feedback per failure class instead of
// switching on HTTP codes.
const (
	KindValidation          = "validation"
	KindCapacityExceeded    = "capacity_exceeded"
	KindPrimaryGuestMissing = "primary_guest_missing"
	KindInvalidTransition   = "invalid_transition"
	KindDataIntegrity       = "data_integrity"
)

// Failure is a wrapper for error messages and codes using standard HTTP response codes.
type Failure struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
}

var InvalidPageParam = &Failure{Code: http.StatusBadRequest, Message: "invalid page parameter"}
var InvalidLimitParam = &Failure{Code: http.StatusBadRequest, Message: "invalid limit parameter"}
var ForbiddenError = &Failure{Code: http.StatusForbidden, Message: "You don't have the required permissions"}
var ResourceRestrictedError = &Failure{Code: http.StatusForbidden, Message: "You don't have permission to access this resource"}

// Error returns the error code and message in a formatted string.
func (e *Failure) Error() string {
	return e.Message
}

// BadRequest returns a new Failure with code for bad requests.
func BadRequest(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusBadRequest,
			Message: err.Error(),
		}
	}

	return nil
}

// BadRequestFromString returns a new Failure with code for bad requests with message set from string.
func BadRequestFromString(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Message: msg,
	}
}

// Unauthorized returns a new Failure with code for unauthorized requests.
func Unauthorized(msg string) error {
	return &Failure{
		Code:    http.StatusUnauthorized,
		Message: msg,
	}
}

// InternalError returns a new Failure with code for internal error and message derived from an error interface.
func InternalError(err error) error {
	if err != nil {
		return &Failure{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		}
	}

	return nil
}

// Unimplemented returns a new Failure with code for unimplemented method.
func Unimplemented(methodName string) error {
	return &Failure{
		Code:    http.StatusNotImplemented,
		Message: methodName,
	}
}

// NotFound returns a new Failure with code for entity not found.
func NotFound(entityName string) error {
	return &Failure{
		Code:    http.StatusNotFound,
		Message: entityName,
	}
}

// Conflict returns a new Failure with code for conflict situations.
func Conflict(message string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Message: message,
	}
}

func Forbidden(msg string) error {
	return &Failure{
		Code:    http.StatusForbidden,
		Message: msg,
	}
}

// Validation returns a new Failure for a missing/blank required field or an
// inverted date range.
func Validation(msg string) error {
	return &Failure{
		Code:    http.StatusBadRequest,
		Kind:    KindValidation,
		Message: msg,
	}
}

// CapacityExceeded returns a new Failure for a room assignment that would
// exceed the room's maximum occupancy.
func CapacityExceeded(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindCapacityExceeded,
		Message: msg,
	}
}

// PrimaryGuestMissing returns a new Failure for an additional guest attached
// before a primary guest was seeded.
func PrimaryGuestMissing(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindPrimaryGuestMissing,
		Message: msg,
	}
}

// InvalidTransition returns a new Failure for a lifecycle operation attempted
// from a state that does not permit it.
func InvalidTransition(msg string) error {
	return &Failure{
		Code:    http.StatusConflict,
		Kind:    KindInvalidTransition,
		Message: msg,
	}
}

// DataIntegrity returns a new Failure for a record whose stored flags violate
// the lifecycle invariants. Such records are flagged for manual review, never
// auto-corrected.
func DataIntegrity(msg string) error {
	return &Failure{
		Code:    http.StatusUnprocessableEntity,
		Kind:    KindDataIntegrity,
		Message: msg,
	}
}

// GetCode returns the error code of an error interface.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}

// GetKind returns the failure kind of an error interface, or an empty string
// for errors without one.
func GetKind(err error) string {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Kind
	}

	return ""
}

// IsKind reports whether err carries the given failure kind.
func IsKind(err error, kind string) bool {
	return GetKind(err) == kind
}
