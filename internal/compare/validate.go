package compare

import (
	"errors"
	"fmt"
)

// ErrDuplicateExecution is wrapped by the RequestError returned for a
// request that lists the same id more than once.
var ErrDuplicateExecution = errors.New("duplicate execution id")

// ErrorCode categorizes rejected requests.
type ErrorCode string

const (
	// CodeDuplicateExecution indicates the same id appears twice.
	CodeDuplicateExecution ErrorCode = "DUPLICATE_EXECUTION"

	// CodeEmptyID indicates a blank id in the request.
	CodeEmptyID ErrorCode = "EMPTY_ID"

	// CodeInvalidPair indicates a screenshot request without exactly two ids.
	CodeInvalidPair ErrorCode = "INVALID_PAIR"

	// CodeInvalidScope indicates an unknown comparison scope.
	CodeInvalidScope ErrorCode = "INVALID_SCOPE"
)

// RequestError reports a comparison request rejected before any work began.
type RequestError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying sentinel, if any.
func (e *RequestError) Unwrap() error {
	return e.Err
}

// IsRequestError returns true if err is (or wraps) a RequestError.
func IsRequestError(err error) bool {
	var re *RequestError
	return errors.As(err, &re)
}

// ValidateUnique reports whether ids contains no duplicates.
// An empty list is valid.
func ValidateUnique(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return false
		}
		seen[id] = struct{}{}
	}
	return true
}

// validateIDs checks a request's id list.
func validateIDs(ids []string) error {
	for k, id := range ids {
		if id == "" {
			return &RequestError{
				Code:    CodeEmptyID,
				Message: fmt.Sprintf("id at position %d is empty", k),
			}
		}
	}
	if !ValidateUnique(ids) {
		return &RequestError{
			Code:    CodeDuplicateExecution,
			Message: fmt.Sprintf("ids must be unique: %v", ids),
			Err:     ErrDuplicateExecution,
		}
	}
	return nil
}
