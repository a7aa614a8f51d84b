package custom_error

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

type CustomError interface {
	Error() string
}

type UniqueViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23505")
}

type ForeignKeyViolationError struct {
	message string
	code    string // PostgreSQL error code (e.g., "23503")
}

// RetryableError marks failures caused by lock contention or cancellation,
// not by a business rule. Callers may safely resubmit the request.
type RetryableError struct {
	message string
	code    string
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", e.message, e.code)
}

func (f *ForeignKeyViolationError) Error() string {
	return fmt.Sprintf("%s (code: %s)", f.message, f.code)
}

func (r *RetryableError) Error() string {
	return fmt.Sprintf("%s (code: %s)", r.message, r.code)
}

func WrapDBError(message, code string) CustomError {
	switch code {
	case "23505":
		return &UniqueViolationError{
			message: message,
			code:    code,
		}
	case "23503":
		return &ForeignKeyViolationError{
			message: "Value is already used by other resources " + message,
			code:    code,
		}
	case "55P03", "57014":
		return &RetryableError{
			message: message,
			code:    code,
		}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}

// Classify maps a raw database error onto a CustomError where one applies.
// Context deadline expiry counts as retryable: the surrounding transaction
// rolled back, so resubmitting is safe.
func Classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &RetryableError{message: "operation timed out", code: "57014"}
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return WrapDBError(pqErr.Message, string(pqErr.Code))
	}

	return err
}

func IsRetryable(err error) bool {
	var r *RetryableError
	return errors.As(err, &r)
}

func IsUniqueViolation(err error) bool {
	var u *UniqueViolationError
	return errors.As(err, &u)
}

func IsForeignKeyViolation(err error) bool {
	var f *ForeignKeyViolationError
	return errors.As(err, &f)
}
