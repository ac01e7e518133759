package probe

import (
	"github.com/pkg/errors"
)

// ErrPlatformQueryFailed matches every *QueryError through errors.Is
var ErrPlatformQueryFailed = errors.New("platform query failed")

// QueryError is returned when the OS primitive behind an operation reports a
// failure that makes the result meaningless. "No data" outcomes such as an
// empty title or a declined lock are never reported this way.
type QueryError struct {
	Op     string
	Detail string
	Err    error
}

func (e *QueryError) Error() string {
	if e.Op == "" {
		return "platform query failed: " + e.Detail
	}
	return e.Op + ": platform query failed: " + e.Detail
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrPlatformQueryFailed
func (e *QueryError) Is(target error) bool {
	return target == ErrPlatformQueryFailed
}

// QueryFailed builds a QueryError with no underlying cause
func QueryFailed(op, detail string) error {
	return &QueryError{Op: op, Detail: detail}
}

// WrapQueryFailed builds a QueryError whose detail carries err's message.
func WrapQueryFailed(err error, op, detail string) error {
	if err == nil {
		return QueryFailed(op, detail)
	}
	wrapped := errors.Wrap(err, detail)
	return &QueryError{Op: op, Detail: wrapped.Error(), Err: wrapped}
}

// IsQueryFailed reports whether err is, or wraps, a QueryError
func IsQueryFailed(err error) bool {
	return errors.Is(err, ErrPlatformQueryFailed)
}
