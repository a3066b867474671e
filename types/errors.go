package types

import (
	"errors"
	"fmt"
)

// ErrInvalidValue marks failures caused by the filter values themselves (bad literal, type mismatch,
// unsupported lookup) as opposed to infrastructure failures.
var ErrInvalidValue = errors.New("invalid filter value")

type InvalidValueError struct {
	Key   string
	Value interface{}
	Cause error
}

func NewInvalidValueError(key string, value interface{}, cause error) error {
	return &InvalidValueError{Key: key, Value: value, Cause: cause}
}

func (e *InvalidValueError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("invalid value %v for filter %s", e.Value, e.Key)
	}
	return fmt.Sprintf("invalid value %v for filter %s: %s", e.Value, e.Key, e.Cause)
}

func (e *InvalidValueError) Unwrap() error {
	return e.Cause
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// IsInvalidValue reports whether err was caused by a filter value.
func IsInvalidValue(err error) bool {
	return errors.Is(err, ErrInvalidValue)
}
