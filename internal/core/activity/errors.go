package activity

import (
	"errors"
	"fmt"
)

// ErrDataUnavailable matches any failed fetch or visibility check
var ErrDataUnavailable = errors.New("activity: data unavailable")

// UnavailableError carries the side and step that failed during a build
type UnavailableError struct {
	Kind Kind
	Op   string // "fetch" | "filter"
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("activity: %s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDataUnavailable) match without losing the cause
func (e *UnavailableError) Is(target error) bool { return target == ErrDataUnavailable }

func unavailable(k Kind, op string, err error) error {
	return &UnavailableError{Kind: k, Op: op, Err: err}
}
