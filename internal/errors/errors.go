package errors

import (
	"errors"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

var (
	New    = errors.New
	Is     = errors.Is
	As     = errors.As
	Join   = errors.Join
	Unwrap = errors.Unwrap
)

var (
	// ErrNoSearchParams is returned when a search names neither a prefix nor a suffix.
	ErrNoSearchParams = errors.New("no search params")
	// ErrNoUsablePredicate is returned when every supplied search predicate was invalid.
	ErrNoUsablePredicate = errors.New("no usable search params")
)

// InvalidInputError reports a key, value or predicate that does not match
// the accepted charset.
type InvalidInputError struct {
	Field string
	Value string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s '%s'", e.Field, e.Value)
}

// PredicateError carries the warnings collected while parsing a search
// that ended up with no usable predicate.
type PredicateError struct {
	Warnings []string
}

func (e *PredicateError) Error() string {
	return ErrNoUsablePredicate.Error() + ": " + Formatter(e.Warnings)
}

func (e *PredicateError) Unwrap() error {
	return ErrNoUsablePredicate
}

// Formatter joins human readable warnings the way they are reported to
// clients.
func Formatter(msgs []string) string {
	return strings.Join(msgs, ", ")
}

// ErrorFormat is a multierror.ErrorFormatFunc listing every error on one line.
func ErrorFormat(errs []error) string {
	return Formatter(lo.Map(errs, func(err error, _ int) string {
		return err.Error()
	}))
}

// BackendError wraps a failure of a call to the backend at Target.
type BackendError struct {
	Target string
	Err    error
}

func (e *BackendError) Error() string {
	return "backend " + e.Target + ": " + e.Err.Error()
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Classify returns the classification of the wrapped error.
func (e *BackendError) Classify() *ErrorClassification {
	return ClassifyBackendError(e.Err, e.Target)
}
