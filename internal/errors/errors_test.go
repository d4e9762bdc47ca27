package errors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidInputError(t *testing.T) {
	err := &InvalidInputError{Field: "key", Value: "Bad Key"}
	assert.Equal(t, "invalid key 'Bad Key'", err.Error())

	var target *InvalidInputError
	assert.True(t, As(Join(New("other"), err), &target))
	assert.Equal(t, "key", target.Field)
}

func TestPredicateError(t *testing.T) {
	err := &PredicateError{Warnings: []string{"invalid prefix", "invalid suffix"}}
	assert.Equal(t, "no usable search params: invalid prefix, invalid suffix", err.Error())
	assert.ErrorIs(t, err, ErrNoUsablePredicate)
	assert.NotErrorIs(t, err, ErrNoSearchParams)
}

func TestFormatter(t *testing.T) {
	assert.Equal(t, "", Formatter(nil))
	assert.Equal(t, "a", Formatter([]string{"a"}))
	assert.Equal(t, "a, b", Formatter([]string{"a", "b"}))
}

func TestErrorFormat(t *testing.T) {
	assert.Equal(t, "a, b", ErrorFormat([]error{New("a"), New("b")}))
}

func TestBackendError(t *testing.T) {
	err := error(&BackendError{Target: "redis:6379", Err: context.DeadlineExceeded})
	assert.Equal(t, "backend redis:6379: context deadline exceeded", err.Error())
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var be *BackendError
	assert.True(t, As(err, &be))
	ec := be.Classify()
	assert.Equal(t, URT, ec.Flag)
	assert.Equal(t, "redis:6379", ec.Target)
}
