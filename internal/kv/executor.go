// Package kv implements the set and get operations of the router on top
// of the write and read backends.
package kv

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/kvrouter/internal/errors"
	"github.com/TykTechnologies/kvrouter/internal/model"
	"github.com/TykTechnologies/kvrouter/internal/validate"
	"github.com/TykTechnologies/kvrouter/storage"
)

// Executor runs key-value operations. It holds no per-request state and is
// safe for concurrent use.
type Executor struct {
	backends    *storage.Backends
	callTimeout time.Duration
	log         *logrus.Entry
}

// NewExecutor creates an Executor. A callTimeout of 0 leaves backend calls
// bounded only by the request context.
func NewExecutor(backends *storage.Backends, callTimeout time.Duration, log *logrus.Entry) *Executor {
	return &Executor{
		backends:    backends,
		callTimeout: callTimeout,
		log:         log,
	}
}

// Set stores value under key on the write backend. Writing the value a key
// already holds yields model.Unchanged. The outcome is only meaningful when
// err is nil.
func (e *Executor) Set(ctx context.Context, key, value string) (model.Outcome, error) {
	if err := e.check("key", key); err != nil {
		return model.Invalid, err
	}
	if err := e.check("value", value); err != nil {
		return model.Invalid, err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	backend := e.backends.Write
	previous, existed, err := backend.SetGet(ctx, key, value)
	if err != nil {
		return model.Invalid, &errors.BackendError{Target: backend.Addr(), Err: err}
	}

	switch {
	case !existed:
		return model.Created, nil
	case previous == value:
		return model.Unchanged, nil
	default:
		return model.Updated, nil
	}
}

// Get reads key from the read backend.
func (e *Executor) Get(ctx context.Context, key string) (string, model.Outcome, error) {
	if err := e.check("key", key); err != nil {
		return "", model.Invalid, err
	}

	ctx, cancel := e.withTimeout(ctx)
	defer cancel()

	backend := e.backends.Read
	value, err := backend.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return "", model.NotFound, nil
	}
	if err != nil {
		return "", model.Invalid, &errors.BackendError{Target: backend.Addr(), Err: err}
	}
	return value, model.Found, nil
}

func (e *Executor) check(field, s string) error {
	err := validate.Check(field, s)
	if err != nil {
		e.log.Warningf("invalid input %q", s)
	}
	return err
}

func (e *Executor) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.callTimeout)
}
