package storage

import (
	"context"
	"errors"

	logger "github.com/TykTechnologies/kvrouter/log"
)

var log = logger.Get().WithField("prefix", "storage")

// ErrKeyNotFound is a standard error for when a key is not found in the storage engine
var ErrKeyNotFound = errors.New("key not found")

// ErrUnknownBackendType is returned when storage.type names no known backend.
var ErrUnknownBackendType = errors.New("unknown backend type")

// Backend is a connection to the key-value store serving one or both of
// the write and read roles.
type Backend interface {
	// Name is the kind of backend ("redis", "memory").
	Name() string
	// Addr identifies the endpoint the backend is connected to.
	Addr() string

	Ping(ctx context.Context) error

	// Get returns ErrKeyNotFound when the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// SetGet stores value under key and atomically returns the previous
	// value. existed is false when the key had no previous value.
	SetGet(ctx context.Context, key, value string) (previous string, existed bool, err error)

	// Scan calls fn once for every key in the store. A non-nil error from
	// fn stops the scan and is returned.
	Scan(ctx context.Context, fn func(key string) error) error

	// Size returns the number of keys held.
	Size(ctx context.Context) (int64, error)

	Close() error
}
