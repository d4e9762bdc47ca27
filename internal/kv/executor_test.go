package kv

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kverrors "github.com/TykTechnologies/kvrouter/internal/errors"
	"github.com/TykTechnologies/kvrouter/internal/model"
	"github.com/TykTechnologies/kvrouter/storage"
)

// slowBackend blocks every call until the context is done.
type slowBackend struct {
	*storage.MemoryBackend
}

func (s *slowBackend) Addr() string { return "slow:6379" }

func (s *slowBackend) Get(ctx context.Context, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func (s *slowBackend) SetGet(ctx context.Context, _, _ string) (string, bool, error) {
	<-ctx.Done()
	return "", false, ctx.Err()
}

func newExecutor(t *testing.T, backends *storage.Backends, timeout time.Duration) (*Executor, *test.Hook) {
	t.Helper()
	logger, hook := test.NewNullLogger()
	return NewExecutor(backends, timeout, logger.WithField("prefix", "kv")), hook
}

func memoryBackends() *storage.Backends {
	m := storage.NewMemoryBackend()
	return &storage.Backends{Write: m, Read: m}
}

func TestExecutor_SetOutcomes(t *testing.T) {
	e, _ := newExecutor(t, memoryBackends(), time.Second)
	ctx := context.Background()

	outcome, err := e.Set(ctx, "abc", "xyz")
	require.NoError(t, err)
	assert.Equal(t, model.Created, outcome)

	outcome, err = e.Set(ctx, "abc", "uvw")
	require.NoError(t, err)
	assert.Equal(t, model.Updated, outcome)

	outcome, err = e.Set(ctx, "abc", "uvw")
	require.NoError(t, err)
	assert.Equal(t, model.Unchanged, outcome)

	value, outcome, err := e.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, model.Found, outcome)
	assert.Equal(t, "uvw", value)
}

func TestExecutor_GetIdempotent(t *testing.T) {
	e, _ := newExecutor(t, memoryBackends(), 0)
	ctx := context.Background()

	_, err := e.Set(ctx, "abc", "xyz")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		value, outcome, err := e.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, model.Found, outcome)
		assert.Equal(t, "xyz", value)
	}
}

func TestExecutor_GetNotFound(t *testing.T) {
	e, _ := newExecutor(t, memoryBackends(), time.Second)

	_, outcome, err := e.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Equal(t, model.NotFound, outcome)
}

func TestExecutor_InvalidInput(t *testing.T) {
	backends := memoryBackends()
	e, hook := newExecutor(t, backends, time.Second)
	ctx := context.Background()

	tests := []struct {
		name  string
		run   func() error
		field string
		value string
	}{
		{
			name: "set invalid key",
			run: func() error {
				_, err := e.Set(ctx, "ABC", "xyz")
				return err
			},
			field: "key",
			value: "ABC",
		},
		{
			name: "set empty key",
			run: func() error {
				_, err := e.Set(ctx, "", "xyz")
				return err
			},
			field: "key",
			value: "",
		},
		{
			name: "set invalid value",
			run: func() error {
				_, err := e.Set(ctx, "abc", "x y")
				return err
			},
			field: "value",
			value: "x y",
		},
		{
			name: "get invalid key",
			run: func() error {
				_, _, err := e.Get(ctx, "a_b")
				return err
			},
			field: "key",
			value: "a_b",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			hook.Reset()

			err := tc.run()
			var invalid *kverrors.InvalidInputError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, tc.field, invalid.Field)
			assert.Equal(t, tc.value, invalid.Value)

			require.Len(t, hook.Entries, 1)
			assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		})
	}

	size, err := backends.Write.Size(ctx)
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestExecutor_InvalidKeyCheckedFirst(t *testing.T) {
	e, _ := newExecutor(t, memoryBackends(), time.Second)

	_, err := e.Set(context.Background(), "BAD", "ALSO BAD")
	var invalid *kverrors.InvalidInputError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, "key", invalid.Field)
}

func TestExecutor_Timeout(t *testing.T) {
	slow := &slowBackend{MemoryBackend: storage.NewMemoryBackend()}
	e, _ := newExecutor(t, &storage.Backends{Write: slow, Read: slow}, 10*time.Millisecond)
	ctx := context.Background()

	_, err := e.Set(ctx, "abc", "xyz")
	var be *kverrors.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, "slow:6379", be.Target)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, _, err = e.Get(ctx, "abc")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecutor_RoutesByRole(t *testing.T) {
	write := storage.NewMemoryBackend()
	read := storage.NewMemoryBackend()
	e, _ := newExecutor(t, &storage.Backends{Write: write, Read: read}, time.Second)
	ctx := context.Background()

	_, err := e.Set(ctx, "abc", "xyz")
	require.NoError(t, err)

	_, outcome, err := e.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, model.NotFound, outcome, "reads must not hit the write backend")

	_, _, _ = read.SetGet(ctx, "abc", "replicated")
	value, _, err := e.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "replicated", value)
}
