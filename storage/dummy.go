package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryBackend is an in-process Backend. It needs no external service,
// so its ping always succeeds.
type MemoryBackend struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string]string)}
}

func (s *MemoryBackend) Name() string { return "memory" }

func (s *MemoryBackend) Addr() string { return "memory" }

func (s *MemoryBackend) Ping(context.Context) error { return nil }

func (s *MemoryBackend) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return value, nil
}

func (s *MemoryBackend) SetGet(_ context.Context, key, value string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data[key]
	s.data[key] = value
	return previous, existed, nil
}

// Scan iterates over a snapshot of the keys taken when the scan starts.
func (s *MemoryBackend) Scan(ctx context.Context, fn func(key string) error) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for k := range s.data {
		keys = append(keys, k)
	}
	s.mu.RUnlock()

	slices.Sort(keys)
	for _, k := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(k); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryBackend) Size(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data)), nil
}

func (s *MemoryBackend) Close() error { return nil }
