// Package search implements prefix and suffix search over the keyspace of
// the read backend.
package search

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/TykTechnologies/kvrouter/internal/errors"
	"github.com/TykTechnologies/kvrouter/storage"
)

// Results maps each active predicate ("prefix", "suffix") to the keys it
// matched. Inactive predicates have no entry.
type Results map[string][]string

// Searcher runs a parsed Query.
type Searcher interface {
	Search(ctx context.Context, q Query) (Results, error)
}

// ScanSearcher answers queries with a full scan of the backend keyspace.
type ScanSearcher struct {
	backend storage.Backend
	timeout time.Duration
	log     *logrus.Entry
}

var _ Searcher = (*ScanSearcher)(nil)

// NewScanSearcher creates a ScanSearcher over backend. A timeout of 0
// bounds the scan only by the request context.
func NewScanSearcher(backend storage.Backend, timeout time.Duration, log *logrus.Entry) *ScanSearcher {
	return &ScanSearcher{
		backend: backend,
		timeout: timeout,
		log:     log,
	}
}

// Search scans every key once, matching prefix and suffix independently.
// A key matching both predicates is listed under both. The scan stops as
// soon as ctx is done.
func (s *ScanSearcher) Search(ctx context.Context, q Query) (Results, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var prefixed, suffixed []string
	if q.HasPrefix {
		prefixed = make([]string, 0)
	}
	if q.HasSuffix {
		suffixed = make([]string, 0)
	}

	scanned := 0
	err := s.backend.Scan(ctx, func(key string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		scanned++
		if q.HasPrefix && strings.HasPrefix(key, q.Prefix) {
			prefixed = append(prefixed, key)
		}
		if q.HasSuffix && strings.HasSuffix(key, q.Suffix) {
			suffixed = append(suffixed, key)
		}
		return nil
	})
	if err != nil {
		s.log.WithError(err).WithField("scanned", scanned).Debug("Search aborted")
		return nil, &errors.BackendError{Target: s.backend.Addr(), Err: err}
	}

	results := make(Results, 2)
	if q.HasPrefix {
		results[paramPrefix] = prefixed
	}
	if q.HasSuffix {
		results[paramSuffix] = suffixed
	}

	s.log.WithField("scanned", scanned).Debug("Search done")
	return results, nil
}
