package storage

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hashicorp/go-multierror"

	"github.com/TykTechnologies/kvrouter/config"
	"github.com/TykTechnologies/kvrouter/internal/errors"
)

// Endpoint is the address list and options a backend connection is
// dialled with.
type Endpoint struct {
	Options config.StorageOptionsConf
	Addrs   []string
}

// ID is the identity of the endpoint. Two endpoints with the same ID are
// served by the same connection.
func (e Endpoint) ID() string {
	if e.Options.Type == config.StorageMemory {
		return config.StorageMemory
	}
	sorted := slices.Clone(e.Addrs)
	slices.Sort(sorted)
	return strings.Join(sorted, ",")
}

// ResolveEndpoints works out where writes and reads go. The read endpoint
// inherits the write host and port when no read replica is configured.
// Replicas only apply to single-node deployments.
func ResolveEndpoints(conf *config.Config) (write, read Endpoint) {
	write = Endpoint{
		Options: conf.Storage,
		Addrs:   conf.Storage.HostAddrs(),
	}

	if conf.Storage.Type == config.StorageMemory || conf.Storage.EnableCluster || conf.Storage.MasterName != "" {
		return write, write
	}

	read = Endpoint{
		Options: conf.Storage,
		Addrs:   conf.ReadAddrs(),
	}
	return write, read
}

// DialFunc creates a backend for an endpoint. It must not do network IO;
// reachability is checked by Backends.Connect.
type DialFunc func(Endpoint) (Backend, error)

// Dial is the default DialFunc.
func Dial(ep Endpoint) (Backend, error) {
	switch ep.Options.Type {
	case "", config.StorageRedis:
		return NewRedisBackend(NewRedisClient(ep.Options, ep.Addrs), ep.ID()), nil
	case config.StorageMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackendType, ep.Options.Type)
	}
}

// Backends holds the write and read connections. When both roles resolve
// to the same endpoint Write and Read are the same object.
type Backends struct {
	Write Backend
	Read  Backend
}

// ResolveBackends dials the write endpoint, and the read endpoint when it
// differs from it. A nil dial uses Dial.
func ResolveBackends(conf *config.Config, dial DialFunc) (*Backends, error) {
	if dial == nil {
		dial = Dial
	}

	writeEp, readEp := ResolveEndpoints(conf)

	log.Debug("Creating write backend for ", writeEp.ID())
	w, err := dial(writeEp)
	if err != nil {
		return nil, err
	}

	if readEp.ID() == writeEp.ID() {
		return &Backends{Write: w, Read: w}, nil
	}

	log.Debug("Creating read backend for ", readEp.ID())
	r, err := dial(readEp)
	if err != nil {
		_ = w.Close()
		return nil, err
	}

	return &Backends{Write: w, Read: r}, nil
}

// Shared reports whether reads and writes use one connection.
func (b *Backends) Shared() bool {
	return b.Write == b.Read
}

// Distinct returns every distinct connection once, write first.
func (b *Backends) Distinct() []Backend {
	if b.Shared() {
		return []Backend{b.Write}
	}
	return []Backend{b.Write, b.Read}
}

// Connect pings every distinct connection. With retries > 0 each ping is
// retried with exponential backoff up to that many extra times.
func (b *Backends) Connect(ctx context.Context, retries int) error {
	for _, backend := range b.Distinct() {
		err := ping(ctx, backend, retries)
		if err != nil {
			return fmt.Errorf("%s backend at %s unreachable: %w", backend.Name(), backend.Addr(), err)
		}
		log.WithField("addr", backend.Addr()).Info("Backend connected")
	}
	return nil
}

func ping(ctx context.Context, backend Backend, retries int) error {
	op := func() error { return backend.Ping(ctx) }
	if retries <= 0 {
		return op()
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(getExponentialBackoff(), uint64(retries)), ctx)
	return backoff.RetryNotify(op, bo, func(err error, wait time.Duration) {
		log.WithError(err).Warningf("Could not reach %s, retrying in %s", backend.Addr(), wait)
	})
}

// Close closes every distinct connection once.
func (b *Backends) Close() error {
	result := &multierror.Error{ErrorFormat: errors.ErrorFormat}
	for _, backend := range b.Distinct() {
		if err := backend.Close(); err != nil {
			result = multierror.Append(result, fmt.Errorf("close %s: %w", backend.Addr(), err))
		}
	}
	return result.ErrorOrNil()
}

// getExponentialBackoff returns a backoff.ExponentialBackOff with the following settings:
//   - Multiplier: 2
//   - MaxInterval: 10 seconds
//   - MaxElapsedTime: 0 (no limit, bounded by the retry count)
func getExponentialBackoff() *backoff.ExponentialBackOff {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.Multiplier = 2
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 0

	return exponentialBackoff
}
