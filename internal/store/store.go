// Package store owns the cached settings of one compass, one Domain per
// settings area.
//
// A Domain is the single place its value is read from and written to the
// device. Panels go through it instead of calling the client directly, so
// a value loaded by one panel mount is reused by the next until something
// invalidates it.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mcompass/compass-cfg/internal/logging"
)

// ErrReadOnly is returned by Save on a domain built without a persist function.
var ErrReadOnly = errors.New("store: domain is read-only")

// FetchFunc reads a domain value from the device.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// PersistFunc writes a domain value to the device.
type PersistFunc[T any] func(ctx context.Context, v T) error

// Domain caches one settings value. It is safe for concurrent use.
type Domain[T any] struct {
	name    string
	fetch   FetchFunc[T]
	persist PersistFunc[T]

	mu        sync.Mutex
	value     T
	valid     bool
	fetchedAt time.Time
	maxAge    time.Duration
	// generation is bumped by every Invalidate and Save so that a fetch
	// which started earlier cannot overwrite newer state.
	generation uint64
}

// NewDomain creates a writable domain.
func NewDomain[T any](name string, fetch func(context.Context) (T, error), persist func(context.Context, T) error) *Domain[T] {
	return &Domain[T]{name: name, fetch: fetch, persist: persist}
}

// NewReadOnlyDomain creates a domain whose Save always fails with ErrReadOnly.
func NewReadOnlyDomain[T any](name string, fetch func(context.Context) (T, error)) *Domain[T] {
	return &Domain[T]{name: name, fetch: fetch}
}

// Name returns the domain name used in logs.
func (d *Domain[T]) Name() string {
	return d.name
}

// ReadOnly reports whether Save is rejected.
func (d *Domain[T]) ReadOnly() bool {
	return d.persist == nil
}

// SetMaxAge bounds how long a cached value is served. Zero keeps it until
// invalidated.
func (d *Domain[T]) SetMaxAge(maxAge time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.maxAge = maxAge
}

func (d *Domain[T]) logger() *zap.Logger {
	return logging.Named("store").With(zap.String("domain", d.name))
}

// fresh reports whether the cache can be served. Caller holds mu.
func (d *Domain[T]) fresh() bool {
	if !d.valid {
		return false
	}
	return d.maxAge == 0 || time.Since(d.fetchedAt) < d.maxAge
}

// Load returns the cached value or fetches it from the device.
//
// A failed fetch is not cached; whatever the fetch returned is passed
// through with the error so callers can show partial data.
func (d *Domain[T]) Load(ctx context.Context) (T, error) {
	d.mu.Lock()
	if d.fresh() {
		v := d.value
		d.mu.Unlock()
		d.logger().Debug("cache hit")
		return v, nil
	}
	gen := d.generation
	d.mu.Unlock()

	d.logger().Debug("cache miss, fetching")
	v, err := d.fetch(ctx)
	if err != nil {
		return v, err
	}

	d.mu.Lock()
	if d.generation == gen {
		d.value = v
		d.valid = true
		d.fetchedAt = time.Now()
	}
	d.mu.Unlock()

	return v, nil
}

// Save writes v to the device. On success v becomes the cached value;
// on any failure the cache is dropped, since a partial write leaves the
// device state unknown.
func (d *Domain[T]) Save(ctx context.Context, v T) error {
	if d.persist == nil {
		return ErrReadOnly
	}

	err := d.persist(ctx, v)

	d.mu.Lock()
	d.generation++
	if err != nil {
		var zero T
		d.value = zero
		d.valid = false
	} else {
		d.value = v
		d.valid = true
		d.fetchedAt = time.Now()
	}
	d.mu.Unlock()

	if err != nil {
		d.logger().Debug("save failed, cache invalidated", zap.Error(err))
	}
	return err
}

// Invalidate forces the next Load to fetch.
func (d *Domain[T]) Invalidate() {
	d.mu.Lock()
	defer d.mu.Unlock()
	var zero T
	d.value = zero
	d.valid = false
	d.generation++
}

// Peek returns the cached value without any I/O.
func (d *Domain[T]) Peek() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.fresh() {
		var zero T
		return zero, false
	}
	return d.value, true
}
