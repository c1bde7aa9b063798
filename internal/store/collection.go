// Package store holds the observable in-memory collections shared by the
// flight, process, payment and lost-item services.
package store

import (
	"fmt"
	"sync"
	"time"

	"groundops-service/pkg/eventbus"
)

// Transition mutates a record in place. now is the collection clock.
type Transition[T any] func(rec *T, now time.Time) error

// Config parametrizes a Collection for one entity kind.
type Config[T any] struct {
	// Name identifies the collection in errors, logs and mirror paths
	Name string

	// Key extracts the natural key
	Key func(T) string

	// Clone deep-copies a record. Records without reference fields can leave it nil.
	Clone func(T) T

	// Transitions are the named in-place mutations allowed on a record
	Transitions map[string]Transition[T]

	// Clock defaults to time.Now
	Clock func() time.Time

	// OnChange runs after every local mutation with a fresh snapshot.
	// It is not called for Replace.
	OnChange func([]T)
}

// Collection is an insertion-ordered, observable list of records with
// unique natural keys.
//
// Snapshots reach subscribers in mutation order; a snapshot that lost the
// race to a newer one is dropped. Subscribers and the change hook run under
// the emit lock and must not mutate the collection synchronously.
type Collection[T any] struct {
	cfg     Config[T]
	mu      sync.RWMutex
	items   []T
	version uint64 // guarded by mu
	bus     *eventbus.Bus[[]T]

	emitMu  sync.Mutex
	emitted uint64 // guarded by emitMu
}

// New builds an empty collection.
func New[T any](cfg Config[T]) *Collection[T] {
	if cfg.Key == nil {
		panic("store: Config.Key is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &Collection[T]{
		cfg: cfg,
		bus: eventbus.New[[]T](),
	}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.cfg.Name
}

// SetOnChange replaces the change hook. Used to attach a mirror after construction.
func (c *Collection[T]) SetOnChange(fn func([]T)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cfg.OnChange = fn
}

// Bus exposes the underlying bus, e.g. to install a panic handler.
func (c *Collection[T]) Bus() *eventbus.Bus[[]T] {
	return c.bus
}

// Subscribe registers fn for every future snapshot. Each subscriber gets
// its own copy.
func (c *Collection[T]) Subscribe(fn func([]T)) eventbus.Unsubscribe {
	return c.bus.Subscribe(func(snap []T) {
		fn(c.cloneAll(snap))
	})
}

// List returns a snapshot of the collection.
func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshotLocked()
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Get returns a copy of the record with the given key.
func (c *Collection[T]) Get(key string) (T, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i := c.indexLocked(key); i >= 0 {
		return c.clone(c.items[i]), nil
	}
	var zero T
	return zero, fmt.Errorf("%s %q: %w", c.cfg.Name, key, ErrNotFound)
}

// Contains reports whether key is present.
func (c *Collection[T]) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexLocked(key) >= 0
}

// Add appends rec unless its key is already present.
func (c *Collection[T]) Add(rec T) error {
	key := c.cfg.Key(rec)

	c.mu.Lock()
	if c.indexLocked(key) >= 0 {
		c.mu.Unlock()
		return fmt.Errorf("%s %q: %w", c.cfg.Name, key, ErrDuplicateKey)
	}
	c.items = append(c.items, c.clone(rec))
	snap, version, hook := c.commitLocked()
	c.mu.Unlock()

	c.publish(snap, version, hook)
	return nil
}

// Apply runs the named transition on the record with the given key.
func (c *Collection[T]) Apply(transition, key string) error {
	fn, ok := c.cfg.Transitions[transition]
	if !ok {
		return fmt.Errorf("%s %q: %w", c.cfg.Name, transition, ErrUnknownTransition)
	}

	c.mu.Lock()
	i := c.indexLocked(key)
	if i < 0 {
		c.mu.Unlock()
		return fmt.Errorf("%s %q: %w", c.cfg.Name, key, ErrNotFound)
	}
	rec := c.clone(c.items[i])
	if err := fn(&rec, c.cfg.Clock()); err != nil {
		c.mu.Unlock()
		return fmt.Errorf("%s %q %s: %w", c.cfg.Name, key, transition, err)
	}
	c.items[i] = rec
	snap, version, hook := c.commitLocked()
	c.mu.Unlock()

	c.publish(snap, version, hook)
	return nil
}

// RemoveWhere deletes every record matching pred and returns how many went.
// Nothing is emitted when no record matched.
func (c *Collection[T]) RemoveWhere(pred func(T) bool) (int, error) {
	c.mu.Lock()
	kept := make([]T, 0, len(c.items))
	for _, rec := range c.items {
		if !pred(rec) {
			kept = append(kept, rec)
		}
	}
	removed := len(c.items) - len(kept)
	if removed == 0 {
		c.mu.Unlock()
		return 0, fmt.Errorf("%s: %w", c.cfg.Name, ErrNotFound)
	}
	c.items = kept
	snap, version, hook := c.commitLocked()
	c.mu.Unlock()

	c.publish(snap, version, hook)
	return removed, nil
}

// Replace swaps the whole content, keeping the first record of any
// duplicated key, and emits. The change hook is not called so a remote
// update is never echoed back. It returns the number of dropped duplicates.
func (c *Collection[T]) Replace(records []T) int {
	seen := make(map[string]struct{}, len(records))
	items := make([]T, 0, len(records))
	for _, rec := range records {
		key := c.cfg.Key(rec)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		items = append(items, c.clone(rec))
	}

	c.mu.Lock()
	c.items = items
	snap, version, _ := c.commitLocked()
	c.mu.Unlock()

	c.publish(snap, version, nil)
	return len(records) - len(items)
}

func (c *Collection[T]) commitLocked() ([]T, uint64, func([]T)) {
	c.version++
	return c.snapshotLocked(), c.version, c.cfg.OnChange
}

func (c *Collection[T]) publish(snap []T, version uint64, hook func([]T)) {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()
	if version <= c.emitted {
		return // superseded by a snapshot already delivered
	}
	c.emitted = version

	c.bus.Emit(snap)
	if hook != nil {
		hook(c.List())
	}
}

func (c *Collection[T]) indexLocked(key string) int {
	for i, rec := range c.items {
		if c.cfg.Key(rec) == key {
			return i
		}
	}
	return -1
}

func (c *Collection[T]) snapshotLocked() []T {
	out := make([]T, len(c.items))
	for i, rec := range c.items {
		out[i] = c.clone(rec)
	}
	return out
}

func (c *Collection[T]) cloneAll(recs []T) []T {
	out := make([]T, len(recs))
	for i, rec := range recs {
		out[i] = c.clone(rec)
	}
	return out
}

func (c *Collection[T]) clone(rec T) T {
	if c.cfg.Clone == nil {
		return rec
	}
	return c.cfg.Clone(rec)
}
