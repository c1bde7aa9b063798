package mirror

import (
	"context"
	"crypto/sha256"
	"sync"

	"groundops-service/internal/domain/repository"
	"groundops-service/internal/store"
	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"
)

// Enqueuer accepts a document to be written to path later
type Enqueuer interface {
	Enqueue(ctx context.Context, path string, payload []byte) error
}

// Bridge mirrors one collection to one remote document
type Bridge[T any] struct {
	coll     *store.Collection[T]
	codec    Codec[T]
	docs     repository.DocumentStore
	identity repository.IdentityProvider
	queue    Enqueuer
	logger   logger.Logger
	metrics  *metrics.Metrics

	mu sync.Mutex
	// unconfirmed holds digests of payloads pushed per path, oldest first,
	// until their echo comes back from the remote store
	unconfirmed map[string][]digest
}

type digest [sha256.Size]byte

// maxUnconfirmed bounds the echo history kept per path
const maxUnconfirmed = 64

// NewBridge creates a bridge. Call Attach to start pushing local mutations.
func NewBridge[T any](
	coll *store.Collection[T],
	codec Codec[T],
	docs repository.DocumentStore,
	identity repository.IdentityProvider,
	queue Enqueuer,
	logger logger.Logger,
	m *metrics.Metrics,
) *Bridge[T] {
	return &Bridge[T]{
		coll:     coll,
		codec:    codec,
		docs:     docs,
		identity: identity,
		queue:    queue,
		logger:   logger.With("collection", coll.Name()),
		metrics:  m,

		unconfirmed: make(map[string][]digest),
	}
}

// Collection returns the mirrored collection name
func (b *Bridge[T]) Collection() string {
	return b.coll.Name()
}

// Path returns the remote path for the current identity
func (b *Bridge[T]) Path() string {
	return UserPath(b.identity, b.coll.Name())
}

// Attach makes every local mutation push the collection
func (b *Bridge[T]) Attach() {
	b.coll.SetOnChange(b.Push)
}

// Push serializes records and enqueues the write. Failures are logged only.
func (b *Bridge[T]) Push(records []T) {
	b.metrics.StoreMutations.WithLabelValues(b.coll.Name(), "push").Inc()

	payload, err := b.codec.Encode(records)
	if err != nil {
		b.logger.Error("Failed to serialize collection", "error", err)
		b.metrics.ErrorsCount.WithLabelValues("mirror_encode").Inc()
		return
	}

	path := b.Path()
	b.remember(path, payload)
	if err := b.queue.Enqueue(context.Background(), path, payload); err != nil {
		b.logger.Error("Failed to enqueue sync", "path", path, "error", err)
		b.metrics.ErrorsCount.WithLabelValues("mirror_enqueue").Inc()
	}
}

// SubscribeRemote replaces the local collection every time the remote
// document changes, until ctx ends or the returned function is called.
func (b *Bridge[T]) SubscribeRemote(ctx context.Context) (func(), error) {
	path := b.Path()
	stop, err := b.docs.Watch(ctx, path, func(doc []byte) {
		b.apply(path, doc)
	})
	if err != nil {
		return nil, err
	}
	b.logger.Info("Watching remote collection", "path", path)
	return stop, nil
}

func (b *Bridge[T]) apply(path string, doc []byte) {
	if b.staleEcho(path, doc) {
		b.logger.Debug("Skipped echo of a superseded push", "path", path)
		return
	}

	records, err := b.codec.Decode(doc)
	if err != nil {
		b.logger.Error("Failed to deserialize remote collection", "error", err)
		b.metrics.ErrorsCount.WithLabelValues("mirror_decode").Inc()
		return
	}

	dropped := b.coll.Replace(records)
	if dropped > 0 {
		b.logger.Warn("Remote collection had duplicate keys", "dropped", dropped)
	}
	b.metrics.RemoteUpdates.WithLabelValues(b.coll.Name()).Inc()
	b.logger.Debug("Applied remote collection", "records", len(records)-dropped)
}

func (b *Bridge[T]) remember(path string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pushed := append(b.unconfirmed[path], sha256.Sum256(payload))
	if len(pushed) > maxUnconfirmed {
		pushed = pushed[len(pushed)-maxUnconfirmed:]
	}
	b.unconfirmed[path] = pushed
}

// staleEcho reports whether doc is one of our own pushes that a later local
// push has already superseded. Applying it would roll the collection back to
// an older state while the newer one still waits in the outbox.
func (b *Bridge[T]) staleEcho(path string, doc []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	pushed := b.unconfirmed[path]
	if len(pushed) == 0 {
		return false
	}
	sum := sha256.Sum256(doc)
	for i := len(pushed) - 1; i >= 0; i-- {
		if pushed[i] != sum {
			continue
		}
		if i == len(pushed)-1 {
			delete(b.unconfirmed, path)
			return false
		}
		b.unconfirmed[path] = pushed[i+1:]
		return true
	}
	return false
}
