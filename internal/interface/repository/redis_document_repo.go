package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"groundops-service/internal/domain/repository"
	"groundops-service/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// RedisDocumentStore implements DocumentStore with a key per path and a
// pub/sub channel per path carrying the new document on every write.
type RedisDocumentStore struct {
	client *redis.Client
	prefix string
	logger logger.Logger
}

// NewRedisDocumentStore creates a document store using keys under prefix
func NewRedisDocumentStore(client *redis.Client, prefix string, logger logger.Logger) repository.DocumentStore {
	return &RedisDocumentStore{client: client, prefix: prefix, logger: logger}
}

func (r *RedisDocumentStore) key(path string) string {
	return r.prefix + path
}

func (r *RedisDocumentStore) channel(path string) string {
	return r.prefix + "changes:" + path
}

// Get returns the document at path, or nil
func (r *RedisDocumentStore) Get(ctx context.Context, path string) ([]byte, error) {
	doc, err := r.client.Get(ctx, r.key(path)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return doc, nil
}

// Set writes the document and publishes it in one transaction
func (r *RedisDocumentStore) Set(ctx context.Context, path string, doc []byte) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.key(path), doc, 0)
		pipe.Publish(ctx, r.channel(path), doc)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Watch subscribes to the path channel and delivers the current value first
func (r *RedisDocumentStore) Watch(ctx context.Context, path string, fn func([]byte)) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	sub := r.client.Subscribe(ctx, r.channel(path))
	// wait for the subscription to be confirmed so no write is missed
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		cancel()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	current, err := r.Get(ctx, path)
	if err != nil {
		sub.Close()
		cancel()
		return nil, err
	}
	fn(current)

	var once sync.Once
	stop := func() {
		once.Do(func() {
			cancel()
			sub.Close()
		})
	}

	go func() {
		defer stop()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				fn([]byte(msg.Payload))
			}
		}
	}()

	return stop, nil
}
