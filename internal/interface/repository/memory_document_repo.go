package repository

import (
	"context"
	"sync"

	"groundops-service/internal/domain/repository"
)

// MemoryDocumentStore is a process-local DocumentStore. Watchers are
// notified synchronously after each Set.
type MemoryDocumentStore struct {
	mu       sync.RWMutex
	docs     map[string][]byte
	watchers map[string]map[int]func([]byte)
	nextID   int
}

// NewMemoryDocumentStore creates an empty store
func NewMemoryDocumentStore() repository.DocumentStore {
	return newMemoryDocumentStore()
}

func newMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		docs:     make(map[string][]byte),
		watchers: make(map[string]map[int]func([]byte)),
	}
}

// Get returns a copy of the document at path
func (s *MemoryDocumentStore) Get(_ context.Context, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), doc...), nil
}

// Set overwrites the document and notifies watchers of path
func (s *MemoryDocumentStore) Set(ctx context.Context, path string, doc []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.docs[path] = append([]byte(nil), doc...)
	fns := make([]func([]byte), 0, len(s.watchers[path]))
	for _, fn := range s.watchers[path] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(append([]byte(nil), doc...))
	}
	return nil
}

// Watch delivers the current document immediately and every later Set
func (s *MemoryDocumentStore) Watch(ctx context.Context, path string, fn func([]byte)) (func(), error) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.watchers[path] == nil {
		s.watchers[path] = make(map[int]func([]byte))
	}
	s.watchers[path][id] = fn
	var current []byte
	if doc, ok := s.docs[path]; ok {
		current = append([]byte(nil), doc...)
	}
	s.mu.Unlock()

	fn(current)

	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers[path], id)
			s.mu.Unlock()
			close(done)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-done:
		}
	}()

	return stop, nil
}
