package mirror

import (
	"context"
	"errors"
	"sync"

	"groundops-service/pkg/logger"
	"groundops-service/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
)

var errRemoteDown = errors.New("remote down")

// fakeDocs is a DocumentStore with failure injection
type fakeDocs struct {
	mu       sync.Mutex
	docs     map[string][]byte
	failures int // number of Set calls to fail before succeeding
	sets     int
	watchers map[string][]func([]byte)
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: map[string][]byte{}, watchers: map[string][]func([]byte){}}
}

func (f *fakeDocs) Get(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[path], nil
}

func (f *fakeDocs) Set(_ context.Context, path string, doc []byte) error {
	f.mu.Lock()
	f.sets++
	if f.failures > 0 {
		f.failures--
		f.mu.Unlock()
		return errRemoteDown
	}
	f.docs[path] = doc
	watchers := append([]func([]byte){}, f.watchers[path]...)
	f.mu.Unlock()

	for _, fn := range watchers {
		fn(doc)
	}
	return nil
}

func (f *fakeDocs) Watch(_ context.Context, path string, fn func([]byte)) (func(), error) {
	f.mu.Lock()
	f.watchers[path] = append(f.watchers[path], fn)
	current := f.docs[path]
	idx := len(f.watchers[path]) - 1
	f.mu.Unlock()

	fn(current)
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.watchers[path][idx] = func([]byte) {}
	}, nil
}

func (f *fakeDocs) doc(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[path]
}

func (f *fakeDocs) setCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sets
}

type staticIdentity string

func (s staticIdentity) CurrentUserID() (string, bool) {
	return string(s), s != ""
}

func testMetrics() *metrics.Metrics {
	return metrics.NewMetricsWithRegistry("test", prometheus.NewRegistry())
}

func testLogger() logger.Logger {
	return logger.NewNopLogger()
}
