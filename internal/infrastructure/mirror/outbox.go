package mirror

import (
	"context"
	"sort"
	"sync"
	"time"
)

// SyncTask is a pending overwrite of one remote document
type SyncTask struct {
	Path       string
	Payload    []byte
	Seq        int64
	EnqueuedAt time.Time
	Attempts   int
	LastError  string
}

// Outbox holds sync tasks until they reach the remote store. Tasks coalesce
// per path: a newer payload replaces a pending one, since every write is a
// full overwrite.
type Outbox interface {
	Enqueue(ctx context.Context, task SyncTask) error
	Pending(ctx context.Context, limit int) ([]SyncTask, error)
	// Complete drops the task unless it was superseded by a newer seq
	Complete(ctx context.Context, path string, seq int64) error
	// Fail records a failed attempt on the task
	Fail(ctx context.Context, path string, seq int64, cause error) error
	Len(ctx context.Context) (int, error)
}

// MemoryOutbox is an Outbox that lives for the process lifetime
type MemoryOutbox struct {
	mu    sync.Mutex
	tasks map[string]SyncTask
}

// NewMemoryOutbox creates an empty in-memory outbox
func NewMemoryOutbox() *MemoryOutbox {
	return &MemoryOutbox{tasks: make(map[string]SyncTask)}
}

func (o *MemoryOutbox) Enqueue(_ context.Context, task SyncTask) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	task.Payload = append([]byte(nil), task.Payload...)
	task.Attempts = 0
	task.LastError = ""
	o.tasks[task.Path] = task
	return nil
}

func (o *MemoryOutbox) Pending(_ context.Context, limit int) ([]SyncTask, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]SyncTask, 0, len(o.tasks))
	for _, task := range o.tasks {
		out = append(out, task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (o *MemoryOutbox) Complete(_ context.Context, path string, seq int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if task, ok := o.tasks[path]; ok && task.Seq == seq {
		delete(o.tasks, path)
	}
	return nil
}

func (o *MemoryOutbox) Fail(_ context.Context, path string, seq int64, cause error) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	task, ok := o.tasks[path]
	if !ok || task.Seq != seq {
		return nil
	}
	task.Attempts++
	if cause != nil {
		task.LastError = cause.Error()
	}
	o.tasks[path] = task
	return nil
}

func (o *MemoryOutbox) Len(_ context.Context) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.tasks), nil
}
