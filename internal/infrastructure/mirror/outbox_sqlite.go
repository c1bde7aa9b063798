package mirror

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteOutbox keeps pending sync tasks on disk so they survive a restart
type SQLiteOutbox struct {
	db *sql.DB
}

// OpenSQLiteOutbox opens (or creates) the outbox database at path
func OpenSQLiteOutbox(path string) (*SQLiteOutbox, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open outbox: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between worker and mutators
	db.SetMaxOpenConns(1)

	o, err := NewSQLiteOutbox(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return o, nil
}

// NewSQLiteOutbox wraps an open database and creates the table if needed
func NewSQLiteOutbox(db *sql.DB) (*SQLiteOutbox, error) {
	o := &SQLiteOutbox{db: db}
	if err := o.migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate outbox: %w", err)
	}
	return o, nil
}

func (o *SQLiteOutbox) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS sync_outbox (
		path TEXT PRIMARY KEY,
		payload BLOB NOT NULL,
		seq INTEGER NOT NULL,
		enqueued_at TEXT NOT NULL,
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT ''
	);`
	_, err := o.db.ExecContext(context.Background(), query)
	return err
}

// Close closes the underlying database
func (o *SQLiteOutbox) Close() error {
	return o.db.Close()
}

func (o *SQLiteOutbox) Enqueue(ctx context.Context, task SyncTask) error {
	query := `
	INSERT INTO sync_outbox (path, payload, seq, enqueued_at, attempts, last_error)
	VALUES (?, ?, ?, ?, 0, '')
	ON CONFLICT(path) DO UPDATE SET
		payload = excluded.payload,
		seq = excluded.seq,
		enqueued_at = excluded.enqueued_at,
		attempts = 0,
		last_error = ''`
	_, err := o.db.ExecContext(ctx, query, task.Path, task.Payload, task.Seq, task.EnqueuedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to enqueue sync task: %w", err)
	}
	return nil
}

func (o *SQLiteOutbox) Pending(ctx context.Context, limit int) ([]SyncTask, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
	SELECT path, payload, seq, enqueued_at, attempts, last_error
	FROM sync_outbox
	ORDER BY seq ASC
	LIMIT ?`
	rows, err := o.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var tasks []SyncTask
	for rows.Next() {
		var task SyncTask
		var enqueuedAt string
		if err := rows.Scan(&task.Path, &task.Payload, &task.Seq, &enqueuedAt, &task.Attempts, &task.LastError); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339Nano, enqueuedAt); err == nil {
			task.EnqueuedAt = t
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (o *SQLiteOutbox) Complete(ctx context.Context, path string, seq int64) error {
	_, err := o.db.ExecContext(ctx, `DELETE FROM sync_outbox WHERE path = ? AND seq = ?`, path, seq)
	return err
}

func (o *SQLiteOutbox) Fail(ctx context.Context, path string, seq int64, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := o.db.ExecContext(ctx,
		`UPDATE sync_outbox SET attempts = attempts + 1, last_error = ? WHERE path = ? AND seq = ?`,
		msg, path, seq)
	return err
}

func (o *SQLiteOutbox) Len(ctx context.Context) (int, error) {
	var n int
	err := o.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sync_outbox`).Scan(&n)
	return n, err
}
