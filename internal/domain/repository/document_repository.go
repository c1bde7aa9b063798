package repository

import (
	"context"
)

// DocumentStore is a remote key-value document store addressed by path.
// A path holds one JSON document; writes overwrite it wholesale.
type DocumentStore interface {
	// Get returns the document at path, or nil when it does not exist
	Get(ctx context.Context, path string) ([]byte, error)

	// Set overwrites the document at path
	Set(ctx context.Context, path string, doc []byte) error

	// Watch calls fn with the current document and again after every change,
	// including changes made by this client. A deleted or missing document is
	// delivered as nil. The returned function stops the watch.
	Watch(ctx context.Context, path string, fn func(doc []byte)) (func(), error)
}

// IdentityProvider yields the signed-in user, if any
type IdentityProvider interface {
	CurrentUserID() (string, bool)
}
