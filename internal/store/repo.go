package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Load when no document exists under the key.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable means no storage backend is configured.
	ErrUnavailable = errors.New("storage unavailable")
)

// Adapter is the persistence boundary for named text documents. It holds
// both the static model document and each learner's state document.
type Adapter interface {
	// Exists reports whether a document is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// Load returns the document stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) (string, error)

	// Save creates or replaces the document stored under key.
	Save(ctx context.Context, key, text string) error
}

// DocumentRepo is an Adapter that can also enumerate and remove documents.
type DocumentRepo interface {
	Adapter

	// Keys returns all stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)

	// Delete removes the document under key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}
