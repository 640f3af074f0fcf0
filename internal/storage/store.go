// Package storage provides the persistence backends for map nodes.
//
// It defines the SignatureStore protocol that all backends must satisfy.
// Stores persist snapshots only; clearing a node's dirty flags after a
// successful save is the caller's decision (see Signature.MarkPersisted).
package storage

import (
	"context"
	"errors"

	"github.com/roverlab/mapmem/internal/graph"
)

// ErrNotFound is returned when no signature exists for the requested id.
var ErrNotFound = errors.New("storage: signature not found")

// SignatureStore defines the interface for signature persistence backends.
//
// Implementations must be safe for concurrent use.
type SignatureStore interface {
	// Open initializes the backend at the given path. Backends without a
	// filesystem footprint ignore the path.
	Open(path string) error

	// Close releases all resources held by the backend.
	Close() error

	// Put persists a snapshot of the signature, replacing any previous one.
	Put(ctx context.Context, sig *graph.Signature) error

	// Get loads the signature with the given id, or ErrNotFound.
	Get(ctx context.Context, id int) (*graph.Signature, error)

	// Delete removes the signature with the given id, if present.
	Delete(ctx context.Context, id int) error

	// IDs returns all stored signature ids in ascending order.
	IDs(ctx context.Context) ([]int, error)

	// Count returns the number of stored signatures.
	Count(ctx context.Context) (int, error)
}
