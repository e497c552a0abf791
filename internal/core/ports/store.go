package ports

import (
	"context"

	"github.com/slatehq/slate/internal/core/domain"
)

// TaskStore defines the interface for persisting task documents.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type TaskStore interface {
	// Load reads every task under root and returns them together with the
	// store revision at read time.
	Load(root string) ([]domain.Task, domain.Revision, error)

	// Get retrieves a single task by id.
	// Returns nil, nil if not found.
	Get(root string, id domain.TaskID) (*domain.Task, error)

	// Put stores the task, creating the store directory if needed.
	Put(root string, task domain.Task) error

	// Delete removes the task document. Deleting an absent task is not an
	// error.
	Delete(root string, id domain.TaskID) error

	// Apply persists a mutation batch in order, but only while the store is
	// still at the given revision. It fails with domain.ErrStaleSnapshot
	// when the store has moved on since the snapshot was read.
	Apply(ctx context.Context, root string, rev domain.Revision, batch []domain.Mutation) error
}
