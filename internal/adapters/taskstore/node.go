package taskstore

import (
	"context"

	"github.com/grindlemire/graft"

	"github.com/slatehq/slate/internal/core/ports"
)

// NodeID is the unique identifier for the task store Graft node.
const NodeID graft.ID = "adapter.task_store"

func init() {
	graft.Register(graft.Node[ports.TaskStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.TaskStore, error) {
			return NewStore(), nil
		},
	})
}
