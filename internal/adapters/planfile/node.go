package planfile

import (
	"context"

	"github.com/grindlemire/graft"
)

// NodeID is the unique identifier for the plan codec Graft node.
const NodeID graft.ID = "adapter.planfile"

func init() {
	graft.Register(graft.Node[*Codec]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Codec, error) {
			return NewCodec()
		},
	})
}
