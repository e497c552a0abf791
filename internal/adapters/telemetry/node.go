package telemetry

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/slatehq/slate/internal/adapters/logger"
	"github.com/slatehq/slate/internal/core/ports"
)

// TracerNodeID is the unique identifier for the telemetry adapter Graft node.
const TracerNodeID graft.ID = "adapter.telemetry"

// traceEnvVar enables trace mode when set to any non-empty value.
const traceEnvVar = "SLATE_TRACE"

func init() {
	graft.Register(graft.Node[ports.Tracer]{
		ID:        TracerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Tracer, error) {
			if os.Getenv(traceEnvVar) == "" {
				return NewNoOpTracer(), nil
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			// Trace mode: route every finished span through the logger.
			tp := sdktrace.NewTracerProvider(
				sdktrace.WithSpanProcessor(NewBridge(log)),
			)
			otel.SetTracerProvider(tp)

			return NewOTelTracer("slate"), nil
		},
	})
}
