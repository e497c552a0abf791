// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/slatehq/slate/internal/adapters/config"
	_ "github.com/slatehq/slate/internal/adapters/logger"
	_ "github.com/slatehq/slate/internal/adapters/planfile"
	_ "github.com/slatehq/slate/internal/adapters/taskstore"
	_ "github.com/slatehq/slate/internal/adapters/telemetry"
	_ "github.com/slatehq/slate/internal/adapters/watcher"
	// Register app nodes.
	_ "github.com/slatehq/slate/internal/app"
)
