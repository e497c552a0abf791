package app

import (
	"github.com/slatehq/slate/internal/core/ports"
)

// Components bundles the initialized application objects the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}

// NewComponents creates a Components bundle from its parts.
func NewComponents(app *App, logger ports.Logger) *Components {
	return &Components{
		App:    app,
		Logger: logger,
	}
}
