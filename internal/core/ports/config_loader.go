package ports

import "github.com/slatehq/slate/internal/core/domain"

// ManifestLoader defines the interface for locating and loading the project
// manifest.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ManifestLoader interface {
	// Load walks up from cwd to the project root and returns the project
	// described by its manifest. It fails with domain.ErrManifestNotFound
	// when no manifest exists between cwd and the filesystem root.
	Load(cwd string) (*domain.Project, error)

	// DiscoverRoot walks up from cwd and returns the directory containing
	// slate.yaml.
	DiscoverRoot(cwd string) (string, error)

	// Init writes a fresh manifest and store layout into dir. It fails with
	// domain.ErrProjectExists when dir already carries a manifest.
	Init(dir, name string) (*domain.Project, error)
}
