// Package config locates and loads the slate project manifest.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/core/ports"
)

// Loader implements ports.ManifestLoader using a slate.yaml file at the
// project root.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

var validProjectNameRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Load walks up from cwd to the project root and returns the project
// described by its manifest.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	root, err := l.DiscoverRoot(cwd)
	if err != nil {
		return nil, err
	}

	manifest, err := readManifest(filepath.Join(root, domain.ManifestFileName))
	if err != nil {
		return nil, err
	}

	if manifest.Version > ManifestVersion {
		l.Logger.Warn(fmt.Sprintf(
			"manifest version %d is newer than this build understands (%d)",
			manifest.Version, ManifestVersion,
		))
	}

	name := manifest.Project
	if name == "" {
		// Unnamed projects take the root directory's name.
		name = filepath.Base(root)
	}
	if !validProjectNameRegex.MatchString(name) {
		return nil, zerr.With(domain.ErrInvalidProjectName, "project_name", name)
	}

	return &domain.Project{Name: name, Root: root}, nil
}

// DiscoverRoot walks up from cwd and returns the directory containing
// slate.yaml.
func (l *Loader) DiscoverRoot(cwd string) (string, error) {
	currentDir := cwd

	for {
		manifestPath := filepath.Join(currentDir, domain.ManifestFileName)
		if _, err := os.Stat(manifestPath); err == nil {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			break
		}
		currentDir = parentDir
	}

	return "", zerr.With(domain.ErrManifestNotFound, "cwd", cwd)
}

// Init writes a fresh manifest and store layout into dir.
func (l *Loader) Init(dir, name string) (*domain.Project, error) {
	manifestPath := filepath.Join(dir, domain.ManifestFileName)
	if _, err := os.Stat(manifestPath); err == nil {
		return nil, zerr.With(domain.ErrProjectExists, "manifest", manifestPath)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	if name == "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
		}
		name = filepath.Base(abs)
	}
	if !validProjectNameRegex.MatchString(name) {
		return nil, zerr.With(domain.ErrInvalidProjectName, "project_name", name)
	}

	data, err := yaml.Marshal(Manifest{Version: ManifestVersion, Project: name})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}

	if err := os.MkdirAll(domain.DefaultTasksPath(dir), domain.DirPerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}
	if err := os.WriteFile(manifestPath, data, domain.FilePerm); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestWriteFailed.Error())
	}

	return &domain.Project{Name: name, Root: dir}, nil
}

// readManifest reads a YAML manifest file and unmarshals it.
func readManifest(manifestPath string) (*Manifest, error) {
	// #nosec G304 -- manifestPath is discovered by walking up from cwd
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}

	return &manifest, nil
}
